package server

import "github.com/nextapp/nextappd/rpccodec"

// jsonCodec is an alias for the shared wire codec so grpc.ForceServerCodec
// has a local type to reference.
type jsonCodec = rpccodec.Codec
