package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/nextapp/nextappd/ctxuser"
)

const (
	metadataUserIDKey   = "x-nextapp-user-id"
	metadataTenantIDKey = "x-nextapp-tenant-id"
)

// withUserFromMetadata stands in for the "pre-authenticated context"
// assumption (SPEC_FULL.md §1): real authentication is out of scope, but
// every handler still needs ctxuser.UserID to resolve, so the interceptor
// lifts the caller's identity out of request metadata into ctx the way a
// real auth layer would after verifying a token.
func withUserFromMetadata(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	userID := firstValue(md, metadataUserIDKey)
	tenantID := firstValue(md, metadataTenantIDKey)
	if userID == "" {
		return ctx
	}
	return ctxuser.WithUser(ctx, userID, tenantID)
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func userContextInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	return handler(withUserFromMetadata(ctx), req)
}

// wrappedStream carries a replacement Context through a streaming call,
// since grpc.ServerStream doesn't allow overwriting its own.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}

func userContextStreamInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	return handler(srv, &wrappedStream{ServerStream: ss, ctx: withUserFromMetadata(ss.Context())})
}
