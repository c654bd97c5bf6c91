package server

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/pubsub"
	"github.com/nextapp/nextappd/reactor"
)

// streamTransport adapts a grpc.ServerStream into reactor.Transport.
type streamTransport struct {
	stream grpc.ServerStream
}

func (t streamTransport) Send(update *api.Update) error {
	return t.stream.SendMsg(update)
}

// subscribeToUpdatesHandler is the grpc.StreamDesc.Handler for
// SubscribeToUpdates: it decodes the request, builds a reactor bound to the
// stream, and blocks for the stream's lifetime (SPEC_FULL.md §4.C/§4.F).
func subscribeToUpdatesHandler(srv interface{}, stream grpc.ServerStream) error {
	s := srv.(*Server)

	var req api.UpdatesReq
	if err := stream.RecvMsg(&req); err != nil {
		return err
	}

	r := reactor.New(streamTransport{stream: stream}, s.registry, s.log)
	err := s.SubscribeToUpdates(stream.Context(), &req, r)
	r.OnDone()
	return err
}

// adhocHandle wraps a bare api.Subscriber (one without its own ID, e.g. a
// test double) with a generated subscription id so it satisfies
// pubsub.Handle.
type adhocHandle struct {
	id string
	api.Subscriber
}

func (h *adhocHandle) ID() string { return h.id }

// SubscribeToUpdates implements api.NextAppServer's streaming method:
// register sub (or an id-wrapped adapter around it) with the publisher
// registry, block until ctx is cancelled, then unregister.
func (s *Server) SubscribeToUpdates(ctx context.Context, _ *api.UpdatesReq, sub api.Subscriber) error {
	var handle pubsub.Handle
	if h, ok := sub.(pubsub.Handle); ok {
		handle = h
	} else {
		handle = &adhocHandle{id: uuid.NewString(), Subscriber: sub}
	}

	s.registry.Add(handle)
	<-ctx.Done()
	s.registry.Remove(handle.ID())
	return nil
}
