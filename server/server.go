// Package server binds nextappd's RPC surface (SPEC_FULL.md §4.F): it
// composes the node, day, and tenant services behind a single
// api.NextAppServer, registers them on a plain net/grpc listener, and
// implements the graceful-drain lifecycle.
package server

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/errors"
	"github.com/nextapp/nextappd/logger"
	"github.com/nextapp/nextappd/pubsub"
)

// unaryImpl is every api.NextAppServer method except SubscribeToUpdates,
// which Server implements itself since only it has access to the publisher
// registry and the stream-bound reactor. nodes.Service, days.Service, and
// tenant.Service are composed into one unaryImpl by cmd/nextappd's wiring.
type unaryImpl interface {
	GetServerInfo(ctx context.Context, req *api.Empty) (*api.ServerInfo, error)
	GetDayColorDefinitions(ctx context.Context, req *api.Empty) (*api.DayColorDefinitions, error)
	GetDay(ctx context.Context, date *api.Date) (*api.CompleteDay, error)
	GetMonth(ctx context.Context, req *api.MonthRequest) (*api.Month, error)
	SetColorOnDay(ctx context.Context, req *api.SetColorOnDayRequest) (*api.Status, error)
	SetDay(ctx context.Context, day *api.CompleteDay) (*api.Status, error)
	CreateTenant(ctx context.Context, req *api.CreateTenantRequest) (*api.Status, error)
	CreateNode(ctx context.Context, req *api.CreateNodeRequest) (*api.Status, error)
	UpdateNode(ctx context.Context, node *api.Node) (*api.Status, error)
	MoveNode(ctx context.Context, req *api.MoveNodeRequest) (*api.Status, error)
	DeleteNode(ctx context.Context, req *api.DeleteNodeRequest) (*api.Status, error)
	GetNodes(ctx context.Context, req *api.Empty) (*api.NodeTree, error)
}

// State names the server's position in its lifecycle.
type State int32

const (
	StateRunning State = iota
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DefaultShutdownTimeout bounds how long Stop waits for in-flight work
// before forcing the gRPC server closed.
const DefaultShutdownTimeout = 30 * time.Second

// Server wraps a grpc.Server bound to api.NextAppServer, plus the publisher
// registry every subscription reactor unregisters from on completion.
type Server struct {
	unaryImpl
	registry *pubsub.Registry
	log      *zap.SugaredLogger

	grpcServer *grpc.Server
	listener   net.Listener

	state State32
}

// State32 is an atomic-backed State.
type State32 struct{ v atomic.Int32 }

func (s *State32) Load() State   { return State(s.v.Load()) }
func (s *State32) Store(v State) { s.v.Store(int32(v)) }

// New builds a Server bound to listenAddr. It does not start listening;
// call Start for that.
func New(listenAddr string, impl unaryImpl, registry *pubsub.Registry, log *zap.SugaredLogger) (*Server, error) {
	if log == nil {
		log = logger.Logger
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", listenAddr)
	}

	grpcServer := grpc.NewServer(grpc.ForceServerCodec(jsonCodec{}), grpc.UnaryInterceptor(userContextInterceptor), grpc.StreamInterceptor(userContextStreamInterceptor))
	srv := &Server{unaryImpl: impl, registry: registry, log: log, grpcServer: grpcServer, listener: listener}
	grpcServer.RegisterService(&nextAppServiceDesc, srv)

	return srv, nil
}

// Addr reports the address the listener is bound to.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start begins serving; it blocks until Stop causes grpc.Serve to return.
func (s *Server) Start() error {
	s.state.Store(StateRunning)
	s.log.Infow("server listening", "addr", s.listener.Addr().String())

	if err := s.grpcServer.Serve(s.listener); err != nil {
		return errors.Wrap(err, "grpc serve")
	}
	return nil
}

// Stop initiates a graceful shutdown (SPEC_FULL.md §4.F): refuse new RPCs,
// let in-flight unary calls and streaming subscriptions finish, join, then
// drain the publisher registry so no reactor can touch the closed server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Infow("server shutdown starting")
	s.state.Store(StateDraining)

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.log.Infow("grpc server drained cleanly")
	case <-ctx.Done():
		s.log.Warnw("graceful shutdown deadline exceeded, forcing stop")
		s.grpcServer.Stop()
	}

	drained := s.registry.Drain()
	s.state.Store(StateStopped)
	s.log.Infow("server shutdown complete", "subscriptions_drained", drained)
	return nil
}
