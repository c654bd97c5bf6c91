// Package client provides nextappd's RPC client: SPEC_FULL.md's
// SUPPLEMENTED FEATURES replace the source's global singleton client object
// with an explicit {constructed, connected, closed} lifecycle and a bounded
// pending-call queue drained on connect.
package client

import (
	"context"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/errors"
	"github.com/nextapp/nextappd/rpccodec"
)

// State is the client's position in its connection lifecycle.
type State int

const (
	StateConstructed State = iota
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultPendingQueueDepth bounds how many calls Client queues while
// disconnected before further calls are rejected.
const DefaultPendingQueueDepth = 64

// call is a unit of pending work, queued while the client is not yet
// connected and drained in order once Connect succeeds.
type call struct {
	run  func(conn *grpc.ClientConn) error
	done chan error
}

// Client is nextappd's RPC client. It is safe for concurrent use.
type Client struct {
	mu    sync.Mutex
	state State
	conn  *grpc.ClientConn

	pending    []*call
	pendingCap int
}

// New constructs a Client in StateConstructed. Connect must be called before
// any RPC is issued.
func New() *Client {
	return &Client{state: StateConstructed, pendingCap: DefaultPendingQueueDepth}
}

// Connect dials addr and drains any calls queued before the connection was
// established, in the order they were submitted.
func (c *Client) Connect(ctx context.Context, addr string) error {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rpccodec.Codec{})),
	)
	if err != nil {
		return errors.Wrapf(err, "dial %s", addr)
	}

	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		conn.Close()
		return errors.New("client is closed")
	}
	c.conn = conn
	c.state = StateConnected
	drained := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, p := range drained {
		p.done <- p.run(conn)
	}
	return nil
}

// Close tears the client down. Any calls still queued are failed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	pending := c.pending
	c.pending = nil
	c.state = StateClosed
	c.mu.Unlock()

	for _, p := range pending {
		p.done <- errors.New("client closed before call was sent")
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// State reports the client's current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// enqueueOrRun either runs fn immediately against the live connection, or
// (while disconnected) queues it, blocking until Connect/Close resolves it.
func (c *Client) enqueueOrRun(fn func(conn *grpc.ClientConn) error) error {
	c.mu.Lock()
	switch c.state {
	case StateConnected:
		conn := c.conn
		c.mu.Unlock()
		return fn(conn)
	case StateClosed:
		c.mu.Unlock()
		return errors.New("client is closed")
	default:
		if len(c.pending) >= c.pendingCap {
			c.mu.Unlock()
			return errors.New("pending call queue is full")
		}
		p := &call{run: fn, done: make(chan error, 1)}
		c.pending = append(c.pending, p)
		c.mu.Unlock()
		return <-p.done
	}
}

func invoke(ctx context.Context, conn *grpc.ClientConn, method string, in, out interface{}) error {
	return conn.Invoke(ctx, "/nextapp.NextApp/"+method, in, out)
}

func (c *Client) GetServerInfo(ctx context.Context) (*api.ServerInfo, error) {
	out := new(api.ServerInfo)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "GetServerInfo", &api.Empty{}, out)
	})
	return out, err
}

func (c *Client) GetDayColorDefinitions(ctx context.Context) (*api.DayColorDefinitions, error) {
	out := new(api.DayColorDefinitions)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "GetDayColorDefinitions", &api.Empty{}, out)
	})
	return out, err
}

func (c *Client) GetDay(ctx context.Context, date *api.Date) (*api.CompleteDay, error) {
	out := new(api.CompleteDay)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "GetDay", date, out)
	})
	return out, err
}

func (c *Client) GetMonth(ctx context.Context, req *api.MonthRequest) (*api.Month, error) {
	out := new(api.Month)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "GetMonth", req, out)
	})
	return out, err
}

func (c *Client) SetColorOnDay(ctx context.Context, req *api.SetColorOnDayRequest) (*api.Status, error) {
	out := new(api.Status)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "SetColorOnDay", req, out)
	})
	return out, err
}

func (c *Client) SetDay(ctx context.Context, day *api.CompleteDay) (*api.Status, error) {
	out := new(api.Status)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "SetDay", day, out)
	})
	return out, err
}

func (c *Client) CreateTenant(ctx context.Context, req *api.CreateTenantRequest) (*api.Status, error) {
	out := new(api.Status)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "CreateTenant", req, out)
	})
	return out, err
}

func (c *Client) CreateNode(ctx context.Context, req *api.CreateNodeRequest) (*api.Status, error) {
	out := new(api.Status)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "CreateNode", req, out)
	})
	return out, err
}

func (c *Client) UpdateNode(ctx context.Context, node *api.Node) (*api.Status, error) {
	out := new(api.Status)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "UpdateNode", node, out)
	})
	return out, err
}

func (c *Client) MoveNode(ctx context.Context, req *api.MoveNodeRequest) (*api.Status, error) {
	out := new(api.Status)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "MoveNode", req, out)
	})
	return out, err
}

func (c *Client) DeleteNode(ctx context.Context, req *api.DeleteNodeRequest) (*api.Status, error) {
	out := new(api.Status)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "DeleteNode", req, out)
	})
	return out, err
}

func (c *Client) GetNodes(ctx context.Context) (*api.NodeTree, error) {
	out := new(api.NodeTree)
	err := c.enqueueOrRun(func(conn *grpc.ClientConn) error {
		return invoke(ctx, conn, "GetNodes", &api.Empty{}, out)
	})
	return out, err
}

// UpdateStream is a live SubscribeToUpdates subscription.
type UpdateStream struct {
	stream grpc.ClientStream
}

// Recv blocks for the next fan-out update, or returns the stream's error
// (including io.EOF) once the server closes it.
func (s *UpdateStream) Recv() (*api.Update, error) {
	out := new(api.Update)
	if err := s.stream.RecvMsg(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubscribeToUpdates opens the server-streaming RPC and returns a handle to
// read updates from. It bypasses the pending-call queue: a caller that
// subscribes before Connect has a programming error, not a transient one.
func (c *Client) SubscribeToUpdates(ctx context.Context, req *api.UpdatesReq) (*UpdateStream, error) {
	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return nil, errors.New("client is not connected")
	}
	conn := c.conn
	c.mu.Unlock()

	desc := &grpc.StreamDesc{StreamName: "SubscribeToUpdates", ServerStreams: true}
	stream, err := conn.NewStream(ctx, desc, "/nextapp.NextApp/SubscribeToUpdates")
	if err != nil {
		return nil, errors.Wrap(err, "open SubscribeToUpdates stream")
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, errors.Wrap(err, "send subscribe request")
	}
	if err := stream.CloseSend(); err != nil {
		return nil, errors.Wrap(err, "close subscribe send side")
	}
	return &UpdateStream{stream: stream}, nil
}
