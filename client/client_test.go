package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/pubsub"
	"github.com/nextapp/nextappd/server"
)

type fakeImpl struct{}

func (fakeImpl) GetServerInfo(context.Context, *api.Empty) (*api.ServerInfo, error) {
	return &api.ServerInfo{Properties: map[string]string{"version": "test"}}, nil
}
func (fakeImpl) GetDayColorDefinitions(context.Context, *api.Empty) (*api.DayColorDefinitions, error) {
	return &api.DayColorDefinitions{}, nil
}
func (fakeImpl) GetDay(context.Context, *api.Date) (*api.CompleteDay, error) { return &api.CompleteDay{}, nil }
func (fakeImpl) GetMonth(context.Context, *api.MonthRequest) (*api.Month, error) { return &api.Month{}, nil }
func (fakeImpl) SetColorOnDay(context.Context, *api.SetColorOnDayRequest) (*api.Status, error) {
	return &api.Status{}, nil
}
func (fakeImpl) SetDay(context.Context, *api.CompleteDay) (*api.Status, error) { return &api.Status{}, nil }
func (fakeImpl) CreateTenant(context.Context, *api.CreateTenantRequest) (*api.Status, error) {
	return &api.Status{}, nil
}
func (fakeImpl) CreateNode(context.Context, *api.CreateNodeRequest) (*api.Status, error) {
	return &api.Status{}, nil
}
func (fakeImpl) UpdateNode(context.Context, *api.Node) (*api.Status, error) { return &api.Status{}, nil }
func (fakeImpl) MoveNode(context.Context, *api.MoveNodeRequest) (*api.Status, error) {
	return &api.Status{}, nil
}
func (fakeImpl) DeleteNode(context.Context, *api.DeleteNodeRequest) (*api.Status, error) {
	return &api.Status{}, nil
}
func (fakeImpl) GetNodes(context.Context, *api.Empty) (*api.NodeTree, error) { return &api.NodeTree{}, nil }

func startTestServer(t *testing.T) string {
	srv, err := server.New("127.0.0.1:0", fakeImpl{}, pubsub.NewRegistry(nil), nil)
	require.NoError(t, err)

	go srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	return srv.Addr()
}

func TestClient_CallBeforeConnectQueuesUntilConnected(t *testing.T) {
	addr := startTestServer(t)
	c := New()
	assert.Equal(t, StateConstructed, c.State())

	type result struct {
		info *api.ServerInfo
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		info, err := c.GetServerInfo(context.Background())
		resCh <- result{info, err}
	}()

	// Give the call a moment to enqueue before connecting.
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, c.Connect(context.Background(), addr))
	assert.Equal(t, StateConnected, c.State())

	select {
	case r := <-resCh:
		require.NoError(t, r.err)
		assert.Equal(t, "test", r.info.Properties["version"])
	case <-time.After(time.Second):
		t.Fatal("queued call never resolved after Connect")
	}
}

func TestClient_CallAfterCloseFails(t *testing.T) {
	c := New()
	require.NoError(t, c.Close())
	assert.Equal(t, StateClosed, c.State())

	_, err := c.GetServerInfo(context.Background())
	assert.Error(t, err)
}

func TestClient_ConnectAfterCloseFails(t *testing.T) {
	addr := startTestServer(t)
	c := New()
	require.NoError(t, c.Close())

	err := c.Connect(context.Background(), addr)
	assert.Error(t, err)
}

func TestClient_PendingQueueBoundsDepth(t *testing.T) {
	c := New()
	c.pendingCap = 1

	go c.GetServerInfo(context.Background())
	time.Sleep(10 * time.Millisecond)

	_, err := c.GetServerInfo(context.Background())
	assert.Error(t, err)
}

func TestClient_SubscribeToUpdatesOpensStream(t *testing.T) {
	addr := startTestServer(t)
	c := New()
	require.NoError(t, c.Connect(context.Background(), addr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := c.SubscribeToUpdates(ctx, &api.UpdatesReq{Client: "test-client"})
	require.NoError(t, err)
	assert.NotNil(t, stream)
}
