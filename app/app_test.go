package app

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/pubsub"
)

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock, func()) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	gw := db.NewGateway(conn, nil)
	a := New(gw, pubsub.NewRegistry(nil), nil)
	return a, mock, func() { conn.Close() }
}

func TestGetServerInfo_ReportsVersionProperties(t *testing.T) {
	a, _, cleanup := newTestApp(t)
	defer cleanup()

	info, err := a.GetServerInfo(context.Background(), &api.Empty{})
	require.NoError(t, err)
	assert.Contains(t, info.Properties, "version")
	assert.Contains(t, info.Properties, "commit")
	assert.Contains(t, info.Properties, "go_version")
	assert.NotEmpty(t, info.Properties["go_version"])
}
