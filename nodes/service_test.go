package nodes

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/ctxuser"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/errors"
	"github.com/nextapp/nextappd/pubsub"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	gw := db.NewGateway(conn, nil)
	svc := NewService(gw, pubsub.NewRegistry(nil), nil)
	return svc, mock, func() { conn.Close() }
}

func ctxWithUser(userID string) context.Context {
	return ctxuser.WithUser(context.Background(), userID, "tenant-1")
}

// recordingHandle is a registry subscriber that keeps every update it is sent.
type recordingHandle struct {
	received []*api.Update
}

func (h *recordingHandle) ID() string { return "test-sub" }

func (h *recordingHandle) Send(update *api.Update) error {
	h.received = append(h.received, update)
	return nil
}

func TestCreateNode_GeneratesIDAndPublishes(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	sub := &recordingHandle{}
	svc.registry.Add(sub)
	mock.ExpectExec("INSERT INTO node").WillReturnResult(sqlmock.NewResult(0, 1))

	status, err := svc.CreateNode(ctxWithUser("user-1"), &api.CreateNodeRequest{
		Node: api.Node{Name: "Inbox", Kind: "folder"},
	})
	require.NoError(t, err)
	require.Empty(t, status.Error)
	require.NotNil(t, status.Node)
	assert.NotEmpty(t, status.Node.ID)
	assert.Equal(t, "user-1", status.Node.User)
	require.Len(t, sub.received, 1)
	require.NotNil(t, sub.received[0].Node)
	assert.Equal(t, api.NodeOpAdded, sub.received[0].Node.Op)
	assert.Equal(t, status.Node.ID, sub.received[0].Node.Node.ID)
}

func TestCreateNode_InvalidParent(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	status, err := svc.CreateNode(ctxWithUser("user-1"), &api.CreateNodeRequest{
		Node: api.Node{Name: "Task", Kind: "action", Parent: "missing-parent"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(errors.CodeInvalidParent), status.Error)
}

func TestUpdateNode_DifferentParentRejected(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	rows := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("node-1", "user-1", "Inbox", "folder", nil, true, nil, 0)
	mock.ExpectQuery("SELECT id, user, name").WillReturnRows(rows)

	status, err := svc.UpdateNode(ctxWithUser("user-1"), &api.Node{
		ID: "node-1", Name: "Inbox", Kind: "folder", Parent: "some-other-parent",
	})
	require.NoError(t, err)
	assert.Equal(t, string(errors.CodeDifferentParent), status.Error)
}

func TestUpdateNode_OptimisticRetrySucceeds(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	firstRead := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("node-1", "user-1", "Inbox", "folder", nil, true, nil, 0)
	mock.ExpectQuery("SELECT id, user, name").WillReturnRows(firstRead)
	mock.ExpectExec("UPDATE node SET name").WillReturnResult(sqlmock.NewResult(0, 0))

	secondRead := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("node-1", "user-1", "Inbox", "folder", nil, true, nil, 1)
	mock.ExpectQuery("SELECT id, user, name").WillReturnRows(secondRead)
	mock.ExpectExec("UPDATE node SET name").WillReturnResult(sqlmock.NewResult(0, 1))

	status, err := svc.UpdateNode(ctxWithUser("user-1"), &api.Node{
		ID: "node-1", Name: "Renamed", Kind: "folder",
	})
	require.NoError(t, err)
	require.Empty(t, status.Error)
	assert.Equal(t, int64(2), status.Node.Version)
}

func TestMoveNode_NoChanges(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	rows := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("node-1", "user-1", "A", "folder", nil, true, "parent-1", 0)
	mock.ExpectQuery("SELECT id, user, name").WillReturnRows(rows)

	status, err := svc.MoveNode(ctxWithUser("user-1"), &api.MoveNodeRequest{UUID: "node-1", ParentUUID: "parent-1"})
	require.NoError(t, err)
	assert.Equal(t, string(errors.CodeNoChanges), status.Error)
}

func TestMoveNode_SelfParentRejected(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	rows := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("node-1", "user-1", "A", "folder", nil, true, nil, 0)
	mock.ExpectQuery("SELECT id, user, name").WillReturnRows(rows)

	status, err := svc.MoveNode(ctxWithUser("user-1"), &api.MoveNodeRequest{UUID: "node-1", ParentUUID: "node-1"})
	require.NoError(t, err)
	assert.Equal(t, string(errors.CodeConstraintFailed), status.Error)
}

func TestMoveNode_AncestorCycleRejected(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	// node-a is root, node-b's parent is node-a. Moving node-a under
	// node-b would make node-a its own ancestor two hops up.
	fetchA := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("node-a", "user-1", "A", "folder", nil, true, nil, 0)
	mock.ExpectQuery("SELECT id, user, name").WillReturnRows(fetchA)

	walkB := sqlmock.NewRows([]string{"parent"}).AddRow("node-a")
	mock.ExpectQuery("SELECT parent FROM node").WillReturnRows(walkB)

	status, err := svc.MoveNode(ctxWithUser("user-1"), &api.MoveNodeRequest{UUID: "node-a", ParentUUID: "node-b"})
	require.NoError(t, err)
	assert.Equal(t, string(errors.CodeConstraintFailed), status.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNode_NotFound(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	mock.ExpectQuery("SELECT id, user, name").WillReturnError(sql.ErrNoRows)

	status, err := svc.DeleteNode(ctxWithUser("user-1"), &api.DeleteNodeRequest{UUID: "missing"})
	require.NoError(t, err)
	assert.Equal(t, string(errors.CodeNotFound), status.Error)
}
