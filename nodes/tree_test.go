package nodes

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextapp/nextappd/api"
)

func TestGetNodes_AssemblesTree(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	// "child" arrives before its parent "mid" in the result set, forcing the
	// pending/second-pass path; "top" attaches directly to root.
	rows := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("top", "user-1", "Top", "folder", nil, true, nil, 0).
		AddRow("child", "user-1", "Child", "action", nil, true, "mid", 0).
		AddRow("mid", "user-1", "Mid", "folder", nil, true, "top", 0)
	mock.ExpectQuery("WITH RECURSIVE tree").WillReturnRows(rows)

	tree, err := svc.GetNodes(ctxWithUser("user-1"), &api.Empty{})
	require.NoError(t, err)
	require.NotNil(t, tree.Root)
	require.Len(t, tree.Root.Children, 1)

	top := tree.Root.Children[0]
	assert.Equal(t, "top", top.Node.ID)
	require.Len(t, top.Children, 1)

	mid := top.Children[0]
	assert.Equal(t, "mid", mid.Node.ID)
	require.Len(t, mid.Children, 1)
	assert.Equal(t, "child", mid.Children[0].Node.ID)
}

func TestGetNodes_EmptyTree(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	rows := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"})
	mock.ExpectQuery("WITH RECURSIVE tree").WillReturnRows(rows)

	tree, err := svc.GetNodes(ctxWithUser("user-1"), &api.Empty{})
	require.NoError(t, err)
	assert.Empty(t, tree.Root.Children)
}

func TestGetNodes_DanglingParentFallsBackToRoot(t *testing.T) {
	svc, mock, closeFn := newTestService(t)
	defer closeFn()

	rows := sqlmock.NewRows([]string{"id", "user", "name", "kind", "descr", "active", "parent", "version"}).
		AddRow("orphan", "user-1", "Orphan", "folder", nil, true, "missing-parent", 0)
	mock.ExpectQuery("WITH RECURSIVE tree").WillReturnRows(rows)

	tree, err := svc.GetNodes(ctxWithUser("user-1"), &api.Empty{})
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)
	assert.Equal(t, "orphan", tree.Root.Children[0].Node.ID)
}
