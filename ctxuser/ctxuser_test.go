package ctxuser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithUser_RoundTrip(t *testing.T) {
	ctx := WithUser(context.Background(), "user-1", "tenant-1")

	id, err := UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, "tenant-1", TenantID(ctx))
}

func TestUserID_MissingErrors(t *testing.T) {
	_, err := UserID(context.Background())
	assert.Error(t, err)
}

func TestTenantID_MissingIsEmpty(t *testing.T) {
	assert.Equal(t, "", TenantID(context.Background()))
}
