// Package ctxuser extracts the current user/tenant identity from a
// pre-authenticated request context. Authentication itself is out of scope
// (SPEC_FULL.md §1); this package only implements the context-carrying
// contract the node/day/tenant services rely on, following the same
// context-key convention as package logger's WithRequestID/WithComponent.
package ctxuser

import (
	"context"

	"github.com/nextapp/nextappd/errors"
)

type contextKey string

const (
	userIDKey   contextKey = "nextapp_user_id"
	tenantIDKey contextKey = "nextapp_tenant_id"
)

// WithUser attaches the current user and tenant id to ctx. A gRPC
// interceptor populates this from request metadata before handlers run.
func WithUser(ctx context.Context, userID, tenantID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return ctx
}

// UserID returns the current user id, or an error if the context carries
// none — every service operation except CreateTenant requires one.
func UserID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", errors.New("no authenticated user in context")
	}
	return id, nil
}

// TenantID returns the current tenant id, or "" if the context carries none.
func TenantID(ctx context.Context) string {
	id, _ := ctx.Value(tenantIDKey).(string)
	return id
}
