// Package tenant implements CreateTenant (SPEC_FULL.md §4.I): bulk-creates a
// tenant plus its initial users, with id assignment and default-kind rules.
package tenant

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/errors"
	"github.com/nextapp/nextappd/logger"
)

const (
	defaultTenantKind = api.TenantKindGuest
	defaultUserKind   = api.UserKindRegular
)

// Service implements CreateTenant.
type Service struct {
	gw  *db.Gateway
	log *zap.SugaredLogger
}

// NewService wires the tenant service to its datastore gateway.
func NewService(gw *db.Gateway, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = logger.Logger
	}
	return &Service{gw: gw, log: log}
}

// CreateTenant validates names/emails, assigns uuids if absent, applies
// default kinds (Guest for the tenant, Regular for a user only when its
// kind is unset — SPEC_FULL.md §4.I), and inserts the tenant plus its users
// in one transaction.
func (s *Service) CreateTenant(ctx context.Context, req *api.CreateTenantRequest) (*api.Status, error) {
	t := req.Tenant
	if t.Name == "" {
		return api.StatusError(errors.NewCode(errors.CodeMissingTenantName, "tenant name is required")), nil
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Kind == "" {
		t.Kind = defaultTenantKind
	}

	users := make([]api.User, len(req.Users))
	for i, u := range req.Users {
		if u.Email == "" {
			return api.StatusError(errors.NewCode(errors.CodeMissingUserEmail, "user email is required")), nil
		}
		if u.Name == "" {
			return api.StatusError(errors.NewCode(errors.CodeMissingUserName, "user name is required")), nil
		}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if u.Kind == "" {
			u.Kind = defaultUserKind
		}
		u.Tenant = t.ID
		u.Active = true
		users[i] = u
	}

	tx, err := s.gw.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "begin tenant creation"), errors.CodeDatabaseError, err.Error())
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tenant (id, name, kind, descr, active) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Kind, db.NullString(t.Descr), true,
	); err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "insert tenant"), errors.CodeDatabaseError, err.Error())
	}

	for _, u := range users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user (id, tenant, name, email, kind, active, descr) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Tenant, u.Name, u.Email, u.Kind, u.Active, db.NullString(u.Descr),
		); err != nil {
			return nil, errors.WithCode(errors.Wrap(err, "insert tenant user"), errors.CodeDatabaseError, err.Error())
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "commit tenant creation"), errors.CodeDatabaseError, err.Error())
	}

	t.Active = true
	return api.StatusOKTenant(&t), nil
}
