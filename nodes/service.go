// Package nodes implements the node service (SPEC_FULL.md §4.D): CRUD for
// the per-user node tree with optimistic concurrency, parent validation,
// and the recursive tree read.
package nodes

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/ctxuser"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/errors"
	"github.com/nextapp/nextappd/logger"
	"github.com/nextapp/nextappd/pubsub"
)

const (
	maxOptimisticRetries = 5
	optimisticBackoff    = 100 * time.Millisecond

	// maxAncestorDepth bounds the cycle-detection walk in MoveNode
	// (SPEC_FULL.md §4.G); a personal node tree never needs anywhere near
	// this many levels.
	maxAncestorDepth = 64
)

// Service implements the node-related methods of api.NextAppServer.
type Service struct {
	gw       *db.Gateway
	registry *pubsub.Registry
	log      *zap.SugaredLogger
}

// NewService wires the node service to its datastore gateway and the
// publisher registry every mutation fans its update through.
func NewService(gw *db.Gateway, registry *pubsub.Registry, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = logger.Logger
	}
	return &Service{gw: gw, registry: registry, log: log}
}

// CreateNode inserts a row, generating an id if the candidate has none, and
// publishes {op=ADDED, node}.
func (s *Service) CreateNode(ctx context.Context, req *api.CreateNodeRequest) (*api.Status, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	node := req.Node
	node.User = userID
	if node.ID == "" {
		node.ID = uuid.NewString()
	}

	if node.Parent != "" {
		if err := s.validateParent(ctx, node.Parent, userID); err != nil {
			return api.StatusError(err), nil
		}
	}

	node.Version = 0
	_, err = s.gw.Exec(ctx,
		`INSERT INTO node (id, user, name, kind, descr, active, parent, version) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		node.ID, node.User, node.Name, node.Kind, db.NullString(node.Descr), node.Active, db.NullString(node.Parent), node.Version,
	)
	if err != nil {
		return nil, err
	}

	s.registry.Publish(&api.Update{Node: &api.NodeUpdate{Op: api.NodeOpAdded, Node: node}})
	return api.StatusOK(&node), nil
}

// UpdateNode applies mutable-field changes under optimistic concurrency.
// The parent field must equal the stored parent; re-parenting goes through
// MoveNode.
func (s *Service) UpdateNode(ctx context.Context, in *api.Node) (*api.Status, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		current, err := s.fetchNode(ctx, in.ID, userID)
		if err != nil {
			return api.StatusError(err), nil
		}
		if in.Parent != current.Parent {
			return api.StatusError(errors.NewCode(errors.CodeDifferentParent, "parent must match stored parent; use MoveNode to reparent")), nil
		}

		rs, err := s.gw.Exec(ctx,
			`UPDATE node SET name = ?, kind = ?, descr = ?, active = ?, version = version + 1 WHERE id = ? AND user = ? AND version = ?`,
			in.Name, in.Kind, db.NullString(in.Descr), in.Active, in.ID, userID, current.Version,
		)
		if err != nil {
			return nil, err
		}
		if rs.AffectedRows() > 0 {
			updated := *in
			updated.User = userID
			updated.Version = current.Version + 1
			s.registry.Publish(&api.Update{Node: &api.NodeUpdate{Op: api.NodeOpUpdated, Node: updated}})
			return api.StatusOK(&updated), nil
		}

		if attempt >= maxOptimisticRetries {
			return api.StatusError(errors.NewCode(errors.CodeDatabaseUpdateFailed, "optimistic update retries exhausted")), nil
		}
		s.sleep(optimisticBackoff)
	}
}

// MoveNode re-parents a node, in the rule order from SPEC_FULL.md §4.D/§4.G:
// NO_CHANGES, self-parent, ancestor-cycle, validate_parent, then the
// optimistic-retry envelope.
func (s *Service) MoveNode(ctx context.Context, req *api.MoveNodeRequest) (*api.Status, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		current, err := s.fetchNode(ctx, req.UUID, userID)
		if err != nil {
			return api.StatusError(err), nil
		}

		if req.ParentUUID == current.Parent {
			return api.StatusError(errors.NewCode(errors.CodeNoChanges, "parent unchanged")), nil
		}
		if req.ParentUUID == req.UUID {
			return api.StatusError(errors.NewCode(errors.CodeConstraintFailed, "node cannot be its own parent")), nil
		}
		if req.ParentUUID != "" {
			if err := s.checkAncestorCycle(ctx, req.UUID, req.ParentUUID, userID); err != nil {
				return api.StatusError(err), nil
			}
			if err := s.validateParent(ctx, req.ParentUUID, userID); err != nil {
				return api.StatusError(err), nil
			}
		}

		rs, err := s.gw.Exec(ctx,
			`UPDATE node SET parent = ?, version = version + 1 WHERE id = ? AND user = ? AND version = ?`,
			db.NullString(req.ParentUUID), req.UUID, userID, current.Version,
		)
		if err != nil {
			return nil, err
		}
		if rs.AffectedRows() > 0 {
			moved := *current
			moved.Parent = req.ParentUUID
			moved.Version = current.Version + 1
			s.registry.Publish(&api.Update{Node: &api.NodeUpdate{Op: api.NodeOpMoved, Node: moved}})
			return api.StatusOK(&moved), nil
		}

		if attempt >= maxOptimisticRetries {
			return api.StatusError(errors.NewCode(errors.CodeDatabaseUpdateFailed, "optimistic update retries exhausted")), nil
		}
		s.sleep(optimisticBackoff)
	}
}

// DeleteNode removes a node by (id, user), publishing the pre-delete
// snapshot.
func (s *Service) DeleteNode(ctx context.Context, req *api.DeleteNodeRequest) (*api.Status, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	node, err := s.fetchNode(ctx, req.UUID, userID)
	if err != nil {
		return api.StatusError(err), nil
	}

	rs, err := s.gw.Exec(ctx, `DELETE FROM node WHERE id = ? AND user = ?`, req.UUID, userID)
	if err != nil {
		return nil, err
	}
	if rs.AffectedRows() == 0 {
		return api.StatusError(errors.NewCode(errors.CodeNotFound, "node not found")), nil
	}

	s.registry.Publish(&api.Update{Node: &api.NodeUpdate{Op: api.NodeOpDeleted, Node: *node}})
	return api.StatusOK(node), nil
}

// fetchNode reads a single node owned by userID, or NOT_FOUND.
func (s *Service) fetchNode(ctx context.Context, id, userID string) (*api.Node, error) {
	row := s.gw.QueryRow(ctx, `SELECT id, user, name, kind, descr, active, parent, version FROM node WHERE id = ? AND user = ?`, id, userID)

	var n api.Node
	var descr, parent sql.NullString
	if err := row.Scan(&n.ID, &n.User, &n.Name, &n.Kind, &descr, &n.Active, &parent, &n.Version); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewCode(errors.CodeNotFound, "node not found")
		}
		return nil, errors.WithCode(errors.Wrap(err, "fetch node"), errors.CodeDatabaseError, err.Error())
	}
	n.Descr = db.StringOrEmpty(descr)
	n.Parent = db.StringOrEmpty(parent)
	return &n, nil
}

// validateParent checks that parentID references a node owned by userID.
func (s *Service) validateParent(ctx context.Context, parentID, userID string) error {
	var exists bool
	err := s.gw.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM node WHERE id = ? AND user = ?)`, parentID, userID).Scan(&exists)
	if err != nil {
		return errors.WithCode(errors.Wrap(err, "validate parent"), errors.CodeDatabaseError, err.Error())
	}
	if !exists {
		return errors.NewCode(errors.CodeInvalidParent, "parent not found or not owned by user")
	}
	return nil
}

// checkAncestorCycle walks the ancestor chain of newParent, failing
// CONSTRAINT_FAILED if movingID appears in it (SPEC_FULL.md §4.G). One SQL
// round-trip per hop, capped at maxAncestorDepth.
func (s *Service) checkAncestorCycle(ctx context.Context, movingID, newParent, userID string) error {
	current := newParent
	for depth := 0; depth < maxAncestorDepth; depth++ {
		if current == movingID {
			return errors.NewCode(errors.CodeConstraintFailed, "move would create a cycle")
		}
		var parent sql.NullString
		err := s.gw.QueryRow(ctx, `SELECT parent FROM node WHERE id = ? AND user = ?`, current, userID).Scan(&parent)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return errors.WithCode(errors.Wrap(err, "walk ancestor chain"), errors.CodeDatabaseError, err.Error())
		}
		if !parent.Valid || parent.String == "" {
			return nil
		}
		current = parent.String
	}
	return errors.NewCode(errors.CodeConstraintFailed, "ancestor chain exceeds maximum depth")
}

func (s *Service) sleep(d time.Duration) {
	time.Sleep(d)
}
