package nodes

import (
	"context"
	"database/sql"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/ctxuser"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/errors"
)

// GetNodes returns the full per-user tree, assembled per the two-pass
// algorithm in SPEC_FULL.md §4.D: a recursive query yields every row
// reachable from the user's roots ordered by (parent, name); known-parent
// rows attach in a single pass, the rest (parent not yet known, since
// ordering by (parent, name) doesn't guarantee parent-before-child) attach
// in a second pass.
func (s *Service) GetNodes(ctx context.Context, _ *api.Empty) (*api.NodeTree, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	rs, err := s.gw.Query(ctx, `
		WITH RECURSIVE tree(id, user, name, kind, descr, active, parent, version) AS (
			SELECT id, user, name, kind, descr, active, parent, version FROM node
			WHERE user = ? AND parent IS NULL
			UNION ALL
			SELECT n.id, n.user, n.name, n.kind, n.descr, n.active, n.parent, n.version
			FROM node n JOIN tree t ON n.parent = t.id
		)
		SELECT id, user, name, kind, descr, active, parent, version FROM tree
		ORDER BY parent, name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	root := &api.NodeTreeItem{Node: &api.Node{User: userID}}
	known := map[string]*api.NodeTreeItem{"": root}
	var pending []*api.NodeTreeItem

	rows := rs.Rows()
	for rows.Next() {
		var n api.Node
		var descr, parent sql.NullString
		if err := rows.Scan(&n.ID, &n.User, &n.Name, &n.Kind, &descr, &n.Active, &parent, &n.Version); err != nil {
			return nil, errors.WithCode(errors.Wrap(err, "scan node tree row"), errors.CodeDatabaseError, err.Error())
		}
		n.Descr = db.StringOrEmpty(descr)
		n.Parent = db.StringOrEmpty(parent)

		item := &api.NodeTreeItem{Node: &n}
		if parentItem, ok := known[n.Parent]; ok {
			parentItem.Children = append(parentItem.Children, item)
			known[n.ID] = item
		} else {
			pending = append(pending, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "iterate node tree rows"), errors.CodeDatabaseError, err.Error())
	}

	for _, item := range pending {
		parentItem, ok := known[item.Node.Parent]
		if !ok {
			// Every pending item's parent must already be known by the
			// second pass (SPEC_FULL.md §4.D step 3); a row surviving past
			// here indicates a dangling parent reference, which the schema
			// should prevent, so treat it as attaching to root.
			parentItem = root
		}
		parentItem.Children = append(parentItem.Children, item)
		known[item.Node.ID] = item
	}

	return &api.NodeTree{Root: root}, nil
}
