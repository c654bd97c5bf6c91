// Package app composes the node, day, and tenant services behind a single
// api.NextAppServer, the shape server.Server needs as its unaryImpl.
package app

import (
	"context"
	"runtime"

	"go.uber.org/zap"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/days"
	"github.com/nextapp/nextappd/nodes"
	"github.com/nextapp/nextappd/pubsub"
	"github.com/nextapp/nextappd/tenant"
	"github.com/nextapp/nextappd/version"
)

// App implements api.NextAppServer minus SubscribeToUpdates by delegating
// each call to the owning domain service.
type App struct {
	nodes  *nodes.Service
	days   *days.Service
	tenant *tenant.Service
	log    *zap.SugaredLogger
}

// New wires a Gateway and Registry into the three domain services.
func New(gw *db.Gateway, registry *pubsub.Registry, log *zap.SugaredLogger) *App {
	return &App{
		nodes:  nodes.NewService(gw, registry, log),
		days:   days.NewService(gw, registry, log),
		tenant: tenant.NewService(gw, log),
		log:    log,
	}
}

// GetServerInfo reports build identity, sourced from the version package.
func (a *App) GetServerInfo(ctx context.Context, _ *api.Empty) (*api.ServerInfo, error) {
	info := version.Get()
	return &api.ServerInfo{
		Properties: map[string]string{
			"version":    info.Version,
			"commit":     info.CommitHash,
			"go_version": runtime.Version(),
		},
	}, nil
}

func (a *App) GetDayColorDefinitions(ctx context.Context, req *api.Empty) (*api.DayColorDefinitions, error) {
	return a.days.GetDayColorDefinitions(ctx, req)
}

func (a *App) GetDay(ctx context.Context, date *api.Date) (*api.CompleteDay, error) {
	return a.days.GetDay(ctx, date)
}

func (a *App) GetMonth(ctx context.Context, req *api.MonthRequest) (*api.Month, error) {
	return a.days.GetMonth(ctx, req)
}

func (a *App) SetColorOnDay(ctx context.Context, req *api.SetColorOnDayRequest) (*api.Status, error) {
	return a.days.SetColorOnDay(ctx, req)
}

func (a *App) SetDay(ctx context.Context, day *api.CompleteDay) (*api.Status, error) {
	return a.days.SetDay(ctx, day)
}

func (a *App) CreateTenant(ctx context.Context, req *api.CreateTenantRequest) (*api.Status, error) {
	return a.tenant.CreateTenant(ctx, req)
}

func (a *App) CreateNode(ctx context.Context, req *api.CreateNodeRequest) (*api.Status, error) {
	return a.nodes.CreateNode(ctx, req)
}

func (a *App) UpdateNode(ctx context.Context, node *api.Node) (*api.Status, error) {
	return a.nodes.UpdateNode(ctx, node)
}

func (a *App) MoveNode(ctx context.Context, req *api.MoveNodeRequest) (*api.Status, error) {
	return a.nodes.MoveNode(ctx, req)
}

func (a *App) DeleteNode(ctx context.Context, req *api.DeleteNodeRequest) (*api.Status, error) {
	return a.nodes.DeleteNode(ctx, req)
}

func (a *App) GetNodes(ctx context.Context, req *api.Empty) (*api.NodeTree, error) {
	return a.nodes.GetNodes(ctx, req)
}
