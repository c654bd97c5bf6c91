package api

import "context"

// Subscriber is what SubscribeToUpdates hands updates to, decoupling the
// gRPC-streaming transport detail from the service implementations in
// nodes/ and days/. See package reactor for the concrete implementation.
type Subscriber interface {
	// Send delivers update to the subscriber's outbound queue. It returns
	// an error only if the subscription is already done.
	Send(update *Update) error
}

// NextAppServer is the RPC surface nextappd exposes, mirroring the table in
// SPEC_FULL.md §6. server.Server implements this by composing the node
// service, day service, and tenant service.
type NextAppServer interface {
	GetServerInfo(ctx context.Context, req *Empty) (*ServerInfo, error)
	GetDayColorDefinitions(ctx context.Context, req *Empty) (*DayColorDefinitions, error)
	GetDay(ctx context.Context, date *Date) (*CompleteDay, error)
	GetMonth(ctx context.Context, req *MonthRequest) (*Month, error)
	SetColorOnDay(ctx context.Context, req *SetColorOnDayRequest) (*Status, error)
	SetDay(ctx context.Context, day *CompleteDay) (*Status, error)
	CreateTenant(ctx context.Context, req *CreateTenantRequest) (*Status, error)
	CreateNode(ctx context.Context, req *CreateNodeRequest) (*Status, error)
	UpdateNode(ctx context.Context, node *Node) (*Status, error)
	MoveNode(ctx context.Context, req *MoveNodeRequest) (*Status, error)
	DeleteNode(ctx context.Context, req *DeleteNodeRequest) (*Status, error)
	GetNodes(ctx context.Context, req *Empty) (*NodeTree, error)

	// SubscribeToUpdates registers sub to receive every Update published to
	// the publisher registry until ctx is done, at which point it must be
	// unregistered from the registry. Updates are not filtered by user.
	SubscribeToUpdates(ctx context.Context, req *UpdatesReq, sub Subscriber) error
}

// Empty is the argument/reply shape for RPCs that carry no payload.
type Empty struct{}
