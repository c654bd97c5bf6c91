// Package api holds the plain Go message types exchanged over the nextappd
// RPC surface described by nextapp.proto. The protobuf schema itself is an
// external collaborator (SPEC_FULL.md §1): rather than fabricate
// protoc-generated marshaling code for a wire format that's explicitly out
// of scope, this package hand-authors the same shapes as ordinary structs
// and lets server/codec.go handle the wire encoding.
package api

// Date is the wire representation of a calendar date. Month is 0-based
// (0..11); the database stores 1-based months. See ToWireDate/FromWireDate
// in package days for the conversion boundary.
type Date struct {
	Year  int32
	Month int32
	Mday  int32
}

// Node mirrors the persisted node row, plus the wire's `parent` string
// (empty string means root, not a Go nil, to match the proto3 convention).
type Node struct {
	ID      string
	User    string
	Name    string
	Kind    string
	Descr   string
	Active  bool
	Parent  string
	Version int64
}

// NodeTreeItem is one node plus its already-assembled children, used to
// build the reply to GetNodes.
type NodeTreeItem struct {
	Node     *Node
	Children []*NodeTreeItem
}

// NodeTree is the full per-user tree returned by GetNodes.
type NodeTree struct {
	Root *NodeTreeItem
}

// DayColorDefinition is a row from the global day-color catalog.
type DayColorDefinition struct {
	ID    string
	Name  string
	Color string
	Score int32
}

// Day is the minimal per-date record: the date, owning user, and optional
// color reference.
type Day struct {
	Date  Date
	User  string
	Color string
}

// CompleteDay is the full day-diary entry returned by GetDay.
type CompleteDay struct {
	Day       Day
	Notes     string
	Report    string
	HasNotes  bool
	HasReport bool
}

// MonthDay is one day's summary within a Month reply.
type MonthDay struct {
	Date      Date
	Color     string
	HasNotes  bool
	HasReport bool
}

// Month is the reply to GetMonth: every day in (user, year, month).
type Month struct {
	Year  int32
	Month int32
	Days  []MonthDay
}

// User is a tenant member; only CreateTenant creates these.
type User struct {
	ID     string
	Tenant string
	Name   string
	Email  string
	Kind   string
	Active bool
	Descr  string
}

const (
	UserKindRegular = "Regular"
)

// Tenant owns a set of Users.
type Tenant struct {
	ID     string
	Name   string
	Kind   string
	Descr  string
	Active bool
}

const (
	TenantKindGuest = "Guest"
)

// CreateTenantRequest bulk-creates a tenant plus its initial users.
type CreateTenantRequest struct {
	Tenant Tenant
	Users  []User
}

// CreateNodeRequest wraps the candidate node for CreateNode.
type CreateNodeRequest struct {
	Node Node
}

// MoveNodeRequest re-parents a node.
type MoveNodeRequest struct {
	UUID       string
	ParentUUID string
}

// DeleteNodeRequest identifies the node to delete.
type DeleteNodeRequest struct {
	UUID string
}

// SetColorOnDayRequest sets or clears (empty color) a day's color.
type SetColorOnDayRequest struct {
	Date  Date
	Color string
}

// MonthRequest identifies the (year, month) pair for GetMonth.
type MonthRequest struct {
	Year  int32
	Month int32
}

// UpdatesReq opens a SubscribeToUpdates stream.
type UpdatesReq struct {
	Client string
}

// NodeOp tags the kind of node mutation carried by a NodeUpdate.
type NodeOp int32

const (
	NodeOpUnspecified NodeOp = iota
	NodeOpAdded
	NodeOpUpdated
	NodeOpMoved
	NodeOpDeleted
)

func (op NodeOp) String() string {
	switch op {
	case NodeOpAdded:
		return "ADDED"
	case NodeOpUpdated:
		return "UPDATED"
	case NodeOpMoved:
		return "MOVED"
	case NodeOpDeleted:
		return "DELETED"
	default:
		return "UNSPECIFIED"
	}
}

// NodeUpdate carries a single node mutation for fan-out.
type NodeUpdate struct {
	Op   NodeOp
	Node Node
}

// DayColorUpdate carries a SetColorOnDay mutation for fan-out.
type DayColorUpdate struct {
	Date  Date
	User  string
	Color string
}

// Update is a tagged union of mutation kinds: exactly one of DayColor, Day,
// or Node is non-nil.
type Update struct {
	DayColor *DayColorUpdate
	Day      *Day
	Node     *NodeUpdate
}

// Status is the generic unary reply: error/message set on validation or
// domain failure (transport status stays OK so clients can read structured
// errors), plus the resulting node when the call produced one.
type Status struct {
	Error   string
	Message string
	Node    *Node
	Tenant  *Tenant
}

// ServerInfo answers GetServerInfo.
type ServerInfo struct {
	Properties map[string]string
}

// DayColorDefinitions answers GetDayColorDefinitions.
type DayColorDefinitions struct {
	Colors []DayColorDefinition
}
