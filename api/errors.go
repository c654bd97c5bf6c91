package api

import "github.com/nextapp/nextappd/errors"

// StatusError renders a domain error onto a Status reply: transport status
// stays OK (per SPEC_FULL.md's propagation policy) and the structured error
// is carried in the string fields instead.
func StatusError(err error) *Status {
	if err == nil {
		return &Status{}
	}
	code, ok := errors.CodeOf(err)
	if !ok {
		return &Status{Error: string(errors.CodeDatabaseError), Message: "internal error"}
	}
	return &Status{Error: string(code), Message: err.Error()}
}

// StatusOK builds a successful Status carrying the resulting node.
func StatusOK(node *Node) *Status {
	return &Status{Node: node}
}

// StatusOKTenant builds a successful Status carrying the created tenant.
func StatusOKTenant(tenant *Tenant) *Status {
	return &Status{Tenant: tenant}
}
