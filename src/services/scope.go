package services

import (
	"pcs/src/store"
	"pcs/src/types"
)

// ScopeFor derives the visibility predicate for an actor. Stores AND it onto
// every query, direct-by-id lookups included, so a booking outside the scope
// reads as not found rather than forbidden.
func ScopeFor(actor types.Actor) store.Scope {
	switch actor.Role {
	case types.ROLE_ADMIN, types.ROLE_STAFF:
		return store.Scope{All: true}
	case types.ROLE_TECHNICIAN:
		return store.Scope{TechnicianID: actor.ID}
	default:
		return store.Scope{CustomerID: actor.ID, CustomerEmail: actor.Email}
	}
}
