package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pcs/src/store"
	"pcs/src/types"
)

func TestScopeFor(t *testing.T) {
	tests := []struct {
		name  string
		actor types.Actor
		want  store.Scope
	}{
		{"admin sees all", types.Actor{ID: 1, Role: types.ROLE_ADMIN}, store.Scope{All: true}},
		{"staff sees all", types.Actor{ID: 2, Role: types.ROLE_STAFF}, store.Scope{All: true}},
		{"technician sees assigned", types.Actor{ID: 3, Role: types.ROLE_TECHNICIAN}, store.Scope{TechnicianID: 3}},
		{"customer sees own", types.Actor{ID: 4, Email: "c@example.com", Role: types.ROLE_CUSTOMER}, store.Scope{CustomerID: 4, CustomerEmail: "c@example.com"}},
		{"unknown role treated as customer", types.Actor{ID: 5, Email: "x@example.com", Role: "visitor"}, store.Scope{CustomerID: 5, CustomerEmail: "x@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeFor(tt.actor))
		})
	}
}
