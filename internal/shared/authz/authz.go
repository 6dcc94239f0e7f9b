// Package authz holds the single authorization decision consulted before
// entity-store and query-engine calls. Roles are carried on the actor by the
// identity layer; this package only decides, it never loads state.
package authz

import (
	"errors"
	"strings"
)

const (
	// RoleAdmin may manage managers and assignments in its hub.
	RoleAdmin = "admin"
	// RoleUser has full read/write access to hub clients and timelines.
	RoleUser = "user"
	// RoleManager is restricted to clients assigned to the actor.
	RoleManager = "manager"
)

var ErrForbidden = errors.New("actor lacks required role")

// Actor is the authenticated identity on whose behalf a call is made.
type Actor struct {
	Name  string
	Email string
	HubID int
	Roles []string
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role string) bool {
	for _, item := range a.Roles {
		if strings.EqualFold(strings.TrimSpace(item), role) {
			return true
		}
	}
	return false
}

// Decide returns ErrForbidden unless the actor satisfies the required role.
// Admin satisfies every requirement.
func Decide(actor Actor, required string) error {
	if actor.HasRole(RoleAdmin) {
		return nil
	}
	if actor.HasRole(required) {
		return nil
	}
	// The manager role implies user-level read access to assigned clients;
	// the per-client assignment check happens at the store layer.
	if required == RoleUser && actor.HasRole(RoleManager) {
		return nil
	}
	return ErrForbidden
}

// ManagerScope returns the manager email to restrict queries with, or ""
// when the actor may see the whole hub.
func ManagerScope(actor Actor) string {
	if actor.HasRole(RoleAdmin) || actor.HasRole(RoleUser) {
		return ""
	}
	if actor.HasRole(RoleManager) {
		return strings.ToLower(strings.TrimSpace(actor.Email))
	}
	return ""
}
