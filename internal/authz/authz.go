// Package authz decides role and ownership questions for an authenticated principal.
package authz

import (
	"hoaportal/internal/models"

	"github.com/google/uuid"
)

// Principal is the authenticated actor of a request.
type Principal struct {
	ID   uuid.UUID
	Role models.Role
}

// FromClaims builds a principal from verified token claims.
func FromClaims(c *models.UserClaims) *Principal {
	if c == nil {
		return nil
	}
	return &Principal{ID: c.UserID, Role: c.Role}
}

// HasRole reports whether p holds at least the required role.
func HasRole(p *Principal, required models.Role) bool {
	if p == nil {
		return false
	}
	return p.Role.AtLeast(required)
}

// Kind names a resource type subject to ownership checks.
type Kind string

const (
	KindAccount         Kind = "account"
	KindChangeLog       Kind = "change_log"
	KindHouseholdMember Kind = "household_member"
	KindPet             Kind = "pet"
	KindVehicle         Kind = "vehicle"
	KindForumPost       Kind = "forum_post"
	KindTicket          Kind = "ticket"
	KindEvent           Kind = "event"
)

// OwnerField is the attribute that designates a resource's owner.
type OwnerField string

const (
	OwnerUser        OwnerField = "user"
	OwnerAuthor      OwnerField = "author"
	OwnerSubmittedBy OwnerField = "submitted_by"
	OwnerCreatedBy   OwnerField = "created_by"
)

var ownerFields = map[Kind]OwnerField{
	KindAccount:         OwnerUser,
	KindChangeLog:       OwnerUser,
	KindHouseholdMember: OwnerUser,
	KindPet:             OwnerUser,
	KindVehicle:         OwnerUser,
	KindForumPost:       OwnerAuthor,
	KindTicket:          OwnerSubmittedBy,
	KindEvent:           OwnerCreatedBy,
}

// OwnerFieldOf returns the owner attribute for kind.
func OwnerFieldOf(kind Kind) (OwnerField, bool) {
	f, ok := ownerFields[kind]
	return f, ok
}

// Resource is an owned object. Owner is nil when the owner attribute is unset.
type Resource struct {
	Kind  Kind
	Owner *uuid.UUID
}

// OwnedBy is a shorthand for a resource with a known owner.
func OwnedBy(kind Kind, owner uuid.UUID) Resource {
	return Resource{Kind: kind, Owner: &owner}
}

// OwnerOrAdmin reports whether p may act on r. Admins always may. Otherwise
// the resource kind must have a known owner field and p must be that owner.
func OwnerOrAdmin(p *Principal, r Resource) bool {
	if p == nil {
		return false
	}
	if p.Role == models.RoleAdmin {
		return true
	}
	if _, ok := ownerFields[r.Kind]; !ok {
		return false
	}
	if r.Owner == nil {
		return false
	}
	return *r.Owner == p.ID
}
