// Package role models who may act on an order. Role checks live here as
// capabilities (CanForwardTo, CanReview, ...) instead of being repeated as
// string comparisons in every use case.
package role

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Role is the function a user performs in the fulfillment pipeline. The same
// values name the stage an order is in (the role that currently owns it).
type Role string

const (
	Unknown    Role = ""
	Customer   Role = "customer"
	Sales      Role = "sales"
	Accounts   Role = "accounts"
	Operations Role = "operations"
	Admin      Role = "admin"
	// System marks actions taken by the service itself (gateway callbacks, jobs).
	// Entries written as System are hidden from human facing timelines.
	System Role = "system"
)

// DocumentClass distinguishes onboarding documents tied to a service's
// required documents from recurring monthly customer documents.
type DocumentClass int

const (
	OnboardingDocuments DocumentClass = iota + 1
	RecurringDocuments
)

func (c DocumentClass) String() string {
	switch c {
	case OnboardingDocuments:
		return "onboarding documents"
	case RecurringDocuments:
		return "recurring documents"
	default:
		return "unknown documents"
	}
}

// forwardRoutes lists every role-to-role handoff the pipeline knows.
// Payment and gate conditions on top of these are enforced by services.HandoffPolicy.
var forwardRoutes = map[Role][]Role{
	Sales:      {Accounts, Operations},
	Accounts:   {Operations, Admin},
	Operations: {Admin, Accounts},
	Admin:      {Operations},
}

// Parse converts the textual role (as stored and as found in JWT claims).
func Parse(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return Unknown, err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case Customer, Sales, Accounts, Operations, Admin, System:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// IsStaff reports whether the role belongs to an internal pipeline stage.
func (r Role) IsStaff() bool {
	switch r {
	case Sales, Accounts, Operations, Admin:
		return true
	default:
		return false
	}
}

// CanForwardTo reports whether an order owned by r may be handed to target.
func (r Role) CanForwardTo(target Role) bool {
	for _, allowed := range forwardRoutes[r] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CanReview reports whether r decides documents of the given class.
func (r Role) CanReview(class DocumentClass) bool {
	switch class {
	case OnboardingDocuments:
		return r == Sales
	case RecurringDocuments:
		return r == Operations
	default:
		return false
	}
}

func (r Role) CanUploadDeliverable() bool {
	return r == Operations
}

func (r Role) CanDecideQC() bool {
	return r == Admin
}

func (r Role) CanApproveCompletion() bool {
	return r == Admin
}

func (r Role) CanPurchase() bool {
	return r == Customer
}

// ErrActorIsNotConstructed is returned when a zero value Actor is used.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// Actor is the authenticated caller of a use case.
type Actor struct {
	userID kernel.UUID
	role   Role
	guard  guard.ConstructorGuard
}

// NewActor builds an actor for a human user.
func NewActor(userID kernel.UUID, r Role) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, err
	}
	if err := r.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{userID: userID, role: r, guard: guard.NewConstructorGuard()}, nil
}

// SystemActor is the actor used by gateway callbacks and background jobs.
func SystemActor() Actor {
	return Actor{role: System, guard: guard.NewConstructorGuard()}
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) Role() Role {
	return a.role
}

// UserID returns the acting user; nil for the system actor.
func (a Actor) UserID() *kernel.UUID {
	if a.role == System {
		return nil
	}
	id := a.userID
	return &id
}

// Is reports whether the actor is the given user.
func (a Actor) Is(userID kernel.UUID) bool {
	return a.role != System && a.userID.IsEqual(userID)
}

// Require returns an AuthorizationError unless allowed is true.
func (a Actor) Require(allowed bool, action string) error {
	if !allowed {
		return errs.NewAuthorizationError(a.role.String(), action)
	}
	return nil
}
