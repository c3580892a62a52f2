// Package staff is the directory of internal users an order can be handed to.
package staff

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxNameLength = 200

var (
	ErrMemberIsNotConstructed = errors.New("Member must be created via NewMember constructor")
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
)

// Member is a staff user working one pipeline stage.
type Member struct {
	id     kernel.UUID
	name   string
	role   role.Role
	active bool

	guard guard.ConstructorGuard
}

// NewMember registers an active staff user. Customers and the system role are
// not staff.
func NewMember(id kernel.UUID, name string, r role.Role) (*Member, error) {
	return RestoreMember(id, name, r, true)
}

// RestoreMember reconstructs a member from persistent storage.
func RestoreMember(id kernel.UUID, name string, r role.Role, active bool) (*Member, error) {
	name = strings.TrimSpace(name)

	var nameErr, roleErr error
	switch {
	case name == "":
		nameErr = ErrNameIsRequired
	case len(name) > maxNameLength:
		nameErr = errs.NewValueIsOutOfRangeError("name", len(name), 1, maxNameLength)
	}
	if !r.IsStaff() {
		roleErr = errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a staff role", r))
	}

	if err := errors.Join(id.Validate(), nameErr, roleErr); err != nil {
		return nil, err
	}

	return &Member{
		id:     id,
		name:   name,
		role:   r,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (m *Member) Validate() error {
	if m == nil {
		return ErrMemberIsNotConstructed
	}
	return m.guard.Validate(ErrMemberIsNotConstructed)
}

func (m *Member) ID() kernel.UUID {
	return m.id
}

func (m *Member) Name() string {
	return m.name
}

func (m *Member) Role() role.Role {
	return m.role
}

func (m *Member) IsActive() bool {
	return m.active
}

// Deactivate stops new orders from being handed to the member.
func (m *Member) Deactivate() {
	m.active = false
}

// CanReceive reports whether an order entering stage may be handed to the member.
func (m *Member) CanReceive(stage role.Role) bool {
	return m.active && m.role == stage
}

// Workload pairs a member with the number of open orders assigned to them.
type Workload struct {
	Member     *Member
	OpenOrders int
}
