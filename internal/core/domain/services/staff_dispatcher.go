package services

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/staff"
)

// ErrStaffNotFound is returned when no active member of the order's stage is available.
var ErrStaffNotFound = errors.New("staff member not found")

// StaffDispatcher assigns unowned orders to a member of their current stage.
//
// Business rules:
//   - Only orders of a staff stage without assignee are dispatched
//   - Candidates must be active and work the order's stage
//   - The member with the fewest open orders wins; ties go to the first candidate
//
// Example usage:
//
//	dispatcher := services.NewStaffDispatcher()
//	member, err := dispatcher.Dispatch(o, workloads)
//	if errors.Is(err, services.ErrStaffNotFound) {
//	    // nobody to hand the order to, try again on the next tick
//	}
type StaffDispatcher struct{}

func NewStaffDispatcher() StaffDispatcher {
	return StaffDispatcher{}
}

// Dispatch picks the least loaded member and assigns the order to them.
func (d StaffDispatcher) Dispatch(o *order.Order, workloads []staff.Workload) (*staff.Member, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := d.findLeastLoaded(o, workloads)
	if err != nil {
		return nil, err
	}

	if err = o.Assign(best.ID()); err != nil {
		return nil, err
	}

	return best, nil
}

func (d StaffDispatcher) findLeastLoaded(o *order.Order, workloads []staff.Workload) (*staff.Member, error) {
	var (
		best     *staff.Member
		bestLoad int
	)

	for _, w := range workloads {
		if err := w.Member.Validate(); err != nil {
			return nil, err
		}
		if !w.Member.CanReceive(o.Stage()) {
			continue
		}
		if best == nil || w.OpenOrders < bestLoad {
			best = w.Member
			bestLoad = w.OpenOrders
		}
	}

	if best == nil {
		return nil, ErrStaffNotFound
	}

	return best, nil
}
