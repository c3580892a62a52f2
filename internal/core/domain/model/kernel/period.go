package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	periodMinYear = 2000
	periodMaxYear = 2100
)

// ErrPeriodIsNotConstructed is returned when a zero value Period is used.
var ErrPeriodIsNotConstructed = errs.NewValueIsRequiredError("period must be created via NewPeriod")

// Period identifies the monthly bucket a recurring customer document belongs to.
type Period struct {
	month int
	year  int
	guard guard.ConstructorGuard
}

// NewPeriod validates month (1..12) and year.
func NewPeriod(month, year int) (Period, error) {
	var errList []error
	if month < 1 || month > 12 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("month", month, 1, 12))
	}
	if year < periodMinYear || year > periodMaxYear {
		errList = append(errList, errs.NewValueIsOutOfRangeError("year", year, periodMinYear, periodMaxYear))
	}
	if err := errors.Join(errList...); err != nil {
		return Period{}, err
	}

	return Period{month: month, year: year, guard: guard.NewConstructorGuard()}, nil
}

func (p Period) Validate() error {
	return p.guard.Validate(ErrPeriodIsNotConstructed)
}

func (p Period) Month() int {
	return p.month
}

func (p Period) Year() int {
	return p.year
}

func (p Period) IsEqual(other Period) bool {
	return p.month == other.month && p.year == other.year
}

// Before orders periods chronologically.
func (p Period) Before(other Period) bool {
	if p.year != other.year {
		return p.year < other.year
	}
	return p.month < other.month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, p.month)
}
