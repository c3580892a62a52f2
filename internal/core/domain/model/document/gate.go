package document

import (
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
)

// OrderGateReport is the onboarding gate of one order.
type OrderGateReport struct {
	// Satisfied: every mandatory code has a document that is not rejected.
	Satisfied bool
	// Approved: every mandatory code has a verified document.
	Approved bool
	// Missing lists mandatory codes without any live (non rejected) document.
	Missing []string
	// Unverified lists mandatory codes without a verified document.
	Unverified []string
	// Blocking lists mandatory codes whose every submission was rejected.
	Blocking []string
}

// EvaluateOrderGate checks the submitted documents against the mandatory codes
// of the order's service.
func EvaluateOrderGate(mandatoryCodes []string, docs []*OrderDocument) OrderGateReport {
	report := OrderGateReport{Missing: []string{}, Unverified: []string{}, Blocking: []string{}}

	for _, code := range mandatoryCodes {
		var submitted, live, verified bool
		for _, d := range docs {
			if d.code != code {
				continue
			}
			submitted = true
			if d.status != Rejected {
				live = true
			}
			if d.status == Verified {
				verified = true
			}
		}

		if !live {
			report.Missing = append(report.Missing, code)
			if submitted {
				report.Blocking = append(report.Blocking, code)
			}
		}
		if !verified {
			report.Unverified = append(report.Unverified, code)
		}
	}

	report.Satisfied = len(report.Missing) == 0
	report.Approved = len(report.Unverified) == 0
	return report
}

// PeriodReport is the recurring gate of one (month, year) bucket.
type PeriodReport struct {
	Period kernel.Period
	// Satisfied: at least one document and none rejected.
	Satisfied bool
	// Approved: at least one document and all approved.
	Approved bool
	// Blocked: some document of the period is rejected and not yet replaced.
	Blocked bool
	Total   int
}

// RecurringGateReport groups period reports in chronological order.
type RecurringGateReport struct {
	Periods []PeriodReport
}

// IsBlocked reports whether any period holds a rejected document.
func (r RecurringGateReport) IsBlocked() bool {
	for _, p := range r.Periods {
		if p.Blocked {
			return true
		}
	}
	return false
}

// Period returns the report of one bucket; an empty bucket is neither satisfied nor blocked.
func (r RecurringGateReport) Period(period kernel.Period) PeriodReport {
	for _, p := range r.Periods {
		if p.Period.IsEqual(period) {
			return p
		}
	}
	return PeriodReport{Period: period}
}

// EvaluateRecurringGate buckets customer documents by period.
func EvaluateRecurringGate(docs []*CustomerDocument) RecurringGateReport {
	buckets := make(map[kernel.Period]*PeriodReport)
	for _, d := range docs {
		b, ok := buckets[d.period]
		if !ok {
			b = &PeriodReport{Period: d.period, Satisfied: true, Approved: true}
			buckets[d.period] = b
		}
		b.Total++
		if d.status == Rejected {
			b.Blocked = true
			b.Satisfied = false
		}
		if d.status != Approved {
			b.Approved = false
		}
	}

	report := RecurringGateReport{Periods: make([]PeriodReport, 0, len(buckets))}
	for _, b := range buckets {
		report.Periods = append(report.Periods, *b)
	}
	slices.SortFunc(report.Periods, func(a, b PeriodReport) int {
		switch {
		case a.Period.Before(b.Period):
			return -1
		case b.Period.Before(a.Period):
			return 1
		default:
			return 0
		}
	})
	return report
}
