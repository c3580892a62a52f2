// Package document holds documents submitted by customers and the gates
// evaluated over them.
//
// Two shapes exist:
//   - OrderDocument: onboarding document tied to a catalog.RequiredDocument code,
//     reviewed by Sales (pending -> verified | rejected)
//   - CustomerDocument: recurring document tied to a (month, year) period,
//     reviewed by Operations (pending -> approved | rejected) and replaceable
//     by its submitter once rejected
//
// EvaluateOrderGate and EvaluateRecurringGate are pure functions over the
// submitted documents; nothing about a gate is stored.
package document
