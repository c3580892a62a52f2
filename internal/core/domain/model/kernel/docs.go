// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain.
//
// The package includes:
//   - UUID: identifier of orders, payments, documents, deliverables and users
//   - Money: non-negative amount with two decimal places backed by shopspring/decimal
//   - Period: a (month, year) bucket used by recurring customer documents
//
// All value objects are immutable, embed a ConstructorGuard and report a
// validation error when used as zero values.
package kernel
