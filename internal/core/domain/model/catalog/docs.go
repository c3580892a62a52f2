// Package catalog defines the compliance services a customer can purchase.
//
// A Service carries its price, an optional advance amount, whether it is a
// recurring (monthly) engagement and the RequiredDocument templates a customer
// must submit. Orders snapshot price and advance at creation; templates are
// immutable for the lifetime of an order.
package catalog
