package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxNameLength = 200

var ErrServiceIsNotConstructed = errors.New("Service must be created via NewService constructor")

// Service is a purchasable compliance service.
type Service struct {
	id        kernel.UUID
	name      string
	price     kernel.Money
	advance   *kernel.Money
	recurring bool
	documents []RequiredDocument
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewService validates and creates a service definition.
//
// Business rules:
//   - price must be positive
//   - advance, when set, must be positive and below price
//   - document codes are unique within a service
func NewService(
	id kernel.UUID,
	name string,
	price kernel.Money,
	advance *kernel.Money,
	recurring bool,
	documents []RequiredDocument,
	createdAt time.Time,
) (*Service, error) {
	s := &Service{
		recurring: recurring,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		s.setName(name),
		s.setPricing(price, advance),
		s.setDocuments(documents),
	); err != nil {
		return nil, err
	}
	s.id = id

	return s, nil
}

// RestoreService reconstructs a service from persistent storage.
func RestoreService(
	id kernel.UUID,
	name string,
	price kernel.Money,
	advance *kernel.Money,
	recurring bool,
	documents []RequiredDocument,
	createdAt time.Time,
) (*Service, error) {
	return NewService(id, name, price, advance, recurring, documents, createdAt)
}

func (s *Service) Validate() error {
	if s == nil {
		return ErrServiceIsNotConstructed
	}
	return s.guard.Validate(ErrServiceIsNotConstructed)
}

func (s *Service) ID() kernel.UUID {
	return s.id
}

func (s *Service) Name() string {
	return s.name
}

func (s *Service) Price() kernel.Money {
	return s.price
}

func (s *Service) Advance() *kernel.Money {
	if s.advance == nil {
		return nil
	}
	a := *s.advance
	return &a
}

// IsRecurring reports whether the service collects monthly customer documents.
func (s *Service) IsRecurring() bool {
	return s.recurring
}

func (s *Service) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Service) RequiredDocuments() []RequiredDocument {
	docs := make([]RequiredDocument, len(s.documents))
	copy(docs, s.documents)
	return docs
}

// Requirement looks up the template for a document code.
func (s *Service) Requirement(code string) (RequiredDocument, bool) {
	for _, d := range s.documents {
		if d.code == code {
			return d, true
		}
	}
	return RequiredDocument{}, false
}

// MandatoryCodes lists the codes that gate the order.
func (s *Service) MandatoryCodes() []string {
	var codes []string
	for _, d := range s.documents {
		if d.mandatory {
			codes = append(codes, d.code)
		}
	}
	return codes
}

func (s *Service) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if len(name) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("name", len(name), 1, maxNameLength)
	}
	s.name = name
	return nil
}

func (s *Service) setPricing(price kernel.Money, advance *kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if !price.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is not greater than 0", price))
	}
	if advance != nil {
		if err := advance.Validate(); err != nil {
			return err
		}
		if !advance.IsPositive() || !advance.LessThan(price) {
			return errs.NewValueIsOutOfRangeError("advance", advance.String(), "0", price.String())
		}
		a := *advance
		s.advance = &a
	}
	s.price = price
	return nil
}

func (s *Service) setDocuments(documents []RequiredDocument) error {
	seen := make(map[string]struct{}, len(documents))
	for _, d := range documents {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, ok := seen[d.code]; ok {
			return errs.NewValueIsInvalidErrorWithCause("documents", fmt.Errorf("duplicate code %q", d.code))
		}
		seen[d.code] = struct{}{}
	}
	s.documents = append([]RequiredDocument(nil), documents...)
	return nil
}
