package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRequiredDocumentIsNotConstructed = errors.New("RequiredDocument must be created via NewRequiredDocument constructor")

	codePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]{0,63}$`)
)

// RequiredDocument is a document template of a service, e.g. "pan_card".
type RequiredDocument struct {
	id            kernel.UUID
	code          string
	name          string
	mandatory     bool
	allowMultiple bool

	guard guard.ConstructorGuard
}

// NewRequiredDocument validates a template. code is a lower case slug used by
// customers when submitting.
func NewRequiredDocument(id kernel.UUID, code, name string, mandatory, allowMultiple bool) (RequiredDocument, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	var codeErr, nameErr error
	if !codePattern.MatchString(code) {
		codeErr = errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q must match %s", code, codePattern))
	}
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(id.Validate(), codeErr, nameErr); err != nil {
		return RequiredDocument{}, err
	}

	return RequiredDocument{
		id:            id,
		code:          code,
		name:          name,
		mandatory:     mandatory,
		allowMultiple: allowMultiple,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (d RequiredDocument) Validate() error {
	return d.guard.Validate(ErrRequiredDocumentIsNotConstructed)
}

func (d RequiredDocument) ID() kernel.UUID {
	return d.id
}

func (d RequiredDocument) Code() string {
	return d.code
}

func (d RequiredDocument) Name() string {
	return d.name
}

func (d RequiredDocument) IsMandatory() bool {
	return d.mandatory
}

// AllowsMultiple reports whether several live documents may be submitted for the code.
func (d RequiredDocument) AllowsMultiple() bool {
	return d.allowMultiple
}
