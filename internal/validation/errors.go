// Package validation turns request DTO checks into a single field-keyed error
// value that every layer can pass around and the API renders as 422.
package validation

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
)

// Errors maps a wire field name to its human-readable messages.
// It matches common.ErrorValidation under errors.Is.
type Errors map[string][]string

// Field builds Errors with a single message.
func Field(field, msg string) Errors {
	return Errors{field: {msg}}
}

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field already carries a message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Merge copies every field of other into e, replacing what e had for it.
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		e[field] = append([]string(nil), msgs...)
	}
}

// OrNil returns nil when nothing was collected. Use it instead of returning
// an empty Errors as error, which would be a non-nil interface value.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(common.ErrorValidation.Error())
	for i, f := range fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[f], " "))
	}
	return b.String()
}

func (e Errors) Is(target error) bool {
	return target == common.ErrorValidation
}
