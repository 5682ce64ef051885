package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownAddon    = errors.New("unknown addon")
	ErrUnknownTripType = errors.New("unknown trip type")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrSuperseded      = errors.New("superseded by a newer query")
)

// PersistenceError carries a storage failure back to the user unchanged.
type PersistenceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Err     error  `json:"-"`
}

func (e *PersistenceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError maps field paths to messages. It blocks a submit but never
// changes the draft.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(keys), strings.Join(parts, "; "))
}
