package entities

import "errors"

// Domain errors.
var (
	ErrEntryNotFound       = errors.New("entry not found")
	ErrIDExhausted         = errors.New("no entry id available")
	ErrEmptyForm           = errors.New("entry form is empty")
	ErrInvalidMode         = errors.New("invalid search mode")
	ErrInvalidScope        = errors.New("invalid search scope")
	ErrInvalidRelationKind = errors.New("invalid relation kind")
)
