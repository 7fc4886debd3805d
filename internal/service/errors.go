package service

import (
	"errors"

	"github.com/joescharf/portal/internal/store"
)

var (
	// ErrInvalidInput indicates form data failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownProject indicates a ticket references a project that doesn't exist.
	// It is the store's sentinel, so errors from either layer match.
	ErrUnknownProject = store.ErrUnknownProject
	// ErrAmbiguous indicates a short reference matched more than one record.
	ErrAmbiguous = errors.New("ambiguous reference")
)
