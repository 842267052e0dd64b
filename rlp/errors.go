package rlp

import (
	"errors"

	"github.com/INLOpen/xtra/numeric"
)

var (
	// ErrNoMatch is returned when no prefix rule matches or the input is
	// shorter than the length its prefix declares.
	ErrNoMatch = errors.New("rlp: no match found while parsing")
	// ErrNoInputLeft is returned when a value is requested from exhausted input.
	ErrNoInputLeft = errors.New("rlp: input is empty")
	// ErrUnexpectedMatch is returned when the node at the cursor has a
	// different kind than the one requested.
	ErrUnexpectedMatch = errors.New("rlp: unexpected node kind")
	// ErrNoSizeHint is returned when a size is requested with nothing in focus.
	ErrNoSizeHint = errors.New("rlp: cannot obtain size hint")
	// ErrConversion is returned when a byte string cannot be converted to
	// the requested fixed-width value.
	ErrConversion = numeric.ErrConversion
)
