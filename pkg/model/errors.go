package model

import "errors"

var (
	// ErrInvalidPath is returned for malformed dotted paths.
	ErrInvalidPath = errors.New("model: invalid path")
	// ErrReservedPath is returned when a binding uses a name the error
	// envelope or the modifier table reserves ("*", "whole object").
	ErrReservedPath = errors.New("model: reserved path")
	// ErrUnknownPath is returned when a binding does not match the template.
	ErrUnknownPath = errors.New("model: path not present in template")
	// ErrDuplicateSection is returned when two sections claim the same path.
	ErrDuplicateSection = errors.New("model: duplicate section")
	// ErrNilHandle is returned when a binding carries no field or section.
	ErrNilHandle = errors.New("model: nil handle")
)
