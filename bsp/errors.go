// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported bsp identifier")
	ErrFormatMismatch     = errors.New("bsp format mismatch")
	ErrInvalidValue       = errors.New("invalid value in bsp record")
)

type UnsupportedVersionError struct {
	Ident int32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported bsp identifier: %d", e.Ident)
}

func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// InvalidValueError reports a field that holds a value outside its
// enumeration or range. The record cannot be skipped without losing sync
// with the rest of the lump.
type InvalidValueError struct {
	Field string
	Value int64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%d not a valid %s", e.Value, e.Field)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
