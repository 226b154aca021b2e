// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cliopt

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArity is returned by Build for negative counts other than
	// Unlimited.
	ErrInvalidArity = errors.New("invalid number of values")

	// ErrAlreadyGrouped is returned when an option is added to a second
	// group.
	ErrAlreadyGrouped = errors.New("option already belongs to a group")
)

// InvalidNameError is returned by Build when a short or long name contains
// characters that cannot appear on a command line.
type InvalidNameError struct {
	Name   string
	Long   bool
	Reason string
}

func (e *InvalidNameError) Error() string {
	kind := "option name"
	if e.Long {
		kind = "long option name"
	}
	return fmt.Sprintf("invalid %s %q: %s", kind, e.Name, e.Reason)
}

// DuplicateOptionError is returned when a registry already holds a
// different option with the same short or long name.
type DuplicateOptionError struct {
	Name string
	Long bool
}

func (e *DuplicateOptionError) Error() string {
	if e.Long {
		return fmt.Sprintf("duplicate option: --%s", e.Name)
	}
	return fmt.Sprintf("duplicate option: -%s", e.Name)
}
