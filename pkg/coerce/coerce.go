// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coerce converts raw option values into typed Go values.
//
// Each Type has exactly one conversion function. Conversions are pure apart
// from ExistingFile, which stats the named path, and Class/Object, which
// consult the class table (see RegisterClass).
package coerce

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Type selects the conversion applied to a raw value.
type Type int

const (
	String Type = iota
	Number
	Class
	Object
	File
	ExistingFile
	Files
	URL
	Date
	Version
	UUID
)

var typeNames = [...]string{
	String:       "string",
	Number:       "number",
	Class:        "class",
	Object:       "object",
	File:         "file",
	ExistingFile: "existing-file",
	Files:        "files",
	URL:          "url",
	Date:         "date",
	Version:      "version",
	UUID:         "uuid",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the Type with the given name. The empty string is
// String.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return String, nil
	}
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}
	return String, fmt.Errorf("unknown value type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("invalid value type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ConversionError is returned when a raw value cannot be converted to the
// requested Type.
type ConversionError struct {
	Type  Type
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
	}
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// UnsupportedConversionError is returned for types that are recognized but
// intentionally not converted.
type UnsupportedConversionError struct {
	Type Type
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("conversion to %s is not supported", e.Type)
}

func (e *UnsupportedConversionError) Unwrap() error {
	return errors.ErrUnsupported
}

// Path is a file system path taken verbatim from an option value.
type Path string

func (p Path) String() string {
	return string(p)
}

// Exists reports whether something exists at p.
func (p Path) Exists() bool {
	_, err := os.Stat(string(p))
	return err == nil
}

// Coerce converts raw according to t.
func Coerce(raw string, t Type) (any, error) {
	switch t {
	case String:
		return raw, nil
	case Number:
		return ToNumber(raw)
	case Class:
		return ToClass(raw)
	case Object:
		return ToObject(raw)
	case File:
		return ToFile(raw), nil
	case ExistingFile:
		return ToExistingFile(raw)
	case URL:
		return ToURL(raw)
	case Version:
		return ToVersion(raw)
	case UUID:
		return ToUUID(raw)
	case Date, Files:
		return nil, &UnsupportedConversionError{Type: t}
	}
	return nil, &ConversionError{Type: t, Value: raw, Err: errors.New("unknown value type")}
}

// ToNumber parses raw as an int64, or as a float64 when the literal
// contains a decimal point.
func ToNumber(raw string) (any, error) {
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ConversionError{Type: Number, Value: raw, Err: err}
		}
		return f, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &ConversionError{Type: Number, Value: raw, Err: err}
	}
	return n, nil
}

// ToClass resolves a registered type name.
func ToClass(name string) (reflect.Type, error) {
	t, ok := lookupClass(name)
	if !ok {
		return nil, &ConversionError{Type: Class, Value: name, Err: errors.New("unknown class")}
	}
	return t, nil
}

// ToObject returns a pointer to a new zero value of the named class.
func ToObject(name string) (any, error) {
	t, ok := lookupClass(name)
	if !ok {
		return nil, &ConversionError{Type: Object, Value: name, Err: errors.New("unknown class")}
	}
	return reflect.New(t).Interface(), nil
}

// ToFile wraps raw as a Path without touching the file system.
func ToFile(raw string) Path {
	return Path(raw)
}

// ToExistingFile wraps raw as a Path and fails when nothing exists there.
func ToExistingFile(raw string) (Path, error) {
	if _, err := os.Stat(raw); err != nil {
		return "", &ConversionError{Type: ExistingFile, Value: raw, Err: err}
	}
	return Path(raw), nil
}

// ToURL parses raw as an absolute URL.
func ToURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ConversionError{Type: URL, Value: raw, Err: err}
	}
	if u.Scheme == "" {
		return nil, &ConversionError{Type: URL, Value: raw, Err: errors.New("missing scheme")}
	}
	return u, nil
}

// ToVersion parses raw as a semantic version.
func ToVersion(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, &ConversionError{Type: Version, Value: raw, Err: err}
	}
	return v, nil
}

// ToUUID parses raw as a UUID in any of the forms uuid.Parse accepts.
func ToUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ConversionError{Type: UUID, Value: raw, Err: err}
	}
	return id, nil
}
