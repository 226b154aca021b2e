// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optdef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a definition file.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	HCL  Format = "hcl"
	JSON Format = "json"
)

// ErrUnknownFormat is returned for file extensions no decoder handles.
var ErrUnknownFormat = errors.New("unknown definition format")

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".hcl":
		return HCL, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Base(path))
}

// Load reads, validates and decodes the definition file at path.
func Load(path string) (*Definition, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := decode(filepath.Base(path), data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Decode validates and decodes data written in format f.
func Decode(data []byte, f Format) (*Definition, error) {
	return decode("definition."+string(f), data, f)
}

func decode(name string, data []byte, f Format) (*Definition, error) {
	var d Definition
	switch f {
	case HCL:
		if err := decodeHCL(name, data, &d); err != nil {
			return nil, err
		}
		// HCL has no generic form to check; validate what was decoded.
		if err := validateDefinition(&d); err != nil {
			return nil, err
		}
		return &d, nil
	case TOML:
		var raw map[string]any
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if err := validateDocument(raw); err != nil {
			return nil, err
		}
		if _, err := toml.Decode(string(data), &d); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case YAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		if err := validateDocument(raw); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case JSON:
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if err := validateDocument(raw); err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return &d, nil
}

func decodeHCL(name string, data []byte, d *Definition) error {
	file, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return fmt.Errorf("parse hcl: %w", diags)
	}
	if diags := gohcl.DecodeBody(file.Body, nil, d); diags.HasErrors() {
		return fmt.Errorf("decode hcl: %w", diags)
	}
	return nil
}
