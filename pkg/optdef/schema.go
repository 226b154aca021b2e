// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optdef

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed definition.schema.json
var schemaData []byte

var compiled *jsonschema.Schema

func init() {
	var err error
	compiled, err = jsonschema.CompileString("definition.schema.json", string(schemaData))
	if err != nil {
		panic(fmt.Errorf("compile definition schema: %w", err))
	}
}

// validateDocument checks a generically decoded document against the
// schema. Values are normalized through JSON first so integers and maps
// from any decoder have the types the validator expects.
func validateDocument(doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("validate definition: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("validate definition: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("validate definition: %w", err)
	}
	return nil
}

func validateDefinition(d *Definition) error {
	return validateDocument(d)
}
