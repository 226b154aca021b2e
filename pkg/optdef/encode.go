// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optdef

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Encode writes d to w in format f. The output decodes back to an equal
// Definition.
func Encode(w io.Writer, d *Definition, f Format) error {
	switch f {
	case TOML:
		return toml.NewEncoder(w).Encode(d)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case HCL:
		_, err := w.Write(encodeHCL(d))
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func encodeHCL(d *Definition) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	if d.Name != "" {
		body.SetAttributeValue("name", cty.StringVal(d.Name))
	}
	if d.StopAtNonOption {
		body.SetAttributeValue("stop_at_non_option", cty.True)
	}
	if len(d.Defaults) > 0 {
		vals := make(map[string]cty.Value, len(d.Defaults))
		for _, k := range slices.Sorted(maps.Keys(d.Defaults)) {
			vals[k] = cty.StringVal(d.Defaults[k])
		}
		body.SetAttributeValue("defaults", cty.ObjectVal(vals))
	}
	for _, od := range d.Options {
		body.AppendNewline()
		b := body.AppendNewBlock("option", []string{od.Name}).Body()
		setString(b, "long", od.Long)
		setString(b, "description", od.Description)
		setString(b, "arg_name", od.ArgName)
		if od.Args != 0 {
			b.SetAttributeValue("args", cty.NumberIntVal(int64(od.Args)))
		}
		if od.OptionalArg {
			b.SetAttributeValue("optional_arg", cty.True)
		}
		if od.Required {
			b.SetAttributeValue("required", cty.True)
		}
		setString(b, "separator", od.Separator)
		setString(b, "type", od.Type)
	}
	for _, gd := range d.Groups {
		body.AppendNewline()
		b := body.AppendNewBlock("group", nil).Body()
		if gd.Required {
			b.SetAttributeValue("required", cty.True)
		}
		members := make([]cty.Value, 0, len(gd.Options))
		for _, m := range gd.Options {
			members = append(members, cty.StringVal(m))
		}
		if len(members) == 0 {
			b.SetAttributeValue("options", cty.ListValEmpty(cty.String))
		} else {
			b.SetAttributeValue("options", cty.ListVal(members))
		}
	}
	return hclwrite.Format(f.Bytes())
}

func setString(b *hclwrite.Body, name, v string) {
	if v != "" {
		b.SetAttributeValue(name, cty.StringVal(v))
	}
}
