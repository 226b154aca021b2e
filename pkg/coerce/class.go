// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"net/url"
	"reflect"
	"sync"
	"time"

	"tailscale.com/types/lazy"
)

var (
	builtinClasses lazy.SyncValue[map[string]reflect.Type]

	classMu sync.RWMutex
	classes map[string]reflect.Type // registered with RegisterClass
)

func newBuiltinClasses() map[string]reflect.Type {
	m := make(map[string]reflect.Type)
	for _, v := range []any{
		"", false,
		int(0), int8(0), int16(0), int32(0), int64(0),
		uint(0), uint8(0), uint16(0), uint32(0), uint64(0),
		float32(0), float64(0),
		time.Duration(0), time.Time{}, url.URL{},
		Path(""),
	} {
		t := reflect.TypeOf(v)
		m[t.String()] = t
	}
	return m
}

// RegisterClass makes t resolvable by name for the Class and Object types.
// Registering a name again replaces the previous type.
func RegisterClass(name string, t reflect.Type) {
	classMu.Lock()
	defer classMu.Unlock()
	if classes == nil {
		classes = make(map[string]reflect.Type)
	}
	classes[name] = t
}

func lookupClass(name string) (reflect.Type, bool) {
	classMu.RLock()
	t, ok := classes[name]
	classMu.RUnlock()
	if ok {
		return t, true
	}
	t, ok = builtinClasses.Get(newBuiltinClasses)[name]
	return t, ok
}
