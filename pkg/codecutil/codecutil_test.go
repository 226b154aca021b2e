// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codecutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "args.txt")
	want := "-a -b\n-d value\n"
	if err := os.WriteFile(plain, []byte(want), 0o644); err != nil {
		t.Fatal(err)
	}
	packed := plain + ".zst"
	if err := ZstdCompress(plain, packed); err != nil {
		t.Fatalf("ZstdCompress() error = %v", err)
	}

	raw, err := os.ReadFile(packed)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) == want {
		t.Fatal("compressed file equals the input")
	}

	for _, path := range []string{plain, packed} {
		rc, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%s) error = %v", path, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Errorf("Open(%s) read %q, want %q", path, got, want)
		}
	}
}

func TestIsZstd(t *testing.T) {
	tests := map[string]bool{
		"a.zst":    true,
		"a.zstd":   true,
		"a.txt":    false,
		"zst":      false,
		"a.zst.gz": false,
	}
	for path, want := range tests {
		if got := IsZstd(path); got != want {
			t.Errorf("IsZstd(%q) = %v, want %v", path, got, want)
		}
	}
}
