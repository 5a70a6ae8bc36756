// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hbuild

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.cpp"), "")
	mustWrite(t, filepath.Join(dir, "math", "utils.cpp"), "")
	mustWrite(t, filepath.Join(dir, "network", "utils.cpp"), "")
	mustWrite(t, filepath.Join(dir, "common.h"), "")
	mustWrite(t, filepath.Join(dir, "notes.txt"), "")

	cfg := &ProjectConfig{SourceDir: dir, TempDir: "target"}
	tus, err := Discover(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, tu := range tus {
		got = append(got, filepath.ToSlash(tu.SourcePath))
	}
	want := []string{"main.cpp", "math/utils.cpp", "network/utils.cpp"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverMissingSourceDir(t *testing.T) {
	cfg := &ProjectConfig{SourceDir: filepath.Join(t.TempDir(), "nope")}
	if _, err := Discover(cfg); err == nil {
		t.Error("want error for missing source_dir")
	}
}

func TestDiscoverEmptyDir(t *testing.T) {
	cfg := &ProjectConfig{SourceDir: t.TempDir()}
	tus, err := Discover(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(tus) != 0 {
		t.Errorf("want no TUs, got %v", tus)
	}
}
