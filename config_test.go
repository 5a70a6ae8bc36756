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

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenizeValuePreservesCommas(t *testing.T) {
	got, err := tokenizeValue(`-Wl,-rpath,./lib -O2`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"-Wl,-rpath,./lib", "-O2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokenizeValue mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeValueQuotesAndEscapes(t *testing.T) {
	got, err := tokenizeValue(`"hello world" foo\ bar \"lit`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"hello world", "foo bar", "\"lit"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokenizeValue mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeValueEmpty(t *testing.T) {
	got, err := tokenizeValue("")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("want empty token sequence, got %v", got)
	}
}

func TestTokenizeValueUnterminatedQuote(t *testing.T) {
	_, err := tokenizeValue(`"unterminated`)
	if !xerrors.Is(err, ErrUnterminatedQuote) {
		t.Errorf("want ErrUnterminatedQuote, got %v", err)
	}
}

func TestLoadConfigMandatoryKeys(t *testing.T) {
	path := writeTempConfig(t, "app_name = demo\n")
	_, err := LoadConfig(path)
	if !xerrors.Is(err, ErrMissingKey) {
		t.Errorf("want ErrMissingKey, got %v", err)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeTempConfig(t, "app_name = demo\nbogus_key = 1\n")
	_, err := LoadConfig(path)
	if !xerrors.Is(err, ErrUnknownKey) {
		t.Errorf("want ErrUnknownKey, got %v", err)
	}
}

func TestLoadConfigBadInteger(t *testing.T) {
	path := writeTempConfig(t, "app_name = demo\nsource_dir = src\noutput_dir = out\ntemp_dir = target\nparallel_jobs = banana\n")
	_, err := LoadConfig(path)
	if !xerrors.Is(err, ErrBadInteger) {
		t.Errorf("want ErrBadInteger, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, `app_name = demo
source_dir = src
output_dir = out
temp_dir = target
ld_flags = "-Wl,-O1"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Incremental {
		t.Error("incremental should default true")
	}
	if cfg.ParallelJobs <= 0 {
		t.Error("parallel_jobs auto should resolve to a positive number")
	}
	want := []string{"-Wl,-O1"}
	if diff := cmp.Diff(want, cfg.LDFlags); diff != "" {
		t.Errorf("ld_flags mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigAppNameRejectsPathSeparators(t *testing.T) {
	path := writeTempConfig(t, "app_name = foo/bar\nsource_dir = src\noutput_dir = out\ntemp_dir = target\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("want error for app_name containing a path separator")
	}
}
