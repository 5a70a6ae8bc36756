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
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileArgvDebugProfile(t *testing.T) {
	cfg := &ProjectConfig{CxxStandard: "c++17", CxxFlags: []string{"-Wall"}}
	tu := TranslationUnit{SourcePath: "main.cpp", Language: LangCPP, ObjectPath: "target/main.o", DepPath: "target/main.d"}
	argv := CompileArgv(cfg, tu, BuildOptions{Profile: ProfileDebug})

	want := []string{"-std=c++17", "-O0", "-g", "-Wall", "-MMD", "-MP", "-MF", "target/main.d", "-c", "-o", "target/main.o", "main.cpp"}
	if diff := cmp.Diff(want, argv); diff != "" {
		t.Errorf("CompileArgv mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileArgvExtraFlagsAppendedLast(t *testing.T) {
	cfg := &ProjectConfig{}
	tu := TranslationUnit{SourcePath: "a.c", Language: LangC, ObjectPath: "target/a.o", DepPath: "target/a.d"}
	argv := CompileArgv(cfg, tu, BuildOptions{Profile: ProfileRelease, ExtraFlags: []string{"-DFOO"}})

	if argv[len(argv)-1] != "-DFOO" {
		t.Errorf("want extra flag last, got argv=%v", argv)
	}
	want := []string{"-O2", "-DNDEBUG", "-MMD", "-MP", "-MF", "target/a.d", "-c", "-o", "target/a.o", "a.c", "-DFOO"}
	if diff := cmp.Diff(want, argv); diff != "" {
		t.Errorf("CompileArgv mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkArgvRpathFlagVerbatim(t *testing.T) {
	cfg := &ProjectConfig{AppName: "app", OutputDir: "out", LDFlags: []string{"-Wl,-O1"}}
	tus := []TranslationUnit{
		{ObjectPath: "target/main.o"},
	}
	argv := LinkArgv(cfg, tus)
	found := false
	for _, a := range argv {
		if a == "-Wl,-O1" {
			found = true
		}
	}
	if !found {
		t.Errorf("want -Wl,-O1 verbatim in argv, got %v", argv)
	}
}

func TestLinkDriverSelection(t *testing.T) {
	cOnly := []TranslationUnit{{Language: LangC}}
	if got := linkDriver(cOnly); got != "gcc" {
		t.Errorf("got %q, want gcc", got)
	}
	mixed := []TranslationUnit{{Language: LangC}, {Language: LangCPP}}
	if got := linkDriver(mixed); got != "g++" {
		t.Errorf("got %q, want g++", got)
	}
}

func TestCmdFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "main.cmd")
	argv := []string{"-O0", "-g", "-c"}
	if err := writeCmdFile(path, argv); err != nil {
		t.Fatal(err)
	}
	got, err := readCmdFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(argv, got); diff != "" {
		t.Errorf("cmd file round-trip mismatch (-want +got):\n%s", diff)
	}
}
