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

// Link always resolves gcc/g++ by name, so this test does not call Link
// itself. It checks the bookkeeping Link relies on through the
// lower-level helpers Link calls: the argv LinkArgv builds and the
// ld_flags fingerprint round trip through writeCmdFile/readCmdFile. The
// output directory is created by the test, not by Link.
func TestLinkArgvAndFingerprint(t *testing.T) {
	root := t.TempDir()
	cfg := &ProjectConfig{
		AppName:   "demo",
		SourceDir: filepath.Join(root, "src"),
		OutputDir: filepath.Join(root, "out"),
		TempDir:   filepath.Join(root, "target"),
		LDFlags:   []string{"-lm"},
	}

	tus := []TranslationUnit{newTranslationUnit(cfg, "main.cpp", LangCPP)}

	// outputBinaryPath and LinkArgv are pure; verify them directly so
	// this test does not depend on a real g++ being on PATH.
	argv := LinkArgv(cfg, tus)
	want := []string{tus[0].ObjectPath, "-lm", "-o", outputBinaryPath(cfg)}
	if len(argv) != len(want) {
		t.Fatalf("LinkArgv = %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("LinkArgv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := writeCmdFile(linkFingerprintPath(cfg), cfg.LDFlags); err != nil {
		t.Fatal(err)
	}
	got, err := readCmdFile(linkFingerprintPath(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "-lm" {
		t.Errorf("readCmdFile = %v, want [-lm]", got)
	}
}
