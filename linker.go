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
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/xerrors"
)

// Link runs the final link step (spec.md §4.H), streaming its output
// directly to the user's terminal rather than buffering it, grounded
// in the teacher's direct exec.Cmd usage in evalcmd.go's runner.run,
// minus the stdout/stderr capture the scheduler needs for per-TU
// buffering: the link step is a single synchronous child, so there is
// nothing to keep from interleaving.
func Link(cfg *ProjectConfig, tus []TranslationUnit) error {
	driver := linkDriver(tus)
	argv := LinkArgv(cfg, tus)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return xerrors.Errorf("mkdir %s: %w", cfg.OutputDir, err)
	}

	logArgv(driver, argv)
	fmt.Printf("linking %s\n", outputBinaryPath(cfg))

	cmd := exec.Command(driver, argv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return xerrors.Errorf("%w: %v", ErrLinkFailed, err)
	}

	if err := writeCmdFile(linkFingerprintPath(cfg), cfg.LDFlags); err != nil {
		return err
	}
	return nil
}
