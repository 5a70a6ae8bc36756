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
	"path/filepath"

	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

const starterMain = "#include <cstdio>\n\n" +
	"int main() {\n" +
	"\tstd::printf(\"hello drakkar\\n\");\n" +
	"\treturn 0;\n" +
	"}\n"

const readmeTemplate = `# %s

Built with hbuild. Edit config.txt, then run:

    hbuild build
    hbuild run
`

func configTemplate(name string) string {
	return fmt.Sprintf(`app_name = %s
source_dir = src
output_dir = out
temp_dir = target
cxx_standard = c++17
incremental = true
parallel_jobs = auto
`, name)
}

// CreateSkeleton writes the fixed project skeleton (spec.md §6) under
// parent/name. Per spec.md §9's resolved open question, it refuses if the
// target directory already exists rather than overwriting.
func CreateSkeleton(parent, name string) error {
	root := filepath.Join(parent, name)
	if _, err := os.Stat(root); err == nil {
		return xerrors.Errorf("refusing to overwrite existing directory %s", root)
	}

	for _, dir := range []string{"src", "out", "target"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return xerrors.Errorf("mkdir %s: %w", dir, err)
		}
	}

	if err := renameio.WriteFile(filepath.Join(root, "src", "main.cpp"), []byte(starterMain), 0o644); err != nil {
		return xerrors.Errorf("write starter main.cpp: %w", err)
	}
	if err := renameio.WriteFile(filepath.Join(root, "config.txt"), []byte(configTemplate(name)), 0o644); err != nil {
		return xerrors.Errorf("write config.txt: %w", err)
	}
	readme := fmt.Sprintf(readmeTemplate, name)
	if err := renameio.WriteFile(filepath.Join(root, "README.md"), []byte(readme), 0o644); err != nil {
		return xerrors.Errorf("write README.md: %w", err)
	}
	return nil
}
