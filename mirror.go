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
	"strings"
)

// newTranslationUnit mirrors a source path under cfg.TempDir, replacing
// its extension with .o/.d/.cmd while preserving the subdirectory
// structure verbatim (spec.md §4.C). The mapping is injective on
// filesystem-distinct source paths because filepath.Rel(root, path) is
// injective and we only ever replace a trailing extension.
func newTranslationUnit(cfg *ProjectConfig, rel string, lang Language) TranslationUnit {
	base := replaceExt(rel, "")
	return TranslationUnit{
		SourcePath: rel,
		Language:   lang,
		ObjectPath: filepath.Join(cfg.TempDir, base+".o"),
		DepPath:    filepath.Join(cfg.TempDir, base+".d"),
		CmdPath:    filepath.Join(cfg.TempDir, base+".cmd"),
	}
}

// replaceExt drops rel's extension and appends newExt.
func replaceExt(rel, newExt string) string {
	ext := filepath.Ext(rel)
	return strings.TrimSuffix(rel, ext) + newExt
}

// outputBinaryPath is the final linked artifact's path (spec.md §6).
func outputBinaryPath(cfg *ProjectConfig) string {
	return filepath.Join(cfg.OutputDir, cfg.AppName)
}
