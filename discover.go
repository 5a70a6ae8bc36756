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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/xerrors"
)

var cExtensions = map[string]Language{
	".c": LangC,

	".cpp": LangCPP,
	".cc":  LangCPP,
	".cxx": LangCPP,
}

// Discover walks cfg.SourceDir and returns every translation unit found,
// sorted lexicographically by source path for deterministic output
// (spec.md §4.B). Header files and anything else are ignored; they
// enter the build only through dep-file prerequisites.
func Discover(cfg *ProjectConfig) ([]TranslationUnit, error) {
	root := cfg.SourceDir
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, xerrors.Errorf("%w: %s", ErrSourceDirMissing, root)
	}

	var sourcePaths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return xerrors.Errorf("walk %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if _, ok := cExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			sourcePaths = append(sourcePaths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(sourcePaths)

	tus := make([]TranslationUnit, 0, len(sourcePaths))
	for _, rel := range sourcePaths {
		lang := cExtensions[strings.ToLower(filepath.Ext(rel))]
		tus = append(tus, newTranslationUnit(cfg, rel, lang))
	}
	return tus, nil
}
