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
	"strings"

	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// BuildOptions carries the per-invocation choices spec.md §6's CLI
// frame parses out of "build [release] [--verbose] [--parallel N]
// [--aggregate-errors] [-- extra]" and hands to the core.
type BuildOptions struct {
	Profile      Profile
	Verbose      bool
	ErrorPolicy  ErrorPolicy
	ExtraFlags   []string
	ParallelJobs int
}

// CompileArgv assembles argv for one compile step, per spec.md §4.F.
// The -std= flag (when configured) comes first, then profile flags
// (before user flags, so user flags can override them), then user
// flags, then dependency-emission flags, then -c -o <obj> <src>, then
// the CLI's trailing "-- extra" flags appended last.
func CompileArgv(cfg *ProjectConfig, tu TranslationUnit, opts BuildOptions) []string {
	var argv []string

	if std := standardFlag(cfg, tu.Language); std != "" {
		argv = append(argv, std)
	}
	argv = append(argv, profileFlags(opts.Profile)...)
	argv = append(argv, userFlags(cfg, tu.Language)...)
	argv = append(argv, "-MMD", "-MP", "-MF", tu.DepPath)
	argv = append(argv, "-c", "-o", tu.ObjectPath, filepath.Join(cfg.SourceDir, tu.SourcePath))
	argv = append(argv, opts.ExtraFlags...)
	return argv
}

func standardFlag(cfg *ProjectConfig, lang Language) string {
	if lang == LangCPP {
		if cfg.CxxStandard != "" {
			return "-std=" + cfg.CxxStandard
		}
		return ""
	}
	if cfg.CStandard != "" {
		return "-std=" + cfg.CStandard
	}
	return ""
}

func profileFlags(p Profile) []string {
	if p == ProfileRelease {
		return []string{"-O2", "-DNDEBUG"}
	}
	return []string{"-O0", "-g"}
}

func userFlags(cfg *ProjectConfig, lang Language) []string {
	if lang == LangCPP {
		return cfg.CxxFlags
	}
	return cfg.CFlags
}

// LinkArgv assembles argv for the link step, per spec.md §4.F: every
// object path, then tokenized ld_flags, then -o <output>.
func LinkArgv(cfg *ProjectConfig, tus []TranslationUnit) []string {
	var argv []string
	for _, tu := range tus {
		argv = append(argv, tu.ObjectPath)
	}
	argv = append(argv, cfg.LDFlags...)
	argv = append(argv, "-o", outputBinaryPath(cfg))
	return argv
}

// linkDriver returns g++ if any TU is CPP, else gcc (spec.md §4.F).
func linkDriver(tus []TranslationUnit) string {
	for _, tu := range tus {
		if tu.Language == LangCPP {
			return LangCPP.Driver()
		}
	}
	return LangC.Driver()
}

// writeCmdFile records argv as the command-line fingerprint for tu,
// one token per line (spec.md §6), written atomically with renameio so
// a crash mid-write never leaves a fingerprint the oracle could
// mistake for a valid "last build command" record.
func writeCmdFile(path string, argv []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Errorf("mkdir for %s: %w", path, err)
	}
	content := strings.Join(argv, "\n")
	if err := renameio.WriteFile(path, []byte(content), 0o644); err != nil {
		return xerrors.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readCmdFile reads back a fingerprint written by writeCmdFile. A
// missing or unreadable file is returned as an error; callers treat
// that error as "no previous record" and therefore as a change. An
// empty file reads back as the empty slice.
func readCmdFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	return strings.Split(string(data), "\n"), nil
}
