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
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// recognizedKeys are the only keys §3's ProjectConfig accepts. An
// unrecognized key is a fatal configuration error naming file and line.
var recognizedKeys = map[string]bool{
	"app_name":      true,
	"source_dir":    true,
	"output_dir":    true,
	"temp_dir":      true,
	"c_flags":       true,
	"cxx_flags":     true,
	"ld_flags":      true,
	"c_standard":    true,
	"cxx_standard":  true,
	"incremental":   true,
	"parallel_jobs": true,
}

// LoadConfig parses path as a flat key = value file per spec.md §4.A.
func LoadConfig(path string) (*ProjectConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("open config: %w", err)
	}
	defer f.Close()

	raw := make(map[string][]string)
	sc := bufio.NewScanner(f)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, rest, ok := splitKeyValue(trimmed)
		if !ok {
			return nil, newConfigError(path, lineno, xerrors.Errorf("malformed line %q", line))
		}
		if !recognizedKeys[key] {
			return nil, newConfigError(path, lineno, xerrors.Errorf("%w: %q", ErrUnknownKey, key))
		}
		tokens, err := tokenizeValue(rest)
		if err != nil {
			return nil, newConfigError(path, lineno, err)
		}
		raw[key] = tokens
	}
	if err := sc.Err(); err != nil {
		return nil, xerrors.Errorf("read config: %w", err)
	}

	return buildConfig(path, raw)
}

// splitKeyValue splits "key = value" at the first '=' (quotes are not
// considered here). Commas
// and everything else inside value are left untouched here; value
// tokenization happens in tokenizeValue.
func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), line[i+1:], true
}

// tokenizeValue splits a value into argv-style tokens: unquoted
// whitespace separates tokens, double quotes make whitespace literal,
// backslash escapes the next character, and commas are ordinary
// characters that never split a token. Grounded in the teacher's
// strutil.go scanning style (newWordScanner / findLiteralChar): an
// explicit byte index stepping over escapes and quoted spans instead
// of strings.Fields.
func tokenizeValue(s string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	haveToken := false
	inQuote := false
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 >= n {
				return nil, ErrUnterminatedQuote
			}
			cur.WriteByte(s[i+1])
			haveToken = true
			i += 2
		case c == '"':
			inQuote = !inQuote
			haveToken = true
			i++
		case !inQuote && isConfigSpace(c):
			if haveToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				haveToken = false
			}
			i++
		default:
			cur.WriteByte(c)
			haveToken = true
			i++
		}
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if haveToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

func isConfigSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func joinOne(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

func buildConfig(path string, raw map[string][]string) (*ProjectConfig, error) {
	cfg := &ProjectConfig{
		Incremental: true,
	}

	for _, mandatory := range []string{"app_name", "source_dir", "output_dir", "temp_dir"} {
		if _, ok := raw[mandatory]; !ok {
			return nil, xerrors.Errorf("%w: %q", ErrMissingKey, mandatory)
		}
	}

	cfg.AppName = joinOne(raw["app_name"])
	if cfg.AppName == "" || strings.ContainsAny(cfg.AppName, "/\\") {
		return nil, xerrors.Errorf("app_name must be non-empty and contain no path separators, got %q", cfg.AppName)
	}
	cfg.SourceDir = joinOne(raw["source_dir"])
	cfg.OutputDir = joinOne(raw["output_dir"])
	cfg.TempDir = joinOne(raw["temp_dir"])

	cfg.CFlags = raw["c_flags"]
	cfg.CxxFlags = raw["cxx_flags"]
	cfg.LDFlags = raw["ld_flags"]

	cfg.CStandard = joinOne(raw["c_standard"])
	cfg.CxxStandard = joinOne(raw["cxx_standard"])

	if v, ok := raw["incremental"]; ok {
		s := strings.ToLower(joinOne(v))
		cfg.Incremental = s != "false" && s != "0"
	}

	jobs := runtime.NumCPU()
	if v, ok := raw["parallel_jobs"]; ok {
		s := joinOne(v)
		if s != "auto" && s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return nil, xerrors.Errorf("%w: %q", ErrBadInteger, s)
			}
			jobs = n
		}
	}
	cfg.ParallelJobs = jobs

	return cfg, nil
}
