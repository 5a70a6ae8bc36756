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

import "golang.org/x/xerrors"

// Sentinel errors for the config loader (spec.md §7, kind 1).
// ErrUnknownKey and ErrUnterminatedQuote are wrapped in a configError
// that names the file and line; ErrMissingKey and ErrBadInteger are
// wrapped with the key or value only, without file or line. Callers can
// match the root cause with xerrors.Is in every case.
var (
	ErrUnknownKey        = xerrors.New("unknown config key")
	ErrMissingKey        = xerrors.New("missing mandatory config key")
	ErrBadInteger        = xerrors.New("parallel_jobs is not an integer or \"auto\"")
	ErrUnterminatedQuote = xerrors.New("unterminated quote")

	// ErrSourceDirMissing is a discovery error (spec.md §7, kind 2).
	ErrSourceDirMissing = xerrors.New("source_dir does not exist or is not readable")

	// ErrCompileFailed marks a scheduler failure (spec.md §7, kind 4).
	ErrCompileFailed = xerrors.New("compile failed")

	// ErrLinkFailed marks a linker failure (spec.md §7, kind 5).
	ErrLinkFailed = xerrors.New("link failed")

	// ErrInterrupted marks a cancelled build (spec.md §7, kind 6).
	ErrInterrupted = xerrors.New("build interrupted")

	// ErrIOError marks a local filesystem failure writing the temp tree
	// after an otherwise-successful compile (spec.md §7, kind 7),
	// distinct from ErrCompileFailed.
	ErrIOError = xerrors.New("I/O error writing build tree")
)

// configError names the file and line responsible for a Config Loader
// failure, per spec.md §4.A's error contract.
type configError struct {
	file string
	line int
	err  error
}

func (e *configError) Error() string {
	return xerrors.Errorf("%s:%d: %w", e.file, e.line, e.err).Error()
}

func (e *configError) Unwrap() error { return e.err }

func newConfigError(file string, line int, err error) error {
	return &configError{file: file, line: line, err: err}
}
