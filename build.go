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
	"context"

	"github.com/golang/glog"
	"golang.org/x/xerrors"
)

// Ctx is a build context: configuration plus the state a single
// invocation of "build" or "run" threads through the pipeline.
// Grounded in distr1-distri/internal/batch/batch.go's Ctx, which holds
// configuration and exposes one top-level method (there: Build;
// here: Build) sequencing the whole pipeline.
type Ctx struct {
	ProjectRoot string
	Config      *ProjectConfig
}

// Load reads config.txt at root and returns a ready-to-use Ctx.
func Load(root, configFile string) (*Ctx, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, xerrors.Errorf("load config: %w", err)
	}
	return &Ctx{ProjectRoot: root, Config: cfg}, nil
}

// Build runs the full pipeline: discover -> mirror -> plan -> schedule
// -> link (spec.md §2's data flow A -> B -> C -> (D, E) -> G -> H).
// It installs its own interrupt handler before the scheduling phase
// (spec.md §4.I) and removes it when Build returns.
func (c *Ctx) Build(ctx context.Context, opts BuildOptions) error {
	if opts.ParallelJobs <= 0 {
		opts.ParallelJobs = c.Config.ParallelJobs
	}

	tus, err := Discover(c.Config)
	if err != nil {
		return xerrors.Errorf("discover: %w", err)
	}

	plan := Plan(c.Config, tus, opts)

	sched := NewScheduler(c.Config, opts)
	stop := WatchInterrupt(sched)
	defer stop()

	outcomes, err := sched.Run(ctx, plan)
	if err != nil {
		if opts.ErrorPolicy == Aggregate {
			printFailureSummary(outcomes)
		}
		return err
	}

	if !plan.NeedsLink {
		return nil
	}

	glog.V(1).Infof("linking %d objects", len(tus))
	if err := Link(c.Config, tus); err != nil {
		return err
	}
	return nil
}

// printFailureSummary prints every failure in completion order, per
// spec.md §4.G's aggregate-mode contract. Compile failures (kind 4) and
// I/O errors (kind 7) are reported separately since they are distinct
// error kinds with distinct causes.
func printFailureSummary(outcomes []JobOutcome) {
	var compileFailures, ioErrors []JobOutcome
	for _, o := range outcomes {
		switch o.Kind {
		case JobFailed:
			compileFailures = append(compileFailures, o)
		case JobIOError:
			ioErrors = append(ioErrors, o)
		}
	}
	if len(compileFailures) > 0 {
		glog.Errorf("%d compile job(s) failed:", len(compileFailures))
		for _, f := range compileFailures {
			glog.Errorf("  %s (exit %d)", f.TU.SourcePath, f.ExitCode)
		}
	}
	if len(ioErrors) > 0 {
		glog.Errorf("%d job(s) hit an I/O error after compiling:", len(ioErrors))
		for _, f := range ioErrors {
			glog.Errorf("  %s: %s", f.TU.SourcePath, f.Stderr)
		}
	}
}
