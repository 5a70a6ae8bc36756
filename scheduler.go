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
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// registry is the mutex-protected map from TU identity to the child
// process presently compiling it (spec.md §5's "child-process
// registry"). The spawning worker inserts on spawn and removes on
// reap; the interrupt handler only ever reads it to issue Kill.
// Grounded conceptually in distr1-distri/internal/oninterrupt's
// registered-callback list, generalized from a slice of closures to a
// map of live children.
type registry struct {
	mu       sync.Mutex
	children map[string]*exec.Cmd
}

func newRegistry() *registry {
	return &registry{children: make(map[string]*exec.Cmd)}
}

func (r *registry) insert(key string, cmd *exec.Cmd) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.children[key] = cmd
}

func (r *registry) remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.children, key)
}

// killAll terminates every presently-registered child. Called by the
// interrupt handler (interrupt.go) on the first SIGINT.
func (r *registry) killAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cmd := range r.children {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}
}

// Scheduler drives the bounded worker pool that compiles a BuildPlan's
// stale translation units (spec.md §4.G/§5). Grounded in the teacher's
// worker.go job-channel/done-channel pool shape, generalized from one
// Makefile-rule job to one compile-TU job. The workers run in a
// golang.org/x/sync/errgroup group, the way
// distr1-distri/internal/batch/batch.go drives its own parallel
// package-build fan-out; cancellation is the atomic cancelled flag, and
// compile failures are collected from the JobOutcomes, not from errgroup.
type Scheduler struct {
	Cfg  *ProjectConfig
	Opts BuildOptions

	reg       *registry
	cancelled atomic.Bool

	// driverFor resolves a TU's compiler driver. Defaults to
	// tu.Language.Driver(); overridable in tests so the scheduler can
	// be exercised without a real gcc/g++ on PATH.
	driverFor func(Language) string
}

// NewScheduler constructs a Scheduler. An interrupt handler can be
// wired to it (through Cancel) before Run starts.
func NewScheduler(cfg *ProjectConfig, opts BuildOptions) *Scheduler {
	return &Scheduler{
		Cfg:       cfg,
		Opts:      opts,
		reg:       newRegistry(),
		driverFor: func(l Language) string { return l.Driver() },
	}
}

// Cancel sets the cancellation flag and kills every active child. Safe
// to call from the interrupt handler's goroutine.
func (s *Scheduler) Cancel() {
	s.cancelled.Store(true)
	s.reg.killAll()
}

// Run compiles every stale TU in plan across s.Opts.ParallelJobs
// workers and returns the outcomes in completion order (spec.md §4.G).
// err is non-nil whenever at least one job failed or the scheduler was
// cancelled; the caller (build.go) uses it to decide whether to run
// the link stage.
func (s *Scheduler) Run(ctx context.Context, plan BuildPlan) ([]JobOutcome, error) {
	if len(plan.Stale) == 0 {
		fmt.Println("up-to-date")
		return nil, nil
	}

	jobs := make(chan TranslationUnit)
	results := make(chan JobOutcome)

	g, gctx := errgroup.WithContext(ctx)

	workers := s.Opts.ParallelJobs
	if workers <= 0 {
		workers = 1
	}

	// workerWG tracks worker completion independently of errgroup, so
	// results can be closed once every worker is done even though no
	// worker ever returns a non-nil error on this path (a compile
	// failure is a JobOutcome, not a Go error) and gctx is therefore
	// never cancelled by errgroup itself.
	var workerWG sync.WaitGroup
	workerWG.Add(workers)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			defer workerWG.Done()
			for tu := range jobs {
				outcome := s.runOne(gctx, tu)
				select {
				case results <- outcome:
				case <-gctx.Done():
					return gctx.Err()
				}
				// A compile failure cancels only in fail-fast mode; an
				// I/O error (spec.md §7 kind 7) is fatal unconditionally,
				// since it means the temp tree itself can no longer be
				// trusted.
				if outcome.Kind == JobIOError || (outcome.Kind == JobFailed && s.Opts.ErrorPolicy == FailFast) {
					s.Cancel()
				}
			}
			return nil
		})
	}
	go func() {
		workerWG.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, tu := range plan.Stale {
			if s.cancelled.Load() {
				return
			}
			select {
			case jobs <- tu:
			case <-gctx.Done():
				return
			}
		}
	}()

	var outcomes []JobOutcome
	done := make(chan struct{})
	go func() {
		defer close(done)
		for o := range results {
			outcomes = append(outcomes, o)
			printProgress(len(outcomes), len(plan.Stale), o)
		}
	}()

	waitErr := g.Wait()
	<-done

	if waitErr != nil {
		return outcomes, waitErr
	}
	// Check outcomes for a concrete cause before falling back to
	// ErrInterrupted: fail-fast cancellation and an I/O error both set
	// s.cancelled too, and reporting those as a plain interrupt would
	// both misreport the cause and give the CLI frame the wrong exit
	// code (130 instead of 1).
	for _, o := range outcomes {
		if o.Kind == JobIOError {
			return outcomes, ErrIOError
		}
	}
	for _, o := range outcomes {
		if o.Kind == JobFailed {
			return outcomes, ErrCompileFailed
		}
	}
	if s.cancelled.Load() {
		return outcomes, ErrInterrupted
	}
	return outcomes, nil
}

// runOne compiles a single TU: spawn, register, capture output into a
// per-TU buffer (so distinct TUs never interleave when printed), wait,
// deregister, record the fingerprint on success.
func (s *Scheduler) runOne(ctx context.Context, tu TranslationUnit) JobOutcome {
	if s.cancelled.Load() {
		return JobOutcome{TU: tu, Kind: JobCancelled}
	}

	argv := CompileArgv(s.Cfg, tu, s.Opts)
	driver := s.driverFor(tu.Language)
	logArgv(driver, argv)
	if s.Opts.Verbose {
		fmt.Printf("%s %s\n", driver, argv)
	}

	cmd := exec.CommandContext(ctx, driver, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return JobOutcome{TU: tu, Kind: JobFailed, ExitCode: -1, Stderr: err.Error()}
	}
	s.reg.insert(tu.SourcePath, cmd)
	err := cmd.Wait()
	s.reg.remove(tu.SourcePath)

	if s.cancelled.Load() {
		return JobOutcome{TU: tu, Kind: JobCancelled, Stdout: stdout.String(), Stderr: stderr.String()}
	}
	if err != nil {
		return JobOutcome{
			TU:       tu,
			Kind:     JobFailed,
			ExitCode: exitCode(err),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}

	if err := writeCmdFile(tu.CmdPath, argv); err != nil {
		// The compile itself succeeded; this is a kind-7 I/O error, not
		// a kind-4 compile failure, so it gets its own Kind and no
		// fabricated exit code.
		return JobOutcome{TU: tu, Kind: JobIOError, Stdout: stdout.String(), Stderr: err.Error()}
	}

	return JobOutcome{TU: tu, Kind: JobSucceeded, Stdout: stdout.String(), Stderr: stderr.String()}
}

func exitCode(err error) int {
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}
