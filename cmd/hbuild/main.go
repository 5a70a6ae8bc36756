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

// Command hbuild is a parallel, incremental build driver for mixed C
// and C++ source trees.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/golang/glog"
	"golang.org/x/xerrors"

	"github.com/hbuild/hbuild"
)

const usage = `hbuild is a parallel, incremental build driver for C/C++ projects.

Usage:

	hbuild create <name>
	hbuild build [release] [-verbose] [-parallel N] [-aggregate-errors] [-- extra compiler flags]
	hbuild run   [release] [-verbose] [-parallel N] [-aggregate-errors] [-- extra compiler flags]
	hbuild help

Exit codes: 0 success, 1 build failure, 2 usage error, 130 interrupted.
`

func main() {
	code := run(os.Args[1:])
	glog.Flush()
	os.Exit(code)
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "help", "-h", "-help", "--help":
		fmt.Print(usage)
		return 0
	case "create":
		return runCreate(rest)
	case "build":
		return runBuildOrRun(rest, false)
	case "run":
		return runBuildOrRun(rest, true)
	default:
		fmt.Fprintf(os.Stderr, "hbuild: unknown subcommand %q\n\n%s", sub, usage)
		return 2
	}
}

func runCreate(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "hbuild: create requires exactly one <name> argument")
		return 2
	}
	if err := hbuild.CreateSkeleton(".", args[0]); err != nil {
		glog.Errorf("create: %v", err)
		glog.Flush()
		return 1
	}
	return 0
}

func runBuildOrRun(args []string, thenRun bool) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "print the exact compiler/linker argv before spawning")
	parallel := fs.Int("parallel", 0, "override parallel_jobs from config.txt")
	aggregate := fs.Bool("aggregate-errors", false, "keep scheduling remaining jobs after a compile failure")

	profile := hbuild.ProfileDebug
	var positional, extra []string
	splitExtra(args, &positional, &extra)

	if len(positional) > 0 && positional[0] == "release" {
		profile = hbuild.ProfileRelease
		positional = positional[1:]
	}
	if err := fs.Parse(positional); err != nil {
		return 2
	}

	if *verbose {
		flag.Set("v", "1")
	}

	policy := hbuild.FailFast
	if *aggregate {
		policy = hbuild.Aggregate
	}

	root, err := os.Getwd()
	if err != nil {
		glog.Errorf("getwd: %v", err)
		return 1
	}
	ctx, err := hbuild.Load(root, filepath.Join(root, "config.txt"))
	if err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		return 2
	}

	opts := hbuild.BuildOptions{
		Profile:      profile,
		Verbose:      *verbose,
		ErrorPolicy:  policy,
		ExtraFlags:   extra,
		ParallelJobs: *parallel,
	}

	if err := ctx.Build(context.Background(), opts); err != nil {
		if xerrors.Is(err, hbuild.ErrInterrupted) {
			return 130
		}
		glog.Errorf("%v", err)
		glog.Flush()
		return 1
	}

	if !thenRun {
		return 0
	}
	return execBinary(ctx)
}

// splitExtra separates args into the flag/positional portion and the
// trailing "-- extra compiler flags" portion, the way the teacher's
// cmdline.go separates a flat argv into two classes by a single scan.
func splitExtra(args []string, positional, extra *[]string) {
	for i, a := range args {
		if a == "--" {
			*positional = append(*positional, args[:i]...)
			*extra = append(*extra, args[i+1:]...)
			return
		}
	}
	*positional = append(*positional, args...)
}

// execBinary runs the freshly linked executable with inherited stdio
// and forwards its exit code, per spec.md §9's resolved open question
// ("run rebuilds, then executes; treat as contract").
func execBinary(ctx *hbuild.Ctx) int {
	bin := filepath.Join(ctx.Config.OutputDir, ctx.Config.AppName)
	cmd := exec.Command(bin)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return ee.ExitCode()
		}
		glog.Errorf("run: %v", err)
		return 1
	}
	return 0
}
