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
	"sync"

	"github.com/mattn/go-isatty"
)

var progressOnce sync.Once
var progressIsTerminal bool

func isTerminalStdout() bool {
	progressOnce.Do(func() {
		progressIsTerminal = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	})
	return progressIsTerminal
}

// printProgress prints one line per completed job, in completion order,
// per spec.md §4.G: "[n/N] <driver> <source>" plus a one-line status
// and any captured stderr. On success with empty stderr and
// non-verbose, only the status line is printed. On an interactive
// terminal a success line carries a carriage return so successive
// statuses overwrite in place; piped output gets one line per event,
// with TTY detection done by go-isatty rather than by hand.
func printProgress(n, total int, o JobOutcome) {
	status := "ok"
	switch o.Kind {
	case JobFailed:
		status = fmt.Sprintf("FAILED (exit %d)", o.ExitCode)
	case JobCancelled:
		status = "cancelled"
	case JobIOError:
		status = "I/O ERROR"
	}

	driver := o.TU.Language.Driver()
	prefix := fmt.Sprintf("[%d/%d] %s %s: %s", n, total, driver, o.TU.SourcePath, status)
	if isTerminalStdout() && o.Kind == JobSucceeded {
		fmt.Printf("\r%s\033[K", prefix)
	} else {
		fmt.Println(prefix)
	}

	if o.Stderr != "" {
		fmt.Print(o.Stderr)
	}
	if o.Kind != JobSucceeded && isTerminalStdout() {
		fmt.Println()
	}
}
