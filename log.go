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

import "github.com/golang/glog"

// logArgv prints the exact argv before spawning a child, gated behind
// -v=1, per spec.md §4.G's "when verbose, also print the exact argv"
// clause.
func logArgv(driver string, argv []string) {
	if glog.V(1) {
		glog.Infof("exec: %s %v", driver, argv)
	}
}

// logStale records why the oracle judged a TU stale, gated behind -v=1.
func logStale(sourcePath, reason string) {
	if glog.V(1) {
		glog.Infof("stale: %s: %s", sourcePath, reason)
	}
}
