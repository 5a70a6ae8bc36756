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
	"testing"
)

func TestCreateSkeletonLayout(t *testing.T) {
	parent := t.TempDir()
	if err := CreateSkeleton(parent, "demo"); err != nil {
		t.Fatal(err)
	}
	root := filepath.Join(parent, "demo")
	for _, want := range []string{"src", "out", "target", "config.txt", "README.md", filepath.Join("src", "main.cpp")} {
		if _, err := os.Stat(filepath.Join(root, want)); err != nil {
			t.Errorf("expected %s to exist: %v", want, err)
		}
	}
}

func TestCreateSkeletonRefusesExisting(t *testing.T) {
	parent := t.TempDir()
	if err := CreateSkeleton(parent, "demo"); err != nil {
		t.Fatal(err)
	}
	if err := CreateSkeleton(parent, "demo"); err == nil {
		t.Error("want error when the target directory already exists")
	}
}
