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

import "os"

// unknownDepRecord is returned whenever a .d file is missing, unreadable,
// or fails to parse — spec.md §4.D/§4.E treat all three the same: force
// a rebuild rather than guess at prerequisites.
func unknownDepRecord() DepRecord {
	return DepRecord{Unknown: true}
}

// parseDepFile reads a GCC-emitted Makefile-fragment dependency file
// (spec.md §4.D): strip line continuations, split at the first
// unescaped ':', tokenize the prerequisite side on unescaped
// whitespace, unescape "\ " and "\\". Grounded in the teacher's
// dep.go/rule_parser.go target:prereqs split, simplified to a single
// target since a .d file never defines more than one real rule.
func parseDepFile(path string) DepRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		return unknownDepRecord()
	}
	return parseDepBytes(data)
}

func parseDepBytes(data []byte) DepRecord {
	joined := stripContinuations(data)

	// -MP appends one bare "header:" phony line per prerequisite, each
	// on its own (non-continued) line, after the real target's rule.
	// The real rule is always the first non-blank logical line.
	var targetLine []byte
	for _, line := range splitLines(joined) {
		if len(trimASCIISpace(line)) == 0 {
			continue
		}
		targetLine = line
		break
	}
	if targetLine == nil {
		return unknownDepRecord()
	}

	colon := findUnescapedColon(targetLine)
	if colon < 0 {
		return unknownDepRecord()
	}
	prereqSide := targetLine[colon+1:]

	prereqs := tokenizeDepWords(prereqSide)
	return DepRecord{Prereqs: prereqs}
}

func splitLines(s []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func trimASCIISpace(s []byte) []byte {
	i, j := 0, len(s)
	for i < j && isConfigSpace(s[i]) {
		i++
	}
	for j > i && isConfigSpace(s[j-1]) {
		j--
	}
	return s[i:j]
}

// stripContinuations replaces each "\\\n" with a single space so a
// multi-line dependency list reads as one logical line; the indentation
// that follows is left for the word tokenizer to skip.
func stripContinuations(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+1 < len(data) && data[i+1] == '\n' {
			out = append(out, ' ')
			i++
			continue
		}
		out = append(out, data[i])
	}
	return out
}

// findUnescapedColon returns the index of the first ':' not preceded by
// an odd number of backslashes (i.e. not escaped), or -1 if none.
func findUnescapedColon(s []byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == ':' {
			return i
		}
	}
	return -1
}

// tokenizeDepWords splits s on unescaped whitespace, unescaping "\ " and
// "\\" in each resulting word.
func tokenizeDepWords(s []byte) []string {
	var words []string
	var cur []byte
	have := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '\\'):
			cur = append(cur, s[i+1])
			have = true
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if have {
				words = append(words, string(cur))
				cur = nil
				have = false
			}
		default:
			cur = append(cur, c)
			have = true
		}
	}
	if have {
		words = append(words, string(cur))
	}
	return words
}
