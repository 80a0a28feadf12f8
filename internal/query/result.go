// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"fillmore-labs.com/lifespan/internal/ranges"
	"fillmore-labs.com/lifespan/internal/span"
)

// Result maps file names to the merged ranges found in them.
type Result map[string][]span.Range

func newResult(grouped map[string][]span.Range) Result {
	r := make(Result, len(grouped))
	for file, rs := range grouped {
		r[file] = ranges.Merge(rs)
	}

	return r
}

// Files returns the file names of r in ascending order.
func (r Result) Files() []string {
	return slices.Sorted(maps.Keys(r))
}

// Format writes r as a brace block, one file per line:
//
//	{
//		"src/a.go":"4:9: 7:2, 9:1: 9:20"
//	}
func (r Result) Format(w io.Writer) error {
	var b strings.Builder

	b.WriteString("{\n")

	for i, file := range r.Files() {
		if i > 0 {
			b.WriteString(",\n")
		}

		pos := make([]string, 0, len(r[file]))
		for _, rg := range r[file] {
			pos = append(pos, rg.PosString())
		}

		b.WriteByte('\t')
		b.WriteString(strconv.Quote(file))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(strings.Join(pos, ", ")))
	}

	if len(r) > 0 {
		b.WriteByte('\n')
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())

	return err
}

func (r Result) String() string {
	var b strings.Builder
	_ = r.Format(&b)

	return b.String()
}
