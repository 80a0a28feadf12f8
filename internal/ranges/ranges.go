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

// Package ranges turns sets of locations into minimal sets of source ranges.
package ranges

import (
	"maps"
	"slices"

	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/span"
)

// Set holds source ranges grouped by file name.
type Set map[string][]span.Range

// Add appends r to the ranges of its file.
func (s Set) Add(r span.Range) {
	s[r.Filename] = append(s[r.Filename], r)
}

// Files returns the file names of s in ascending order.
func (s Set) Files() []string {
	return slices.Sorted(maps.Keys(s))
}

// All returns the ranges of s, ordered by file and position.
func (s Set) All() []span.Range {
	var all []span.Range
	for _, file := range s.Files() {
		all = append(all, s[file]...)
	}

	return all
}

// FromLocations maps every location of fn to the span of its instruction.
// Locations without source information are skipped.
func FromLocations(fn *ir.Function, locs []ir.Location) Set {
	s := make(Set)

	for _, loc := range locs {
		if r := fn.Span(loc); !r.IsZero() {
			s.Add(r)
		}
	}

	return s
}

// Merge returns a new set where the ranges of every file are merged.
func (s Set) Merge() Set {
	merged := make(Set, len(s))
	for file, rs := range s {
		merged[file] = Merge(rs)
	}

	return merged
}

// Merge combines overlapping or touching ranges of a single file.
//
// The first pending range absorbs every other pending range it can merge
// with. When anything was absorbed the grown range is queued again, since
// it may now reach ranges it missed before; otherwise it is final.
//
// The result contains no two mergeable ranges and is sorted by position.
// rs is not modified.
func Merge(rs []span.Range) []span.Range {
	pending := slices.Clone(rs)

	var done []span.Range

	for len(pending) > 0 {
		cur := pending[0]
		rest := pending[1:]

		absorbed := false
		keep := rest[:0]

		for _, r := range rest {
			if cur.Mergeable(r) {
				cur = cur.Union(r)
				absorbed = true

				continue
			}

			keep = append(keep, r)
		}

		if absorbed {
			pending = append(keep, cur)

			continue
		}

		done = append(done, cur)
		pending = keep
	}

	slices.SortFunc(done, span.Range.Compare)

	return done
}

// Extent returns the source range of a whole function.
//
// The extent begins at the first statement of the entry block, or at its
// terminator when the entry block has no statements, and ends at the largest
// end position of any non-degenerate terminator in the same file.
// ok is false when the function has no source information.
func Extent(fn *ir.Function) (r span.Range, ok bool) {
	if len(fn.Blocks) == 0 {
		return span.Range{}, false
	}

	r = fn.Span(fn.Entry())
	if r.IsZero() {
		return span.Range{}, false
	}

	for _, block := range fn.Blocks {
		t := block.Terminator
		if t == nil || t.Degenerate() || t.Span.Filename != r.Filename {
			continue
		}

		if r.End.Before(t.Span.End) {
			r.End = t.Span.End
		}
	}

	return r, true
}
