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

// Package span defines source positions and ranges together with their
// textual wire format "file:line:col: line:col".
package span

import (
	"cmp"
	"fmt"
	"go/token"
)

// Position is a line and column in a source file. Both are 1-based.
type Position struct {
	Line, Column int
}

// Compare orders positions by line, then by column.
func (p Position) Compare(o Position) int {
	if c := cmp.Compare(p.Line, o.Line); c != 0 {
		return c
	}

	return cmp.Compare(p.Column, o.Column)
}

// Before reports whether p strictly precedes o.
func (p Position) Before(o Position) bool { return p.Compare(o) < 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open region of a single source file.
type Range struct {
	Filename   string
	Begin, End Position
}

// FromPositions converts a pair of [token.Position] into a [Range].
func FromPositions(from, to token.Position) Range {
	return Range{
		Filename: from.Filename,
		Begin:    Position{from.Line, from.Column},
		End:      Position{to.Line, to.Column},
	}
}

// Mergeable reports whether r and o overlap or touch.
// Ranges are only kept apart when one ends strictly before the other begins.
// Ranges in different files are never mergeable.
func (r Range) Mergeable(o Range) bool {
	if r.Filename != o.Filename {
		return false
	}

	return !r.End.Before(o.Begin) && !o.End.Before(r.Begin)
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	u := r
	if o.Begin.Before(u.Begin) {
		u.Begin = o.Begin
	}

	if u.End.Before(o.End) {
		u.End = o.End
	}

	return u
}

// ContainedBy reports whether r lies within o.
func (r Range) ContainedBy(o Range) bool {
	return r.Filename == o.Filename && !r.Begin.Before(o.Begin) && !o.End.Before(r.End)
}

// Compare orders ranges by filename, begin and end.
func (r Range) Compare(o Range) int {
	if c := cmp.Compare(r.Filename, o.Filename); c != 0 {
		return c
	}

	if c := r.Begin.Compare(o.Begin); c != 0 {
		return c
	}

	return r.End.Compare(o.End)
}

// IsZero reports whether r carries no position information.
func (r Range) IsZero() bool {
	return r == Range{}
}

// String formats r in the wire format "file:line:col: line:col".
func (r Range) String() string {
	return fmt.Sprintf("%s:%d:%d: %d:%d", r.Filename, r.Begin.Line, r.Begin.Column, r.End.Line, r.End.Column)
}

// PosString formats r without the file name, "line:col: line:col".
func (r Range) PosString() string {
	return fmt.Sprintf("%d:%d: %d:%d", r.Begin.Line, r.Begin.Column, r.End.Line, r.End.Column)
}
