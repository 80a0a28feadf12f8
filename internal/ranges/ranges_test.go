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

package ranges_test

import (
	"slices"
	"testing"

	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/ir/irtest"
	. "fillmore-labs.com/lifespan/internal/ranges"
	"fillmore-labs.com/lifespan/internal/span"
)

func parseAll(tb testing.TB, ss ...string) []span.Range {
	tb.Helper()

	rs := make([]span.Range, 0, len(ss))
	for _, s := range ss {
		r, err := span.Parse(s)
		if err != nil {
			tb.Fatalf("Can't parse %q: %v", s, err)
		}

		rs = append(rs, r)
	}

	return rs
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"single", []string{"a.go:1:1: 1:5"}, []string{"a.go:1:1: 1:5"}},
		{"touching", []string{"a.go:1:1: 1:5", "a.go:1:5: 2:1"}, []string{"a.go:1:1: 2:1"}},
		{"overlapping", []string{"a.go:1:1: 3:1", "a.go:2:1: 4:1"}, []string{"a.go:1:1: 4:1"}},
		{"nested", []string{"a.go:1:1: 9:1", "a.go:2:1: 3:1"}, []string{"a.go:1:1: 9:1"}},
		{"gap", []string{"a.go:3:1: 4:1", "a.go:1:1: 2:1"}, []string{"a.go:1:1: 2:1", "a.go:3:1: 4:1"}},
		{
			"bridge",
			[]string{"a.go:1:1: 2:1", "a.go:3:1: 4:1", "a.go:2:1: 3:1"},
			[]string{"a.go:1:1: 4:1"},
		},
		{
			"late bridge",
			[]string{"a.go:5:1: 6:1", "a.go:1:1: 2:1", "a.go:6:1: 7:1", "a.go:2:1: 5:1"},
			[]string{"a.go:1:1: 7:1"},
		},
		{"duplicates", []string{"a.go:1:1: 2:1", "a.go:1:1: 2:1"}, []string{"a.go:1:1: 2:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := parseAll(t, tt.in...)
			orig := slices.Clone(in)

			got := Merge(in)

			if want := parseAll(t, tt.want...); !slices.Equal(got, want) {
				t.Errorf("Got %v, want %v", got, want)
			}

			if !slices.Equal(in, orig) {
				t.Errorf("Merge modified its input: %v", in)
			}

			for i := range got {
				for j := i + 1; j < len(got); j++ {
					if got[i].Mergeable(got[j]) {
						t.Errorf("Result ranges %v and %v are still mergeable", got[i], got[j])
					}
				}
			}
		})
	}
}

func TestSetMerge(t *testing.T) {
	t.Parallel()

	s := make(Set)
	for _, r := range parseAll(t, "b.go:1:1: 2:1", "a.go:1:1: 2:1", "b.go:2:1: 3:1", "a.go:1:1: 2:1") {
		s.Add(r)
	}

	got := s.Merge()

	if files, want := got.Files(), []string{"a.go", "b.go"}; !slices.Equal(files, want) {
		t.Errorf("Got files %v, want %v", files, want)
	}

	if all, want := got.All(), parseAll(t, "a.go:1:1: 2:1", "b.go:1:1: 3:1"); !slices.Equal(all, want) {
		t.Errorf("Got ranges %v, want %v", all, want)
	}
}

func TestFromLocations(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	b0, b1 := b.Block(), b.Block()
	l1 := b.Stmt(b0, 1)
	l2 := b.Goto(b0, 2, b1)
	l3 := b.Term(b1, ir.Unreachable, 0, nil)

	fn := b.Func()
	fn.Blocks[b1].Terminator.Span = span.Range{}

	got := FromLocations(fn, []ir.Location{l1, l2, l3}).Merge()

	if all, want := got.All(), parseAll(t, "a.go:1:1: 3:1"); !slices.Equal(all, want) {
		t.Errorf("Got ranges %v, want %v", all, want)
	}
}

func TestExtent(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	b0, b1, b2, b3 := b.Block(), b.Block(), b.Block(), b.Block()
	b.Stmt(b0, 3)
	b.Term(b0, ir.Branch, 4, []ir.BlockID{b1, b2})
	b.Return(b1, 9)
	b.Return(b2, 6)
	b.Term(b3, ir.Unreachable, 20, nil)

	got, ok := Extent(b.Func())
	if !ok {
		t.Fatal("Expected function extent")
	}

	if want := parseAll(t, "a.go:3:1: 10:1")[0]; got != want {
		t.Errorf("Got extent %v, want %v", got, want)
	}
}

func TestExtentNoStatements(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	b.Return(b.Block(), 7)

	got, ok := Extent(b.Func())
	if !ok {
		t.Fatal("Expected function extent")
	}

	if want := parseAll(t, "a.go:7:1: 8:1")[0]; got != want {
		t.Errorf("Got extent %v, want %v", got, want)
	}
}

func TestExtentOtherFile(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	b0, b1 := b.Block(), b.Block()
	b.Goto(b0, 2, b1)
	b.Return(b1, 8)

	fn := b.Func()
	fn.Blocks[b1].Terminator.Span.Filename = "b.go"

	got, ok := Extent(fn)
	if !ok {
		t.Fatal("Expected function extent")
	}

	if want := parseAll(t, "a.go:2:1: 3:1")[0]; got != want {
		t.Errorf("Got extent %v, want %v", got, want)
	}
}

func TestExtentNoSpan(t *testing.T) {
	t.Parallel()

	fn := &ir.Function{Blocks: []*ir.Block{{Terminator: &ir.Terminator{Kind: ir.Return}}}}

	if r, ok := Extent(fn); ok {
		t.Errorf("Got extent %v for function without source information", r)
	}
}
