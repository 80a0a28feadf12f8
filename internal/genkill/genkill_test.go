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

package genkill_test

import (
	"errors"
	"slices"
	"testing"

	"golang.org/x/tools/container/intsets"

	"fillmore-labs.com/lifespan/internal/collect"
	. "fillmore-labs.com/lifespan/internal/genkill"
	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/ir/irtest"
)

func TestSimpleScope(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 1)
	b0 := b.Block()

	want := []ir.Location{b.Stmt(b0, 1, irtest.Begin(x))}
	for line := 2; line <= 5; line++ {
		want = append(want, b.Stmt(b0, line))
	}

	want = append(want, b.Return(b0, 6, irtest.End(x)))

	live := analyze(t, b.Func())

	if got := live[ir.SlotID{Local: x}]; !slices.Equal(got, want) {
		t.Errorf("Got live locations %v, want %v", got, want)
	}
}

func TestBranches(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 1)
	b0, b1, b2, b3 := b.Block(), b.Block(), b.Block(), b.Block()

	gen := b.Stmt(b0, 1, irtest.Begin(x))
	branch := b.Term(b0, ir.Branch, 2, []ir.BlockID{b1, b2})
	kill := b.Stmt(b1, 3, irtest.End(x))
	b.Goto(b1, 4, b3)
	other := b.Goto(b2, 5, b3)
	join := b.Return(b3, 6)

	live := analyze(t, b.Func())

	want := []ir.Location{gen, branch, kill, other, join}
	slices.SortFunc(want, ir.Location.Compare)

	if got := live[ir.SlotID{Local: x}]; !slices.Equal(got, want) {
		t.Errorf("Got live locations %v, want %v", got, want)
	}
}

func TestLoop(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 1)
	y := b.Local("y", 3)
	b0, b1, b2 := b.Block(), b.Block(), b.Block()

	b.Stmt(b0, 1, irtest.Begin(x))
	b.Goto(b0, 2, b1)
	body := b.Stmt(b1, 3, irtest.Begin(y))
	b.Stmt(b1, 4, irtest.Drop(y))
	back := b.Term(b1, ir.Branch, 5, []ir.BlockID{b1, b2})
	b.Stmt(b2, 6, irtest.Move(x))
	b.Return(b2, 7)

	live := analyze(t, b.Func())

	xs := live[ir.SlotID{Local: x}]
	for _, loc := range []ir.Location{body, back} {
		if !slices.Contains(xs, loc) {
			t.Errorf("x not live at %v", loc)
		}
	}

	if ret := b.Func().TerminatorLocation(b2); slices.Contains(xs, ret) {
		t.Errorf("x live after move at %v", ret)
	}

	// y is killed before the back edge, so it is live only inside the body
	ys := live[ir.SlotID{Local: y}]
	if got, want := len(ys), 2; got != want {
		t.Errorf("Got %d live locations for y: %v, want %d", got, ys, want)
	}
}

func TestEmptyPrefix(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 3)
	b0, b1 := b.Block(), b.Block()

	b.Stmt(b0, 1)
	b.Goto(b0, 2, b1)
	gen := b.Stmt(b1, 3, irtest.Begin(x))
	ret := b.Return(b1, 4)

	live := analyze(t, b.Func())

	want := []ir.Location{gen, ret}
	if got := live[ir.SlotID{Local: x}]; !slices.Equal(got, want) {
		t.Errorf("Got live locations %v, want %v", got, want)
	}
}

func TestGenImpliesLive(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 1)
	b0, b1 := b.Block(), b.Block()

	b.Return(b0, 1)
	// b1 is unreachable, the declaration point is still reported
	gen := b.Stmt(b1, 2, irtest.Begin(x), irtest.End(x))
	b.Return(b1, 3)

	live := analyze(t, b.Func())

	if got, want := live[ir.SlotID{Local: x}], []ir.Location{gen}; !slices.Equal(got, want) {
		t.Errorf("Got live locations %v, want %v", got, want)
	}
}

func TestDegenerate(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 1)
	b0, b1 := b.Block(), b.Block()

	b.Stmt(b0, 1, irtest.Begin(x))
	b.Goto(b0, 2, b1)
	unreachable := b.Term(b1, ir.Unreachable, 3, nil)

	live := analyze(t, b.Func())

	if slices.Contains(live[ir.SlotID{Local: x}], unreachable) {
		t.Errorf("x reported live at unreachable terminator %v", unreachable)
	}
}

func TestNoLiveSlot(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	b.Local("unused", 1)
	b.Return(b.Block(), 1)

	if live := analyze(t, b.Func()); len(live) != 0 {
		t.Errorf("Got live slots %v, want none", live)
	}
}

func TestMonotonic(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 1)
	y := b.Local("y", 2)
	b0, b1, b2, b3 := b.Block(), b.Block(), b.Block(), b.Block()

	b.Stmt(b0, 1, irtest.Begin(x))
	b.Goto(b0, 2, b1)
	b.Stmt(b1, 3, irtest.Begin(y))
	b.Term(b1, ir.Branch, 4, []ir.BlockID{b2, b3})
	b.Stmt(b2, 5, irtest.End(y))
	b.Goto(b2, 6, b1)
	b.Return(b3, 7, irtest.End(x))

	fn := b.Func()
	updates := 0

	observer := func(loc ir.Location, old, updated *intsets.Sparse) {
		updates++

		if !old.SubsetOf(updated) {
			t.Errorf("Live set after %v shrank from %s to %s", loc, old, updated)
		}
	}

	if _, err := Analyze(t.Context(), fn, collect.Function(fn), WithObserver(observer)); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if updates == 0 {
		t.Error("Observer was never called")
	}
}

func TestNoConvergence(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	x := b.Local("x", 1)
	b0 := b.Block()

	b.Stmt(b0, 1, irtest.Begin(x))
	for line := 2; line < 10; line++ {
		b.Stmt(b0, line)
	}

	b.Return(b0, 10)

	fn := b.Func()

	_, err := Analyze(t.Context(), fn, collect.Function(fn), WithMaxVisits(5))
	if !errors.Is(err, ErrNoConvergence) {
		t.Errorf("Analyze error = %v, want %v", err, ErrNoConvergence)
	}
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(0, "f", "a.go")
	b.Stmt(b.Block(), 1)

	fn := b.Func()
	if _, err := Analyze(t.Context(), fn, collect.Function(fn)); !errors.Is(err, ir.ErrNoTerminator) {
		t.Errorf("Analyze error = %v, want %v", err, ir.ErrNoTerminator)
	}
}

func analyze(tb testing.TB, fn *ir.Function) LiveSet {
	tb.Helper()

	live, err := Analyze(tb.Context(), fn, collect.Function(fn))
	if err != nil {
		tb.Fatalf("Analyze failed: %v", err)
	}

	return live
}
