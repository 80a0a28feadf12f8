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

package collect_test

import (
	"slices"
	"testing"

	. "fillmore-labs.com/lifespan/internal/collect"
	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/ir/irtest"
)

func TestFunction(t *testing.T) {
	t.Parallel()

	b := irtest.NewFunc(1, "f", "a.go")
	x := b.Local("x", 1)
	y := b.Local("y", 2)
	b0, b1 := b.Block(), b.Block()
	begin := b.Stmt(b0, 1, irtest.Begin(x))
	b.Stmt(b0, 2, irtest.Begin(y), irtest.Read(x))
	move := b.Goto(b0, 3, b1, irtest.Move(y))
	drop := b.Stmt(b1, 4, irtest.Drop(x))
	end := b.Return(b1, 5, irtest.End(x), irtest.End(99))

	slots := Function(b.Func())

	if got, want := len(slots), 2; got != want {
		t.Fatalf("Got %d slots, want %d", got, want)
	}

	xi := slots[ir.SlotID{Func: 1, Local: x}]
	if xi == nil {
		t.Fatal("Missing slot x")
	}

	if got, want := xi.Span, b.Func().Locals[x].Span; got != want {
		t.Errorf("Got span %v, want %v", got, want)
	}

	checks := [...]struct {
		name string
		got  []ir.Location
		want []ir.Location
	}{
		{"x begin", xi.Begin, []ir.Location{begin}},
		{"x drop", xi.Drop, []ir.Location{drop}},
		{"x end", xi.End, []ir.Location{end}},
		{"x move", xi.Move, nil},
		{"y move", slots[ir.SlotID{Func: 1, Local: y}].Move, []ir.Location{move}},
	}

	for _, c := range checks {
		if !slices.Equal(c.got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestProgram(t *testing.T) {
	t.Parallel()

	var p ir.Program

	for id := range ir.FuncID(4) {
		b := irtest.NewFunc(id, "f", "a.go")
		b.Local("a", 1)
		b.Local("b", 2)
		b.Return(b.Block(), 3)
		p.Funcs = append(p.Funcs, b.Func())
	}

	slots, err := Program(t.Context(), &p)
	if err != nil {
		t.Fatalf("Program failed: %v", err)
	}

	if got, want := len(slots), 8; got != want {
		t.Errorf("Got %d slots, want %d", got, want)
	}

	if got, want := len(slots.Func(2)), 2; got != want {
		t.Errorf("Got %d slots for function 2, want %d", got, want)
	}
}
