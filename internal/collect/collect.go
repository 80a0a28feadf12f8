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

// Package collect gathers the lifetime events of every local slot.
package collect

import (
	"context"
	"runtime"
	"runtime/trace"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/span"
)

// Info holds the declaration and the lifetime event locations of a single slot.
// It is immutable after collection.
type Info struct {
	Span  span.Range
	Begin []ir.Location // Storage made valid
	End   []ir.Location // Storage invalidated
	Drop  []ir.Location // Destructor run
	Move  []ir.Location // Value relocated out
}

// Slots maps every slot of a compilation unit to its [Info].
type Slots map[ir.SlotID]*Info

// Func returns the slots belonging to fn.
func (s Slots) Func(fn ir.FuncID) Slots {
	r := make(Slots)
	for id, info := range s {
		if id.Func == fn {
			r[id] = info
		}
	}

	return r
}

// Function collects the events of all locals declared in fn.
func Function(fn *ir.Function) Slots {
	slots := make(Slots, len(fn.Locals))

	infos := make([]Info, len(fn.Locals))
	for i, decl := range fn.Locals {
		infos[i].Span = decl.Span
		slots[fn.Slot(i)] = &infos[i]
	}

	record := func(loc ir.Location, uses []ir.Use) {
		for _, u := range uses {
			if u.Local < 0 || u.Local >= len(infos) {
				continue // not a declared local
			}

			info := &infos[u.Local]
			switch u.Kind {
			case ir.ScopeBegin:
				info.Begin = append(info.Begin, loc)

			case ir.ScopeEnd:
				info.End = append(info.End, loc)

			case ir.Drop:
				info.Drop = append(info.Drop, loc)

			case ir.Move:
				info.Move = append(info.Move, loc)

			case ir.Other:
			}
		}
	}

	for b, block := range fn.Blocks {
		loc := ir.Location{Func: fn.ID, Block: ir.BlockID(b)}
		for i := range block.Statements {
			loc.Index = i
			record(loc, block.Statements[i].Uses)
		}

		if block.Terminator != nil {
			loc.Index = len(block.Statements)
			record(loc, block.Terminator.Uses)
		}
	}

	return slots
}

// Program collects the events of all functions in p into a single unit-wide map.
// Functions are processed concurrently; they share no state.
func Program(ctx context.Context, p *ir.Program) (Slots, error) {
	defer trace.StartRegion(ctx, "Collect").End()

	perFunc := make([]Slots, len(p.Funcs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, fn := range p.Funcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			perFunc[i] = Function(fn)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	size := 0
	for _, s := range perFunc {
		size += len(s)
	}

	slots := make(Slots, size)
	for _, s := range perFunc {
		for id, info := range s {
			slots[id] = info
		}
	}

	return slots, nil
}
