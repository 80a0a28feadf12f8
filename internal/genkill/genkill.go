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

// Package genkill implements a forward may-analysis computing where local slots are live.
//
// A slot is generated by its scope-begin events and killed by scope-end, drop
// and move events. The analysis tracks lexical lifetime boundaries, not
// actual reads and writes, so the result is an over-approximation suitable
// for visualization.
package genkill

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"
	"slices"

	"golang.org/x/tools/container/intsets"

	"fillmore-labs.com/lifespan/internal/collect"
	"fillmore-labs.com/lifespan/internal/ir"
)

// DefaultMaxVisits is the default number of location visits after which the analysis gives up.
const DefaultMaxVisits = 10_000

// ErrNoConvergence is returned when the fixed point is not reached within the visit limit.
var ErrNoConvergence = errors.New("dataflow did not converge")

// LiveSet maps every slot to the sorted locations where it is live.
type LiveSet map[ir.SlotID][]ir.Location

// Observer is notified whenever the live set after a location changes.
// The sets contain local indices and must not be retained or modified.
type Observer func(loc ir.Location, old, updated *intsets.Sparse)

// Option configures [Analyze].
type Option func(*options)

type options struct {
	maxVisits int
	observer  Observer
}

// WithMaxVisits sets the visit limit. Non-positive values select [DefaultMaxVisits].
func WithMaxVisits(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultMaxVisits
		}

		o.maxVisits = n
	}
}

// WithObserver installs an [Observer].
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Analyze runs the analysis on fn, using the events of slots that belong to fn.
func Analyze(ctx context.Context, fn *ir.Function, slots collect.Slots, opts ...Option) (LiveSet, error) {
	defer trace.StartRegion(ctx, "GenKill").End()

	o := options{maxVisits: DefaultMaxVisits}
	for _, opt := range opts {
		opt(&o)
	}

	if err := fn.Validate(); err != nil {
		return nil, err
	}

	g := newGraph(fn)
	a := newAnalysis(g, slots)

	if err := a.solve(o); err != nil {
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}

	return a.result(), nil
}

// analysis holds the per-location state of a single run.
type analysis struct {
	*graph

	gen, kill     []intsets.Sparse // Indexed by location
	before, after []intsets.Sparse // Indexed by location
}

func newAnalysis(g *graph, slots collect.Slots) *analysis {
	n := len(g.locs)
	a := &analysis{
		graph:  g,
		gen:    make([]intsets.Sparse, n),
		kill:   make([]intsets.Sparse, n),
		before: make([]intsets.Sparse, n),
		after:  make([]intsets.Sparse, n),
	}

	for id, info := range slots {
		if id.Func != g.fn.ID {
			continue
		}

		for _, loc := range info.Begin {
			a.gen[g.index(loc)].Insert(id.Local)
		}

		for _, kills := range [...][]ir.Location{info.End, info.Drop, info.Move} {
			for _, loc := range kills {
				a.kill[g.index(loc)].Insert(id.Local)
			}
		}
	}

	return a
}

// solve iterates the transfer function to a fixed point.
//
// The worklist starts at the entry location. A location's successors are
// queued whenever its after set changes, and on the first visit so that
// every reachable location is evaluated at least once.
func (a *analysis) solve(o options) error {
	visited := make([]bool, len(a.locs))
	worklist := []int{0}

	var (
		update intsets.Sparse
		old    intsets.Sparse
	)

	for visits := 0; len(worklist) > 0; visits++ {
		if visits >= o.maxVisits {
			return fmt.Errorf("%w after %d visits", ErrNoConvergence, visits)
		}

		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		update.Clear()

		if preds := a.preds[cur]; len(preds) > 0 {
			for _, p := range preds {
				update.UnionWith(&a.after[p])
			}

			a.before[cur].UnionWith(&update)
		} else {
			update.Copy(&a.before[cur])
		}

		update.UnionWith(&a.gen[cur])
		update.DifferenceWith(&a.kill[cur])

		changed := !update.Equals(&a.after[cur])
		if changed {
			if o.observer != nil {
				old.Copy(&a.after[cur])
				o.observer(a.locs[cur], &old, &update)
			}

			a.after[cur].Copy(&update)
		}

		if changed || !visited[cur] {
			worklist = append(worklist, a.succs[cur]...)
		}

		visited[cur] = true
	}

	return nil
}

// result collects, per slot, every location where it is live on entry,
// excluding degenerate terminators, plus every location generating it.
func (a *analysis) result() LiveSet {
	live := make(LiveSet)

	var locals []int

	for i, loc := range a.locs {
		if a.degenerate[i] {
			continue
		}

		locals = a.before[i].AppendTo(locals[:0])
		for _, l := range locals {
			slot := a.fn.Slot(l)
			live[slot] = append(live[slot], loc)
		}
	}

	for i, loc := range a.locs {
		locals = a.gen[i].AppendTo(locals[:0])
		for _, l := range locals {
			slot := a.fn.Slot(l)
			live[slot] = append(live[slot], loc)
		}
	}

	for slot, locs := range live {
		slices.SortFunc(locs, ir.Location.Compare)
		live[slot] = slices.Compact(locs)
	}

	return live
}
