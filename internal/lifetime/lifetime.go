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

// Package lifetime computes the lifetime records of a compilation unit.
//
// The analysis collects lifetime events, runs the dataflow analysis per
// function, maps live locations to merged source ranges and optionally
// extends every slot that is live across a call by the extents of all
// functions that call may reach.
package lifetime

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"runtime/trace"
	"slices"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/lifespan/internal/collect"
	"fillmore-labs.com/lifespan/internal/genkill"
	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/ranges"
	"fillmore-labs.com/lifespan/internal/record"
)

// Option configures [Analyze].
type Option func(*options)

type options struct {
	interprocedural bool
	maxVisits       int
	logger          *slog.Logger
}

// WithInterprocedural enables or disables the extension of slots live across calls.
func WithInterprocedural(enabled bool) Option {
	return func(o *options) { o.interprocedural = enabled }
}

// WithMaxVisits sets the visit limit of the dataflow analysis.
func WithMaxVisits(n int) Option {
	return func(o *options) { o.maxVisits = n }
}

// WithLogger sets the logger for diagnostic output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Slot is the computed lifetime of a single local slot.
type Slot struct {
	ID     ir.SlotID
	Info   *collect.Info
	Ranges ranges.Set
}

// Analyze computes the lifetime records of p.
// Slots that are never live are omitted.
func Analyze(ctx context.Context, p *ir.Program, opts ...Option) (*record.Unit, error) {
	slots, err := Slots(ctx, p, opts...)
	if err != nil {
		return nil, err
	}

	return Records(p, slots), nil
}

// Slots computes the merged ranges of every live slot in p, ordered by slot.
func Slots(ctx context.Context, p *ir.Program, opts ...Option) ([]Slot, error) {
	o := options{interprocedural: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	events, err := collect.Program(ctx, p)
	if err != nil {
		return nil, err
	}

	live, err := analyzeFuncs(ctx, p, events, o.maxVisits)
	if err != nil {
		return nil, err
	}

	var ext *extender
	if o.interprocedural {
		region := trace.StartRegion(ctx, "CallGraph")
		ext = newExtender(ctx, p, o.logger)
		region.End()
	}

	defer trace.StartRegion(ctx, "Ranges").End()

	var result []Slot

	for _, id := range slices.SortedFunc(maps.Keys(events), ir.SlotID.Compare) {
		fn := p.Func(id.Func)

		locs := live[id.Func][id]
		if len(locs) == 0 {
			o.logger.DebugContext(ctx, "omitting slot without live locations",
				slog.String("func", fn.Name),
				slog.String("local", fn.Locals[id.Local].Name))

			continue
		}

		set := ranges.FromLocations(fn, locs)
		if ext != nil {
			ext.extend(fn, locs, set)
		}

		result = append(result, Slot{ID: id, Info: events[id], Ranges: set.Merge()})
	}

	return result, nil
}

// analyzeFuncs runs the dataflow analysis of every function concurrently.
func analyzeFuncs(ctx context.Context, p *ir.Program, events collect.Slots, maxVisits int) ([]genkill.LiveSet, error) {
	live := make([]genkill.LiveSet, len(p.Funcs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, fn := range p.Funcs {
		slots := events.Func(fn.ID)
		if len(slots) == 0 {
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			l, err := genkill.Analyze(ctx, fn, slots, genkill.WithMaxVisits(maxVisits))
			if err != nil {
				return fmt.Errorf("function %s: %w", fn.Name, err)
			}

			live[i] = l

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return live, nil
}

// Records converts the slots of p into the persisted form.
func Records(p *ir.Program, slots []Slot) *record.Unit {
	u := &record.Unit{CrateName: p.Name, Locals: make([]record.Local, 0, len(slots))}

	for _, s := range slots {
		fn := p.Func(s.ID.Func)

		all := s.Ranges.All()
		rs := make([]string, 0, len(all))

		for _, r := range all {
			rs = append(rs, r.String())
		}

		u.Locals = append(u.Locals, record.Local{
			FnIDLocal: SlotName(fn, s.ID.Local),
			Span:      s.Info.Span.String(),
			Ranges:    rs,
		})
	}

	return u
}

// SlotName is the display name of local i of fn, "(<func>, _<i>)".
func SlotName(fn *ir.Function, i int) string {
	return fmt.Sprintf("(%s, _%d)", fn.Name, i)
}
