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

// Package callgraph records the direct calls between functions of a compilation unit.
//
// Only calls with a statically resolved callee inside the unit are recorded.
// Calls through interfaces, function values or into other units are not
// tracked.
package callgraph

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"golang.org/x/tools/container/intsets"

	"fillmore-labs.com/lifespan/internal/ir"
)

// Graph maps every caller to its call sites. A call site is identified by the
// block whose terminator performs the call.
type Graph struct {
	direct map[ir.FuncID]map[ir.BlockID]ir.FuncID
	logger *slog.Logger
}

// New creates an empty [Graph]. A nil logger selects [slog.Default].
func New(logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}

	return &Graph{direct: make(map[ir.FuncID]map[ir.BlockID]ir.FuncID), logger: logger}
}

// Build creates the call graph of all functions in p.
func Build(ctx context.Context, p *ir.Program, logger *slog.Logger) *Graph {
	g := New(logger)
	for _, fn := range p.Funcs {
		g.AddFunction(ctx, p, fn)
	}

	return g
}

// AddFunction records every resolved call site of caller.
func (g *Graph) AddFunction(ctx context.Context, p *ir.Program, caller *ir.Function) {
	for b, block := range caller.Blocks {
		t := block.Terminator
		if t == nil || t.Kind != ir.Call {
			continue
		}

		if !t.Resolved || !p.Contains(t.Callee) {
			g.logger.DebugContext(ctx, "skipping unresolved call",
				slog.String("caller", caller.Name),
				slog.Int("block", b),
				slog.Any("span", t.Span))

			continue
		}

		g.add(caller.ID, ir.BlockID(b), t.Callee)
	}
}

// add inserts a direct call site.
func (g *Graph) add(caller ir.FuncID, b ir.BlockID, callee ir.FuncID) {
	sites, ok := g.direct[caller]
	if !ok {
		sites = make(map[ir.BlockID]ir.FuncID)
		g.direct[caller] = sites
	}

	sites[b] = callee
}

// Sites returns the call sites of caller, keyed by calling block.
// The result must not be modified.
func (g *Graph) Sites(caller ir.FuncID) map[ir.BlockID]ir.FuncID {
	return g.direct[caller]
}

// Callers returns all functions with at least one recorded call site, in ascending order.
func (g *Graph) Callers() []ir.FuncID {
	return slices.Sorted(maps.Keys(g.direct))
}

// Closure maps each caller to the set of functions transitively reachable from it.
type Closure map[ir.FuncID]*intsets.Sparse

// Transitive computes the [Closure] of the graph.
//
// For each caller the worklist starts with its direct callees and repeatedly
// pulls in the direct callees of every newly reached function.
func (g *Graph) Transitive() Closure {
	closure := make(Closure, len(g.direct))

	var worklist []ir.FuncID

	for _, caller := range g.Callers() {
		reached := new(intsets.Sparse)

		worklist = worklist[:0]
		for _, callee := range g.direct[caller] {
			if reached.Insert(int(callee)) {
				worklist = append(worklist, callee)
			}
		}

		for len(worklist) > 0 {
			fn := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]

			for _, callee := range g.direct[fn] {
				if reached.Insert(int(callee)) {
					worklist = append(worklist, callee)
				}
			}
		}

		closure[caller] = reached
	}

	return closure
}
