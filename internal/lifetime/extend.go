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

package lifetime

import (
	"context"
	"log/slog"

	"golang.org/x/tools/container/intsets"

	"fillmore-labs.com/lifespan/internal/callgraph"
	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/ranges"
	"fillmore-labs.com/lifespan/internal/span"
)

// extender adds the extents of called functions to slots live across a call.
type extender struct {
	graph   *callgraph.Graph
	closure callgraph.Closure
	extents map[ir.FuncID]span.Range
}

func newExtender(ctx context.Context, p *ir.Program, logger *slog.Logger) *extender {
	g := callgraph.Build(ctx, p, logger)

	extents := make(map[ir.FuncID]span.Range, len(p.Funcs))
	for _, fn := range p.Funcs {
		if r, ok := ranges.Extent(fn); ok {
			extents[fn.ID] = r
		}
	}

	return &extender{graph: g, closure: g.Transitive(), extents: extents}
}

// extend adds to set the extent of every function reachable from a call
// site of fn where the slot is live.
func (e *extender) extend(fn *ir.Function, locs []ir.Location, set ranges.Set) {
	sites := e.graph.Sites(fn.ID)
	if len(sites) == 0 {
		return
	}

	var reached intsets.Sparse

	for _, loc := range locs {
		if t := fn.Terminator(loc); t == nil || t.Kind != ir.Call {
			continue
		}

		callee, ok := sites[loc.Block]
		if !ok {
			continue
		}

		reached.Insert(int(callee))

		if c, ok := e.closure[callee]; ok {
			reached.UnionWith(c)
		}
	}

	for _, id := range reached.AppendTo(nil) {
		if r, ok := e.extents[ir.FuncID(id)]; ok {
			set.Add(r)
		}
	}
}
