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

package genkill

import "fillmore-labs.com/lifespan/internal/ir"

// graph numbers the locations of a function densely and precomputes
// location-level predecessor and successor edges.
type graph struct {
	fn *ir.Function

	offsets    []int         // First location index of each block
	locs       []ir.Location // Location of each index
	degenerate []bool        // Whether the index is a Resume or Unreachable terminator
	preds      [][]int
	succs      [][]int
}

func newGraph(fn *ir.Function) *graph {
	g := &graph{fn: fn, offsets: make([]int, len(fn.Blocks))}

	n := 0
	for b, block := range fn.Blocks {
		g.offsets[b] = n
		n += len(block.Statements) + 1
	}

	g.locs = make([]ir.Location, 0, n)
	g.degenerate = make([]bool, n)
	g.preds = make([][]int, n)
	g.succs = make([][]int, n)

	predBlocks := make([][]ir.BlockID, len(fn.Blocks))

	for b, block := range fn.Blocks {
		for i := range len(block.Statements) + 1 {
			g.locs = append(g.locs, ir.Location{Func: fn.ID, Block: ir.BlockID(b), Index: i})
		}

		for _, s := range block.Terminator.Successors() {
			predBlocks[s] = append(predBlocks[s], ir.BlockID(b))
		}
	}

	for b, block := range fn.Blocks {
		first, term := g.offsets[b], g.offsets[b]+len(block.Statements)

		// Inside a block, control falls through to the next instruction.
		for i := first; i < term; i++ {
			g.succs[i] = []int{i + 1}
			g.preds[i+1] = []int{i}
		}

		g.degenerate[term] = block.Terminator.Degenerate()

		for _, s := range block.Terminator.Successors() {
			g.succs[term] = append(g.succs[term], g.offsets[s])
		}

		for _, p := range predBlocks[b] {
			g.preds[first] = append(g.preds[first], g.terminator(p))
		}
	}

	return g
}

// index returns the dense index of loc.
func (g *graph) index(loc ir.Location) int {
	return g.offsets[loc.Block] + loc.Index
}

// terminator returns the dense index of the terminator of block b.
func (g *graph) terminator(b ir.BlockID) int {
	return g.offsets[b] + len(g.fn.Blocks[b].Statements)
}
