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

// Package irtest builds small [ir.Function]s for tests.
//
// Every instruction occupies one source line: an instruction on line n spans
// "n:1: n+1:1" in the builder's file. Instructions on consecutive lines touch
// and merge, a skipped line leaves a gap.
package irtest

import (
	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/span"
)

// Builder incrementally constructs an [ir.Function].
type Builder struct {
	fn   *ir.Function
	file string
}

// NewFunc starts a function with the given id and name whose spans lie in file.
func NewFunc(id ir.FuncID, name, file string) *Builder {
	return &Builder{fn: &ir.Function{ID: id, Name: name}, file: file}
}

// Line returns the span of an instruction on line.
func (b *Builder) Line(line int) span.Range {
	return span.Range{
		Filename: b.file,
		Begin:    span.Position{Line: line, Column: 1},
		End:      span.Position{Line: line + 1, Column: 1},
	}
}

// Local declares a local slot on line and returns its index.
func (b *Builder) Local(name string, line int) int {
	decl := ir.LocalDecl{
		Name: name,
		Span: span.Range{
			Filename: b.file,
			Begin:    span.Position{Line: line, Column: 9},
			End:      span.Position{Line: line, Column: 9 + len(name)},
		},
	}
	b.fn.Locals = append(b.fn.Locals, decl)

	return len(b.fn.Locals) - 1
}

// Block appends an empty block and returns its id.
func (b *Builder) Block() ir.BlockID {
	b.fn.Blocks = append(b.fn.Blocks, &ir.Block{})

	return ir.BlockID(len(b.fn.Blocks) - 1)
}

// Stmt appends a statement on line to block and returns its location.
func (b *Builder) Stmt(block ir.BlockID, line int, uses ...ir.Use) ir.Location {
	bb := b.fn.Blocks[block]
	bb.Statements = append(bb.Statements, ir.Statement{Span: b.Line(line), Uses: uses})

	return ir.Location{Func: b.fn.ID, Block: block, Index: len(bb.Statements) - 1}
}

// Term sets the terminator of block and returns its location.
func (b *Builder) Term(block ir.BlockID, kind ir.TermKind, line int, targets []ir.BlockID, uses ...ir.Use) ir.Location {
	bb := b.fn.Blocks[block]
	bb.Terminator = &ir.Terminator{Kind: kind, Span: b.Line(line), Targets: targets, Uses: uses}

	return b.fn.TerminatorLocation(block)
}

// Goto terminates block with a jump to target.
func (b *Builder) Goto(block ir.BlockID, line int, target ir.BlockID, uses ...ir.Use) ir.Location {
	return b.Term(block, ir.Goto, line, []ir.BlockID{target}, uses...)
}

// Return terminates block with a return.
func (b *Builder) Return(block ir.BlockID, line int, uses ...ir.Use) ir.Location {
	return b.Term(block, ir.Return, line, nil, uses...)
}

// Call terminates block with a resolved call to callee continuing at targets.
func (b *Builder) Call(block ir.BlockID, line int, callee ir.FuncID, targets ...ir.BlockID) ir.Location {
	loc := b.Term(block, ir.Call, line, targets)
	t := b.fn.Blocks[block].Terminator
	t.Callee, t.Resolved = callee, true

	return loc
}

// Func returns the constructed function.
func (b *Builder) Func() *ir.Function {
	return b.fn
}

// Begin is a [ir.ScopeBegin] use of local.
func Begin(local int) ir.Use { return ir.Use{Local: local, Kind: ir.ScopeBegin} }

// End is a [ir.ScopeEnd] use of local.
func End(local int) ir.Use { return ir.Use{Local: local, Kind: ir.ScopeEnd} }

// Drop is a [ir.Drop] use of local.
func Drop(local int) ir.Use { return ir.Use{Local: local, Kind: ir.Drop} }

// Move is a [ir.Move] use of local.
func Move(local int) ir.Use { return ir.Use{Local: local, Kind: ir.Move} }

// Read is an [ir.Other] use of local.
func Read(local int) ir.Use { return ir.Use{Local: local, Kind: ir.Other} }
