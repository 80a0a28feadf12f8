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

// Package ssair lowers the SSA form of a Go package into the control-flow
// model of package ir.
//
// Every SSA basic block is split after each call, including go and defer
// statements, so calls become block terminators. Local variables are the
// named variables declared in a function. A positioned instruction entering
// the lexical scope of a variable begins its lifetime, one leaving it ends it.
package ssair

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"

	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/lifespan/internal/astutil"
	"fillmore-labs.com/lifespan/internal/ir"
	"fillmore-labs.com/lifespan/internal/span"
	"fillmore-labs.com/lifespan/internal/tracker"
)

// Config controls the lowering.
type Config struct {
	Name      string          // Name of the compilation unit
	Root      string          // File names below Root are made relative to it
	Generated bool            // Analyze locals of generated files
	Tracker   tracker.Tracker // Identifies calls that can't return
}

// Problem is an internal inconsistency found in the SSA form.
type Problem struct {
	At      token.Pos
	Message string
}

// Pos implements [analysis.Range].
func (p Problem) Pos() token.Pos { return p.At }

// End implements [analysis.Range].
func (p Problem) End() token.Pos { return p.At }

// Unit is a lowered compilation unit.
type Unit struct {
	Program  *ir.Program
	Funcs    []*ssa.Function // SSA function of every [ir.FuncID]
	Problems []Problem
}

type lowerer struct {
	fset  *token.FileSet
	info  *types.Info
	files []astutil.CurrentFile
	cfg   Config
	ids   map[*ssa.Function]ir.FuncID

	problems []Problem
}

// Lower converts funcs into an [ir.Program]. The function at index i gets [ir.FuncID] i.
func Lower(fset *token.FileSet, info *types.Info, files []*ast.File, funcs []*ssa.Function, cfg Config) *Unit {
	l := &lowerer{
		fset:  fset,
		info:  info,
		files: make([]astutil.CurrentFile, 0, len(files)),
		cfg:   cfg,
		ids:   make(map[*ssa.Function]ir.FuncID, len(funcs)),
	}

	for _, f := range files {
		l.files = append(l.files, astutil.NewCurrentFile(fset, f))
	}

	for i, fn := range funcs {
		l.ids[fn] = ir.FuncID(i)
	}

	p := &ir.Program{Name: cfg.Name, Funcs: make([]*ir.Function, 0, len(funcs))}
	for i, fn := range funcs {
		p.Funcs = append(p.Funcs, l.function(ir.FuncID(i), fn))
	}

	return &Unit{Program: p, Funcs: funcs, Problems: l.problems}
}

// fileOf returns the file containing pos, or nil.
func (l *lowerer) fileOf(pos token.Pos) *astutil.CurrentFile {
	if !pos.IsValid() {
		return nil
	}

	for i := range l.files {
		if f := &l.files[i]; f.Contains(pos) {
			return f
		}
	}

	return nil
}

// skipLocals reports whether locals of fn are excluded from the analysis.
func (l *lowerer) skipLocals(fn *ssa.Function, f *astutil.CurrentFile) bool {
	if f == nil || !f.Valid() {
		return false
	}

	if f.Generated() && !l.cfg.Generated {
		return true
	}

	if astutil.NoLintDoc(f.Syntax().Doc) {
		return true
	}

	if decl, ok := fn.Syntax().(*ast.FuncDecl); ok && astutil.NoLintDoc(decl.Doc) {
		return true
	}

	return f.NoLintComment(fn.Pos())
}

// function lowers a single SSA function.
func (l *lowerer) function(id ir.FuncID, fn *ssa.Function) *ir.Function {
	out := &ir.Function{ID: id, Name: fn.String()}
	f := l.fileOf(fn.Pos())

	var locals []local
	if !l.skipLocals(fn, f) {
		locals = l.locals(fn)
	}

	for _, lc := range locals {
		out.Locals = append(out.Locals, ir.LocalDecl{Name: lc.obj.Name(), Span: l.rangeOf(lc.decl, lc.decl+token.Pos(len(lc.obj.Name())))})
	}

	if len(fn.Blocks) == 0 {
		out.Blocks = []*ir.Block{{Terminator: &ir.Terminator{Kind: ir.Return}}}

		return out
	}

	fl := funcLowering{lowerer: l, fn: fn, file: f, out: out, locals: locals}
	fl.blocks()

	return out
}

// funcLowering holds the state of lowering one function.
type funcLowering struct {
	*lowerer

	fn     *ssa.Function
	file   *astutil.CurrentFile
	out    *ir.Function
	locals []local
	start  []ir.BlockID // First lowered block of every SSA block
	last   []token.Pos  // Last positioned instruction of every SSA block
}

func (fl *funcLowering) blocks() {
	fl.start = make([]ir.BlockID, len(fl.fn.Blocks))
	fl.last = make([]token.Pos, len(fl.fn.Blocks))

	n := 0
	for i, b := range fl.fn.Blocks {
		fl.start[i] = ir.BlockID(n)
		n += 1 + splits(b)

		for _, instr := range b.Instrs {
			if pos := instr.Pos(); pos.IsValid() {
				fl.last[i] = pos
			}
		}
	}

	fl.out.Blocks = make([]*ir.Block, 0, n)

	for _, b := range fl.fn.Blocks {
		fl.block(b)
	}
}

// splits returns the number of calls that end a lowered block inside b.
func splits(b *ssa.BasicBlock) int {
	n := 0
	for i, instr := range b.Instrs {
		if _, ok := callOf(instr); ok && i < len(b.Instrs)-1 {
			n++
		}
	}

	return n
}

// callOf returns the call made by instr when it becomes a terminator.
// Plain, go and defer calls do, calls of builtins stay statements.
func callOf(instr ssa.Instruction) (*ssa.CallCommon, bool) {
	var call *ssa.CallCommon

	switch instr := instr.(type) {
	case *ssa.Call:
		call = instr.Common()

	case *ssa.Go:
		call = instr.Common()

	case *ssa.Defer:
		call = instr.Common()

	default:
		return nil, false
	}

	if _, builtin := call.Value.(*ssa.Builtin); builtin {
		return nil, false
	}

	return call, true
}

func (fl *funcLowering) block(b *ssa.BasicBlock) {
	cur := fl.newBlock()

	if len(b.Instrs) == 0 {
		fl.problem(fl.fn.Pos(), "empty block %d in %s", b.Index, fl.fn)
		cur.Terminator = &ir.Terminator{Kind: ir.Unreachable}

		return
	}

	last := fl.firstSpan(b)
	prev, known := fl.entryPositions(b)

	var here [1]token.Pos

	for i, instr := range b.Instrs {
		var (
			sp   span.Range
			uses []ir.Use
		)

		if pos := instr.Pos(); pos.IsValid() {
			sp = fl.stmtSpan(pos)
			last = sp

			if len(fl.locals) > 0 {
				uses = fl.uses(pos, prev, known)
			}

			here[0] = pos
			prev, known = here[:], true
		} else {
			sp = last
		}

		if i == len(b.Instrs)-1 {
			cur.Terminator = fl.terminator(b, instr, sp, uses)

			break
		}

		call, ok := callOf(instr)
		if !ok {
			appendStatement(cur, sp, uses)

			continue
		}

		t := &ir.Terminator{Kind: ir.Call, Span: sp, Uses: uses}
		fl.resolve(t, call)

		next := fl.newBlock()
		if !fl.cantReturn(instr, call) {
			t.Targets = []ir.BlockID{ir.BlockID(len(fl.out.Blocks) - 1)}
		}

		cur.Terminator, cur = t, next
	}
}

// cantReturn reports whether control never continues after instr.
// Go and defer statements always continue.
func (fl *funcLowering) cantReturn(instr ssa.Instruction, call *ssa.CallCommon) bool {
	if _, ok := instr.(*ssa.Call); !ok {
		return false
	}

	return fl.cfg.Tracker.CantReturn(call)
}

// entryPositions returns the last positions of the predecessors of b.
// They are unknown for blocks without predecessors or with an unpositioned one.
func (fl *funcLowering) entryPositions(b *ssa.BasicBlock) ([]token.Pos, bool) {
	if len(b.Preds) == 0 {
		return nil, false
	}

	prev := make([]token.Pos, 0, len(b.Preds))
	for _, p := range b.Preds {
		pos := fl.last[p.Index]
		if !pos.IsValid() {
			return nil, false
		}

		prev = append(prev, pos)
	}

	return prev, true
}

func (fl *funcLowering) newBlock() *ir.Block {
	b := &ir.Block{}
	fl.out.Blocks = append(fl.out.Blocks, b)

	return b
}

// appendStatement adds a statement to b. An instruction with the same span
// as the previous statement and no different effects is folded into it.
func appendStatement(b *ir.Block, sp span.Range, uses []ir.Use) {
	if n := len(b.Statements); n > 0 {
		prev := &b.Statements[n-1]
		if prev.Span == sp && (len(uses) == 0 || slices.Equal(prev.Uses, uses)) {
			return
		}
	}

	b.Statements = append(b.Statements, ir.Statement{Span: sp, Uses: uses})
}

// terminator lowers the control instruction ending b.
func (fl *funcLowering) terminator(b *ssa.BasicBlock, instr ssa.Instruction, sp span.Range, uses []ir.Use) *ir.Terminator {
	t := &ir.Terminator{Span: sp, Uses: uses}

	switch instr.(type) {
	case *ssa.If:
		t.Kind = ir.Branch
		t.Targets = []ir.BlockID{fl.start[b.Succs[0].Index], fl.start[b.Succs[1].Index]}

	case *ssa.Jump:
		t.Kind = ir.Goto
		t.Targets = []ir.BlockID{fl.start[b.Succs[0].Index]}

	case *ssa.Return:
		t.Kind = ir.Return

	case *ssa.Panic:
		t.Kind = ir.Panic

	default:
		fl.problem(instr.Pos(), "block %d of %s ends with %T", b.Index, fl.fn, instr)
		t.Kind = ir.Unreachable
	}

	return t
}

// resolve records the callee of call when it is part of the unit.
func (fl *funcLowering) resolve(t *ir.Terminator, call *ssa.CallCommon) {
	callee := call.StaticCallee()
	if callee == nil {
		return
	}

	id, ok := fl.ids[callee]
	if !ok && callee.Origin() != nil {
		id, ok = fl.ids[callee.Origin()]
	}

	if ok {
		t.Callee, t.Resolved = id, true
	}
}

// firstSpan returns the span of the first positioned instruction of b.
func (fl *funcLowering) firstSpan(b *ssa.BasicBlock) span.Range {
	for _, instr := range b.Instrs {
		if pos := instr.Pos(); pos.IsValid() {
			return fl.stmtSpan(pos)
		}
	}

	return span.Range{}
}

func (fl *funcLowering) stmtSpan(pos token.Pos) span.Range {
	var f *ast.File
	if fl.file != nil {
		f = fl.file.Syntax()
	}

	from, to := stmtExtent(f, pos)

	return fl.rangeOf(from, to)
}

func (l *lowerer) problem(pos token.Pos, format string, args ...any) {
	l.problems = append(l.problems, Problem{At: pos, Message: fmt.Sprintf(format, args...)})
}
