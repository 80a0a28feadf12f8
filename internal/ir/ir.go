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

// Package ir defines the lowered control-flow representation the lifetime
// analysis runs on.
//
// A [Program] is one compilation unit. Functions and local slots are
// identified by dense integer indices assigned when the program is built, so
// the analysis does not depend on the identifiers of any particular front end.
//
// Each [Block] is a list of [Statement]s followed by a [Terminator]. Calls are
// always terminators; a front end that produces calls in the middle of a
// block has to split the block there.
package ir

import (
	"cmp"
	"fmt"

	"fillmore-labs.com/lifespan/internal/span"
)

//go:generate go tool stringer -type=TermKind,UseKind -output=kind_string.go

// FuncID is the dense index of a [Function] within its [Program].
type FuncID int32

// BlockID is the index of a [Block] within its [Function].
type BlockID int32

// EntryBlock is the block where execution of every function starts.
const EntryBlock BlockID = 0

// Location is a point in the control-flow graph of a function.
// Index equal to the number of statements of the block denotes the terminator.
// Locations are only comparable within the same function.
type Location struct {
	Func  FuncID
	Block BlockID
	Index int
}

func (l Location) String() string {
	return fmt.Sprintf("f%d:bb%d[%d]", l.Func, l.Block, l.Index)
}

// Compare orders locations by function, block and index.
func (l Location) Compare(o Location) int {
	if c := cmp.Compare(l.Func, o.Func); c != 0 {
		return c
	}

	if c := cmp.Compare(l.Block, o.Block); c != 0 {
		return c
	}

	return cmp.Compare(l.Index, o.Index)
}

// SlotID uniquely identifies a local variable slot within a [Program].
type SlotID struct {
	Func  FuncID
	Local int
}

// Compare orders slots by function and local index.
func (s SlotID) Compare(o SlotID) int {
	if c := cmp.Compare(s.Func, o.Func); c != 0 {
		return c
	}

	return cmp.Compare(s.Local, o.Local)
}

// TermKind classifies a [Terminator].
type TermKind uint8

const (
	// Goto unconditionally continues at its single target.
	Goto TermKind = iota

	// Branch continues at one of its targets.
	Branch

	// Return leaves the function.
	Return

	// Call invokes a function and continues at its target, if any.
	Call

	// Panic leaves the function abnormally.
	Panic

	// Resume continues unwinding. It carries no meaningful source position.
	Resume

	// Unreachable marks a block that is never executed.
	Unreachable
)

// UseKind classifies how a [Statement] or [Terminator] uses a local slot.
type UseKind uint8

const (
	// Other is any use that does not affect the slot's lifetime.
	Other UseKind = iota

	// ScopeBegin makes the slot's storage valid.
	ScopeBegin

	// ScopeEnd invalidates the slot's storage.
	ScopeEnd

	// Drop runs the slot's destructor.
	Drop

	// Move relocates the slot's value elsewhere.
	Move
)

// Use is a single use of a local slot.
type Use struct {
	Local int
	Kind  UseKind
}

// Statement is a non-terminating instruction of a [Block].
type Statement struct {
	Span span.Range
	Uses []Use
}

// Terminator ends a [Block] and determines its successors.
type Terminator struct {
	Kind    TermKind
	Span    span.Range
	Uses    []Use
	Targets []BlockID

	// Callee is the statically resolved target of a [Call], valid only when Resolved is set.
	Callee   FuncID
	Resolved bool
}

// Degenerate reports whether the terminator has no meaningful source extent.
func (t *Terminator) Degenerate() bool {
	return t.Kind == Resume || t.Kind == Unreachable
}

// Successors returns the blocks control may flow to after this terminator.
func (t *Terminator) Successors() []BlockID {
	if t == nil || t.Degenerate() {
		return nil
	}

	return t.Targets
}

// Block is a basic block: a straight-line sequence of statements and one terminator.
type Block struct {
	Statements []Statement
	Terminator *Terminator
}

// LocalDecl describes a declared local slot.
type LocalDecl struct {
	Name string
	Span span.Range
}

// Function is the control-flow graph of a single function or closure.
type Function struct {
	ID     FuncID
	Name   string
	Locals []LocalDecl
	Blocks []*Block
}

// Entry returns the location of the first instruction of the function.
func (f *Function) Entry() Location {
	return Location{Func: f.ID, Block: EntryBlock}
}

// TerminatorLocation returns the location of the terminator of block b.
func (f *Function) TerminatorLocation(b BlockID) Location {
	return Location{Func: f.ID, Block: b, Index: len(f.Blocks[b].Statements)}
}

// IsTerminator reports whether loc denotes a block terminator.
func (f *Function) IsTerminator(loc Location) bool {
	return loc.Index >= len(f.Blocks[loc.Block].Statements)
}

// Terminator returns the terminator at loc, or nil when loc is a statement.
func (f *Function) Terminator(loc Location) *Terminator {
	if !f.IsTerminator(loc) {
		return nil
	}

	return f.Blocks[loc.Block].Terminator
}

// Span returns the source range of the instruction at loc.
func (f *Function) Span(loc Location) span.Range {
	b := f.Blocks[loc.Block]
	if loc.Index < len(b.Statements) {
		return b.Statements[loc.Index].Span
	}

	if b.Terminator == nil {
		return span.Range{}
	}

	return b.Terminator.Span
}

// Slot returns the [SlotID] of local index i of this function.
func (f *Function) Slot(i int) SlotID {
	return SlotID{Func: f.ID, Local: i}
}

// Validate checks the structural invariants the analysis relies on.
func (f *Function) Validate() error {
	if len(f.Blocks) == 0 {
		return fmt.Errorf("function %s: %w", f.Name, ErrNoBlocks)
	}

	for i, b := range f.Blocks {
		if b.Terminator == nil {
			return fmt.Errorf("function %s block %d: %w", f.Name, i, ErrNoTerminator)
		}

		for _, t := range b.Terminator.Targets {
			if t < 0 || int(t) >= len(f.Blocks) {
				return fmt.Errorf("function %s block %d target %d: %w", f.Name, i, t, ErrBadTarget)
			}
		}
	}

	return nil
}

// Program is a single compilation unit.
type Program struct {
	Name  string
	Funcs []*Function
}

// Func returns the function with the given id, or nil if it is not part of the program.
func (p *Program) Func(id FuncID) *Function {
	if id < 0 || int(id) >= len(p.Funcs) {
		return nil
	}

	return p.Funcs[id]
}

// Contains reports whether id identifies a function of the program.
func (p *Program) Contains(id FuncID) bool {
	return p.Func(id) != nil
}
