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

package ssair

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/lifespan/internal/ir"
)

// local is a variable declared in a function, valid from decl to end.
type local struct {
	obj       *types.Var
	decl, end token.Pos
}

// locals returns the named variables declared by fn in source order.
// Variables of nested function literals belong to those functions.
func (l *lowerer) locals(fn *ssa.Function) []local {
	syntax := fn.Syntax()
	if syntax == nil || l.info == nil {
		return nil
	}

	var locals []local

	ast.Inspect(syntax, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return ast.Node(n) == syntax

		case *ast.Ident:
			v, ok := l.info.Defs[n].(*types.Var)
			if !ok || v.IsField() || v.Name() == "_" {
				break
			}

			scope := v.Parent()
			if scope == nil {
				break
			}

			locals = append(locals, local{obj: v, decl: n.Pos(), end: scope.End()})
		}

		return true
	})

	return locals
}

// contains reports whether pos lies in the scope of lc.
func (lc local) contains(pos token.Pos) bool {
	return lc.decl <= pos && pos <= lc.end
}

// uses returns the lifetime events of an instruction at pos, reached from
// instructions at prev. Only scope transitions produce events: a local
// begins where pos enters its scope and ends where pos leaves it. Without
// known predecessors every local gets an event.
func (fl *funcLowering) uses(pos token.Pos, prev []token.Pos, known bool) []ir.Use {
	if !pos.IsValid() {
		return nil
	}

	var uses []ir.Use

	for i, lc := range fl.locals {
		in := lc.contains(pos)

		if known && !transition(lc, in, prev) {
			continue
		}

		kind := ir.ScopeEnd
		if in {
			kind = ir.ScopeBegin
		}

		uses = append(uses, ir.Use{Local: i, Kind: kind})
	}

	return uses
}

// transition reports whether some predecessor at prev differs from in about the scope of lc.
func transition(lc local, in bool, prev []token.Pos) bool {
	for _, q := range prev {
		if lc.contains(q) != in {
			return true
		}
	}

	return false
}
