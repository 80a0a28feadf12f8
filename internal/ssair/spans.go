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
	"path/filepath"

	xastutil "golang.org/x/tools/go/ast/astutil"

	"fillmore-labs.com/lifespan/internal/span"
)

// stmtExtent returns the source extent attributed to an instruction at pos.
//
// This is the innermost statement enclosing pos. Compound statements are
// too coarse, so an instruction in their header is attributed to the
// header expression, or to the single token at pos.
func stmtExtent(f *ast.File, pos token.Pos) (from, to token.Pos) {
	if f == nil {
		return pos, pos + 1
	}

	path, _ := xastutil.PathEnclosingInterval(f, pos, pos)
	for i, n := range path {
		stmt, ok := n.(ast.Stmt)
		if !ok {
			continue
		}

		if !compound(stmt) {
			return stmt.Pos(), stmt.End()
		}

		if i > 0 {
			if e, ok := path[i-1].(ast.Expr); ok {
				return e.Pos(), e.End()
			}
		}

		break
	}

	return pos, pos + 1
}

func compound(stmt ast.Stmt) bool {
	switch stmt.(type) {
	case *ast.BlockStmt, *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt,
		*ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt,
		*ast.CaseClause, *ast.CommClause, *ast.LabeledStmt:
		return true

	default:
		return false
	}
}

// rangeOf converts a pair of positions into a [span.Range] with a file name relative to the root.
func (l *lowerer) rangeOf(from, to token.Pos) span.Range {
	r := span.FromPositions(l.fset.PositionFor(from, false), l.fset.PositionFor(to, false))
	r.Filename = l.filename(r.Filename)

	return r
}

// filename makes name relative to the configured root when it lies below it.
func (l *lowerer) filename(name string) string {
	if l.cfg.Root == "" || name == "" {
		return filepath.ToSlash(name)
	}

	rel, err := filepath.Rel(l.cfg.Root, name)
	if err != nil || !filepath.IsLocal(rel) {
		return filepath.ToSlash(name)
	}

	return filepath.ToSlash(rel)
}
