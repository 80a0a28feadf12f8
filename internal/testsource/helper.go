// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

// Package testsource provides utilities for parsing and analyzing Go source code in tests.
//
// It is designed to simplify testing of the lifespan analysis by handling common
// boilerplate code for parsing, type-checking and building the SSA form of Go
// source fragments.
package testsource

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const testpkg = "test"

// Parse parses a Go source code fragment into an AST.
// The provided source `src` is automatically wrapped in a function body `func _() { ... }`
// within a package `test`. This allows testing statement-level code fragments without
// manually constructing the surrounding package and function scaffolding.
//
// Use [Build] when type information or the SSA form is needed.
//
// Returns:
//   - *token.FileSet: The file set containing the single source file.
//   - *ast.File: The parsed AST of the source file.
//   - *ast.FuncDecl: The function declaration wrapping the source code.
func Parse(tb testing.TB, src string) (fset *token.FileSet, f *ast.File, fn *ast.FuncDecl) {
	tb.Helper()

	const filename = "test.go"

	fset = token.NewFileSet()
	srcFile := wrapSource(src)

	f, err := parser.ParseFile(fset, filename, srcFile, parser.SkipObjectResolution)
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", src, err)
	}

	fn = firstFuncDecl(f)
	if fn == nil {
		tb.Fatal("Can't find function")
	}

	return fset, f, fn
}

// Build parses a complete source file of package test and builds its SSA form.
//
// Returns:
//   - *token.FileSet: The file set containing the single source file "test.go".
//   - *ast.File: The parsed AST of the source file, including comments.
//   - *types.Info: The type information of the package.
//   - []*ssa.Function: All source functions, including function literals, in source order.
func Build(tb testing.TB, src string) (*token.FileSet, *ast.File, *types.Info, []*ssa.Function) {
	tb.Helper()

	const filename = "test.go"

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		tb.Fatalf("Failed to parse source: %v", err)
	}

	conf := &types.Config{Importer: importer.Default()}

	pkg, info, err := ssautil.BuildPackage(conf, fset, types.NewPackage(testpkg, testpkg), []*ast.File{f}, ssa.SanityCheckFunctions)
	if err != nil {
		tb.Fatalf("Failed to build SSA: %v", err)
	}

	return fset, f, info, srcFuncs(pkg, info, f)
}

// srcFuncs lists the functions declared in f followed by their function literals.
func srcFuncs(pkg *ssa.Package, info *types.Info, f *ast.File) []*ssa.Function {
	var funcs []*ssa.Function

	var add func(fn *ssa.Function)
	add = func(fn *ssa.Function) {
		funcs = append(funcs, fn)
		for _, anon := range fn.AnonFuncs {
			add(anon)
		}
	}

	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		obj, ok := info.Defs[fd.Name].(*types.Func)
		if !ok {
			continue
		}

		if fn := pkg.Prog.FuncValue(obj); fn != nil {
			add(fn)
		}
	}

	return funcs
}

func wrapSource(src string) *bytes.Buffer {
	const (
		header     = "package " + testpkg + "\n\nfunc _() {\n"
		suffix     = "\n}"
		wrapperLen = len(header) + len(suffix)
	)

	var srcFile bytes.Buffer
	srcFile.Grow(wrapperLen + len(src))

	srcFile.WriteString(header) // ignore error
	srcFile.WriteString(src)    // ignore error
	srcFile.WriteString(suffix) // ignore error

	return &srcFile
}

func firstFuncDecl(f *ast.File) *ast.FuncDecl {
	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			return fn
		}
	}

	return nil
}
