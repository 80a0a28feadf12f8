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

package tracker_test

import (
	"fmt"
	"go/ast"
	"testing"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"

	. "fillmore-labs.com/lifespan/internal/tracker"
)

func TestCantReturn(t *testing.T) {
	t.Parallel()

	testdata := analysistest.TestData()

	testAnalyzer := &analysis.Analyzer{
		Name:     "cantreturnanalyzer",
		Doc:      "test cantreturn",
		Run:      crrun,
		Requires: []*analysis.Analyzer{buildssa.Analyzer},
	}

	analysistest.Run(t, testdata, testAnalyzer, "./cantreturn")
}

func crrun(p *analysis.Pass) (any, error) {
	s, ok := p.ResultOf[buildssa.Analyzer].(*buildssa.SSA)
	if !ok {
		return nil, fmt.Errorf("result of %s missing", buildssa.Analyzer.Name)
	}

	t := New()

	for _, fn := range s.SrcFuncs {
		if f := fileOf(p, fn); f != nil && ast.IsGenerated(f) {
			continue
		}

		for _, b := range fn.Blocks {
			for _, instr := range b.Instrs {
				switch instr := instr.(type) {
				case *ssa.Call:
					if !t.CantReturn(instr.Common()) {
						continue
					}

				case *ssa.Panic:

				default:
					continue
				}

				p.Report(analysis.Diagnostic{Pos: instr.Pos(), Message: "Can't return"})
			}
		}
	}

	return any(nil), nil
}

func fileOf(p *analysis.Pass, fn *ssa.Function) *ast.File {
	for _, f := range p.Files {
		if f.FileStart <= fn.Pos() && fn.Pos() <= f.FileEnd {
			return f
		}
	}

	return nil
}

func TestExtra(t *testing.T) {
	t.Parallel()

	name := FuncName{Path: "example.com/pkg", Name: "Die"}
	if got, want := name.String(), "example.com/pkg.Die"; got != want {
		t.Errorf("Got %q, want %q", got, want)
	}

	var common ssa.CallCommon
	if New(name).CantReturn(&common) {
		t.Error("Call without callee reported as non-returning")
	}
}
