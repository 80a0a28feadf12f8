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

package analyzer

import (
	"reflect"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"

	"fillmore-labs.com/lifespan/internal/record"
	"fillmore-labs.com/lifespan/internal/run"
)

// Public API constants for the lifespan analyzer.
const (
	name = "lifespan"
	doc  = `lifespan records the live ranges of local variables

The lifetime records of every analyzed package are written as
lifetime_<package>.info files for the lifespan-query tool.`
	url = "https://pkg.go.dev/fillmore-labs.com/lifespan"
)

// New creates a new instance of the lifespan analyzer.
// It allows for programmatic configuration using [Option], which is useful
// for integrating the analyzer into other tools. For command-line use, the
// pre-configured [Analyzer] variable is typically sufficient.
//
// The result of the analyzer is the *[record.Unit] of the analyzed package.
func New(opts ...Option) *analysis.Analyzer {
	r := run.DefaultOptions()
	Options(opts).apply(r)

	a := &analysis.Analyzer{
		Name:       name,
		Doc:        doc,
		URL:        url,
		Run:        r.Run,
		Requires:   []*analysis.Analyzer{buildssa.Analyzer},
		ResultType: reflect.TypeFor[*record.Unit](),
	}

	registerFlags(&a.Flags, r)

	return a
}

// Analyzer is a pre-configured *[analysis.Analyzer] recording the lifetimes of local variables.
var Analyzer = New()
