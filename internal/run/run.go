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

// Package run drives a single lifespan analysis pass.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"

	"fillmore-labs.com/lifespan/internal/astutil"
	"fillmore-labs.com/lifespan/internal/config"
	"fillmore-labs.com/lifespan/internal/lifetime"
	"fillmore-labs.com/lifespan/internal/record"
	"fillmore-labs.com/lifespan/internal/ssair"
	"fillmore-labs.com/lifespan/internal/tracker"
)

// ErrResultMissing is returned when a required analyzer result is unavailable.
var ErrResultMissing = errors.New("analyzer result missing")

// Run computes the lifetime records of the package in p and optionally persists them.
// The result is the [*record.Unit] of the package.
func (r *Options) Run(p *analysis.Pass) (any, error) {
	s, ok := p.ResultOf[buildssa.Analyzer].(*buildssa.SSA)
	if !ok {
		return nil, fmt.Errorf("lifespan: %s %w", buildssa.Analyzer.Name, ErrResultMissing)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "Lifespan")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	logger := r.logger()

	cfg := ssair.Config{
		Name:      p.Pkg.Path(),
		Root:      r.Root,
		Generated: r.Behavior.Enabled(config.IncludeGenerated),
		Tracker:   tracker.New(),
	}

	var u *ssair.Unit

	trace.WithRegion(ctx, "Lower", func() {
		u = ssair.Lower(p.Fset, p.TypesInfo, p.Files, s.SrcFuncs, cfg)
	})

	for _, pr := range u.Problems {
		astutil.InternalError(p, pr, "%s", pr.Message)
	}

	unit, err := lifetime.Analyze(ctx, u.Program,
		lifetime.WithInterprocedural(r.Behavior.Enabled(config.Interprocedural)),
		lifetime.WithMaxVisits(r.MaxVisits),
		lifetime.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("lifespan: package %s: %w", p.Pkg.Path(), err)
	}

	if !r.Behavior.Enabled(config.WriteRecords) {
		return unit, nil
	}

	path, err := record.Write(r.OutputDir, unit)
	if err != nil {
		return nil, fmt.Errorf("lifespan: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "Wrote lifetime records",
		slog.String("path", path), slog.Any("unit", unit))

	return unit, nil
}

func (r *Options) logger() *slog.Logger {
	switch {
	case r.Logger != nil:
		return r.Logger

	case r.Behavior.Enabled(config.Verbose):
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	default:
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}
