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

// Package query answers span queries against persisted lifetime records.
package query

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/lifespan/internal/record"
	"fillmore-labs.com/lifespan/internal/span"
)

// Input is a query document.
type Input struct {
	Root string `json:"root" yaml:"root"` // Directory containing the record files
	File string `json:"file" yaml:"file"` // Source file, relative to the analysis root
	Pos  string `json:"pos"  yaml:"pos"`  // "line:col: line:col"
}

// Range returns the queried source range.
func (in Input) Range() (span.Range, error) {
	return span.ParsePos(in.File, in.Pos)
}

// LogValue implements [slog.LogValuer].
func (in Input) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("root", in.Root),
		slog.String("file", in.File),
		slog.String("pos", in.Pos),
	)
}

// Mode selects how declaration spans are matched.
type Mode uint8

const (
	// Strict matches slots whose declaration span equals the query.
	Strict Mode = iota

	// Contained matches slots whose declaration span lies within the query.
	Contained
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"

	case Contained:
		return "contained"

	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// matches reports whether a slot declared at decl is selected by q.
func (m Mode) matches(decl, q span.Range) bool {
	if m == Contained {
		return decl.ContainedBy(q)
	}

	return decl == q
}

// Index holds the records of any number of units for lookup.
type Index struct {
	slots []slot
}

type slot struct {
	decl   span.Range
	ranges []string
}

// NewIndex builds an [Index] from units. Malformed declaration spans are an error.
func NewIndex(units ...*record.Unit) (*Index, error) {
	ix := &Index{}
	if err := ix.Add(units...); err != nil {
		return nil, err
	}

	return ix, nil
}

// Add inserts the records of units into ix.
func (ix *Index) Add(units ...*record.Unit) error {
	for _, u := range units {
		for _, l := range u.Locals {
			decl, err := span.Parse(l.Span)
			if err != nil {
				return fmt.Errorf("unit %s slot %s: %w", u.CrateName, l.FnIDLocal, err)
			}

			ix.slots = append(ix.slots, slot{decl: decl, ranges: l.Ranges})
		}
	}

	return nil
}

// Len returns the number of indexed slots.
func (ix *Index) Len() int {
	return len(ix.slots)
}

// Load reads every record file in root into a new [Index].
// Files are read concurrently; the index preserves the discovery order.
func Load(ctx context.Context, root string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := record.Discover(root)
	if err != nil {
		return nil, err
	}

	units := make([]*record.Unit, len(paths))

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			u, err := record.Read(path)
			if err != nil {
				return err
			}

			logger.DebugContext(ctx, "loaded records", slog.String("path", path), slog.Any("unit", u))
			units[i] = u

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewIndex(units...)
}

// Lookup returns the merged ranges of every slot whose declaration matches q.
// Range strings are fully validated; a malformed one is an error.
func (ix *Index) Lookup(q span.Range, mode Mode) (Result, error) {
	var matched []string

	for _, s := range ix.slots {
		if mode.matches(s.decl, q) {
			matched = append(matched, s.ranges...)
		}
	}

	grouped := make(map[string][]span.Range)
	seen := make(map[span.Range]struct{}, len(matched))

	for _, str := range matched {
		r, err := span.Parse(str)
		if err != nil {
			return nil, err
		}

		if _, ok := seen[r]; ok {
			continue
		}

		seen[r] = struct{}{}
		grouped[r.Filename] = append(grouped[r.Filename], r)
	}

	return newResult(grouped), nil
}

// Run loads the records below in.Root and looks up the queried range.
func Run(ctx context.Context, in Input, mode Mode, logger *slog.Logger) (Result, error) {
	q, err := in.Range()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	ix, err := Load(ctx, in.Root, logger)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "indexed records", slog.Int("slots", ix.Len()), slog.String("mode", mode.String()))

	return ix.Lookup(q, mode)
}
