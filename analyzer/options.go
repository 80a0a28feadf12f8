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
	"log/slog"

	"fillmore-labs.com/lifespan/internal/config"
	"fillmore-labs.com/lifespan/internal/run"
)

// Option configures specific behavior of a [New] lifespan analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithOutputDir is an [Option] to configure the directory lifetime records are written to.
func WithOutputDir(dir string) Option { return outputDirOption{dir: dir} }

type outputDirOption struct{ dir string }

func (o outputDirOption) apply(r *run.Options) {
	r.OutputDir = o.dir
}

func (o outputDirOption) LogAttr() slog.Attr {
	return slog.String("out", o.dir)
}

// WithRoot is an [Option] to make file names in records relative to root.
func WithRoot(root string) Option { return rootOption{root: root} }

type rootOption struct{ root string }

func (o rootOption) apply(r *run.Options) {
	r.Root = o.root
}

func (o rootOption) LogAttr() slog.Attr {
	return slog.String("root", o.root)
}

// WithGenerated is an [Option] to configure recording locals of generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithInterprocedural is an [Option] to configure extending live ranges into called functions.
func WithInterprocedural(interprocedural bool) Option {
	return interproceduralOption{interprocedural: interprocedural}
}

type interproceduralOption struct{ interprocedural bool }

func (o interproceduralOption) apply(r *run.Options) {
	r.Behavior.Set(config.Interprocedural, o.interprocedural)
}

func (o interproceduralOption) LogAttr() slog.Attr {
	return slog.Bool("interprocedural", o.interprocedural)
}

// WithWrite is an [Option] to configure whether lifetime records are written.
func WithWrite(write bool) Option { return writeOption{write: write} }

type writeOption struct{ write bool }

func (o writeOption) apply(r *run.Options) {
	r.Behavior.Set(config.WriteRecords, o.write)
}

func (o writeOption) LogAttr() slog.Attr {
	return slog.Bool("write", o.write)
}

// WithMaxVisits is an [Option] to limit the statement and terminator visits of the dataflow analysis per function.
// Values less than one select the default limit.
func WithMaxVisits(maxVisits int) Option { return maxVisitsOption{maxVisits: maxVisits} }

type maxVisitsOption struct{ maxVisits int }

func (o maxVisitsOption) apply(r *run.Options) {
	r.MaxVisits = o.maxVisits
}

func (o maxVisitsOption) LogAttr() slog.Attr {
	return slog.Int("max-visits", o.maxVisits)
}

// WithLogger is an [Option] to receive progress messages.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(r *run.Options) {
	r.Logger = o.logger
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}
