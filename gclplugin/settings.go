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

package gclplugin

import lifespan "fillmore-labs.com/lifespan/analyzer"

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// Out is the directory lifetime records are written to.
	Out *string `json:"out,omitzero"`
	// Root makes file names in records relative to this directory.
	Root *string `json:"root,omitzero"`
	// Generated records locals of generated files.
	Generated *bool `json:"generated,omitzero"`
	// Interprocedural extends live ranges into called functions.
	Interprocedural *bool `json:"interprocedural,omitzero"`
	// Write enables writing lifetime records.
	Write *bool `json:"write,omitzero"`
	// MaxVisits limits the statement and terminator visits of the dataflow analysis per function.
	MaxVisits *int `json:"max-visits,omitzero"`
}

// Options converts [Settings] into a list of [lifespan.Option] for the lifespan analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []lifespan.Option {
	var opts []lifespan.Option

	opts = appendOption(opts, s.Out, lifespan.WithOutputDir)
	opts = appendOption(opts, s.Root, lifespan.WithRoot)
	opts = appendOption(opts, s.Generated, lifespan.WithGenerated)
	opts = appendOption(opts, s.Interprocedural, lifespan.WithInterprocedural)
	opts = appendOption(opts, s.Write, lifespan.WithWrite)
	opts = appendOption(opts, s.MaxVisits, lifespan.WithMaxVisits)

	return opts
}

// appendOption appends a non-nil setting to a [lifespan.Option] list.
func appendOption[T any](opts []lifespan.Option, value *T, constructor func(T) lifespan.Option) []lifespan.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
