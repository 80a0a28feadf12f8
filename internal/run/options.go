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

package run

import (
	"log/slog"
	"os"

	"fillmore-labs.com/lifespan/internal/config"
)

// Options configures a lifespan analysis run.
type Options struct {
	// Behavior holds the enabled behavior flags.
	Behavior config.Behaviors

	// OutputDir is the directory lifetime records are written to.
	OutputDir string

	// Root is the directory file names in records are made relative to,
	// by default the working directory. Absolute file names are kept when
	// Root is empty or the file lies outside of it.
	Root string

	// MaxVisits limits the number of statement and terminator visits of the dataflow analysis per function.
	MaxVisits int

	// Logger receives progress messages. When nil, messages are discarded
	// unless [config.Verbose] is enabled.
	Logger *slog.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	root, err := os.Getwd()
	if err != nil {
		root = ""
	}

	return &Options{
		Behavior:  config.DefaultBehavior(),
		OutputDir: ".",
		Root:      root,
		MaxVisits: 0,
	}
}
