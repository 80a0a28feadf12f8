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

// Package config holds the typed behavior flags of the lifespan analyzer.
package config

// Behavior represents configuration options for the analysis.
type Behavior uint8

const (
	// IncludeGenerated specifies whether to include locals of generated files.
	IncludeGenerated Behavior = 1 << iota

	// Interprocedural extends slots live across a call by the extents of all reachable callees.
	Interprocedural

	// WriteRecords persists the lifetime records of every analyzed package.
	WriteRecords

	// Verbose logs progress messages to standard error.
	Verbose
)

// Behaviors is the set of enabled [Behavior] flags.
type Behaviors = BitMask[Behavior]

// DefaultBehavior returns the behavior flags enabled by default.
func DefaultBehavior() Behaviors {
	return NewBitMask(Interprocedural, WriteRecords)
}
