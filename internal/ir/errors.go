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

package ir

import "errors"

var (
	// ErrNoBlocks is returned for a function without an entry block.
	ErrNoBlocks = errors.New("no basic blocks")

	// ErrNoTerminator is returned for a block without a terminator.
	ErrNoTerminator = errors.New("block without terminator")

	// ErrBadTarget is returned for a terminator that jumps outside the function.
	ErrBadTarget = errors.New("branch target out of range")
)
