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

// Lifespan-query prints the live ranges of the local variable declared at a
// source range, read from the lifetime records written by lifespan.
//
// Usage:
//
//	lifespan-query '{"root": ".", "file": "main.go", "pos": "12:2: 12:5"}'
//	lifespan-query --file main.go --pos '12:2: 12:5'
//	lifespan-query --input query.yaml --contained
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
