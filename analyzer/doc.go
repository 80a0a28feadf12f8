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

// Package analyzer implements the lifespan static analysis pass.
//
// # Overview
//
// Lifespan computes, for every named local variable, the source ranges in
// which the variable is live. A variable is live from the statement that
// declares it until control leaves its lexical scope. When a variable is
// live across a call of a function in the same package, the whole body of
// the callee and of every function reachable from it is added.
//
// # Records
//
// The ranges of a package are written to lifetime_<package>.info in the
// directory given by -out:
//
//	{
//	  "crate_name": "example.com/app",
//	  "locals": [
//	    {
//	      "fn_id_local": "(example.com/app.run, _0)",
//	      "span": "app.go:12:2: 12:5",
//	      "ranges": [
//	        "app.go:12:2: 15:3",
//	        "util.go:4:1: 9:2"
//	      ]
//	    }
//	  ]
//	}
//
// Use the lifespan-query command to look up the ranges of a declaration.
package analyzer
