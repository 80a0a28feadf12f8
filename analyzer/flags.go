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
	"flag"

	"fillmore-labs.com/lifespan/internal/config"
	"fillmore-labs.com/lifespan/internal/run"
)

// registerFlags binds the [run.Options] values to command line flag values.
func registerFlags(flags *flag.FlagSet, r *run.Options) {
	flags.StringVar(&r.OutputDir, "out", r.OutputDir, "directory to write lifetime records to")
	flags.StringVar(&r.Root, "root", r.Root, "make file names in records relative to this directory")
	flags.IntVar(&r.MaxVisits, "max-visits", r.MaxVisits, "maximum number of statement and terminator visits per function (0 for the default)")

	flags.Var(NewBehaviorValue(&r.Behavior, config.IncludeGenerated), "generated", "record locals of generated files")
	flags.Var(NewBehaviorValue(&r.Behavior, config.Interprocedural), "interprocedural", "extend live ranges into called functions")
	flags.Var(NewBehaviorValue(&r.Behavior, config.WriteRecords), "write", "write lifetime records")
	flags.Var(NewBehaviorValue(&r.Behavior, config.Verbose), "verbose", "log progress to standard error")
}
