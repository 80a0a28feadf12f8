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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fillmore-labs.com/lifespan/internal/query"
)

var (
	// ErrIncompleteQuery is returned when the query lacks a file or position.
	ErrIncompleteQuery = errors.New("query needs a file and a position")

	// ErrConflictingInput is returned when a query argument and an input file are both given.
	ErrConflictingInput = errors.New("query argument and --input are mutually exclusive")
)

type queryFlags struct {
	input     string
	root      string
	file      string
	pos       string
	contained bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var f queryFlags

	cmd := &cobra.Command{
		Use:   "lifespan-query [query]",
		Short: "Look up the live ranges of a local variable",
		Long: `lifespan-query reads the lifetime_*.info records in the query root and
prints the live ranges of every local variable declared at the queried
source range, grouped by file.

The query is a JSON document {"root": ..., "file": ..., "pos": "l:c: l:c"},
given as argument, read from --input (JSON or YAML), or assembled from flags.
Flags override fields of the document.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "read the query from a JSON or YAML file")
	fl.StringVar(&f.root, "root", "", "directory containing the lifetime records")
	fl.StringVar(&f.file, "file", "", "source file of the declaration")
	fl.StringVar(&f.pos, "pos", "", "declaration range as \"line:col: line:col\"")
	fl.BoolVar(&f.contained, "contained", false, "match declarations inside the range instead of equal to it")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log loaded records to standard error")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, f queryFlags) error {
	in, err := readInput(args, f.input)
	if err != nil {
		return err
	}

	in = f.override(in)
	if in.File == "" || in.Pos == "" {
		return ErrIncompleteQuery
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	mode := query.Strict
	if f.contained {
		mode = query.Contained
	}

	logger.LogAttrs(cmd.Context(), slog.LevelDebug, "Running query",
		slog.Any("input", in), slog.String("mode", mode.String()))

	res, err := query.Run(cmd.Context(), in, mode, logger)
	if err != nil {
		return err
	}

	return res.Format(cmd.OutOrStdout())
}

// readInput decodes the query document from the argument or the input file.
func readInput(args []string, input string) (query.Input, error) {
	var in query.Input

	switch {
	case len(args) > 0 && input != "":
		return in, ErrConflictingInput

	case len(args) > 0:
		if err := json.Unmarshal([]byte(args[0]), &in); err != nil {
			return in, fmt.Errorf("can't decode query: %w", err)
		}

	case input != "":
		data, err := os.ReadFile(input)
		if err != nil {
			return in, fmt.Errorf("can't read query: %w", err)
		}

		if strings.EqualFold(filepath.Ext(input), ".json") {
			err = json.Unmarshal(data, &in)
		} else {
			err = yaml.Unmarshal(data, &in)
		}

		if err != nil {
			return in, fmt.Errorf("can't decode query %s: %w", input, err)
		}
	}

	return in, nil
}

func (f queryFlags) override(in query.Input) query.Input {
	if f.root != "" {
		in.Root = f.root
	}

	if f.file != "" {
		in.File = f.file
	}

	if f.pos != "" {
		in.Pos = f.pos
	}

	if in.Root == "" {
		in.Root = "."
	}

	return in
}
