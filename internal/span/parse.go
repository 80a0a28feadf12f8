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

package span

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned for span strings that do not follow the wire format.
var ErrMalformed = errors.New("malformed span")

// tokens is the number of colon separated fields in "file:line:col: line:col".
const tokens = 5

// Parse parses a range in the wire format "file:line:col: line:col".
//
// The fourth field carries a single leading space which is removed before
// conversion. Any other deviation is an error wrapping [ErrMalformed].
func Parse(s string) (Range, error) {
	fields := strings.Split(s, ":")
	if len(fields) != tokens {
		return Range{}, fmt.Errorf("%w %q: got %d fields, want %d", ErrMalformed, s, len(fields), tokens)
	}

	var (
		r   Range
		err error
	)

	r.Filename = fields[0]
	if r.Begin, err = parsePosition(s, fields[1], fields[2]); err != nil {
		return Range{}, err
	}

	endLine, ok := strings.CutPrefix(fields[3], " ")
	if !ok {
		return Range{}, fmt.Errorf("%w %q: missing space before end position", ErrMalformed, s)
	}

	if r.End, err = parsePosition(s, endLine, fields[4]); err != nil {
		return Range{}, err
	}

	return r, nil
}

// MustParse is like [Parse] but panics on error. It is intended for tests and constants.
func MustParse(s string) Range {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return r
}

// ParsePos parses the file-less form "line:col: line:col" and attaches filename.
func ParsePos(filename, pos string) (Range, error) {
	return Parse(filename + ":" + pos)
}

func parsePosition(s, line, column string) (Position, error) {
	l, err := parseUint(line)
	if err != nil {
		return Position{}, fmt.Errorf("%w %q: line %q: %w", ErrMalformed, s, line, err)
	}

	c, err := parseUint(column)
	if err != nil {
		return Position{}, fmt.Errorf("%w %q: column %q: %w", ErrMalformed, s, column, err)
	}

	return Position{Line: l, Column: c}, nil
}

// parseUint accepts unsigned decimal numbers only, no sign.
func parseUint(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, err
	}

	return int(n), nil
}
