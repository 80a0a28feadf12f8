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

// Package record persists the lifetime records of a compilation unit.
//
// Each unit is stored as one JSON document named lifetime_<unit>.info:
//
//	{
//	  "crate_name": "example.com/pkg",
//	  "locals": [
//	    {
//	      "fn_id_local": "(example.com/pkg.f, _1)",
//	      "span": "pkg/f.go:4:9: 4:10",
//	      "ranges": ["pkg/f.go:4:9: 7:2"]
//	    }
//	  ]
//	}
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// Prefix starts the file name of every record file.
	Prefix = "lifetime_"

	// Suffix ends the file name of every record file.
	Suffix = ".info"
)

// ErrNoRecords is returned when a directory contains no record files.
var ErrNoRecords = errors.New("no lifetime records found")

// Unit holds the lifetime records of one compilation unit.
type Unit struct {
	CrateName string  `json:"crate_name"`
	Locals    []Local `json:"locals"`
}

// Local is the lifetime record of a single slot.
type Local struct {
	FnIDLocal string   `json:"fn_id_local"`
	Span      string   `json:"span"`
	Ranges    []string `json:"ranges"`
}

// LogValue implements [slog.LogValuer].
func (u *Unit) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("crate", u.CrateName),
		slog.Int("locals", len(u.Locals)),
	)
}

// FileName returns the record file name for the unit called name.
// Bytes that are unsafe in file names, and '_' itself, are escaped as '_'
// followed by two lowercase hex digits, so distinct names never share a file.
func FileName(name string) string {
	const hex = "0123456789abcdef"

	var b strings.Builder

	b.Grow(len(Prefix) + len(name) + len(Suffix))
	b.WriteString(Prefix)

	for i := range len(name) {
		switch c := name[i]; {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '.', c == '-':
			b.WriteByte(c)

		default:
			b.WriteByte('_')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		}
	}

	b.WriteString(Suffix)

	return b.String()
}

// IsRecordFile reports whether name follows the record file naming convention.
func IsRecordFile(name string) bool {
	return strings.HasPrefix(name, Prefix) && strings.HasSuffix(name, Suffix)
}

// Write stores u in dir and returns the path written.
//
// The file is written to a temporary name first and renamed into place, so
// concurrent readers never observe a partial record.
func Write(dir string, u *Unit) (path string, err error) {
	path = filepath.Join(dir, FileName(u.CrateName))

	f, err := os.CreateTemp(dir, FileName(u.CrateName)+".tmp*")
	if err != nil {
		return "", fmt.Errorf("can't create record for %s: %w", u.CrateName, err)
	}

	tmp := f.Name()

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err = enc.Encode(u); err != nil {
		return "", fmt.Errorf("can't encode record for %s: %w", u.CrateName, err)
	}

	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("can't sync record %s: %w", tmp, err)
	}

	if err = f.Close(); err != nil {
		return "", fmt.Errorf("can't close record %s: %w", tmp, err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("can't move record into place: %w", err)
	}

	return path, nil
}

// Read loads a record file.
func Read(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read record: %w", err)
	}

	var u Unit
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("can't parse record %s: %w", path, err)
	}

	return &u, nil
}

// Discover lists the record files directly inside root in ascending order.
// Subdirectories are not searched.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("can't list records: %w", err)
	}

	var paths []string

	for _, e := range entries {
		if !e.Type().IsRegular() || !IsRecordFile(e.Name()) {
			continue
		}

		paths = append(paths, filepath.Join(root, e.Name()))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, root)
	}

	slices.Sort(paths)

	return paths, nil
}
