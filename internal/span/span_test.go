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

package span_test

import (
	"errors"
	"testing"

	. "fillmore-labs.com/lifespan/internal/span"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		name  string
		input string
		want  Range
		err   bool
	}{
		{"simple", "src/main.rs:8:14: 8:20", Range{"src/main.rs", Position{8, 14}, Position{8, 20}}, false},
		{"multiline", "a.go:4:13: 7:6", Range{"a.go", Position{4, 13}, Position{7, 6}}, false},
		{"too few fields", "a.go:4:13 7:6", Range{}, true},
		{"too many fields", "c:/a.go:4:13: 7:6", Range{}, true},
		{"no space", "a.go:4:13:7:6", Range{}, true},
		{"non-numeric", "a.go:x:13: 7:6", Range{}, true},
		{"trailing period", "a.go:19:10: 25.19", Range{}, true},
		{"negative line", "a.go:-1:2: 3:4", Range{}, true},
		{"signed column", "a.go:1:+2: 3:4", Range{}, true},
		{"signed end", "a.go:1:2: -3:4", Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if tt.err {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, ErrMalformed)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}

			if s := got.String(); s != tt.input {
				t.Errorf("String() = %q, want %q", s, tt.input)
			}
		})
	}
}

func TestParsePos(t *testing.T) {
	t.Parallel()

	got, err := ParsePos("src/a.rs", "4:9: 4:10")
	if err != nil {
		t.Fatalf("ParsePos failed: %v", err)
	}

	if want := MustParse("src/a.rs:4:9: 4:10"); got != want {
		t.Errorf("ParsePos = %v, want %v", got, want)
	}

	if got, want := got.PosString(), "4:9: 4:10"; got != want {
		t.Errorf("PosString() = %q, want %q", got, want)
	}
}

func TestMergeable(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		name string
		a, b string
		want bool
	}{
		{"overlap", "f:1:1: 3:1", "f:2:1: 4:1", true},
		{"touch", "f:1:1: 2:5", "f:2:5: 3:1", true},
		{"contained", "f:1:1: 9:1", "f:2:1: 3:1", true},
		{"gap", "f:1:1: 2:4", "f:2:5: 3:1", false},
		{"other file", "f:1:1: 3:1", "g:2:1: 4:1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, b := MustParse(tt.a), MustParse(tt.b)
			if got := a.Mergeable(b); got != tt.want {
				t.Errorf("%v.Mergeable(%v) = %t, want %t", a, b, got, tt.want)
			}

			if got := b.Mergeable(a); got != tt.want {
				t.Errorf("%v.Mergeable(%v) = %t, want %t", b, a, got, tt.want)
			}
		})
	}
}

func TestContainedBy(t *testing.T) {
	t.Parallel()

	outer := MustParse("a.go:4:1: 8:2")

	tests := [...]struct {
		inner string
		want  bool
	}{
		{"a.go:4:9: 4:10", true},
		{"a.go:4:1: 8:2", true},
		{"a.go:3:9: 4:10", false},
		{"a.go:8:1: 8:3", false},
		{"b.go:4:9: 4:10", false},
	}

	for _, tt := range tests {
		if got := MustParse(tt.inner).ContainedBy(outer); got != tt.want {
			t.Errorf("%s.ContainedBy(%v) = %t, want %t", tt.inner, outer, got, tt.want)
		}
	}
}
