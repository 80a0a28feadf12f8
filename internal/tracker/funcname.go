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

package tracker

import (
	"go/types"
	"strings"
)

// FuncName identifies a function or method independent of its type-checker object.
type FuncName struct {
	Path     string // Package path of the function or the receiver type
	Receiver string // Receiver type name, empty for functions
	Name     string
}

func (f FuncName) String() string {
	var b strings.Builder

	if f.Receiver != "" {
		b.WriteByte('(')

		if f.Path != "" {
			b.WriteString(f.Path)
			b.WriteByte('.')
		}

		b.WriteString(f.Receiver)
		b.WriteString(").")
	} else if f.Path != "" {
		b.WriteString(f.Path)
		b.WriteByte('.')
	}

	b.WriteString(f.Name)

	return b.String()
}

// FuncNameOf returns the [FuncName] of fun.
// Pointer receivers are reported by their element type.
func FuncNameOf(fun *types.Func) FuncName {
	sig, _ := fun.Type().(*types.Signature)
	if sig == nil || sig.Recv() == nil {
		return FuncName{Path: pkgPath(fun.Pkg()), Name: fun.Name()}
	}

	path, recv := receiverName(sig.Recv().Type())

	return FuncName{Path: path, Receiver: recv, Name: fun.Name()}
}

func receiverName(t types.Type) (path, name string) {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}

	switch t := t.(type) {
	case *types.Named:
		obj := t.Origin().Obj()

		return pkgPath(obj.Pkg()), obj.Name()

	case *types.Interface:
		return "", "interface"

	default:
		return "", "<invalid>"
	}
}

func pkgPath(pkg *types.Package) string {
	if pkg == nil {
		return ""
	}

	return pkg.Path()
}
