// Copyright (C) 2024 corevm contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package function implements the FXN, CLO, CLI and MOD variants: the
// bindable and attribute-bearing object kinds built on top of a code or
// native-code object, per §3's object table.
package function

import (
	"io"

	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/container"
)

// Function is the FXN variant: a bindable instance of a code (or native
// code) object with its own attrs and globals dicts, per the Glossary's
// "Function object" entry.
type Function struct {
	desc     object.Descriptor
	Code     object.Object // *code.Code or *code.Native
	Attrs    *container.Dict
	Globals  *container.Dict
	Defaults *container.Tuple
}

func (f *Function) Desc() *object.Descriptor { return &f.desc }

// AttrsDict satisfies interp's attrsOf lookup for LOAD_ATTR/STORE_ATTR.
func (f *Function) AttrsDict() *container.Dict { return f.Attrs }

// NewFunction builds a Function over code, retaining code, globals and
// defaults. A fresh, empty attrs dict is allocated, matching
// mod_import's "wraps it in a function object with a fresh globals
// dict" (§4.5) generalized to attrs as well.
func NewFunction(code object.Object, globals *container.Dict, defaults *container.Tuple) *Function {
	f := &Function{
		Code:     code,
		Attrs:    container.NewDict(),
		Globals:  globals,
		Defaults: defaults,
	}
	f.desc.Init(object.TagFunction)
	object.Retain(code)
	object.Retain(globals)
	object.Retain(defaults)
	return f
}

func init() {
	object.Register(object.TagFunction, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			f := obj.(*Function)
			if err := object.Release(f.Code, heap); err != nil {
				return err
			}
			if err := object.Release(f.Attrs, heap); err != nil {
				return err
			}
			if err := object.Release(f.Globals, heap); err != nil {
				return err
			}
			return object.Release(f.Defaults, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			_, err := io.WriteString(w, "<function>")
			return err
		},
	})
}

// Module is the MOD variant. It reuses the function-object layout per
// §3's "reuses function-object layout"; the module's body runs as a
// Function whose isImport flag (tracked by the interpreter's frame, not
// here) is set, and whose attrs dict becomes this Module's Attrs on
// return.
type Module struct {
	desc  object.Descriptor
	Name  string
	Attrs *container.Dict
}

func (m *Module) Desc() *object.Descriptor { return &m.desc }

// AttrsDict satisfies interp's attrsOf lookup: a module's top-level
// names live in its attrs dict, per §3's "reuses function-object layout."
func (m *Module) AttrsDict() *container.Dict { return m.Attrs }

// NewModule wraps attrs (the completed body's attribute dict, already
// owned by the caller's reference) as a Module named name.
func NewModule(name string, attrs *container.Dict) *Module {
	m := &Module{Name: name, Attrs: attrs}
	m.desc.Init(object.TagModule)
	object.Retain(attrs)
	return m
}

func init() {
	object.Register(object.TagModule, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			return object.Release(obj.(*Module).Attrs, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			m := obj.(*Module)
			_, err := io.WriteString(w, "<module '"+m.Name+"'>")
			return err
		},
	})
}
