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

package function

import (
	"io"

	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/container"
)

// Class is the CLO variant: legacy per the Design Note, which leaves
// open whether a redesigned class model should replace the __bt/__nm
// attribute slots with dedicated fields. This implementation preserves
// those two attrs-dict entries exactly rather than guessing at a
// redesign (see DESIGN.md, Open Question).
type Class struct {
	desc  object.Descriptor
	Attrs *container.Dict
}

func (c *Class) Desc() *object.Descriptor { return &c.desc }

// AttrsDict satisfies interp's attrsOf lookup for LOAD_ATTR/STORE_ATTR.
func (c *Class) AttrsDict() *container.Dict { return c.Attrs }

// baseTupleKey and nameKey are the conventional attrs-dict keys __bt
// (base tuple) and __nm (name), kept as plain strings rather than
// interned constants since the class model is legacy and unlikely to
// gain more such slots.
const (
	baseTupleKey = "__bt"
	nameKey      = "__nm"
)

// NewClass builds a Class whose attrs dict already carries __bt (a
// *container.Tuple of base classes) and __nm (a *container.String name),
// retaining attrs.
func NewClass(attrs *container.Dict) *Class {
	c := &Class{Attrs: attrs}
	c.desc.Init(object.TagClass)
	object.Retain(attrs)
	return c
}

// BaseTuple returns the __bt entry, or nil if absent.
func (c *Class) BaseTuple() *container.Tuple {
	v, ok := c.Attrs.Get(container.NewString([]byte(baseTupleKey), true))
	if !ok {
		return nil
	}
	t, _ := v.(*container.Tuple)
	return t
}

// Name returns the __nm entry's bytes, or "" if absent.
func (c *Class) Name() string {
	v, ok := c.Attrs.Get(container.NewString([]byte(nameKey), true))
	if !ok {
		return ""
	}
	s, ok := v.(*container.String)
	if !ok {
		return ""
	}
	return string(s.Bytes())
}

func init() {
	object.Register(object.TagClass, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			return object.Release(obj.(*Class).Attrs, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			c := obj.(*Class)
			_, err := io.WriteString(w, "<class '"+c.Name()+"'>")
			return err
		},
	})
}

// Instance is the CLI variant: a class pointer plus its own attrs dict,
// per §3's object table.
type Instance struct {
	desc  object.Descriptor
	Class *Class
	Attrs *container.Dict
}

func (i *Instance) Desc() *object.Descriptor { return &i.desc }

// AttrsDict satisfies interp's attrsOf lookup for LOAD_ATTR/STORE_ATTR.
func (i *Instance) AttrsDict() *container.Dict { return i.Attrs }

// NewInstance builds an Instance of cls with a fresh, empty attrs dict.
func NewInstance(cls *Class) *Instance {
	i := &Instance{Class: cls, Attrs: container.NewDict()}
	i.desc.Init(object.TagInstance)
	object.Retain(cls)
	return i
}

func init() {
	object.Register(object.TagInstance, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			i := obj.(*Instance)
			if err := object.Release(i.Class, heap); err != nil {
				return err
			}
			return object.Release(i.Attrs, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			i := obj.(*Instance)
			_, err := io.WriteString(w, "<"+i.Class.Name()+" instance>")
			return err
		},
	})
}
