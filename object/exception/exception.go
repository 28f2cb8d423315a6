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

// Package exception implements the EXN variant: an exception object
// materialized on the evaluation stack when a user program catches a
// raised code, per §3's object table and §7's "materialized on the
// evaluation stack when the user program catches them."
package exception

import (
	"io"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
)

// Exception is the EXN variant: it carries the numeric kind that was
// raised plus the site it was raised at, so a handler's except clause
// and any repr of the caught value see the same information the
// interpreter used to unwind.
type Exception struct {
	desc object.Descriptor
	Kind excode.Code
	At   excode.Site
}

func (e *Exception) Desc() *object.Descriptor { return &e.desc }

// New builds an Exception from err's code and site. If err is not an
// *excode.Error, Kind is excode.Err and At is zero.
func New(err error) *Exception {
	e := &Exception{}
	if ee, ok := err.(*excode.Error); ok {
		e.Kind = ee.Code
		e.At = ee.At
	} else {
		e.Kind = excode.Err
	}
	e.desc.Init(object.TagException)
	return e
}

func init() {
	object.Register(object.TagException, object.TypeOps{
		Compare: func(a, b object.Object) object.CompareResult {
			if a.(*Exception).Kind == b.(*Exception).Kind {
				return object.Same
			}
			return object.Differ
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			e := obj.(*Exception)
			_, err := io.WriteString(w, e.Kind.String())
			return err
		},
	})
}
