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

package object

import "io"

// None is the sole instance of the None variant. It is allocated once
// and is never freed, per §3.2/§3.3.
type NoneObject struct {
	desc Descriptor
}

func (n *NoneObject) Desc() *Descriptor { return &n.desc }

// None is the process-wide None singleton. Every VM context shares it;
// constructing a second Context does not allocate a second None.
var None = newNone()

func newNone() *NoneObject {
	n := &NoneObject{}
	n.desc.InitSingleton(TagNone)
	return n
}

func init() {
	Register(TagNone, TypeOps{
		IsFalse: func(Object) bool { return true },
		Compare: func(a, b Object) CompareResult { return Same }, // both must be None (same tag, None is a singleton)
		Print: func(w io.Writer, _ Object, marshal bool) error {
			_, err := io.WriteString(w, "None")
			return err
		},
	})
}
