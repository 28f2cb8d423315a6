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

package host

import (
	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/interp"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/container"
)

// defaultNatives returns the platform-specific native functions this
// desktop host offers beyond the interpreter's own builtins, in the
// fixed order an image's no_funcindx values reference, per §6.5.
func (d *Desktop) defaultNatives() []NativeFunc {
	return []NativeFunc{d.nativePutc, d.nativeGetc}
}

// nativePutc writes a single-byte string argument's byte to the
// console, the native counterpart to WriteByte for bytecode-level I/O.
func (d *Desktop) nativePutc(it *interp.Interp, args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, excode.New(excode.ExNumArgs, "host", 33)
	}
	s, ok := args[0].(*container.String)
	if !ok || s.Len() != 1 {
		return nil, excode.New(excode.ExType, "host", 37)
	}
	if err := d.WriteByte(s.Bytes()[0]); err != nil {
		return nil, excode.New(excode.ExIO, "host", 40)
	}
	return object.None, nil
}

// nativeGetc blocks on the console's input stream and returns the next
// byte as a single-byte string.
func (d *Desktop) nativeGetc(it *interp.Interp, args []object.Object) (object.Object, error) {
	if len(args) != 0 {
		return nil, excode.New(excode.ExNumArgs, "host", 49)
	}
	b, err := d.ReadByte()
	if err != nil {
		return nil, excode.New(excode.ExIO, "host", 53)
	}
	return container.NewString([]byte{b}, true), nil
}
