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

package interp

import (
	"bytes"
	"reflect"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/code"
	"github.com/nanovm/corevm/object/container"
)

// builtinSpec names one entry of the §4.7 "Built-ins" global module-like
// dict: a native function object whose index maps into the host-supplied
// dispatch table.
type builtinSpec struct {
	name string
	fn   NativeFn
}

var builtinTable = []builtinSpec{
	{"len", builtinLen},
	{"type", builtinType},
	{"range", builtinRange},
	{"chr", builtinChr},
	{"ord", builtinOrd},
	{"abs", builtinAbs},
	{"id", builtinID},
	{"globals", builtinGlobals},
	{"print", builtinPrint},
}

// RegisterBuiltins populates it.Builtins and it.Natives with the
// standard builtin set, per §4.7. Hosts that add platform-specific
// natives should append to it.Natives afterward and register their own
// names into it.Builtins directly.
func (it *Interp) RegisterBuiltins() {
	for _, b := range builtinTable {
		idx := len(it.Natives)
		it.Natives = append(it.Natives, b.fn)
		name := container.NewString([]byte(b.name), true)
		native := code.NewNative(-1, idx)
		it.Builtins.SetItem(name, native, it.Heap)
		object.Release(name, it.Heap)
		object.Release(native, it.Heap)
	}
}

func builtinLen(it *Interp, args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, excode.New(excode.ExNumArgs, "interp", 50)
	}
	switch v := args[0].(type) {
	case *container.String:
		return container.NewInt(int32(v.Len())), nil
	case *container.Tuple:
		return container.NewInt(int32(v.Len())), nil
	case *container.List:
		return container.NewInt(int32(v.Len())), nil
	case *container.Dict:
		return container.NewInt(int32(v.Len())), nil
	default:
		return nil, excode.New(excode.ExType, "interp", 63)
	}
}

func builtinType(it *Interp, args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, excode.New(excode.ExNumArgs, "interp", 69)
	}
	return container.NewString([]byte(args[0].Desc().Tag().String()), true), nil
}

func builtinRange(it *Interp, args []object.Object) (object.Object, error) {
	var lo, hi, step int32 = 0, 0, 1
	switch len(args) {
	case 1:
		hi = mustInt(args[0])
	case 2:
		lo, hi = mustInt(args[0]), mustInt(args[1])
	case 3:
		lo, hi, step = mustInt(args[0]), mustInt(args[1]), mustInt(args[2])
	default:
		return nil, excode.New(excode.ExNumArgs, "interp", 83)
	}
	if step == 0 {
		return nil, excode.New(excode.ExValue, "interp", 86)
	}
	var vals []object.Object
	if step > 0 {
		for i := lo; i < hi; i += step {
			vals = append(vals, container.NewInt(i))
		}
	} else {
		for i := lo; i > hi; i += step {
			vals = append(vals, container.NewInt(i))
		}
	}
	return container.NewList(vals), nil
}

func builtinChr(it *Interp, args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, excode.New(excode.ExNumArgs, "interp", 101)
	}
	v := mustInt(args[0])
	if v < 0 || v > 255 {
		return nil, excode.New(excode.ExValue, "interp", 105)
	}
	return container.NewString([]byte{byte(v)}, true), nil
}

func builtinOrd(it *Interp, args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, excode.New(excode.ExNumArgs, "interp", 111)
	}
	s, ok := args[0].(*container.String)
	if !ok || s.Len() != 1 {
		return nil, excode.New(excode.ExType, "interp", 115)
	}
	return container.NewInt(int32(s.Bytes()[0])), nil
}

func builtinAbs(it *Interp, args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, excode.New(excode.ExNumArgs, "interp", 121)
	}
	v := mustInt(args[0])
	if v < 0 {
		v = -v
	}
	return container.NewInt(v), nil
}

// builtinID returns a value derived from the object's heap address,
// standing in for the reference implementation's "address as identity"
// convention (§4.4).
func builtinID(it *Interp, args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, excode.New(excode.ExNumArgs, "interp", 130)
	}
	addr := reflect.ValueOf(args[0]).Pointer()
	return container.NewInt(int32(addr)), nil
}

func builtinGlobals(it *Interp, args []object.Object) (object.Object, error) {
	if len(args) != 0 {
		return nil, excode.New(excode.ExNumArgs, "interp", 136)
	}
	if it.Cur == nil {
		return container.NewDict(), nil
	}
	g := it.Cur.Globals()
	if g == nil {
		return container.NewDict(), nil
	}
	object.Retain(g)
	return g, nil
}

func builtinPrint(it *Interp, args []object.Object) (object.Object, error) {
	var buf bytes.Buffer
	for i, a := range args {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if err := object.Fprint(&buf, a, false); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('\n')
	if it.Stdout != nil {
		if err := it.Stdout(buf.Bytes()); err != nil {
			return nil, err
		}
	} else {
		errorf("%s", buf.String())
	}
	return object.None, nil
}

func mustInt(obj object.Object) int32 {
	if i, ok := obj.(*container.Integer); ok {
		return i.Val
	}
	return 0
}
