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
	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/frame"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/container"
)

func init() {
	register(OpLoadConst, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		consts := fr.Code.Consts.(*container.Tuple)
		v, err := consts.GetItem(int32(arg))
		if err != nil {
			return SigNext, err
		}
		fr.Push(v)
		return SigNext, nil
	})

	register(OpLoadFast, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		v := fr.GetLocal(int(arg))
		if v == nil {
			v = object.None
		}
		fr.Push(v)
		return SigNext, nil
	})

	register(OpLoadName, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return loadByName(it, fr, arg)
	})

	register(OpLoadGlobal, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return loadByName(it, fr, arg)
	})

	register(OpLoadAttr, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		name, err := nameConst(fr, arg)
		if err != nil {
			return SigNext, err
		}
		obj := fr.Pop()
		attrs, ok := attrsOf(obj)
		if !ok {
			object.Release(obj, it.Heap)
			return SigNext, excode.New(excode.ExAttr, "interp", 54)
		}
		v, ok := attrs.Get(name)
		if !ok {
			object.Release(obj, it.Heap)
			return SigNext, excode.New(excode.ExAttr, "interp", 59)
		}
		fr.Push(v)
		return SigNext, object.Release(obj, it.Heap)
	})

	register(OpLoadSubscr, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		idx := fr.Pop()
		obj := fr.Pop()
		v, err := getSubscript(obj, idx)
		_, freshResult := obj.(*container.String) // String.GetItem allocates; Tuple/List/Dict return an existing element
		object.Release(idx, it.Heap)
		object.Release(obj, it.Heap)
		if err != nil {
			return SigNext, err
		}
		fr.Push(v)
		if freshResult {
			object.Release(v, it.Heap)
		}
		return SigNext, nil
	})

	register(OpStoreFast, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		v := fr.Pop()
		err := fr.SetLocal(int(arg), v, it.Heap)
		object.Release(v, it.Heap)
		return SigNext, err
	})

	register(OpStoreName, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return storeByName(it, fr, arg)
	})

	register(OpStoreGlobal, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return storeByName(it, fr, arg)
	})

	register(OpStoreAttr, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		name, err := nameConst(fr, arg)
		if err != nil {
			return SigNext, err
		}
		obj := fr.Pop()
		v := fr.Pop()
		attrs, ok := attrsOf(obj)
		if !ok {
			object.Release(obj, it.Heap)
			object.Release(v, it.Heap)
			return SigNext, excode.New(excode.ExAttr, "interp", 93)
		}
		if _, present := attrs.Get(name); !present {
			object.Retain(name) // on a miss the dict keeps name as its key
		}
		serr := attrs.SetItem(name, v, it.Heap)
		object.Release(obj, it.Heap)
		return SigNext, serr
	})

	register(OpStoreSubscr, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		idx := fr.Pop()
		obj := fr.Pop()
		v := fr.Pop()
		keyTakenByDict := false
		if d, ok := obj.(*container.Dict); ok {
			if _, present := d.Get(idx); !present {
				keyTakenByDict = true
			}
		}
		err := setSubscript(obj, idx, v, it.Heap)
		if !keyTakenByDict {
			object.Release(idx, it.Heap)
		}
		object.Release(obj, it.Heap)
		return SigNext, err
	})
}

// nameConst reads the names-tuple entry at index arg, the compiled
// operand every LOAD/STORE-by-name opcode carries, per §4.7.
func nameConst(fr *frame.Frame, arg uint16) (*container.String, error) {
	names := fr.Code.Names.(*container.Tuple)
	v, err := names.GetItem(int32(arg))
	if err != nil {
		return nil, err
	}
	return v.(*container.String), nil
}

func loadByName(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
	name, err := nameConst(fr, arg)
	if err != nil {
		return SigNext, err
	}
	v, ok := it.globalLookup(fr, name)
	if !ok {
		return SigNext, excode.New(excode.ExName, "interp", 140)
	}
	fr.Push(v)
	return SigNext, nil
}

func storeByName(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
	name, err := nameConst(fr, arg)
	if err != nil {
		return SigNext, err
	}
	v := fr.Pop()
	target := fr.Attrs()
	if target == nil {
		target = fr.Globals()
	}
	if target == nil {
		object.Release(v, it.Heap)
		return SigNext, excode.New(excode.ExName, "interp", 155)
	}
	if _, present := target.Get(name); !present {
		object.Retain(name) // on a miss the dict keeps name as its key
	}
	serr := target.SetItem(name, v, it.Heap)
	return SigNext, serr
}

// attrsOf returns the attrs dict of obj if it has one (function,
// module, class, instance), per LOAD_ATTR's "dict lookup on __attrs"
// (§4.7).
func attrsOf(obj object.Object) (*container.Dict, bool) {
	switch v := obj.(type) {
	case interface{ AttrsDict() *container.Dict }:
		return v.AttrsDict(), true
	}
	return nil, false
}

// getSubscript delegates to the container's get-item, per §4.7's
// LOAD_SUBSCR rule (a string index always yields a single-byte string,
// preserving the #9 regression fix).
func getSubscript(obj, idx object.Object) (object.Object, error) {
	switch c := obj.(type) {
	case *container.String:
		i, ok := idx.(*container.Integer)
		if !ok {
			return nil, excode.New(excode.ExType, "interp", 185)
		}
		return c.GetItem(i.Val)
	case *container.Tuple:
		i, ok := idx.(*container.Integer)
		if !ok {
			return nil, excode.New(excode.ExType, "interp", 190)
		}
		return c.GetItem(i.Val)
	case *container.List:
		i, ok := idx.(*container.Integer)
		if !ok {
			return nil, excode.New(excode.ExType, "interp", 195)
		}
		return c.GetItem(i.Val)
	case *container.Dict:
		return c.GetItem(idx)
	default:
		return nil, excode.New(excode.ExType, "interp", 201)
	}
}

func setSubscript(obj, idx, v object.Object, heap object.Deallocator) error {
	switch c := obj.(type) {
	case *container.List:
		i, ok := idx.(*container.Integer)
		if !ok {
			return excode.New(excode.ExType, "interp", 210)
		}
		return c.SetItem(i.Val, v, heap)
	case *container.Dict:
		return c.SetItem(idx, v, heap)
	default:
		return excode.New(excode.ExType, "interp", 216)
	}
}
