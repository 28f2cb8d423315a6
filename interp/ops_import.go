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
	"github.com/nanovm/corevm/image"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/code"
	"github.com/nanovm/corevm/object/container"
	"github.com/nanovm/corevm/object/function"
)

func init() {
	register(OpImportName, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		name, err := nameConst(fr, arg)
		if err != nil {
			return SigNext, err
		}
		return importModule(it, fr, string(name.Bytes()))
	})
}

// importModule implements mod_import (§4.5/§4.7): search the
// statically-built module directory by name, load the found image as a
// code object, wrap it in a function object with a fresh globals dict,
// and run its body in a new frame with isImport set. On RETURN_VALUE,
// that frame's attrs dict becomes the module's attrs.
func importModule(it *Interp, fr *frame.Frame, name string) (Signal, error) {
	space, addr, ok := it.Dir.Lookup(name)
	if !ok {
		return SigNext, excode.New(excode.ExImport, "interp", 47)
	}
	cur := addr
	obj, err := image.Load(it.MS, &cur, nil)
	if err != nil {
		return SigNext, err
	}
	co, ok := obj.(*code.Code)
	if !ok {
		return SigNext, excode.New(excode.ExImport, "interp", 55)
	}
	_ = space

	globals := container.NewDict()
	fn := function.NewFunction(co, globals, container.NewTuple(nil))
	object.Release(globals, it.Heap)

	newFr := frame.New(co, fn, fr, co.ArgCount, frameStackSize)
	newFr.IsImport = true
	newFr.ImportName = name
	for i := 0; i < co.ArgCount; i++ {
		newFr.SetLocal(i, object.None, it.Heap)
	}
	object.Release(fn, it.Heap)

	it.Cur = newFr
	return SigFrameSwitch, nil
}

// importResult builds the Module object RETURN_VALUE produces for an
// import frame: the frame's attrs dict (accumulated by STORE_NAME during
// the module body's execution), per §4.7's IMPORT_NAME description.
func importResult(fr *frame.Frame) object.Object {
	attrs := fr.Attrs()
	if attrs == nil {
		attrs = container.NewDict()
	}
	return function.NewModule(fr.ImportName, attrs)
}
