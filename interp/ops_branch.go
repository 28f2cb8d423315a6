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
	"github.com/nanovm/corevm/frame"
	"github.com/nanovm/corevm/object"
)

func init() {
	register(OpJumpForward, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.IP += int(arg)
		return SigNext, nil
	})

	register(OpJumpAbsolute, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.IP = int(arg)
		return SigNext, nil
	})

	register(OpPopJumpIfTrue, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		v := fr.Pop()
		truthy := !object.IsFalse(v)
		object.Release(v, it.Heap)
		if truthy {
			fr.IP = int(arg)
		}
		return SigNext, nil
	})

	register(OpPopJumpIfFalse, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		v := fr.Pop()
		falsy := object.IsFalse(v)
		object.Release(v, it.Heap)
		if falsy {
			fr.IP = int(arg)
		}
		return SigNext, nil
	})

	register(OpJumpIfTrueOrPop, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		v := fr.Top()
		if !object.IsFalse(v) {
			fr.IP = int(arg)
			return SigNext, nil
		}
		v = fr.Pop()
		return SigNext, object.Release(v, it.Heap)
	})

	register(OpJumpIfFalseOrPop, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		v := fr.Top()
		if object.IsFalse(v) {
			fr.IP = int(arg)
			return SigNext, nil
		}
		v = fr.Pop()
		return SigNext, object.Release(v, it.Heap)
	})
}
