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
	register(OpPopTop, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		v := fr.Pop()
		return SigNext, object.Release(v, it.Heap)
	})

	register(OpRotTwo, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		a := fr.Pop()
		b := fr.Pop()
		fr.Push(a)
		fr.Push(b)
		object.Release(a, it.Heap)
		object.Release(b, it.Heap)
		return SigNext, nil
	})

	register(OpRotThree, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		a := fr.Pop()
		b := fr.Pop()
		c := fr.Pop()
		fr.Push(a)
		fr.Push(c)
		fr.Push(b)
		object.Release(a, it.Heap)
		object.Release(b, it.Heap)
		object.Release(c, it.Heap)
		return SigNext, nil
	})

	register(OpRotFour, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		a := fr.Pop()
		b := fr.Pop()
		c := fr.Pop()
		d := fr.Pop()
		fr.Push(a)
		fr.Push(d)
		fr.Push(c)
		fr.Push(b)
		object.Release(a, it.Heap)
		object.Release(b, it.Heap)
		object.Release(c, it.Heap)
		object.Release(d, it.Heap)
		return SigNext, nil
	})

	register(OpDupTop, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.Push(fr.Top())
		return SigNext, nil
	})

	register(OpDupTopX, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		n := int(arg)
		vals := make([]object.Object, n)
		for i := 0; i < n; i++ {
			vals[i] = fr.NthFromTop(n - i)
		}
		for _, v := range vals {
			fr.Push(v)
		}
		return SigNext, nil
	})
}
