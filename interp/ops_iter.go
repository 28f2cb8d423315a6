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
	"github.com/nanovm/corevm/object/seqiter"
)

func init() {
	register(OpGetIter, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		src := fr.Pop()
		iter := seqiter.New(src)
		object.Release(src, it.Heap)
		fr.Push(iter)
		object.Release(iter, it.Heap)
		return SigNext, nil
	})

	register(OpForIter, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		iter, ok := fr.Top().(*seqiter.SeqIter)
		if !ok {
			return SigNext, nil
		}
		v, more := iter.Next()
		if !more {
			popped := fr.Pop()
			object.Release(popped, it.Heap)
			fr.IP = int(arg)
			return SigNext, nil
		}
		fr.Push(v)
		return SigNext, nil
	})
}
