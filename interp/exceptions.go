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
	"github.com/nanovm/corevm/object/exception"
)

// unwind implements §7's exception propagation: pop evaluation-stack
// entries above the innermost block and release them; if that block is
// an except or finally, transfer control to its handler with the
// exception placed on the stack. If no block in the current frame
// handles it, pop the frame and continue unwinding in the caller. If no
// frame remains, the interpreter terminates with the exception as the
// process-level outcome. ASSERT_FAIL and ERR are fatal per §7 and are
// never handled by a block regardless of kind.
func (it *Interp) unwind(err error) {
	code := excode.As(err)
	fatal := code == excode.AssertFail || code == excode.Err

	fr := it.Cur
	for fr != nil {
		if !fatal {
			for b := fr.Blocks; b != nil; b = fr.Blocks {
				if b.Kind == frame.BlockExcept || b.Kind == frame.BlockFinally {
					fr.PopBlock()
					if uerr := fr.TruncateStack(b.StackPtr, it.Heap); uerr != nil {
						it.finish(nil, uerr)
						return
					}
					exc := exception.New(err)
					fr.Push(exc)
					object.Release(exc, it.Heap)
					fr.IP = b.HandlerIP
					it.Cur = fr
					return
				}
				fr.PopBlock()
			}
		}
		caller := fr.Back
		if uerr := object.Release(fr, it.Heap); uerr != nil {
			it.finish(nil, uerr)
			return
		}
		fr = caller
	}
	errorf("unhandled exception %s at raise site", code)
	it.finish(nil, err)
}
