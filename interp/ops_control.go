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

func init() {
	register(OpSetupLoop, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.PushBlock(frame.BlockLoop, int(arg))
		return SigNext, nil
	})

	register(OpSetupExcept, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.PushBlock(frame.BlockExcept, int(arg))
		return SigNext, nil
	})

	register(OpSetupFinally, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.PushBlock(frame.BlockFinally, int(arg))
		return SigNext, nil
	})

	register(OpPopBlock, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.PopBlock()
		return SigNext, nil
	})

	register(OpBreakLoop, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		for {
			b := fr.PopBlock()
			if b == nil {
				return SigNext, excode.New(excode.ExSyntax, "interp", 45)
			}
			if err := fr.TruncateStack(b.StackPtr, it.Heap); err != nil {
				return SigNext, err
			}
			if b.Kind == frame.BlockLoop {
				fr.IP = b.HandlerIP
				return SigNext, nil
			}
		}
	})

	register(OpContinueLoop, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		fr.IP = int(arg)
		return SigNext, nil
	})

	register(OpRaiseVarargs, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		code := excode.Ex
		if arg > 0 {
			v := fr.Pop()
			if exc, ok := v.(*exception.Exception); ok {
				code = exc.Kind
			}
			object.Release(v, it.Heap)
		}
		return SigNext, excode.New(code, "interp", 68)
	})

	register(OpReturnValue, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		rv := fr.Pop()
		caller := fr.Back

		if fr.IsImport {
			object.Release(rv, it.Heap)
			rv = importResult(fr)
		}

		if caller == nil {
			if derr := object.Release(fr, it.Heap); derr != nil {
				return SigNext, derr
			}
			it.finish(rv, nil)
			return SigFrameSwitch, nil
		}

		caller.Push(rv)
		object.Release(rv, it.Heap)
		if derr := object.Release(fr, it.Heap); derr != nil {
			return SigNext, derr
		}
		it.Cur = caller
		return SigFrameSwitch, nil
	})
}
