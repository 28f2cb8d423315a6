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

// binOp is one BINARY_*/INPLACE_* handler body: both operands have
// already been popped and type-checked as *container.Integer.
type binOp func(a, b *container.Integer) (*container.Integer, error)

func arith(it *Interp, fr *frame.Frame, fn binOp) (Signal, error) {
	bv := fr.Pop()
	av := fr.Pop()
	a, aok := av.(*container.Integer)
	b, bok := bv.(*container.Integer)
	if !aok || !bok {
		object.Release(av, it.Heap)
		object.Release(bv, it.Heap)
		return SigNext, excode.New(excode.ExType, "interp", 36)
	}
	r, err := fn(a, b)
	object.Release(av, it.Heap)
	object.Release(bv, it.Heap)
	if err != nil {
		return SigNext, err
	}
	fr.Push(r)
	object.Release(r, it.Heap)
	return SigNext, nil
}

func init() {
	register(OpBinaryAdd, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.Add(a, b), nil })
	})
	register(OpInplaceAdd, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.Add(a, b), nil })
	})
	register(OpBinarySubtract, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.Sub(a, b), nil })
	})
	register(OpInplaceSubtract, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.Sub(a, b), nil })
	})
	register(OpBinaryMultiply, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.Mul(a, b), nil })
	})
	register(OpBinaryDivide, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, container.Div)
	})
	register(OpBinaryModulo, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, container.Mod)
	})
	register(OpBinaryPower, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, container.Pow)
	})
	register(OpBinaryAnd, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.BitAnd(a, b), nil })
	})
	register(OpBinaryOr, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.BitOr(a, b), nil })
	})
	register(OpBinaryXor, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		return arith(it, fr, func(a, b *container.Integer) (*container.Integer, error) { return container.BitXor(a, b), nil })
	})

	register(OpCompareOp, func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error) {
		bv := fr.Pop()
		av := fr.Pop()
		r, err := compare(CompareKind(arg), av, bv)
		object.Release(av, it.Heap)
		object.Release(bv, it.Heap)
		if err != nil {
			return SigNext, err
		}
		bi := boolInt(r)
		fr.Push(bi)
		object.Release(bi, it.Heap)
		return SigNext, nil
	})
}

// boolInt represents a truth value the way the integer-only object
// model does: 1 for true, 0 for false (there is no dedicated bool tag,
// per §3's object table).
func boolInt(b bool) *container.Integer {
	if b {
		return container.NewInt(1)
	}
	return container.NewInt(0)
}

func compare(kind CompareKind, a, b object.Object) (bool, error) {
	switch kind {
	case CmpEq:
		return object.Compare(a, b) == object.Same, nil
	case CmpNe:
		return object.Compare(a, b) != object.Same, nil
	case CmpIs:
		return a == b, nil
	case CmpIsNot:
		return a != b, nil
	case CmpIn:
		return object.IsIn(b, a)
	case CmpNotIn:
		ok, err := object.IsIn(b, a)
		return !ok, err
	case CmpExcMatch:
		return object.Compare(a, b) == object.Same, nil
	case CmpLt, CmpLe, CmpGt, CmpGe:
		ai, aok := a.(*container.Integer)
		bi, bok := b.(*container.Integer)
		if !aok || !bok {
			return false, excode.New(excode.ExType, "interp", 121)
		}
		switch kind {
		case CmpLt:
			return container.Lt(ai, bi), nil
		case CmpLe:
			return container.Le(ai, bi), nil
		case CmpGt:
			return container.Gt(ai, bi), nil
		default:
			return container.Ge(ai, bi), nil
		}
	default:
		return false, excode.New(excode.ExValue, "interp", 131)
	}
}
