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

package container

import (
	"fmt"
	"io"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
)

// Integer is the INT variant: a signed 32-bit value. Arithmetic wraps
// modulo 2^32, per §4.4.
type Integer struct {
	desc object.Descriptor
	Val  int32
}

func (i *Integer) Desc() *object.Descriptor { return &i.desc }

// interned singletons for -1, 0, 1, per §3.2/§3.3.
var singletons = [3]*Integer{
	newInt(-1, true),
	newInt(0, true),
	newInt(1, true),
}

func newInt(v int32, singleton bool) *Integer {
	n := &Integer{Val: v}
	if singleton {
		n.desc.InitSingleton(object.TagInt)
	} else {
		n.desc.Init(object.TagInt)
	}
	return n
}

// NewInt returns an Integer wrapping v, reusing one of the interned
// singletons for -1, 0, and 1 rather than allocating, per §4.4
// "int_new returns singletons for -1/0/1."
func NewInt(v int32) *Integer {
	if v >= -1 && v <= 1 {
		s := singletons[v+1]
		object.Retain(s)
		return s
	}
	return newInt(v, false)
}

func init() {
	object.Register(object.TagInt, object.TypeOps{
		IsFalse: func(obj object.Object) bool { return obj.(*Integer).Val == 0 },
		Compare: func(a, b object.Object) object.CompareResult {
			if a.(*Integer).Val == b.(*Integer).Val {
				return object.Same
			}
			return object.Differ
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			_, err := fmt.Fprintf(w, "%d", obj.(*Integer).Val)
			return err
		},
	})
}

func raise(code excode.Code, line int) error {
	return excode.New(code, "object/container", line)
}

// Add returns a+b, wrapping modulo 2^32.
func Add(a, b *Integer) *Integer { return NewInt(a.Val + b.Val) }

// Sub returns a-b, wrapping modulo 2^32.
func Sub(a, b *Integer) *Integer { return NewInt(a.Val - b.Val) }

// Mul returns a*b, wrapping modulo 2^32.
func Mul(a, b *Integer) *Integer { return NewInt(a.Val * b.Val) }

// Div returns a/b (truncating, Go's native int32 division), raising
// ZDIV on division by zero per §4.4.
func Div(a, b *Integer) (*Integer, error) {
	if b.Val == 0 {
		return nil, raise(excode.ExZDiv, 90)
	}
	return NewInt(a.Val / b.Val), nil
}

// Mod returns a%b, raising ZDIV on division by zero.
func Mod(a, b *Integer) (*Integer, error) {
	if b.Val == 0 {
		return nil, raise(excode.ExZDiv, 98)
	}
	return NewInt(a.Val % b.Val), nil
}

// Pow returns a**b for b >= 0, raising VAL for a negative exponent per
// §4.4 "Power with negative exponent raises VAL."
func Pow(a, b *Integer) (*Integer, error) {
	if b.Val < 0 {
		return nil, raise(excode.ExValue, 108)
	}
	result := int32(1)
	base := a.Val
	for exp := b.Val; exp > 0; exp-- {
		result *= base
	}
	return NewInt(result), nil
}

// BitAnd, BitOr, BitXor implement the bitwise binary operators; all wrap
// modulo 2^32 like every other integer operation.
func BitAnd(a, b *Integer) *Integer { return NewInt(a.Val & b.Val) }
func BitOr(a, b *Integer) *Integer  { return NewInt(a.Val | b.Val) }
func BitXor(a, b *Integer) *Integer { return NewInt(a.Val ^ b.Val) }

// Neg returns -a.
func Neg(a *Integer) *Integer { return NewInt(-a.Val) }

// Lt, Le, Gt, Ge implement the ordering comparisons used by COMPARE_OP.
func Lt(a, b *Integer) bool { return a.Val < b.Val }
func Le(a, b *Integer) bool { return a.Val <= b.Val }
func Gt(a, b *Integer) bool { return a.Val > b.Val }
func Ge(a, b *Integer) bool { return a.Val >= b.Val }
