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
	"testing"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
)

func TestNewIntSingletons(t *testing.T) {
	for _, v := range []int32{-1, 0, 1} {
		a := NewInt(v)
		b := NewInt(v)
		if a != b {
			t.Fatalf("NewInt(%d) returned distinct objects, want shared singleton", v)
		}
		if !a.Desc().Singleton() {
			t.Fatalf("NewInt(%d).Desc().Singleton() = false, want true", v)
		}
	}
	a := NewInt(2)
	b := NewInt(2)
	if a == b {
		t.Fatalf("NewInt(2) returned the same object twice, want fresh allocations")
	}
}

func TestIntegerWraparound(t *testing.T) {
	max := NewInt(2147483647)
	r := Add(max, NewInt(1))
	if r.Val != -2147483648 {
		t.Fatalf("INT_MAX+1 = %d, want wraparound to -2147483648", r.Val)
	}
}

func TestIntegerDivModZero(t *testing.T) {
	a, b := NewInt(10), NewInt(0)
	if _, err := Div(a, b); excode.As(err) != excode.ExZDiv {
		t.Fatalf("Div by zero = %v, want ZDIV", err)
	}
	if _, err := Mod(a, b); excode.As(err) != excode.ExZDiv {
		t.Fatalf("Mod by zero = %v, want ZDIV", err)
	}
}

func TestPowNegativeExponent(t *testing.T) {
	if _, err := Pow(NewInt(2), NewInt(-1)); excode.As(err) != excode.ExValue {
		t.Fatalf("Pow with negative exponent = %v, want VAL", err)
	}
}

func TestIntegerCompareAndTruthiness(t *testing.T) {
	if object.Compare(NewInt(3), NewInt(3)) != object.Same {
		t.Fatal("3 != 3")
	}
	if object.Compare(NewInt(3), NewInt(4)) != object.Differ {
		t.Fatal("3 == 4")
	}
	if !object.IsFalse(NewInt(0)) {
		t.Fatal("0 should be falsy")
	}
	if object.IsFalse(NewInt(1)) {
		t.Fatal("1 should be truthy")
	}
}
