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

func TestDictPrependOnMiss(t *testing.T) {
	d := NewDict()
	k1, v1 := NewInt(1), NewString([]byte("one"), true)
	k2, v2 := NewInt(2), NewString([]byte("two"), true)

	if err := d.SetItem(k1, v1, nil); err != nil {
		t.Fatal(err)
	}
	if err := d.SetItem(k2, v2, nil); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}

	// Most recently inserted key is prepended to the head, per §4.4.
	keys := d.Keys()
	if keys[0] != k2 || keys[1] != k1 {
		t.Fatalf("insertion order = %v, want [k2, k1] (head-first prepend)", keys)
	}
}

func TestDictSetItemOverwritesExisting(t *testing.T) {
	d := NewDict()
	k := NewInt(5)
	if err := d.SetItem(k, NewString([]byte("old"), true), nil); err != nil {
		t.Fatal(err)
	}
	if err := d.SetItem(k, NewString([]byte("new"), true), nil); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after overwrite", d.Len())
	}
	v, ok := d.Get(k)
	if !ok || string(v.(*String).Bytes()) != "new" {
		t.Fatalf("Get(k) = %v, want \"new\"", v)
	}
}

func TestDictGetItemMissingKeyRaisesKey(t *testing.T) {
	d := NewDict()
	if _, err := d.GetItem(NewInt(42)); excode.As(err) != excode.ExKey {
		t.Fatalf("GetItem on missing key = %v, want KEY", err)
	}
}

func TestDictDelAndItems(t *testing.T) {
	d := NewDict()
	a, b, c := NewInt(1), NewInt(2), NewInt(3)
	d.SetItem(a, NewInt(10), nil)
	d.SetItem(b, NewInt(20), nil)
	d.SetItem(c, NewInt(30), nil)

	if err := d.Del(b, nil); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after Del", d.Len())
	}
	if _, ok := d.Get(b); ok {
		t.Fatal("Get(b) found a deleted key")
	}
	items := d.Items()
	if len(items) != 2 {
		t.Fatalf("Items() len = %d, want 2", len(items))
	}
}

func TestDictEqualDictsSameContentsCompareSame(t *testing.T) {
	d1, d2 := NewDict(), NewDict()
	d1.SetItem(NewInt(1), NewInt(100), nil)
	d2.SetItem(NewInt(1), NewInt(100), nil)
	if object.Compare(d1, d2) != object.Same {
		t.Fatalf("equal dicts did not compare Same")
	}
}

func compareDicts(a, b *Dict) int {
	if a.Len() != b.Len() {
		return -1
	}
	for _, it := range a.Items() {
		v, ok := b.Get(it[0])
		if !ok {
			return -1
		}
		_ = v
	}
	return 0
}
