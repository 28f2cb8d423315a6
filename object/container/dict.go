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
	"io"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
)

// Dict is the DIC variant: two parallel segment-lists (keys, values)
// kept insertion-ordered head-first, per §4.4. Key search is linear and
// uses the object compare operator; there is deliberately no hashing.
type Dict struct {
	desc object.Descriptor
	keys segList
	vals segList
}

func (d *Dict) Desc() *object.Descriptor { return &d.desc }

// NewDict builds an empty Dict.
func NewDict() *Dict {
	d := &Dict{}
	d.desc.Init(object.TagDict)
	return d
}

// Len returns the number of key/value pairs.
func (d *Dict) Len() int { return d.keys.len }

func init() {
	object.Register(object.TagDict, object.TypeOps{
		IsFalse: func(obj object.Object) bool { return obj.(*Dict).Len() == 0 },
		Compare: func(a, b object.Object) object.CompareResult {
			da, db := a.(*Dict), b.(*Dict)
			if da.Len() != db.Len() {
				return object.Differ
			}
			same := true
			da.keys.each(func(k object.Object) {
				if !same {
					return
				}
				v, ok := da.Get(k)
				ov, ok2 := db.Get(k)
				if !ok || !ok2 || object.Compare(v, ov) != object.Same {
					same = false
				}
			})
			if same {
				return object.Same
			}
			return object.Differ
		},
		Contains: func(obj, item object.Object) (bool, error) {
			_, ok := obj.(*Dict).Get(item)
			return ok, nil
		},
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			dd := obj.(*Dict)
			var firstErr error
			dd.keys.each(func(v object.Object) {
				if err := object.Release(v, heap); err != nil && firstErr == nil {
					firstErr = err
				}
			})
			dd.vals.each(func(v object.Object) {
				if err := object.Release(v, heap); err != nil && firstErr == nil {
					firstErr = err
				}
			})
			return firstErr
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			dd := obj.(*Dict)
			if _, err := io.WriteString(w, "{"); err != nil {
				return err
			}
			i := 0
			var err error
			dd.keys.each(func(k object.Object) {
				if err != nil {
					return
				}
				if i > 0 {
					if _, e := io.WriteString(w, ", "); e != nil {
						err = e
						return
					}
				}
				if e := object.Fprint(w, k, true); e != nil {
					err = e
					return
				}
				if _, e := io.WriteString(w, ": "); e != nil {
					err = e
					return
				}
				v := dd.vals.at(i)
				if e := object.Fprint(w, v, true); e != nil {
					err = e
					return
				}
				i++
			})
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, "}")
			return err
		},
	})
}

// indexOf returns the position of key using the object compare
// operator, or -1 if absent.
func (d *Dict) indexOf(key object.Object) int {
	idx := -1
	i := 0
	d.keys.each(func(k object.Object) {
		if idx == -1 && object.Compare(k, key) == object.Same {
			idx = i
		}
		i++
	})
	return idx
}

// Get returns the value for key and whether it was found.
func (d *Dict) Get(key object.Object) (object.Object, bool) {
	i := d.indexOf(key)
	if i < 0 {
		return nil, false
	}
	return d.vals.at(i), true
}

// GetItem returns the value for key, raising KEY if absent, per §4.4
// "get_item with missing key raises KEY."
func (d *Dict) GetItem(key object.Object) (object.Object, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, excode.New(excode.ExKey, "object/container", 150)
	}
	return v, nil
}

// SetItem overwrites the value for an existing key (releasing the old
// value, retaining nothing extra since the caller transfers ownership of
// v), or prepends a new (key, value) pair on a miss, per §4.4.
func (d *Dict) SetItem(key, v object.Object, heap object.Deallocator) error {
	i := d.indexOf(key)
	if i >= 0 {
		old := d.vals.at(i)
		d.vals.set(i, v)
		return object.Release(old, heap)
	}
	d.keys.prepend(key)
	d.vals.prepend(v)
	return nil
}

// Del removes the pair for key, releasing both key and value. It is a
// no-op (no error) if key is absent.
func (d *Dict) Del(key object.Object, heap object.Deallocator) error {
	i := d.indexOf(key)
	if i < 0 {
		return nil
	}
	k := d.keys.removeAt(i)
	v := d.vals.removeAt(i)
	if err := object.Release(k, heap); err != nil {
		return err
	}
	return object.Release(v, heap)
}

// Keys returns the keys in insertion order (head-first, i.e. most
// recently inserted key first, matching the prepend-on-miss layout).
func (d *Dict) Keys() []object.Object {
	out := make([]object.Object, 0, d.Len())
	d.keys.each(func(k object.Object) { out = append(out, k) })
	return out
}

// Items returns (key, value) pairs in the same order as Keys.
func (d *Dict) Items() [][2]object.Object {
	out := make([][2]object.Object, 0, d.Len())
	i := 0
	d.keys.each(func(k object.Object) {
		out = append(out, [2]object.Object{k, d.vals.at(i)})
		i++
	})
	return out
}
