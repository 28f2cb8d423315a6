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

package object

import (
	"fmt"
	"io"
)

// IsFalse reports whether obj is falsy: None, integer zero, or an empty
// string/tuple/list/dict are false; every other value is true, per §4.3.
func IsFalse(obj Object) bool {
	fn := ops(obj.Desc().Tag()).IsFalse
	if fn == nil {
		return false
	}
	return fn(obj)
}

// Compare compares two objects. Objects of different tags always Differ,
// except that INT and the reserved FLT tag may compare numerically (see
// DESIGN.md for why FLT is otherwise unpopulated). Compare never raises,
// per §4.3.
func Compare(a, b Object) CompareResult {
	if a == b {
		return Same
	}
	ta, tb := a.Desc().Tag(), b.Desc().Tag()
	if ta != tb {
		if isNumeric(ta) && isNumeric(tb) {
			// both INT/FLT: fall through to the INT comparator,
			// which only the INT tag currently registers.
		} else {
			return Differ
		}
	}
	fn := ops(ta).Compare
	if fn == nil {
		fn = ops(tb).Compare
	}
	if fn == nil {
		return Differ
	}
	return fn(a, b)
}

func isNumeric(t Tag) bool { return t == TagInt || t == TagFloat }

// IsIn reports whether item is contained in obj (tuple/list linear scan,
// dict key lookup, or single-byte string membership), per §4.3.
func IsIn(obj, item Object) (bool, error) {
	fn := ops(obj.Desc().Tag()).Contains
	if fn == nil {
		return false, fmt.Errorf("object: %s is not a container", obj.Desc().Tag())
	}
	return fn(obj, item)
}

// Fprint writes obj's printable form (marshal=false, as `print` would
// emit it) or its repr form (marshal=true, as it would appear nested
// inside another value's repr) to w.
func Fprint(w io.Writer, obj Object, marshal bool) error {
	fn := ops(obj.Desc().Tag()).Print
	if fn != nil {
		return fn(w, obj, marshal)
	}
	if marshal {
		if _, err := io.WriteString(w, "'"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "<obj type 0x%02x @ %p>", uint8(obj.Desc().Tag()), obj)
	if err != nil {
		return err
	}
	if marshal {
		_, err = io.WriteString(w, "'")
	}
	return err
}
