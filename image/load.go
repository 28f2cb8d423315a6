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

// Package image implements the flat binary image format described in
// §4.5: a top-level code or native image starts with a type byte and a
// 16-bit little-endian size, while the objects nested inside it (None,
// ints, strings, tuples) carry only their type byte and a per-tag
// payload. Load mirrors obj_loadFromImg's dispatch on the type byte.
package image

import (
	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/code"
	"github.com/nanovm/corevm/object/container"
)

// Tag identifies the top-level kind of an image blob, the "type byte"
// of §4.5.
type Tag uint8

const (
	TagNone Tag = iota
	TagInt
	TagStr
	TagTuple
	TagNativeImage // NIM: a native-code image
	TagCodeImage   // CIM: a code image
)

// Load reads one object from ms at cur, dispatching on the leading type
// byte exactly as obj_loadFromImg does, per §4.5. parent is retained by
// any Code object loaded so the owning image's arena stays reachable
// (the Design Note's co_parentobject discussion).
func Load(ms *memspace.Reader, cur *memspace.Cursor, parent object.Object) (object.Object, error) {
	tag := Tag(ms.GetByte(cur))

	switch tag {
	case TagNone:
		return object.None, nil
	case TagInt:
		v := ms.GetInt(cur)
		return container.NewInt(v), nil
	case TagStr:
		n := int(ms.GetWord(cur))
		owned := cur.Space == memspace.RAM
		buf := ms.GetBytes(cur, n)
		if owned {
			buf = append([]byte(nil), buf...)
		}
		return container.NewString(buf, owned), nil
	case TagTuple:
		n := int(ms.GetWord(cur))
		vals := make([]object.Object, n)
		for i := 0; i < n; i++ {
			v, err := Load(ms, cur, parent)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return container.NewTuple(vals), nil
	case TagNativeImage:
		ms.GetWord(cur) // image size; the payload below is fixed-length
		argCount := int(ms.GetByte(cur))
		index := int(ms.GetWord(cur))
		return code.NewNative(argCount, index), nil
	case TagCodeImage:
		ms.GetWord(cur) // image size; loadCodeImage frames the body by codeLen
		return loadCodeImage(ms, cur, parent)
	default:
		return nil, excode.New(excode.ExSys, "image", 78)
	}
}

// loadCodeImage loads a CIM body: names tuple, consts tuple (which may
// recursively nest CIM/NIM blobs for inner functions, per §4.5), code
// address and argument count.
func loadCodeImage(ms *memspace.Reader, cur *memspace.Cursor, parent object.Object) (object.Object, error) {
	imageAddr := *cur
	space := cur.Space
	argCount := int(ms.GetByte(cur))
	codeLen := ms.GetWord(cur)

	names, err := Load(ms, cur, parent)
	if err != nil {
		return nil, err
	}
	consts, err := Load(ms, cur, parent)
	if err != nil {
		return nil, err
	}

	codeAddr := *cur
	cur.Addr += uint32(codeLen)

	return code.NewCode(space, imageAddr, codeAddr, names, consts, argCount, parent), nil
}
