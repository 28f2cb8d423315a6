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

package image

import (
	"github.com/dchest/siphash"

	"github.com/nanovm/corevm/memspace"
)

// directoryKey0/1 key the module-directory's siphash index. They are
// fixed rather than random because the directory only needs to resist
// accidental collision across the (small, build-time-known) module name
// set, not adversarial input, per §4.5.
const (
	directoryKey0 = 0x6d6f645f6e616d65
	directoryKey1 = 0x64697265637f6f72
)

// entry names one module image within a Directory.
type entry struct {
	name  string
	space memspace.Space
	addr  memspace.Cursor
}

// Directory is a statically-built by-name table of module images,
// mirroring mod_import's "searches a statically-built directory of
// images by name" (§4.5). Lookup is accelerated with a siphash-keyed
// index over the module name bytes; this acceleration is local to the
// directory and is never used for container dict lookups, which stay
// linear/unhashed per §4.4.
type Directory struct {
	entries []entry
	index   map[uint64][]int
}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{index: make(map[uint64][]int)}
}

// Add registers a module named name at (space, addr).
func (d *Directory) Add(name string, space memspace.Space, addr memspace.Cursor) {
	i := len(d.entries)
	d.entries = append(d.entries, entry{name: name, space: space, addr: addr})
	h := siphash.Hash(directoryKey0, directoryKey1, []byte(name))
	d.index[h] = append(d.index[h], i)
}

// Lookup returns the (space, addr) of the module named name, and
// whether it was found.
func (d *Directory) Lookup(name string) (memspace.Space, memspace.Cursor, bool) {
	h := siphash.Hash(directoryKey0, directoryKey1, []byte(name))
	for _, i := range d.index[h] {
		if d.entries[i].name == name {
			return d.entries[i].space, d.entries[i].addr, true
		}
	}
	return 0, memspace.Cursor{}, false
}
