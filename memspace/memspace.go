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

// Package memspace abstracts byte/word/int reads over the enumerated
// address spaces a target may expose (RAM, program flash, EEPROM, ...).
// Every code and string object loaded from an image carries one of these
// space tags so that reads at interpret time route through the correct
// accessor instead of assuming a single flat address space.
package memspace

import "encoding/binary"

// Space identifies an address domain. The zero value is RAM.
type Space uint8

const (
	RAM Space = iota
	Prog
	EEPROM
	SEEPROM
	Other0
	Other1
	Other2
	Other3

	numSpaces
)

func (s Space) String() string {
	switch s {
	case RAM:
		return "RAM"
	case Prog:
		return "PROG"
	case EEPROM:
		return "EEPROM"
	case SEEPROM:
		return "SEEPROM"
	case Other0, Other1, Other2, Other3:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Cursor is a (space, address) pair that advances as bytes are read from
// it. It is always passed by pointer so a read's post-increment is visible
// to the caller, mirroring the C convention of passing `uint8_t **paddr`.
type Cursor struct {
	Space Space
	Addr  uint32
}

// Reader mounts backing byte slices for each address space and serves
// get_byte/get_word/get_int style reads against a Cursor.
type Reader struct {
	mounts [numSpaces][]byte
}

// NewReader returns a Reader with no spaces mounted; every read will
// return a silent zero until Mount is called, matching §4.1's rule that
// unsupported spaces read as zero rather than erroring.
func NewReader() *Reader {
	return &Reader{}
}

// Mount attaches backing storage to a space. Passing a nil slice
// effectively unmounts the space.
func (r *Reader) Mount(space Space, data []byte) {
	if space >= numSpaces {
		return
	}
	r.mounts[space] = data
}

// Bytes returns the raw backing slice for a space, or nil if unmounted.
func (r *Reader) Bytes(space Space) []byte {
	if space >= numSpaces {
		return nil
	}
	return r.mounts[space]
}

// GetByte reads one byte at cur and advances cur by one. Reads past the
// mounted region, or from an unmounted space, return 0 silently.
func (r *Reader) GetByte(cur *Cursor) uint8 {
	data := r.Bytes(cur.Space)
	var v uint8
	if int(cur.Addr) < len(data) {
		v = data[cur.Addr]
	}
	cur.Addr++
	return v
}

// GetWord reads a 2-byte little-endian value at cur and advances cur by two.
func (r *Reader) GetWord(cur *Cursor) uint16 {
	data := r.Bytes(cur.Space)
	buf := readN(data, cur.Addr, 2)
	cur.Addr += 2
	if buf == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(buf)
}

// GetInt reads a 4-byte little-endian value at cur and advances cur by four.
func (r *Reader) GetInt(cur *Cursor) int32 {
	data := r.Bytes(cur.Space)
	buf := readN(data, cur.Addr, 4)
	cur.Addr += 4
	if buf == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(buf))
}

// GetBytes returns n bytes starting at cur and advances cur by n. The
// returned slice aliases the mounted backing store (borrowed, not copied)
// whatever the space, matching §3.4's "borrowed payload" rule for
// image-resident strings and code; a read past the mounted region returns
// a fresh zeroed slice instead.
func (r *Reader) GetBytes(cur *Cursor, n int) []byte {
	data := r.Bytes(cur.Space)
	buf := readN(data, cur.Addr, n)
	cur.Addr += uint32(n)
	if buf == nil {
		return make([]byte, n)
	}
	return buf
}

func readN(data []byte, addr uint32, n int) []byte {
	if int(addr)+n > len(data) || int(addr) < 0 {
		return nil
	}
	return data[addr : addr+uint32(n) : addr+uint32(n)]
}
