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

package host

import (
	"bufio"
	"io"
	"time"

	"github.com/nanovm/corevm/memspace"
)

// Desktop is the reference Host implementation: it reads and writes a
// console stream and mounts a flat in-memory image, standing in for the
// embedded target's flash/EEPROM spaces. It is the only piece of the
// repository that may block on real I/O, per §6.5.
type Desktop struct {
	MS      *memspace.Reader
	in      *bufio.Reader
	out     io.Writer
	start   time.Time
	natives []NativeFunc
}

// NewDesktop builds a Desktop reading from in and writing to out, with
// ms as the mounted memory-space reader the VM's image was loaded
// through.
func NewDesktop(ms *memspace.Reader, in io.Reader, out io.Writer) *Desktop {
	d := &Desktop{MS: ms, in: bufio.NewReader(in), out: out}
	d.natives = d.defaultNatives()
	return d
}

// Init records the epoch MsTicks measures from. Hosts with a real-time
// clock would instead snapshot it here.
func (d *Desktop) Init() error {
	d.start = timeNow()
	return nil
}

// GetByte reads one byte from the mounted space without blocking. The
// desktop host mounts every space directly in RAM-backed slices, so
// this never actually fails; a target with genuinely separate flash
// media would return an I/O error here instead.
func (d *Desktop) GetByte(space memspace.Space, cur *memspace.Cursor) (byte, error) {
	c := memspace.Cursor{Space: space, Addr: cur.Addr}
	b := d.MS.GetByte(&c)
	cur.Addr = c.Addr
	return b, nil
}

// ReadByte blocks on the console's input stream.
func (d *Desktop) ReadByte() (byte, error) { return d.in.ReadByte() }

// WriteByte writes b to the console's output stream.
func (d *Desktop) WriteByte(b byte) error {
	_, err := d.out.Write([]byte{b})
	return err
}

// MsTicks returns milliseconds elapsed since Init.
func (d *Desktop) MsTicks() (uint32, error) {
	return uint32(timeNow().Sub(d.start).Milliseconds()), nil
}

// Natives returns the desktop host's native-function table.
func (d *Desktop) Natives() []NativeFunc { return d.natives }

// timeNow is indirected so tests can substitute a deterministic clock
// without the VM loop itself depending on wall time, per §5's "no
// hidden real-time dependency inside the core."
var timeNow = time.Now
