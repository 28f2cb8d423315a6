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

// Package host defines the contract between the VM core and the
// platform it runs on (§6.5). Everything in interp, object, image and
// sched is platform-agnostic; only a Host implementation is allowed to
// block on real I/O, matching §5's "the I/O shim... may block in the
// host."
package host

import (
	"github.com/nanovm/corevm/interp"
	"github.com/nanovm/corevm/memspace"
)

// NativeFunc is one entry of a host's native-function dispatch table
// (no_funcindx). cmd/pmvm appends a host's natives after the
// interpreter's builtins, so a native's index in the interpreter's
// Natives slice is its host index plus the number of entries already
// registered there.
type NativeFunc = interp.NativeFn

// Host is the platform contract: byte-addressable memory access, a
// blocking byte-oriented console, a millisecond tick source, and the
// native functions the target platform offers, per §6.5.
type Host interface {
	// Init prepares the host (opens the console, mounts memory spaces)
	// and is called once before the first Run.
	Init() error

	// GetByte reads one byte from space at cur without blocking,
	// mirroring memspace.Reader.GetByte but across an explicit error
	// return for hosts whose non-RAM spaces can fail (flash readout,
	// EEPROM wear errors).
	GetByte(space memspace.Space, cur *memspace.Cursor) (byte, error)

	// ReadByte blocks until a byte is available from the host's input
	// stream, per §5's single blocking point outside Periodic.
	ReadByte() (byte, error)

	// WriteByte writes one byte to the host's output stream.
	WriteByte(b byte) error

	// MsTicks returns a monotonically increasing millisecond counter.
	// pmvm.Context.Periodic takes its elapsed time as an argument and
	// does not call it.
	MsTicks() (uint32, error)

	// Natives returns the native-function table this host offers, in
	// the fixed order the image's no_funcindx values index into.
	Natives() []NativeFunc
}
