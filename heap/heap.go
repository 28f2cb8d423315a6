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

// Package heap implements the VM's fixed-region chunk allocator.
//
// A single contiguous region of fixed capacity is partitioned into chunks
// on a free list sorted by address. GetChunk finds the first free block
// that fits, splitting it if the remainder is large enough to hold
// another chunk. FreeChunk marks a chunk free and coalesces it with any
// free neighbor. The region never moves and is never grown.
package heap

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/nanovm/corevm/ints"
	"golang.org/x/sys/unix"
)

// ErrNoFit is returned by GetChunk when no free block is large enough;
// the caller should surface this as a MEM exception.
var ErrNoFit = errors.New("heap: no fit for allocation")

// headerSize is the size of the bookkeeping record kept just before each
// allocated/free chunk's payload. It is distinct from the per-object
// descriptor the object package stores inside the payload itself.
const headerSize = int(unsafe.Sizeof(chunkHeader{}))

// minChunk is the smallest remainder GetChunk will leave behind when
// splitting a block; a smaller remainder is handed out as slop rather
// than kept as an unusable sliver.
var minChunk = ints.AlignUp(uint(headerSize), uint(unsafe.Alignof(uintptr(0))))

type chunkHeader struct {
	size uint32
}

// Region is a single fixed-capacity arena carved into chunks.
//
// Region is not safe for concurrent use; per §5 the heap is process-wide
// and the interpreter is its only mutator.
type Region struct {
	mem    []byte
	free   ints.Intervals // free byte ranges, kept compressed (sorted, non-overlapping)
	mapped bool           // true if mem came from unix.Mmap and must be Munmap'd by Close
}

// New reserves a fixed region of the given size in bytes, backed by an
// anonymous mmap mapping so the region's address is fixed for the
// lifetime of the Region — the same way the teacher's vm.Malloc reserves
// a dedicated VMM arena at process start rather than an ad hoc
// make([]byte, n) the caller could lose track of.
func New(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("heap: invalid region size %d", size)
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("heap: mmap %d bytes: %w", size, err)
	}
	return &Region{
		mem:    mem,
		free:   ints.Intervals{{Start: 0, End: size}},
		mapped: true,
	}, nil
}

// NewFromSlice builds a Region over caller-owned memory (used by tests
// and by hosts that already manage their own fixed arena). Close is then
// a no-op.
func NewFromSlice(mem []byte) *Region {
	return &Region{
		mem:  mem,
		free: ints.Intervals{{Start: 0, End: len(mem)}},
	}
}

// Close releases the mmap'd region, if any.
func (r *Region) Close() error {
	if !r.mapped {
		return nil
	}
	r.mapped = false
	return unix.Munmap(r.mem)
}

// Cap returns the total region size in bytes.
func (r *Region) Cap() int { return len(r.mem) }

// FreeBytes returns the number of bytes not currently allocated.
func (r *Region) FreeBytes() int { return r.free.Len() }

// NumFreeChunks reports the number of distinct free intervals; the
// allocator round-trip property asserts this returns to 1 after every
// chunk obtained from GetChunk is freed.
func (r *Region) NumFreeChunks() int { return len(r.free) }

// GetChunk returns an uninitialized region of at least size bytes, or
// ErrNoFit if no free block is large enough.
func (r *Region) GetChunk(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("heap: negative size %d", size)
	}
	need := int(ints.AlignUp(uint(size+headerSize), uint(unsafe.Alignof(uintptr(0)))))

	for i := range r.free {
		blk := r.free[i]
		if blk.Len() < need {
			continue
		}
		start := blk.Start
		remaining := blk.Len() - need
		if remaining >= int(minChunk) {
			r.free[i].Start = start + need
		} else {
			// whole block consumed, including any slop
			need = blk.Len()
			r.free = append(r.free[:i], r.free[i+1:]...)
		}
		r.writeHeader(start, need)
		payload := start + headerSize
		return r.mem[payload : payload+size : payload+size], nil
	}
	return nil, ErrNoFit
}

// FreeChunk releases a chunk previously returned by GetChunk, coalescing
// it with adjacent free neighbors.
func (r *Region) FreeChunk(buf []byte) error {
	if len(buf) == 0 {
		return fmt.Errorf("heap: cannot free empty chunk")
	}
	off, err := r.offsetOf(buf)
	if err != nil {
		return err
	}
	start := off - headerSize
	hdr := r.header(start)
	size := int(hdr.size)
	r.free = append(r.free, ints.Interval{Start: start, End: start + size})
	r.free.Compress()
	return nil
}

func (r *Region) writeHeader(start, size int) {
	r.header(start).size = uint32(size)
}

func (r *Region) header(start int) *chunkHeader {
	return (*chunkHeader)(unsafe.Pointer(&r.mem[start]))
}

func (r *Region) offsetOf(buf []byte) (int, error) {
	base := uintptr(unsafe.Pointer(&r.mem[0]))
	p := uintptr(unsafe.Pointer(&buf[0]))
	lo, hi := base, base+uintptr(len(r.mem))
	if p < lo || p >= hi {
		return 0, fmt.Errorf("heap: pointer not owned by this region")
	}
	return int(p - base), nil
}
