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

package heap

import (
	"math/rand"
	"testing"
)

func TestGetFreeRoundTrip(t *testing.T) {
	r, err := New(64 * 1024)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.NumFreeChunks() != 1 {
		t.Fatalf("expected a single free chunk initially, got %d", r.NumFreeChunks())
	}

	var chunks [][]byte
	for i := 0; i < 50; i++ {
		c, err := r.GetChunk(8 + i)
		if err != nil {
			t.Fatalf("GetChunk(%d): %v", i, err)
		}
		chunks = append(chunks, c)
	}

	// free in a shuffled order; the free list must still coalesce back
	// down to a single chunk covering the whole region regardless of
	// free order.
	rand.Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })
	for _, c := range chunks {
		if err := r.FreeChunk(c); err != nil {
			t.Fatal(err)
		}
	}

	if r.NumFreeChunks() != 1 {
		t.Fatalf("expected free list to coalesce to 1 chunk, got %d", r.NumFreeChunks())
	}
	if r.FreeBytes() != r.Cap() {
		t.Fatalf("expected all %d bytes free, got %d", r.Cap(), r.FreeBytes())
	}
}

func TestGetChunkNoFit(t *testing.T) {
	r, err := New(64)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.GetChunk(1 << 20); err != ErrNoFit {
		t.Fatalf("expected ErrNoFit, got %v", err)
	}
}

func TestFreeChunkForeignPointer(t *testing.T) {
	r, err := New(64)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	foreign := make([]byte, 8)
	if err := r.FreeChunk(foreign); err == nil {
		t.Fatal("expected error freeing a pointer not owned by the region")
	}
}

func TestGetChunkWritable(t *testing.T) {
	r, err := New(4096)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	c, err := r.GetChunk(16)
	if err != nil {
		t.Fatal(err)
	}
	for i := range c {
		c[i] = byte(i)
	}
	for i := range c {
		if c[i] != byte(i) {
			t.Fatalf("chunk not writable/readable at %d", i)
		}
	}
}
