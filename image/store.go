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
	"bytes"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/nanovm/corevm/excode"
)

// Blob is one compressed, optionally digest-protected image as it would
// be shipped to a constrained target: flash space is scarce enough that
// images are kept zstd-compressed at rest and only inflated into a RAM
// mount at load time, per SPEC_FULL.md §4.5.
type Blob struct {
	Compressed []byte
	Digest     [blake2b.Size256]byte
	HasDigest  bool
}

// Store holds a set of named image Blobs.
type Store struct {
	blobs map[string]Blob
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{blobs: make(map[string]Blob)}
}

// Put compresses raw and, if digest is true, records its BLAKE2b-256
// digest alongside it.
func (s *Store) Put(name string, raw []byte, digest bool) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()
	b := Blob{Compressed: enc.EncodeAll(raw, nil)}
	if digest {
		b.Digest = blake2b.Sum256(raw)
		b.HasDigest = true
	}
	s.blobs[name] = b
	return nil
}

// Load decompresses the blob named name, verifying its digest if one was
// recorded. A digest mismatch surfaces as SYS, matching §7's mapping of
// a corrupted-image read to a VM-internal system exception rather than
// letting a malformed image reach the loader.
func (s *Store) Load(name string) ([]byte, error) {
	b, ok := s.blobs[name]
	if !ok {
		return nil, excode.New(excode.ExSys, "image", 70)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(b.Compressed, nil)
	if err != nil {
		return nil, excode.New(excode.ExSys, "image", 79)
	}
	if b.HasDigest {
		got := blake2b.Sum256(raw)
		if !bytes.Equal(got[:], b.Digest[:]) {
			return nil, excode.New(excode.ExSys, "image", 84)
		}
	}
	return raw, nil
}
