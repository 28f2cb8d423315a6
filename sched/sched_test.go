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

package sched

import (
	"testing"

	"github.com/nanovm/corevm/object/thread"
)

// TestRoundRobinFairness verifies every runnable thread is visited once
// per full cycle, per §5's round-robin scheduling guarantee.
func TestRoundRobinFairness(t *testing.T) {
	s := New()
	for i := uint32(0); i < 4; i++ {
		s.Add(thread.New(i, nil))
	}

	seen := make(map[uint32]int)
	for i := 0; i < 8; i++ {
		th := s.Next()
		if th == nil {
			t.Fatal("Next() returned nil with runnable threads present")
		}
		seen[th.ID]++
	}
	for id, count := range seen {
		if count != 2 {
			t.Fatalf("thread %d scheduled %d times over 2 full cycles, want 2", id, count)
		}
	}
}

func TestNextSkipsNonRunnable(t *testing.T) {
	s := New()
	for i := uint32(0); i < 3; i++ {
		s.Add(thread.New(i, nil))
	}
	s.SetRunnable(1, false)

	for i := 0; i < 4; i++ {
		th := s.Next()
		if th.ID == 1 {
			t.Fatal("Next() returned a non-runnable thread")
		}
	}
}

func TestNextReturnsNilWhenNoneRunnable(t *testing.T) {
	s := New()
	s.Add(thread.New(0, nil))
	s.SetRunnable(0, false)
	if s.Next() != nil {
		t.Fatal("Next() should return nil when no thread is runnable")
	}
}
