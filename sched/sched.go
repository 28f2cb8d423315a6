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

// Package sched implements the round-robin cooperative thread scheduler
// described in §5: threads switch only between whole opcodes, never
// mid-opcode, and there are no locks because no two threads ever run
// simultaneously.
package sched

import (
	"github.com/nanovm/corevm/ints"
	"github.com/nanovm/corevm/object/thread"
)

// Scheduler holds the set of live threads and picks the next runnable
// one in round-robin order. A bitset (via the ints bit-helpers) tracks
// which slots are currently runnable; Next tests one bit per slot to
// skip waiting/done threads.
type Scheduler struct {
	threads   []*thread.Thread
	runnable  []uint64
	cur       int
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Add registers t as a scheduled thread and marks it runnable.
func (s *Scheduler) Add(t *thread.Thread) {
	i := len(s.threads)
	s.threads = append(s.threads, t)
	s.growMask(i + 1)
	if t.Status == thread.Runnable {
		ints.SetBit(s.runnable, i)
	}
}

func (s *Scheduler) growMask(n int) {
	need := (n + 63) / 64
	for len(s.runnable) < need {
		s.runnable = append(s.runnable, 0)
	}
}

// SetRunnable updates slot i's runnable bit to match t.Status after a
// caller changes it.
func (s *Scheduler) SetRunnable(i int, runnable bool) {
	if runnable {
		ints.SetBit(s.runnable, i)
	} else {
		ints.ClearBit(s.runnable, i)
	}
}

// Next returns the next runnable thread in round-robin order starting
// just after the previously returned one, or nil if none are runnable.
func (s *Scheduler) Next() *thread.Thread {
	n := len(s.threads)
	if n == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		s.cur = (s.cur + 1) % n
		if ints.TestBit(s.runnable, s.cur) {
			return s.threads[s.cur]
		}
	}
	return nil
}

// Remove drops the thread at slot i from scheduling (it has finished).
func (s *Scheduler) Remove(i int) {
	ints.ClearBit(s.runnable, i)
	s.threads[i] = nil
}

// Len returns the number of registered thread slots (including removed
// ones, which are nil).
func (s *Scheduler) Len() int { return len(s.threads) }

// At returns the thread at slot i, or nil if it has been removed.
func (s *Scheduler) At(i int) *thread.Thread { return s.threads[i] }
