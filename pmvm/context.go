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

// Package pmvm is the public entry-point API (§6.6): NewContext,
// (*Context).Init (pm_init), (*Context).Run (pm_run) and
// (*Context).Periodic (pm_vmPeriodic). A Context replaces the teacher's
// process-wide gVmGlobal: every VM instance owns its own heap,
// interpreter and scheduler, so a host process may run more than one
// Context concurrently (each still single-threaded internally, per §5's
// Design Note).
package pmvm

import (
	"github.com/nanovm/corevm/config"
	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/heap"
	"github.com/nanovm/corevm/image"
	"github.com/nanovm/corevm/interp"
	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/code"
	"github.com/nanovm/corevm/object/container"
	"github.com/nanovm/corevm/object/function"
	"github.com/nanovm/corevm/object/thread"
	"github.com/nanovm/corevm/sched"

	"github.com/google/uuid"

	"github.com/nanovm/corevm/frame"
)

// ReturnCode is the wire-exact status/exception code a VM entry point
// reports back to its host, per §6.4.
type ReturnCode = excode.Code

// Context is one independent VM instance: its own fixed heap arena,
// memory-space reader, module directory, interpreter and scheduler.
// ID distinguishes one Context's diagnostics from another's when a host
// runs several concurrently, per §6.6's "a host process may run more
// than one *Context concurrently."
type Context struct {
	ID    uuid.UUID
	cfg   config.Config
	Heap  *heap.Region
	MS    *memspace.Reader
	Dir   *image.Directory
	Interp *interp.Interp
	Sched *sched.Scheduler

	nextThreadID uint32
	usecAcc      uint32
}

// NewContext records cfg and a fresh ID; it neither mounts an image nor
// allocates the heap, interpreter and scheduler, which Init builds. Call
// Init (or Mount then Init) before Run.
func NewContext(cfg config.Config) *Context {
	return &Context{ID: uuid.New(), cfg: cfg}
}

// Mount attaches image bytes to one of the interpreter's address spaces,
// mirroring the platform's flash/EEPROM layout. Must be called before
// Init for every space a loaded program references.
func (c *Context) Mount(space memspace.Space, data []byte) {
	if c.MS == nil {
		c.MS = memspace.NewReader()
	}
	c.MS.Mount(space, data)
}

// AddModule registers a module's image location in the directory
// mod_import searches, per §4.5. Call this for every module baked into
// the mounted image(s) before Init.
func (c *Context) AddModule(name string, space memspace.Space, addr memspace.Cursor) {
	if c.Dir == nil {
		c.Dir = image.NewDirectory()
	}
	c.Dir.Add(name, space, addr)
}

// Init is pm_init: reserve the heap arena, build a fresh interpreter and
// scheduler bound to the mounted memory spaces and module directory, and
// register the standard builtins. imageAddr/space are accepted for
// symmetry with §6.6's signature; the actual root module is selected by
// name in Run, via the directory AddModule populated it.
func (c *Context) Init(space memspace.Space, imageAddr uint32) error {
	if c.MS == nil {
		c.MS = memspace.NewReader()
	}
	if c.Dir == nil {
		c.Dir = image.NewDirectory()
	}
	region, err := heap.New(c.cfg.HeapBytes)
	if err != nil {
		return err
	}
	c.Heap = region
	c.Interp = interp.New(c.MS, c.Dir, c.Heap)
	c.Interp.RegisterBuiltins()
	if len(c.cfg.Builtins) > 0 {
		keep := make(map[string]bool, len(c.cfg.Builtins))
		for _, name := range c.cfg.Builtins {
			keep[name] = true
		}
		for _, k := range c.Interp.Builtins.Keys() {
			if s, ok := k.(*container.String); ok && !keep[string(s.Bytes())] {
				if err := c.Interp.Builtins.Del(k, c.Heap); err != nil {
					return err
				}
			}
		}
	}
	c.Sched = sched.New()
	_ = imageAddr
	_ = space
	return nil
}

// Run is pm_run: load module by name from the directory, execute its
// body to completion on a freshly scheduled thread, and return the
// wire-exact status code the run ended with.
func (c *Context) Run(module string) (ReturnCode, error) {
	spc, addr, ok := c.Dir.Lookup(module)
	if !ok {
		return excode.ExImport, excode.New(excode.ExImport, "pmvm", 104)
	}
	cur := addr
	obj, err := image.Load(c.MS, &cur, nil)
	if err != nil {
		return excode.As(err), err
	}
	co, ok := obj.(*code.Code)
	if !ok {
		return excode.ExType, excode.New(excode.ExType, "pmvm", 112)
	}
	_ = spc

	globals := container.NewDict()
	fn := function.NewFunction(co, globals, container.NewTuple(nil))
	object.Release(globals, c.Heap)

	rootFr := frame.New(co, fn, nil, co.ArgCount, c.cfg.FrameStackSize)
	for i := 0; i < co.ArgCount; i++ {
		rootFr.SetLocal(i, object.None, c.Heap)
	}
	object.Release(fn, c.Heap)

	c.nextThreadID++
	th := thread.New(c.nextThreadID, rootFr)
	object.Release(rootFr, c.Heap)
	c.Sched.Add(th)

	result, runErr := c.runScheduler()
	_ = result
	if runErr != nil {
		return excode.As(runErr), runErr
	}
	return excode.OK, nil
}

// runScheduler drains every thread the scheduler knows about, stepping
// one opcode at a time and round-robining between runnable threads,
// until none remain runnable.
func (c *Context) runScheduler() (object.Object, error) {
	var lastResult object.Object
	var lastErr error
	for {
		th := c.Sched.Next()
		if th == nil {
			break
		}
		next, done, result, err := c.Interp.RunOne(th.Cur)
		if done {
			th.Status = thread.Done
			c.markDone(th)
			lastResult, lastErr = result, err
			continue
		}
		th.Cur = next
	}
	return lastResult, lastErr
}

func (c *Context) markDone(target *thread.Thread) {
	for i := 0; i < c.Sched.Len(); i++ {
		if c.Sched.At(i) == target {
			c.Sched.Remove(i)
			return
		}
	}
}

// Periodic is pm_vmPeriodic: advance usec microseconds of virtual time
// and run up to cfg.SchedQuantum opcodes across the runnable thread set,
// the one suspension point outside of host I/O per §5.
func (c *Context) Periodic(usec uint16) (ReturnCode, error) {
	c.usecAcc += uint32(usec)
	quantum := c.cfg.SchedQuantum
	if quantum <= 0 {
		quantum = 1
	}
	for i := 0; i < quantum; i++ {
		th := c.Sched.Next()
		if th == nil {
			return excode.No, nil
		}
		next, done, _, err := c.Interp.RunOne(th.Cur)
		if done {
			th.Status = thread.Done
			c.markDone(th)
			if err != nil {
				return excode.As(err), err
			}
			continue
		}
		th.Cur = next
	}
	return excode.OK, nil
}

// Close releases the Context's heap arena.
func (c *Context) Close() error {
	if c.Heap == nil {
		return nil
	}
	return c.Heap.Close()
}
