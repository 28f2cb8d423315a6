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

package interp

import (
	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/frame"
	"github.com/nanovm/corevm/image"
	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/container"
)

// Errorf is a diagnostic hook a host can set during init() to capture
// interpreter-internal logging, mirroring the teacher's vm.Errorf.
var Errorf func(f string, args ...any)

func errorf(f string, args ...any) {
	if Errorf != nil {
		Errorf(f, args...)
	}
}

// Signal is what an opcode handler tells the dispatch loop to do next.
// FRAME_SWITCH (§7) is not a failure; it instructs the loop to reload
// its cached frame pointer after CALL_FUNCTION pushes a callee or
// RETURN_VALUE pops back to a caller.
type Signal int

const (
	SigNext Signal = iota
	SigFrameSwitch
)

// opFn implements one opcode. arg is the decoded 16-bit operand (zero
// for no-operand opcodes). Handlers that jump set fr.IP themselves;
// SigNext otherwise leaves the IP where the dispatch loop already
// advanced it past the instruction.
type opFn func(it *Interp, fr *frame.Frame, arg uint16) (Signal, error)

var dispatch [numOps]opFn

func register(op Op, fn opFn) { dispatch[op] = fn }

// NativeFn is a host-implemented builtin, invoked by CALL_FUNCTION when
// the callable is a *code.Native, indexed by its Index field. A NativeFn
// returns one reference it.Heap's caller owns, matching container.NewInt
// and friends: a native handing back an object it does not itself own
// (e.g. an existing dict) must Retain it first.
type NativeFn func(it *Interp, args []object.Object) (object.Object, error)

// Interp is one interpreter instance: the memory-space reader, the
// global builtins dict, the native function table, and the frame
// currently executing. Unlike the teacher's process-wide gVmGlobal, a
// VM context owns its own Interp so multiple instances can coexist in
// one process, per §9's Design Note.
type Interp struct {
	MS       *memspace.Reader
	Dir      *image.Directory
	Heap     object.Deallocator
	Builtins *container.Dict
	Natives  []NativeFn

	Cur    *frame.Frame
	done   bool
	result object.Object
	outErr error

	// Stdout receives builtin print's output a line at a time. A host
	// wires this to its WriteByte implementation (§6.5's plat_put_byte);
	// left nil, print falls back to the Errorf diagnostic hook so an
	// interpreter built without a host still logs its output somewhere.
	Stdout func(b []byte) error
}

// New builds an Interp with an empty builtins dict; callers typically
// follow with RegisterBuiltins.
func New(ms *memspace.Reader, dir *image.Directory, heap object.Deallocator) *Interp {
	return &Interp{MS: ms, Dir: dir, Heap: heap, Builtins: container.NewDict()}
}

// finish records fr's final (terminal-frame) outcome: either a return
// value or an escaped error, and stops the dispatch loop. Called by
// RETURN_VALUE (ops_control.go) when fr.Back is nil, and by unwind
// (exceptions.go) when no frame remains to catch a raised exception.
func (it *Interp) finish(result object.Object, err error) {
	it.result = result
	it.outErr = err
	it.done = true
}

// step decodes and executes one instruction in fr, returning the signal
// the handler produced.
func (it *Interp) step(fr *frame.Frame) (Signal, error) {
	cur := memspace.Cursor{Space: fr.Code.Space, Addr: fr.Code.CodeAddr.Addr + uint32(fr.IP)}
	opByte := it.MS.GetByte(&cur)
	op := Op(opByte)
	n := operandBytes(op)
	var arg uint16
	if n == 2 {
		arg = it.MS.GetWord(&cur)
	}
	fr.IP += 1 + n

	if int(op) >= len(dispatch) || dispatch[op] == nil {
		errorf("unknown opcode 0x%02x at ip %d", opByte, fr.IP-1-n)
		return SigNext, excode.New(excode.Err, "interp", 0)
	}
	return dispatch[op](it, fr, arg)
}

// RunOne executes exactly one scheduling turn starting at fr: one
// opcode dispatch and, if that opcode raised, the unwind it triggers.
// No more than one opcode is ever consumed per call, matching §5's
// "switches only between whole opcodes" — this is the granularity a
// sched.Scheduler driving several threads through a shared Interp must
// call at. It returns the frame to resume at on the next turn (nil once
// the call chain has finished), whether it finished, and the terminal
// result/error when it has.
func (it *Interp) RunOne(fr *frame.Frame) (next *frame.Frame, done bool, result object.Object, err error) {
	it.Cur = fr
	it.done = false
	it.result = nil
	it.outErr = nil

	_, stepErr := it.step(it.Cur)
	if stepErr != nil {
		if excode.As(stepErr) == excode.ExExit {
			return nil, true, object.None, nil
		}
		it.unwind(stepErr)
	}
	if it.done {
		return nil, true, it.result, it.outErr
	}
	return it.Cur, false, nil, nil
}

// Run drives fr (and any callee frames CALL_FUNCTION pushes) to
// completion, returning the value RETURN_VALUE produced once control
// returns past fr. Exceptions that escape every frame surface as the
// returned error; EX_EXIT stops cleanly, returning (None, nil), per
// §6.4's role for EX_EXIT as a clean-exit signal rather than a failure.
func (it *Interp) Run(fr *frame.Frame) (object.Object, error) {
	cur := fr
	for {
		next, done, result, err := it.RunOne(cur)
		if done {
			return result, err
		}
		cur = next
	}
}

// globalLookup implements LOAD_NAME/LOAD_GLOBAL's "look up in attrs then
// globals then builtins" order from §4.7.
func (it *Interp) globalLookup(fr *frame.Frame, name *container.String) (object.Object, bool) {
	if attrs := fr.Attrs(); attrs != nil {
		if v, ok := attrs.Get(name); ok {
			return v, true
		}
	}
	if globals := fr.Globals(); globals != nil {
		if v, ok := globals.Get(name); ok {
			return v, true
		}
	}
	return it.Builtins.Get(name)
}
