// Package vm implements Oba's bytecode interpreter: a fixed-depth
// call-frame stack, a single shared value stack, and a dispatch loop
// over internal/bytecode's opcode set. There is no garbage collector —
// every heap object a VM allocates lives until that VM is discarded —
// matching the synchronous, single-threaded execution model this
// language commits to.
package vm

import (
	"fmt"

	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/compiler"
	"github.com/oba-lang/oba/internal/obaerr"
	"github.com/oba-lang/oba/internal/obalog"
	"github.com/oba-lang/oba/internal/value"
)

const (
	maxStack  = 256
	maxFrames = 256
)

// CallFrame is one in-progress call: the closure being executed, its
// instruction pointer into that closure's function chunk, and the
// stack index its local slots start at.
type CallFrame struct {
	closure  *value.ObjClosure
	ip       int
	slotBase int
}

// VM holds everything a running program shares: the value stack (a
// fixed array so upvalues can hold stable pointers into it), the
// call-frame array, the globals table, the string intern table, and
// the head of the bulk-free object list.
type VM struct {
	stack      [maxStack]value.Value
	stackTop   int
	frames     [maxFrames]CallFrame
	frameCount int

	globals *value.ObjTable
	strings map[string]*value.ObjString
	objects value.Object
	openUps *value.ObjUpvalue

	log obalog.Logger
}

// New creates a VM with empty globals and an empty string table,
// logging lifecycle/diagnostic events to log (obalog.Discard() if the
// embedder doesn't want them).
func New(log obalog.Logger) *VM {
	vm := &VM{
		globals: value.NewObjTable(),
		strings: make(map[string]*value.ObjString),
		log:     log,
	}
	vm.log.Debug().Str("session", vm.log.SessionID.String()).Msg("vm constructed")
	return vm
}

// Reset clears the stack and frame array after a runtime error,
// preserving globals and the string intern table so a subsequent
// Interpret call on the same VM sees the same top-level bindings.
func (vm *VM) Reset() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUps = nil
}

// Free drops the VM's reference to its object list; with no GC, this
// is the full extent of teardown — Go's own collector reclaims
// whatever nothing else references after the VM itself goes out of
// scope.
func (vm *VM) Free() {
	count := 0
	for o := vm.objects; o != nil; o = value.GetNext(o) {
		count++
	}
	vm.log.Debug().Int("objects", count).Msg("vm freed")
	vm.objects = nil
}

func (vm *VM) track(o value.Object) {
	value.SetNext(o, vm.objects)
	vm.objects = o
}

// intern returns the canonical *ObjString for s, allocating and
// tracking a new one the first time s is seen. Two Oba strings with
// equal content are always the same object afterward.
func (vm *VM) intern(s string) *value.ObjString {
	if existing, ok := vm.strings[s]; ok {
		return existing
	}
	obj := value.NewObjString(s)
	vm.strings[s] = obj
	vm.track(obj)
	return obj
}

func (vm *VM) push(v value.Value) bool {
	if vm.stackTop >= maxStack {
		return false
	}
	vm.stack[vm.stackTop] = v
	vm.stackTop++
	return true
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) currentFrame() *CallFrame { return &vm.frames[vm.frameCount-1] }

func (vm *VM) readByte(f *CallFrame) byte {
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort(f *CallFrame) int {
	hi := int(vm.readByte(f))
	lo := int(vm.readByte(f))
	return hi<<8 | lo
}

func (vm *VM) readConstant(f *CallFrame, idx int) interface{} {
	return f.closure.Function.Chunk.Constants[idx]
}

// Interpret compiles source and runs it as a fresh top-level script on
// this VM. Globals and interned strings persist across calls; the
// stack and frame array are reset first so a prior runtime error never
// leaks state into the next call.
func (vm *VM) Interpret(source string) *obaerr.ObaError {
	vm.Reset()

	fn, err := compiler.Compile(source)
	if err != nil {
		return err
	}

	closure := value.NewObjClosure(fn)
	vm.track(fn)
	vm.track(closure)

	if !vm.push(value.FromObject(closure)) {
		return obaerr.Runtime(0, "stack overflow")
	}
	vm.frames[0] = CallFrame{closure: closure, ip: 0, slotBase: 0}
	vm.frameCount = 1

	if rerr := vm.run(); rerr != nil {
		vm.Reset()
		return rerr
	}
	return nil
}

// run executes instructions until OP_EXIT or the top frame returns. A
// runtime fault resets neither the stack nor the frames itself — the
// caller (Interpret) does that once control returns to it.
func (vm *VM) run() *obaerr.ObaError {
	for {
		f := vm.currentFrame()
		line := f.closure.Function.Chunk.LineAt(f.ip)
		op := bytecode.OpCode(vm.readByte(f))

		switch op {
		case bytecode.OpConstant:
			idx := int(vm.readByte(f))
			if !vm.pushConstant(f, idx) {
				return obaerr.Runtime(line, "stack overflow")
			}

		case bytecode.OpConstantLong:
			idx := int(vm.readByte(f))<<16 | int(vm.readByte(f))<<8 | int(vm.readByte(f))
			if !vm.pushConstant(f, idx) {
				return obaerr.Runtime(line, "stack overflow")
			}

		case bytecode.OpTrue:
			if !vm.push(value.Bool(true)) {
				return obaerr.Runtime(line, "stack overflow")
			}
		case bytecode.OpFalse:
			if !vm.push(value.Bool(false)) {
				return obaerr.Runtime(line, "stack overflow")
			}
		case bytecode.OpNil:
			if !vm.push(value.Nil) {
				return obaerr.Runtime(line, "stack overflow")
			}

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpDup:
			if !vm.push(vm.peek(0)) {
				return obaerr.Runtime(line, "stack overflow")
			}

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv:
			if rerr := vm.binaryArith(op, line); rerr != nil {
				return rerr
			}

		case bytecode.OpNot:
			v := vm.pop()
			if v.Kind != value.KindBool {
				return obaerr.Runtime(line, "operand to '!' must be a bool, got %s", value.TypeName(v))
			}
			vm.push(value.Bool(!v.Bool))

		case bytecode.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case bytecode.OpNotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(!value.Equal(a, b)))

		case bytecode.OpLess, bytecode.OpGreater, bytecode.OpLessEqual, bytecode.OpGreaterEqual:
			if rerr := vm.binaryCompare(op, line); rerr != nil {
				return rerr
			}

		case bytecode.OpDebug:
			fmt.Printf("DEBUG: %s\n", value.ToString(vm.pop()))

		case bytecode.OpDefineGlobal:
			idx := int(vm.readByte(f))
			name := vm.internName(f, idx)
			vm.globals.Set(name, vm.pop())

		case bytecode.OpGetGlobal:
			idx := int(vm.readByte(f))
			name := vm.internName(f, idx)
			v, ok := vm.globals.Get(name)
			if !ok {
				return obaerr.Runtime(line, "undefined variable '%s'", name.Value)
			}
			if !vm.push(v) {
				return obaerr.Runtime(line, "stack overflow")
			}

		case bytecode.OpSetGlobal:
			idx := int(vm.readByte(f))
			name := vm.internName(f, idx)
			if _, ok := vm.globals.Get(name); !ok {
				return obaerr.Runtime(line, "undefined variable '%s'", name.Value)
			}
			vm.globals.Set(name, vm.peek(0))

		case bytecode.OpGetLocal:
			slot := int(vm.readByte(f))
			if !vm.push(vm.stack[f.slotBase+slot]) {
				return obaerr.Runtime(line, "stack overflow")
			}
		case bytecode.OpSetLocal:
			slot := int(vm.readByte(f))
			vm.stack[f.slotBase+slot] = vm.peek(0)

		case bytecode.OpGetUpvalue:
			idx := int(vm.readByte(f))
			if !vm.push(f.closure.Upvalues[idx].Get()) {
				return obaerr.Runtime(line, "stack overflow")
			}
		case bytecode.OpSetUpvalue:
			idx := int(vm.readByte(f))
			f.closure.Upvalues[idx].Set(vm.peek(0))

		case bytecode.OpJump:
			offset := vm.readShort(f)
			f.ip += offset

		case bytecode.OpJumpIfFalse:
			offset := vm.readShort(f)
			cond := vm.peek(0)
			if cond.Kind != value.KindBool {
				return obaerr.Runtime(line, "condition must be a bool, got %s", value.TypeName(cond))
			}
			if !cond.Bool {
				f.ip += offset
			}

		case bytecode.OpJumpIfTrue:
			offset := vm.readShort(f)
			cond := vm.peek(0)
			if cond.Kind != value.KindBool {
				return obaerr.Runtime(line, "condition must be a bool, got %s", value.TypeName(cond))
			}
			if cond.Bool {
				f.ip += offset
			}

		case bytecode.OpJumpIfNotMatch:
			offset := vm.readShort(f)
			pattern := vm.pop()
			scrutinee := vm.peek(0)
			if !value.Equal(scrutinee, pattern) {
				f.ip += offset
			}

		case bytecode.OpLoop:
			offset := vm.readShort(f)
			f.ip = offset

		case bytecode.OpCall:
			argc := int(vm.readByte(f))
			if rerr := vm.callValue(vm.peek(argc), argc, line); rerr != nil {
				return rerr
			}

		case bytecode.OpClosure:
			idx := int(vm.readByte(f))
			fn, ok := vm.readConstant(f, idx).(*value.ObjFunction)
			if !ok {
				return obaerr.Runtime(line, "internal error: CLOSURE constant is not a function")
			}
			closure := value.NewObjClosure(fn)
			vm.track(closure)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(f) == 1
				idx := int(vm.readByte(f))
				if isLocal {
					closure.Upvalues[i] = vm.captureUpvalue(f.slotBase + idx)
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[idx]
				}
			}
			if !vm.push(value.FromObject(closure)) {
				return obaerr.Runtime(line, "stack overflow")
			}

		case bytecode.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case bytecode.OpReturn:
			result := vm.pop()
			base := f.slotBase
			vm.closeUpvalues(base)
			vm.stackTop = base
			vm.frameCount--
			if vm.frameCount == 0 {
				return nil
			}
			if !vm.push(result) {
				return obaerr.Runtime(line, "stack overflow")
			}

		case bytecode.OpMatchFail:
			return obaerr.Runtime(line, "no match arm satisfied")

		case bytecode.OpExit:
			return nil

		default:
			return obaerr.Runtime(line, "unknown opcode %d", byte(op))
		}
	}
}

func (vm *VM) pushConstant(f *CallFrame, idx int) bool {
	switch c := vm.readConstant(f, idx).(type) {
	case float64:
		return vm.push(value.Number(c))
	case string:
		return vm.push(value.FromObject(vm.intern(c)))
	default:
		return vm.push(value.Nil)
	}
}

// internName reads the raw Go string stored at constant idx (a
// compiler-emitted identifier name) and interns it, giving a stable
// *ObjString usable as a globals-table key.
func (vm *VM) internName(f *CallFrame, idx int) *value.ObjString {
	name, _ := vm.readConstant(f, idx).(string)
	return vm.intern(name)
}
