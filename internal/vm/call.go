package vm

import (
	"github.com/oba-lang/oba/internal/obaerr"
	"github.com/oba-lang/oba/internal/value"
)

// callValue invokes callee with argc arguments already sitting on top
// of the stack (callee itself at peek(argc)). Only closures are
// callable; anything else is a runtime error.
func (vm *VM) callValue(callee value.Value, argc int, line int) *obaerr.ObaError {
	if callee.Kind != value.KindObject {
		return obaerr.Runtime(line, "cannot call a %s value", value.TypeName(callee))
	}
	closure, ok := callee.Obj.(*value.ObjClosure)
	if !ok {
		return obaerr.Runtime(line, "cannot call a %s value", value.TypeName(callee))
	}
	if closure.Function.Arity != argc {
		return obaerr.Runtime(line, "expected %d arguments but got %d", closure.Function.Arity, argc)
	}
	if vm.frameCount >= maxFrames {
		vm.log.Warn().Int("frames", vm.frameCount).Msg("call frame limit reached")
		return obaerr.Runtime(line, "stack overflow: call frames exceeded")
	}
	vm.frames[vm.frameCount] = CallFrame{
		closure:  closure,
		ip:       0,
		slotBase: vm.stackTop - argc - 1,
	}
	vm.frameCount++
	return nil
}

// captureUpvalue returns the open upvalue already pointing at slot, if
// one exists, or creates and links a new one. vm.openUps is kept
// sorted by descending Slot so both the search and the insert stop as
// soon as they pass slot.
func (vm *VM) captureUpvalue(slot int) *value.ObjUpvalue {
	var prev *value.ObjUpvalue
	up := vm.openUps
	for up != nil && up.Slot > slot {
		prev = up
		up = up.OpenNext
	}
	if up != nil && up.Slot == slot {
		return up
	}

	created := value.NewObjUpvalue(slot, &vm.stack[slot])
	created.OpenNext = up
	if prev == nil {
		vm.openUps = created
	} else {
		prev.OpenNext = created
	}
	vm.track(created)
	return created
}

// closeUpvalues closes every open upvalue pointing at or above
// fromSlot, copying each one's value into its own storage before the
// stack slot it pointed at is discarded.
func (vm *VM) closeUpvalues(fromSlot int) {
	for vm.openUps != nil && vm.openUps.Slot >= fromSlot {
		up := vm.openUps
		up.Close()
		vm.openUps = up.OpenNext
	}
}
