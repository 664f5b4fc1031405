package vm

import (
	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/obaerr"
	"github.com/oba-lang/oba/internal/value"
)

// binaryArith implements ADD/SUB/MUL/DIV. ADD additionally
// concatenates when both operands are strings, per spec.
func (vm *VM) binaryArith(op bytecode.OpCode, line int) *obaerr.ObaError {
	b := vm.pop()
	a := vm.pop()

	if op == bytecode.OpAdd && a.Kind == value.KindObject && b.Kind == value.KindObject {
		as, aOK := a.Obj.(*value.ObjString)
		bs, bOK := b.Obj.(*value.ObjString)
		if aOK && bOK {
			vm.push(value.FromObject(vm.intern(as.Value + bs.Value)))
			return nil
		}
	}

	if a.Kind != value.KindNumber || b.Kind != value.KindNumber {
		return obaerr.Runtime(line, "Expected numeric or string operands to '%s', got %s and %s", opSymbol(op), value.TypeName(a), value.TypeName(b))
	}

	var result float64
	switch op {
	case bytecode.OpAdd:
		result = a.Num + b.Num
	case bytecode.OpSub:
		result = a.Num - b.Num
	case bytecode.OpMul:
		result = a.Num * b.Num
	case bytecode.OpDiv:
		// IEEE-754 double division, no zero-check: matches OP_DIVIDE in
		// the original VM, which runs the same BINARY_OP macro as ADD/SUB/MUL.
		result = a.Num / b.Num
	}
	vm.push(value.Number(result))
	return nil
}

func (vm *VM) binaryCompare(op bytecode.OpCode, line int) *obaerr.ObaError {
	b := vm.pop()
	a := vm.pop()
	if a.Kind != value.KindNumber || b.Kind != value.KindNumber {
		return obaerr.Runtime(line, "Expected numeric operands to '%s', got %s and %s", opSymbol(op), value.TypeName(a), value.TypeName(b))
	}
	var result bool
	switch op {
	case bytecode.OpLess:
		result = a.Num < b.Num
	case bytecode.OpGreater:
		result = a.Num > b.Num
	case bytecode.OpLessEqual:
		result = a.Num <= b.Num
	case bytecode.OpGreaterEqual:
		result = a.Num >= b.Num
	}
	vm.push(value.Bool(result))
	return nil
}

func opSymbol(op bytecode.OpCode) string {
	switch op {
	case bytecode.OpAdd:
		return "+"
	case bytecode.OpSub:
		return "-"
	case bytecode.OpMul:
		return "*"
	case bytecode.OpDiv:
		return "/"
	case bytecode.OpLess:
		return "<"
	case bytecode.OpGreater:
		return ">"
	case bytecode.OpLessEqual:
		return "<="
	case bytecode.OpGreaterEqual:
		return ">="
	default:
		return op.String()
	}
}
