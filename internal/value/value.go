// Package value implements Oba's runtime value model: a tagged union
// over nil, bool, number, and object reference, plus the heap-allocated
// object variants (strings, functions, closures, upvalues, tables)
// those references point at.
package value

import (
	"fmt"
	"strconv"
)

// Kind discriminates the tag of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObject
)

// Value is Oba's tagged-union runtime value. Exactly one of the payload
// fields is meaningful, selected by Kind; Obj is populated only when
// Kind is KindObject.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Obj  Object
}

var Nil = Value{Kind: KindNil}

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

func FromObject(o Object) Value { return Value{Kind: KindObject, Obj: o} }

// IsTruthy implements Oba's truthiness rule: nil and false are falsy,
// everything else — including the number zero — is truthy.
func IsTruthy(v Value) bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool
	default:
		return true
	}
}

// Equal implements value equality: same tag and payload for scalars;
// object equality is by reference except strings, which compare by
// content (redundant with interning, but correct even if two distinct
// *ObjString instances ever collide).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num == b.Num
	case KindObject:
		as, aIsStr := a.Obj.(*ObjString)
		bs, bIsStr := b.Obj.(*ObjString)
		if aIsStr && bIsStr {
			return as.Value == bs.Value
		}
		return a.Obj == b.Obj
	default:
		return false
	}
}

// ToString renders v the way the `debug` sink and disassembly do:
// numbers in compact decimal form (no trailing ".0" for integral
// values), booleans as true/false, strings raw (unquoted), nil as
// "nil", and functions/closures as "<fn NAME>".
func ToString(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.Num)
	case KindObject:
		return v.Obj.String()
	default:
		return "<invalid>"
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// TypeName returns a short name for v's runtime type, used in error
// messages ("Expected numeric or string operands to '+', got number
// and bool").
func TypeName(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObject:
		return v.Obj.TypeName()
	default:
		return fmt.Sprintf("kind(%d)", v.Kind)
	}
}
