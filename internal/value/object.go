package value

import (
	"fmt"

	"github.com/oba-lang/oba/internal/bytecode"
)

// ObjHeader is the header every heap object embeds. Next threads all
// live objects into the VM's single intrusive list for bulk teardown
// at VM.Free — there is no garbage collector (spec Non-goal), so objects
// live exactly as long as the VM that allocated them.
type ObjHeader struct {
	Next Object
}

func (h *ObjHeader) header() *ObjHeader { return h }

// Object is any heap-allocated Oba value.
type Object interface {
	String() string
	TypeName() string
	header() *ObjHeader
}

// SetNext links o after prev in the VM's object list.
func SetNext(o Object, prev Object) { o.header().Next = prev }

// GetNext returns the next object in the VM's object list.
func GetNext(o Object) Object { return o.header().Next }

// fnvOffset32/fnvPrime32 are the FNV-1a 32-bit constants; spec §4.4
// calls for "a deterministic byte-level hash (FNV-1a is the intended
// family)".
const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// HashString computes the FNV-1a hash of s, used both to key ObjString
// and to bucket Table entries.
func HashString(s string) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// ObjString is an immutable, interned byte sequence. Two ObjStrings
// with equal content are always the same object — see the VM's string
// table (interning guarantees pointer equality implies content
// equality, and vice versa).
type ObjString struct {
	ObjHeader
	Value string
	Hash  uint32
}

func NewObjString(s string) *ObjString {
	return &ObjString{Value: s, Hash: HashString(s)}
}

func (s *ObjString) String() string   { return s.Value }
func (s *ObjString) TypeName() string { return "string" }

// ObjFunction is a compiled unit: its arity, how many upvalues its
// closures must capture, an optional name (a function with an empty
// name prints as "<fn>"), and the Chunk compiled for its body.
type ObjFunction struct {
	ObjHeader
	Name         string
	Arity        int
	UpvalueCount int
	Chunk        *bytecode.Chunk
}

func NewObjFunction(name string) *ObjFunction {
	return &ObjFunction{Name: name, Chunk: bytecode.NewChunk()}
}

func (f *ObjFunction) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}
func (f *ObjFunction) TypeName() string { return "function" }

// ObjUpvalue is a cell that refers to a captured variable. While Open
// is true, Location points into a still-live frame's stack slot;
// Close copies the slot's value into Closed, sets Open to
// false, and from then on reads/writes target Closed directly.
//
// OpenNext threads the VM's open-upvalue list, which is kept sorted by
// descending stack slot index — a separate chain from ObjHeader.Next,
// which threads the bulk-free object list.
type ObjUpvalue struct {
	ObjHeader
	Location *Value
	Closed   Value
	Open     bool
	OpenNext *ObjUpvalue

	// Slot is the stack index Location points at while Open; it exists
	// only so the VM can keep its open-upvalue list ordered without
	// comparing *Value pointers (Go forbids ordering comparisons on
	// pointers). Meaningless once Close has run.
	Slot int
}

func NewObjUpvalue(slot int, loc *Value) *ObjUpvalue {
	return &ObjUpvalue{Location: loc, Open: true, Slot: slot}
}

// Get returns the upvalue's current value, open or closed.
func (u *ObjUpvalue) Get() Value {
	if u.Open {
		return *u.Location
	}
	return u.Closed
}

// Set assigns through the upvalue, open or closed.
func (u *ObjUpvalue) Set(v Value) {
	if u.Open {
		*u.Location = v
		return
	}
	u.Closed = v
}

// Close copies the value at Location into Closed storage and marks the
// upvalue closed; the stack slot it pointed at is about to be popped.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Open = false
	u.Location = &u.Closed
}

func (u *ObjUpvalue) String() string   { return "<upvalue>" }
func (u *ObjUpvalue) TypeName() string { return "upvalue" }

// ObjClosure pairs a Function with the vector of Upvalues resolved at
// closure-creation time (OP_CLOSURE).
type ObjClosure struct {
	ObjHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func NewObjClosure(fn *ObjFunction) *ObjClosure {
	return &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
}

func (c *ObjClosure) String() string {
	if c.Function.Name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", c.Function.Name)
}
func (c *ObjClosure) TypeName() string { return "function" }
