package compiler

import (
	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/value"
)

type funcKind int

const (
	funcTypeScript funcKind = iota
	funcTypeFunction
)

type localVar struct {
	name     string
	depth    int
	captured bool
}

type upvalueRef struct {
	index   byte
	isLocal bool
}

// funcState tracks the locals, scope depth, and upvalues of the
// function currently being compiled. Compiling a nested `fn` pushes a
// new funcState with enclosing set to the current one; finishing that
// function pops back. Slot 0 of every function's locals is reserved
// for the function's own closure value (unused by name, but it keeps
// local slot numbering in step with the VM's call-frame layout, which
// always reserves frame slot 0 for the called closure).
type funcState struct {
	enclosing *funcState
	fn        *value.ObjFunction
	kind      funcKind

	locals     []localVar
	scopeDepth int
	upvalues   []upvalueRef
}

func newFuncState(enclosing *funcState, name string, kind funcKind) *funcState {
	fs := &funcState{enclosing: enclosing, fn: value.NewObjFunction(name), kind: kind}
	fs.locals = append(fs.locals, localVar{name: "", depth: 0})
	return fs
}

func (c *Compiler) beginScope() { c.current.scopeDepth++ }

// endScope pops every local declared at or above the current depth,
// emitting OP_CLOSE_UPVALUE for ones captured by a nested closure and
// plain OP_POP otherwise — in reverse declaration order, since the
// stack-balance invariant guarantees each one sits at top in turn.
func (c *Compiler) endScope() {
	c.current.scopeDepth--
	locals := c.current.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > c.current.scopeDepth {
		last := locals[len(locals)-1]
		if last.captured {
			c.emitOp(bytecode.OpCloseUpvalue)
		} else {
			c.emitOp(bytecode.OpPop)
		}
		locals = locals[:len(locals)-1]
	}
	c.current.locals = locals
}

// addLocal declares name as a new local in the current scope, backed
// by the stack slot its initializer already pushed.
func (c *Compiler) addLocal(name string) {
	if len(c.current.locals) >= 256 {
		c.error("too many local variables in one function")
		return
	}
	for i := len(c.current.locals) - 1; i >= 0; i-- {
		l := c.current.locals[i]
		if l.depth != -1 && l.depth < c.current.scopeDepth {
			break
		}
		if l.name == name {
			c.error("variable '" + name + "' already declared in this scope")
			return
		}
	}
	c.current.locals = append(c.current.locals, localVar{name: name, depth: c.current.scopeDepth})
}

// resolveLocal looks up name in fs's own locals, innermost scope first.
func resolveLocal(fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue is the Compiler-bound entry point into the free
// resolveUpvalue walk below, kept separate so the recursive helper
// doesn't need a *Compiler just to thread through an enclosing chain.
func (c *Compiler) resolveUpvalue(fs *funcState, name string) int {
	return resolveUpvalue(fs, name)
}

// resolveUpvalue resolves name as a variable captured from an enclosing
// function: if it's a local in the immediately enclosing function,
// captures it directly; otherwise recurses outward so each
// intermediate function also carries the upvalue chain needed to reach
// it. Returns -1 if name isn't found in any enclosing scope (global).
func resolveUpvalue(fs *funcState, name string) int {
	if fs.enclosing == nil {
		return -1
	}
	if local := resolveLocal(fs.enclosing, name); local != -1 {
		fs.enclosing.locals[local].captured = true
		return addUpvalue(fs, byte(local), true)
	}
	if up := resolveUpvalue(fs.enclosing, name); up != -1 {
		return addUpvalue(fs, byte(up), false)
	}
	return -1
}

// addUpvalue records (or reuses) an upvalue descriptor on fs pointing
// either at a local slot of its immediately enclosing function
// (isLocal) or at one of that function's own upvalues.
func addUpvalue(fs *funcState, index byte, isLocal bool) int {
	for i, up := range fs.upvalues {
		if up.index == index && up.isLocal == isLocal {
			return i
		}
	}
	fs.upvalues = append(fs.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fs.fn.UpvalueCount = len(fs.upvalues)
	return len(fs.upvalues) - 1
}
