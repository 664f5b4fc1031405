package compiler

import (
	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/lexer"
)

// declaration compiles one top-level-or-block statement and, on a
// parse error, synchronizes to the next likely statement boundary so
// a single bad line doesn't abort the whole compile.
func (c *Compiler) declaration() {
	c.statement()
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.check(lexer.TokenLet):
		c.letStatement()
	case c.check(lexer.TokenDebug):
		c.debugStatement()
	case c.check(lexer.TokenFn):
		c.functionDeclaration()
	case c.check(lexer.TokenLBrace):
		c.blockStatement()
	default:
		c.expressionStatement()
	}
	c.statementEnd()
}

// bodyStatement is statement(), but for use inside a value-producing
// body (a function's own top-level body, or an if-branch): a bare
// expression is compiled without its trailing POP, since the caller
// decides whether that value survives as the body's result. It
// reports whether it left such a value on the stack.
func (c *Compiler) bodyStatement() bool {
	switch {
	case c.check(lexer.TokenLet):
		c.letStatement()
	case c.check(lexer.TokenDebug):
		c.debugStatement()
	case c.check(lexer.TokenFn):
		c.functionDeclaration()
	case c.check(lexer.TokenLBrace):
		c.blockStatement()
	default:
		c.expression()
		return true
	}
	return false
}

// branchBody compiles the statements of an already-`{`-consumed body
// up to (not including) `}`, leaving the value of its last
// bare-expression statement on the stack — or OP_NIL if the body is
// empty or ends with a non-expression statement. It does not open its
// own lexical scope: a `let` inside an if-branch or function body
// lives in the enclosing scope (the function's own top-level scope, or
// whatever scope the if-expression sits in), cleaned up when that
// scope or the function itself closes.
func (c *Compiler) branchBody() {
	c.skipNewlines()
	leftValue := false
	for !c.check(lexer.TokenRBrace) && !c.check(lexer.TokenEOF) {
		if leftValue {
			c.emitOp(bytecode.OpPop)
			leftValue = false
		}
		leftValue = c.bodyStatement()
		c.statementEnd()
		c.skipNewlines()
	}
	if !leftValue {
		c.emitOp(bytecode.OpNil)
	}
}

func (c *Compiler) letStatement() {
	c.advance() // LET
	name := c.consume(lexer.TokenIdent, "expected variable name after 'let'").Lexeme
	c.consume(lexer.TokenAssign, "expected '=' after variable name")
	c.expression()

	if c.current.scopeDepth == 0 {
		idx := c.chunk().AddConstant(name)
		c.emitBytes(bytecode.OpDefineGlobal, byte(idx))
		return
	}
	c.addLocal(name)
}

func (c *Compiler) debugStatement() {
	c.advance() // DEBUG
	c.expression()
	c.emitOp(bytecode.OpDebug)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.emitOp(bytecode.OpPop)
}

// blockStatement compiles `{ STATEMENTS }` as a plain statement: a
// real lexical scope whose locals are discarded when it closes, per
// spec's literal block-closing algorithm — nothing survives the close,
// so there's no value-preservation concern.
func (c *Compiler) blockStatement() {
	c.advance() // {
	c.beginScope()
	c.skipNewlines()
	for !c.check(lexer.TokenRBrace) && !c.check(lexer.TokenEOF) {
		c.statement()
		c.skipNewlines()
	}
	c.consume(lexer.TokenRBrace, "expected '}' to close block")
	c.endScope()
}

// functionDeclaration compiles `fn NAME PARAMS { BODY }`: a nested
// Function compiled in its own funcState, then a CLOSURE instruction
// (plus its upvalue descriptors) at the definition site, then binds
// NAME the same way `let` would.
func (c *Compiler) functionDeclaration() {
	c.advance() // FN
	name := c.consume(lexer.TokenIdent, "expected function name after 'fn'").Lexeme
	c.compileFunction(name)

	if c.current.scopeDepth == 0 {
		idx := c.chunk().AddConstant(name)
		c.emitBytes(bytecode.OpDefineGlobal, byte(idx))
		return
	}
	c.addLocal(name)
}

// compileFunction parses the parameter list and body and emits the
// CLOSURE instruction that builds this function's closure value at
// the call site, leaving it on the stack.
func (c *Compiler) compileFunction(name string) {
	enclosing := c.current
	c.current = newFuncState(enclosing, name, funcTypeFunction)
	c.beginScope()

	for c.check(lexer.TokenIdent) {
		if c.current.fn.Arity >= 255 {
			c.error("too many parameters")
		}
		c.current.fn.Arity++
		paramName := c.advance().Lexeme
		c.addLocal(paramName)
	}

	c.consume(lexer.TokenLBrace, "expected '{' before function body")
	c.branchBody()
	c.consume(lexer.TokenRBrace, "expected '}' to close function body")
	c.emitOp(bytecode.OpReturn)

	fn := c.current.fn
	upvalues := c.current.upvalues
	c.current = enclosing

	idx := c.chunk().AddConstant(fn)
	c.emitBytes(bytecode.OpClosure, byte(idx))
	for _, up := range upvalues {
		b := byte(0)
		if up.isLocal {
			b = 1
		}
		c.emitByte(b)
		c.emitByte(up.index)
	}
}
