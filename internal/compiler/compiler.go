// Package compiler turns an Oba token stream into bytecode in a single
// left-to-right pass — no intermediate AST. Expression parsing is a
// Pratt parser (a table of prefix/infix handlers keyed by token kind,
// climbing by precedence); everything else is a small recursive-descent
// layer over that.
package compiler

import (
	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/lexer"
	"github.com/oba-lang/oba/internal/obaerr"
	"github.com/oba-lang/oba/internal/value"
)

// Compiler holds the token stream and cursor for one compile pass, plus
// the chain of funcStates tracking scope/local/upvalue state for the
// function currently being compiled.
type Compiler struct {
	tokens  []lexer.Token
	pos     int
	line    int
	current *funcState

	errors    []*obaerr.ObaError
	panicMode bool
}

// Compile compiles source into a top-level ObjFunction representing the
// implicit script body. On a compile error it returns nil and the first
// error encountered; the further errors collected during recovery are
// not returned to the caller.
func Compile(source string) (*value.ObjFunction, *obaerr.ObaError) {
	scanner := lexer.NewScanner(source)
	c := &Compiler{tokens: scanner.ScanTokens()}
	c.current = newFuncState(nil, "script", funcTypeScript)

	c.skipNewlines()
	for !c.check(lexer.TokenEOF) {
		c.declaration()
		c.skipNewlines()
	}
	c.emitReturn()

	if c.panicMode && len(c.errors) == 0 {
		// unreachable: panicMode is only set alongside an appended error
	}
	if len(c.errors) > 0 {
		return nil, c.errors[0]
	}
	return c.current.fn, nil
}

// Errors exposes every compile error collected during a failed Compile,
// in source order, for callers that want to report more than the first.
func (c *Compiler) Errors() []*obaerr.ObaError { return c.errors }

func (c *Compiler) peek() lexer.Token { return c.tokens[c.pos] }

func (c *Compiler) peekType() lexer.TokenType { return c.peek().Type }

func (c *Compiler) previous() lexer.Token { return c.tokens[c.pos-1] }

func (c *Compiler) check(t lexer.TokenType) bool { return c.peekType() == t }

func (c *Compiler) advance() lexer.Token {
	if !c.check(lexer.TokenEOF) {
		c.pos++
	}
	tok := c.previous()
	c.line = tok.Line
	return tok
}

func (c *Compiler) match(t lexer.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t lexer.TokenType, msg string) lexer.Token {
	if c.check(t) {
		return c.advance()
	}
	c.errorAtCurrent(msg)
	return c.peek()
}

// skipNewlines consumes zero or more NEWLINE tokens, used between
// statements and around block braces where blank lines are harmless.
func (c *Compiler) skipNewlines() {
	for c.check(lexer.TokenNewline) {
		c.advance()
	}
}

// statementEnd consumes the separator after a statement: one or more
// NEWLINEs, a semicolon, or simply the presence of `}`/EOF ahead.
func (c *Compiler) statementEnd() {
	if c.check(lexer.TokenRBrace) || c.check(lexer.TokenEOF) {
		return
	}
	if !c.check(lexer.TokenNewline) && !c.check(lexer.TokenSemicolon) {
		c.errorAtCurrent("expected newline or ';' after statement")
		return
	}
	for c.check(lexer.TokenNewline) || c.check(lexer.TokenSemicolon) {
		c.advance()
	}
}

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.peek(), msg) }

func (c *Compiler) error(msg string) { c.errorAt(c.previous(), msg) }

// errorAt records a compile error and enters panic mode, which
// suppresses further errors until synchronize() finds a clean
// statement boundary — spec's "attempt to continue" recovery discipline
// so one bad token doesn't hide every other mistake in the file.
func (c *Compiler) errorAt(tok lexer.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.errors = append(c.errors, obaerr.Compile(tok.Line, "%s", msg))
}

// synchronize discards tokens until it finds a likely statement
// boundary: a NEWLINE, `}`, or a keyword that starts a new statement.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for !c.check(lexer.TokenEOF) {
		if c.previous().Type == lexer.TokenNewline || c.previous().Type == lexer.TokenSemicolon {
			return
		}
		switch c.peekType() {
		case lexer.TokenLet, lexer.TokenFn, lexer.TokenDebug, lexer.TokenIf, lexer.TokenMatch, lexer.TokenRBrace:
			return
		}
		c.advance()
	}
}

func (c *Compiler) chunk() *bytecode.Chunk { return c.current.fn.Chunk }

func (c *Compiler) emitByte(b byte)             { c.chunk().WriteByte(b, c.line) }
func (c *Compiler) emitOp(op bytecode.OpCode)   { c.chunk().WriteOp(op, c.line) }
func (c *Compiler) emitBytes(op bytecode.OpCode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) emitConstant(val interface{}) { c.chunk().WriteConstant(val, c.line) }

// emitJump emits op followed by a two-byte placeholder offset and
// returns the offset of the placeholder's first byte, to be patched by
// patchJump once the jump target is known.
func (c *Compiler) emitJump(op bytecode.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk().Len() - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := c.chunk().Len() - offset - 2
	if jump > 0xffff {
		c.error("jump target too far away")
		return
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump)
}

// emitReturn pushes nil (a script or function that falls off the end
// without an implicit-return value) and emits OP_RETURN.
func (c *Compiler) emitReturn() {
	c.emitOp(bytecode.OpNil)
	c.emitOp(bytecode.OpReturn)
}
