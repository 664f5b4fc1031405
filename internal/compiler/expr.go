package compiler

import (
	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/lexer"
)

func (c *Compiler) number(canAssign bool) {
	c.emitConstant(c.previous().Value)
}

func (c *Compiler) stringLiteral(canAssign bool) {
	c.emitConstant(c.previous().Lexeme)
}

func (c *Compiler) literal(canAssign bool) {
	if c.previous().Type == lexer.TokenTrue {
		c.emitOp(bytecode.OpTrue)
		return
	}
	c.emitOp(bytecode.OpFalse)
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(lexer.TokenRParen, "expected ')' after expression")
}

// unary compiles `!EXPR`, binding tighter than any binary operator.
func (c *Compiler) unary(canAssign bool) {
	c.parsePrecedence(precUnary)
	c.emitOp(bytecode.OpNot)
}

// binary compiles the right-hand operand of an already-consumed
// infix operator at the SAME precedence, since every binary operator
// in this grammar is right-associative.
func (c *Compiler) binary(canAssign bool) {
	opType := c.previous().Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence)
	c.emitOp(binaryOp(opType))
}

func binaryOp(t lexer.TokenType) bytecode.OpCode {
	switch t {
	case lexer.TokenPlus:
		return bytecode.OpAdd
	case lexer.TokenMinus:
		return bytecode.OpSub
	case lexer.TokenStar:
		return bytecode.OpMul
	case lexer.TokenSlash:
		return bytecode.OpDiv
	case lexer.TokenEq:
		return bytecode.OpEqual
	case lexer.TokenNeq:
		return bytecode.OpNotEqual
	case lexer.TokenLt:
		return bytecode.OpLess
	case lexer.TokenGt:
		return bytecode.OpGreater
	case lexer.TokenLte:
		return bytecode.OpLessEqual
	case lexer.TokenGte:
		return bytecode.OpGreaterEqual
	}
	panic("unreachable binary operator")
}

// variable compiles a name reference, resolving it local-first, then
// through enclosing functions as an upvalue, then as a global — and,
// if followed by `=` in an assignment-legal position, compiles the
// right-hand side and emits the matching SET instead of GET.
func (c *Compiler) variable(canAssign bool) {
	name := c.previous().Lexeme

	var getOp, setOp bytecode.OpCode
	var arg int

	if slot := resolveLocal(c.current, name); slot != -1 {
		getOp, setOp, arg = bytecode.OpGetLocal, bytecode.OpSetLocal, slot
	} else if up := c.resolveUpvalue(c.current, name); up != -1 {
		getOp, setOp, arg = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue, up
	} else {
		idx := c.chunk().AddConstant(name)
		getOp, setOp, arg = bytecode.OpGetGlobal, bytecode.OpSetGlobal, idx
	}

	if canAssign && c.match(lexer.TokenAssign) {
		c.expression()
		c.emitBytes(setOp, byte(arg))
		return
	}
	c.emitBytes(getOp, byte(arg))
}

// call compiles `(a1, a2, …, an)` after an already-compiled callee.
func (c *Compiler) call(canAssign bool) {
	argc := c.argumentList()
	c.emitBytes(bytecode.OpCall, byte(argc))
}

func (c *Compiler) argumentList() int {
	argc := 0
	if !c.check(lexer.TokenRParen) {
		for {
			c.expression()
			argc++
			if !c.match(lexer.TokenComma) {
				break
			}
		}
	}
	c.consume(lexer.TokenRParen, "expected ')' after arguments")
	return argc
}

// ifExpression compiles `if COND { THEN } else { ELSE }` as a
// value-producing expression: the taken branch's value is left on the
// stack, or nil if the condition is false and there is no else.
func (c *Compiler) ifExpression(canAssign bool) {
	c.expression()
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)

	c.consume(lexer.TokenLBrace, "expected '{' after if condition")
	c.branchBody()
	c.consume(lexer.TokenRBrace, "expected '}' to close if branch")

	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)

	if c.match(lexer.TokenElse) {
		c.consume(lexer.TokenLBrace, "expected '{' after else")
		c.branchBody()
		c.consume(lexer.TokenRBrace, "expected '}' to close else branch")
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.patchJump(endJump)
}
