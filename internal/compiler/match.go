package compiler

import (
	"github.com/oba-lang/oba/internal/bytecode"
	"github.com/oba-lang/oba/internal/lexer"
)

// matchExpression compiles `match EXPR | PATTERN = BODY | … ;`. The
// scrutinee is compiled once and reused across arms (never
// re-fetched): each arm duplicates it, compiles its pattern, and
// branches on equality; a matched arm drops both the duplicate and the
// original scrutinee before compiling its body, an unmatched arm drops
// just the duplicate and falls into the next arm's test. Falling off
// the last arm raises a runtime error (OP_MATCH_FAIL).
func (c *Compiler) matchExpression(canAssign bool) {
	c.expression() // scrutinee
	c.skipNewlines()

	if !c.check(lexer.TokenPipe) {
		c.errorAtCurrent("expected '|' to start the first match arm")
	}

	var endJumps []int
	for c.match(lexer.TokenPipe) {
		c.emitOp(bytecode.OpDup)
		c.expression() // pattern
		failJump := c.emitJump(bytecode.OpJumpIfNotMatch)

		c.emitOp(bytecode.OpPop) // drop the duplicate
		c.emitOp(bytecode.OpPop) // drop the scrutinee
		c.consume(lexer.TokenAssign, "expected '=' after match pattern")
		c.expression() // body
		endJumps = append(endJumps, c.emitJump(bytecode.OpJump))

		c.patchJump(failJump)
		c.emitOp(bytecode.OpPop) // drop the duplicate, keep the scrutinee
		c.skipNewlines()
	}

	c.emitOp(bytecode.OpPop) // drop the scrutinee, no arm matched
	c.emitOp(bytecode.OpMatchFail)

	for _, j := range endJumps {
		c.patchJump(j)
	}

	c.skipNewlines()
	c.consume(lexer.TokenSemicolon, "expected ';' to close match")
}
