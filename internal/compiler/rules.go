package compiler

import "github.com/oba-lang/oba/internal/lexer"

// Precedence ladder, low to high: NONE < LOWEST < COND < SUM < PRODUCT
// < UNARY < CALL. Every binary operator in this grammar is right-associative,
// so an infix handler recurses at its own precedence rather than one
// level higher; parsePrecedence's loop still climbs left-to-right
// across *different* operators the usual Pratt way.
type precedence int

const (
	precNone precedence = iota
	precLowest
	precCond // == != < > <= >=
	precSum  // + -
	precProduct
	precUnary
	precCall
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.TokenLParen: {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: precCall},
		lexer.TokenMinus:  {infix: (*Compiler).binary, precedence: precSum},
		lexer.TokenPlus:   {infix: (*Compiler).binary, precedence: precSum},
		lexer.TokenSlash:  {infix: (*Compiler).binary, precedence: precProduct},
		lexer.TokenStar:   {infix: (*Compiler).binary, precedence: precProduct},
		lexer.TokenNot:    {prefix: (*Compiler).unary},
		lexer.TokenNeq:    {infix: (*Compiler).binary, precedence: precCond},
		lexer.TokenEq:     {infix: (*Compiler).binary, precedence: precCond},
		lexer.TokenGt:     {infix: (*Compiler).binary, precedence: precCond},
		lexer.TokenGte:    {infix: (*Compiler).binary, precedence: precCond},
		lexer.TokenLt:     {infix: (*Compiler).binary, precedence: precCond},
		lexer.TokenLte:    {infix: (*Compiler).binary, precedence: precCond},
		lexer.TokenIdent:  {prefix: (*Compiler).variable},
		lexer.TokenString: {prefix: (*Compiler).stringLiteral},
		lexer.TokenNumber: {prefix: (*Compiler).number},
		lexer.TokenTrue:   {prefix: (*Compiler).literal},
		lexer.TokenFalse:  {prefix: (*Compiler).literal},
		lexer.TokenIf:     {prefix: (*Compiler).ifExpression},
		lexer.TokenMatch:  {prefix: (*Compiler).matchExpression},
	}
}

func getRule(t lexer.TokenType) parseRule { return rules[t] }

// parsePrecedence is the Pratt engine: parse one prefix expression,
// then keep consuming infix operators whose precedence is at least
// minPrec, climbing the expression tree on each iteration.
func (c *Compiler) parsePrecedence(minPrec precedence) {
	tok := c.advance()
	rule := getRule(tok.Type)
	if rule.prefix == nil {
		c.errorAt(tok, "expected expression")
		return
	}
	canAssign := minPrec <= precLowest
	rule.prefix(c, canAssign)

	for {
		rule = getRule(c.peekType())
		if rule.precedence < minPrec || rule.infix == nil {
			break
		}
		c.advance()
		rule.infix(c, canAssign)
	}
}

func (c *Compiler) expression() { c.parsePrecedence(precLowest) }
