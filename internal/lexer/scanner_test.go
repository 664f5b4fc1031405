package lexer

import "testing"

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return types
}

func assertTypes(t *testing.T, got []Token, want []TokenType) {
	t.Helper()
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(gotTypes), gotTypes)
	}
	for i, w := range want {
		if gotTypes[i] != w {
			t.Errorf("token %d: expected %s, got %s", i, w, gotTypes[i])
		}
	}
}

func TestScanSymbolsAndOperators(t *testing.T) {
	tokens := NewScanner(`( ) { } + - * / ! = == != < > <= >= | , ; =>`).ScanTokens()
	assertTypes(t, tokens, []TokenType{
		TokenLParen, TokenRParen, TokenLBrace, TokenRBrace,
		TokenPlus, TokenMinus, TokenStar, TokenSlash,
		TokenNot, TokenAssign, TokenEq, TokenNeq,
		TokenLt, TokenGt, TokenLte, TokenGte,
		TokenPipe, TokenComma, TokenSemicolon, TokenEqGreater,
		TokenEOF,
	})
}

func TestScanKeywords(t *testing.T) {
	tokens := NewScanner("let fn debug if else match true false").ScanTokens()
	assertTypes(t, tokens, []TokenType{
		TokenLet, TokenFn, TokenDebug, TokenIf, TokenElse, TokenMatch, TokenTrue, TokenFalse, TokenEOF,
	})
}

func TestScanIdentifierNotKeyword(t *testing.T) {
	tokens := NewScanner("letter").ScanTokens()
	if tokens[0].Type != TokenIdent {
		t.Errorf("expected 'letter' to scan as IDENT, got %s", tokens[0].Type)
	}
}

func TestScanNumberIntegerAndFractional(t *testing.T) {
	tokens := NewScanner("42 3.14").ScanTokens()
	if tokens[0].Type != TokenNumber || tokens[0].Value != 42 {
		t.Errorf("expected NUMBER 42, got %v", tokens[0])
	}
	if tokens[1].Type != TokenNumber || tokens[1].Value != 3.14 {
		t.Errorf("expected NUMBER 3.14, got %v", tokens[1])
	}
}

func TestScanString(t *testing.T) {
	tokens := NewScanner(`"hello world"`).ScanTokens()
	if tokens[0].Type != TokenString {
		t.Fatalf("expected STRING, got %s", tokens[0].Type)
	}
	if tokens[0].Lexeme != "hello world" {
		t.Errorf("expected unquoted lexeme, got %q", tokens[0].Lexeme)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	tokens := NewScanner(`"no closing quote`).ScanTokens()
	if tokens[0].Type != TokenError {
		t.Fatalf("expected ERROR token for unterminated string, got %s", tokens[0].Type)
	}
}

func TestScanLineComment(t *testing.T) {
	tokens := NewScanner("1 // this is a comment\n2").ScanTokens()
	assertTypes(t, tokens, []TokenType{TokenNumber, TokenNewline, TokenNumber, TokenEOF})
}

func TestScanNewlineIncrementsLine(t *testing.T) {
	tokens := NewScanner("1\n2\n3").ScanTokens()
	if tokens[0].Line != 1 {
		t.Errorf("expected first number on line 1, got %d", tokens[0].Line)
	}
	// tokens: NUMBER(1) NEWLINE NUMBER(2) NEWLINE NUMBER(3) EOF
	if tokens[2].Line != 2 {
		t.Errorf("expected second number on line 2, got %d", tokens[2].Line)
	}
	if tokens[4].Line != 3 {
		t.Errorf("expected third number on line 3, got %d", tokens[4].Line)
	}
}

func TestScanUnknownCharacter(t *testing.T) {
	tokens := NewScanner("@").ScanTokens()
	if tokens[0].Type != TokenError {
		t.Fatalf("expected ERROR token for unknown character, got %s", tokens[0].Type)
	}
}

func TestTokenBarIsPipe(t *testing.T) {
	if TokenBar != TokenPipe {
		t.Error("TokenBar should be the exact same token type as TokenPipe")
	}
}
