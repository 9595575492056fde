package lexer

import (
	"stencil/internal/diag"
	"stencil/internal/token"
)

// scanString reads "..." with escapes; start may include a b/c prefix.
// Переводы строк внутри литерала допустимы.
func (lx *Lexer) scanString(start Mark) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			lx.consumeSuffix()
			return lx.emit(token.StringLit, start)
		case '\\':
			if lx.cursor.EOF() {
				break
			}
			lx.consumeEscape()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// rawQuoteAhead reports whether '#'* '"' follows the cursor.
func (lx *Lexer) rawQuoteAhead() bool {
	var n uint32
	for lx.cursor.PeekAt(n) == '#' {
		n++
	}
	return lx.cursor.PeekAt(n) == '"'
}

// scanRawString reads r#"..."# after the prefix word has been consumed.
func (lx *Lexer) scanRawString(start Mark) token.Token {
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		closing := 0
		for closing < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			closing++
		}
		if closing == hashes {
			lx.consumeSuffix()
			return lx.emit(token.StringLit, start)
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated raw string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// consumeSuffix eats a literal suffix such as u8 or f64.
func (lx *Lexer) consumeSuffix() {
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
	}
}
