package lexer

import (
	"golang.org/x/text/unicode/norm"

	"stencil/internal/diag"
	"stencil/internal/token"
)

// scanIdent сканирует идентификатор и разбирает префиксные формы:
// r#ident, r"..", r#".."#, b"..", br"..", c"..", cr"..", b'x'.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	if !lx.consumeIdentBody() {
		return lx.scanOperatorOrPunct()
	}
	sp := lx.cursor.SpanFrom(start)
	word := lx.text(sp)

	switch word {
	case "r", "br", "cr":
		next := lx.cursor.Peek()
		if word == "r" && next == '#' && isIdentStartByte(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump() // '#'
			lx.consumeIdentBody()
			return lx.emit(token.Ident, start)
		}
		if next == '"' || (next == '#' && lx.rawQuoteAhead()) {
			return lx.scanRawString(start)
		}
	case "b", "c":
		if lx.cursor.Peek() == '"' {
			return lx.scanString(start)
		}
		if word == "b" && lx.cursor.Peek() == '\'' {
			return lx.scanCharBody(start)
		}
	}

	tok := token.Token{Kind: token.Ident, Span: sp, Text: word}
	if !norm.NFC.IsNormalString(word) {
		// одинаково выглядящие имена должны совпадать побайтно
		tok.Text = norm.NFC.String(word)
	}
	return tok
}

// consumeIdentBody reads [start continue*]; false when the cursor is not at an identifier.
func (lx *Lexer) consumeIdentBody() bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return false
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return false
		}
		lx.bumpRune()
	}
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) || lx.cursor.EOF() {
				return true
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			return true
		}
		lx.bumpRune()
	}
}

// scanQuote различает char-литерал 'x' и lifetime 'a.
func (lx *Lexer) scanQuote() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.PeekAt(1) != '\\' {
		save := lx.cursor.Mark()
		lx.cursor.Bump() // '\''
		r, sz := lx.peekRune()
		if sz > 0 && lx.cursor.PeekAt(uint32(sz)) != '\'' && isIdentStartRune(r) {
			lx.consumeIdentBody()
			return lx.emit(token.Lifetime, start)
		}
		lx.cursor.Reset(save)
	}
	return lx.scanCharBody(start)
}

// scanCharBody reads '<char or escape>' starting at the opening quote.
func (lx *Lexer) scanCharBody(start Mark) token.Token {
	lx.cursor.Bump() // '\''
	if lx.cursor.Eat('\\') {
		lx.consumeEscape()
	} else {
		lx.bumpRune()
	}
	if !lx.cursor.Eat('\'') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadChar, sp, "malformed character literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(token.CharLit, start)
}

// consumeEscape reads the part of an escape after '\': n, x7f, u{1F600}, ...
func (lx *Lexer) consumeEscape() {
	switch lx.cursor.Bump() {
	case 'x':
		for i := 0; i < 2 && isHex(lx.cursor.Peek()); i++ {
			lx.cursor.Bump()
		}
	case 'u':
		if lx.cursor.Eat('{') {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '}' && lx.cursor.Peek() != '\'' && lx.cursor.Peek() != '"' {
				lx.cursor.Bump()
			}
			lx.cursor.Eat('}')
		}
	}
}
