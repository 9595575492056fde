package lexer

import (
	"stencil/internal/diag"
	"stencil/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t' и '\r' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... до \n -> TriviaLineComment, ///... и //!... -> TriviaDocLine
//   - /* ... */ -> TriviaBlockComment (с вложенностью), /** */ и /*! */ -> TriviaDocBlock
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			for b2 := lx.cursor.Peek(); b2 == ' ' || b2 == '\t' || b2 == '\r'; b2 = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '/' && lx.scanComment():
		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// scanComment reads one comment into hold; false means '/' is an operator.
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()

	if b1 == '/' {
		kind := token.TriviaLineComment
		if n := lx.cursor.Peek(); n == '!' || (n == '/' && lx.cursor.PeekAt(1) != '/') {
			kind = token.TriviaDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		return true
	}

	kind := token.TriviaBlockComment
	if n := lx.cursor.Peek(); n == '!' || (n == '*' && lx.cursor.PeekAt(1) != '/') {
		kind = token.TriviaDocBlock
	}
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		if b0, b1, ok := lx.cursor.Peek2(); ok {
			switch {
			case b0 == '/' && b1 == '*':
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth++
				continue
			case b0 == '*' && b1 == '/':
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth--
				continue
			}
		}
		lx.cursor.Bump()
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	lx.pushTrivia(kind, start)
	return true
}
