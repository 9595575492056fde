package lexer

import (
	"stencil/internal/diag"
	"stencil/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '='):
		return lx.emit(token.DotDotEq, start)
	case lx.try3('.', '.', '.'):
		return lx.emit(token.DotDotDot, start)
	case lx.try3('<', '<', '='):
		return lx.emit(token.ShlAssign, start)
	case lx.try3('>', '>', '='):
		return lx.emit(token.ShrAssign, start)
	}

	for _, op := range twoByteOps {
		if lx.try2(op.text[0], op.text[1]) {
			return lx.emit(op.kind, start)
		}
	}

	if k, ok := oneByteOps[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}

	// неизвестный символ: съедаем целую руну, чтобы не резать UTF-8
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character "+quoteText(lx.text(sp)))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

var twoByteOps = []struct {
	text string
	kind token.Kind
}{
	{"..", token.DotDot},
	{"::", token.ColonColon},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"^=", token.CaretAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'=': token.Assign, '!': token.Bang, '<': token.Lt, '>': token.Gt,
	'&': token.Amp, '|': token.Pipe, '^': token.Caret, '?': token.Question,
	':': token.Colon, ';': token.Semicolon, ',': token.Comma, '.': token.Dot,
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
	'#': token.Pound, '@': token.At, '$': token.Dollar, '~': token.Tilde,
}

func quoteText(s string) string {
	return "`" + s + "`"
}
