package lexer

import (
	"stencil/internal/diag"
	"stencil/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b.., 0o.., 0x.., 1.0, 1., 1e-3, 2.5E+10 и суффиксы (u8, i64, f32).
// "1..2" и "1.foo" не съедают точку: это диапазон и доступ к полю/методу.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'x', 'X':
			digit = isHex
		}
		if digit != nil {
			lx.cursor.Off += 2
			if !digit(lx.cursor.Peek()) && lx.cursor.Peek() != '_' {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected digits after base prefix")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			lx.consumeSuffix()
			return lx.emit(kind, start)
		}
	}

	lx.consumeDecDigits()

	if lx.cursor.Peek() == '.' {
		next := lx.cursor.PeekAt(1)
		switch {
		case next == '.' || isIdentStartByte(next) || next >= utf8RuneSelf:
			// диапазон или поле — точка не наша
		case isDec(next):
			kind = token.FloatLit
			lx.cursor.Bump()
			lx.consumeDecDigits()
		default:
			// "1." — допустимый float
			lx.cursor.Bump()
			return lx.emit(token.FloatLit, start)
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		save := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			lx.consumeDecDigits()
		} else {
			// не экспонента, а суффикс вроде 1em — пусть разберёт consumeSuffix
			lx.cursor.Reset(save)
		}
	}

	lx.consumeSuffix()
	return lx.emit(kind, start)
}

func (lx *Lexer) consumeDecDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}
