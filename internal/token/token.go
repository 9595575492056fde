package token

import (
	"stencil/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, string or char literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, CharLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWord reports whether the token is the identifier word.
func (t Token) IsWord(word string) bool { return t.Kind == Ident && t.Text == word }

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// Synth builds a token that does not come from source; span anchors diagnostics.
func Synth(kind Kind, text string, span source.Span) Token {
	return Token{Kind: kind, Span: span, Text: text}
}

// SynthPunct builds a punctuation token with its canonical spelling.
func SynthPunct(kind Kind, span source.Span) Token {
	text, _ := PunctText(kind)
	return Token{Kind: kind, Span: span, Text: text}
}
