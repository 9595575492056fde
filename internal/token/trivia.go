package token

import "stencil/internal/source"

// TriviaKind classifies non-significant source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine  // /// или //!
	TriviaDocBlock // /** */ или /*! */
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line-comment"
	case TriviaBlockComment:
		return "block-comment"
	case TriviaDocLine:
		return "doc-line"
	case TriviaDocBlock:
		return "doc-block"
	}
	return "trivia?"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsComment reports whether the trivia carries comment text worth preserving.
func (t Trivia) IsComment() bool {
	return t.Kind >= TriviaLineComment
}
