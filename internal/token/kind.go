package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident    // foo, r#type, _
	Lifetime // 'a
	IntLit   // 42, 0xff, 1_000u32
	FloatLit // 1.5, 2e10f64
	// StringLit covers "..", r#".."#, b"..", c"..".
	StringLit
	CharLit // 'x', b'x'

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]

	Comma      // ,
	Semicolon  // ;
	Colon      // :
	ColonColon // ::
	Dot        // .
	DotDot     // ..
	DotDotDot  // ...
	DotDotEq   // ..=
	Arrow      // ->
	FatArrow   // =>
	Pound      // #
	Bang       // !
	Question   // ?
	At         // @
	Dollar     // $
	Tilde      // ~

	Assign // =
	EqEq   // ==
	BangEq // !=
	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Amp
	AndAnd
	Pipe
	OrOr
	Shl // <<
	Shr // >>

	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	CaretAssign
	AmpAssign
	PipeAssign
	ShlAssign
	ShrAssign
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	Lifetime:  "Lifetime",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	CharLit:   "CharLit",
}

// String returns the kind name, or the punctuation spelling for punctuation kinds.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	if s, ok := punctText[k]; ok {
		return s
	}
	return "Kind(?)"
}

// IsPunct reports whether k is punctuation, delimiters included.
func (k Kind) IsPunct() bool {
	return k >= LParen && k <= ShrAssign
}

// IsOpenDelim reports whether k opens a group.
func (k Kind) IsOpenDelim() bool {
	return k == LParen || k == LBrace || k == LBracket
}

// IsCloseDelim reports whether k closes a group.
func (k Kind) IsCloseDelim() bool {
	return k == RParen || k == RBrace || k == RBracket
}

// Closer returns the closing kind for an opening delimiter, or Invalid.
func (k Kind) Closer() Kind {
	switch k {
	case LParen:
		return RParen
	case LBrace:
		return RBrace
	case LBracket:
		return RBracket
	default:
		return Invalid
	}
}

var punctText = map[Kind]string{
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semicolon: ";", Colon: ":", ColonColon: "::",
	Dot: ".", DotDot: "..", DotDotDot: "...", DotDotEq: "..=",
	Arrow: "->", FatArrow: "=>", Pound: "#", Bang: "!", Question: "?", At: "@", Dollar: "$", Tilde: "~",
	Assign: "=", EqEq: "==", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Caret: "^",
	Amp: "&", AndAnd: "&&", Pipe: "|", OrOr: "||", Shl: "<<", Shr: ">>",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=",
	CaretAssign: "^=", AmpAssign: "&=", PipeAssign: "|=", ShlAssign: "<<=", ShrAssign: ">>=",
}

// PunctText returns the spelling of a punctuation kind.
func PunctText(k Kind) (string, bool) {
	s, ok := punctText[k]
	return s, ok
}

// LookupPunct returns the punctuation kind spelled exactly as s.
func LookupPunct(s string) (Kind, bool) {
	k, ok := punctByText[s]
	return k, ok
}

var punctByText = func() map[string]Kind {
	out := make(map[string]Kind, len(punctText))
	for k, s := range punctText {
		out[s] = k
	}
	return out
}()
