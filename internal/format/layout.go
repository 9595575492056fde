package format

import (
	"strings"
	"unicode"

	"stencil/internal/token"
	"stencil/internal/tree"
)

// Layout prints a parsed unit as source text.
//
// Rules:
//   - a brace group whose children contain `;`, another brace group or an
//     attribute is a block: one statement per line, indented;
//   - other brace groups stay inline as `{ a }`; empty ones print as `{}`;
//   - inside blocks, attributes at statement start get their own line;
//   - a blank line in the source between statements is kept (at most one);
//   - comments are kept unless Options.DropComments is set.
func Layout(unit tree.Unit, opt Options) []byte {
	p := printer{w: NewWriter(opt), opt: opt.withDefaults()}
	p.seq(unit.Nodes, true)
	p.comments(unit.Trailing, true, len(unit.Nodes) > 0)
	p.w.Newline()
	return p.w.Bytes()
}

// Nodes is Layout for a bare forest.
func Nodes(nodes []tree.Node, opt Options) []byte {
	return Layout(tree.Unit{Nodes: nodes}, opt)
}

type printer struct {
	w   *Writer
	opt Options
}

type role uint8

const (
	roleNone role = iota
	roleUnary
	roleGenericOpen
	roleGenericClose
	roleClosureOpen
	roleClosureClose
	roleMacroBang
	roleAttr // `#` or the `!` of `#!` before an attribute bracket
)

type seqState struct {
	block     bool
	stmtStart bool
	inAttr    bool
	printed   bool
	angles    int
	inClosure bool
	prevRole  role
}

func (p *printer) seq(nodes []tree.Node, block bool) {
	st := seqState{block: block, stmtStart: block}
	for i, n := range nodes {
		r := classify(nodes, i, &st)

		own := block && st.stmtStart && !st.inAttr
		trailingNewlines := p.comments(n.Tok.Leading, own, st.printed)
		if own && st.printed && trailingNewlines > 1 {
			p.w.BlankLine()
		}
		if i > 0 && !p.w.AtLineStart() && needSpace(nodes[i-1], st.prevRole, n, r) {
			p.w.Space()
		}

		if block && st.stmtStart && r == roleAttr && n.IsPunct(token.Pound) {
			st.inAttr = true
		}
		p.node(n)
		st.prevRole = r
		st.printed = true

		if !block {
			continue
		}
		switch {
		case st.inAttr && n.Is(tree.Bracket):
			st.inAttr = false
			p.w.Newline()
		case st.inAttr:
		case n.IsPunct(token.Semicolon), n.IsPunct(token.Comma):
			p.w.Newline()
			st.stmtStart = true
		case n.Is(tree.Brace) && !continues(nodes, i+1):
			p.w.Newline()
			st.stmtStart = true
		default:
			st.stmtStart = false
		}
	}
}

func (p *printer) node(n tree.Node) {
	if !n.IsGroup() {
		p.w.WriteString(n.Tok.Text)
		return
	}
	delims := n.Delim.String()
	switch {
	case n.Is(tree.Brace) && len(n.Children) == 0 && !p.hasComments(n.Close.Leading):
		p.w.WriteString("{}")
	case n.Is(tree.Brace) && p.isBlock(n):
		p.w.WriteString("{")
		p.w.Newline()
		p.w.IndentPush()
		p.seq(n.Children, true)
		p.comments(n.Close.Leading, true, len(n.Children) > 0)
		p.w.IndentPop()
		p.w.Newline()
		p.w.WriteString("}")
	case n.Is(tree.Brace):
		p.w.WriteString("{")
		p.w.Space()
		p.seq(n.Children, false)
		p.comments(n.Close.Leading, false, true)
		p.w.Space()
		p.w.WriteString("}")
	default:
		p.w.WriteString(delims[:1])
		p.seq(n.Children, false)
		p.comments(n.Close.Leading, false, true)
		p.w.WriteString(delims[1:])
	}
}

// comments writes comment trivia and returns the number of newlines seen
// after the last comment. ownLine puts every comment on its own line;
// blank allows an empty line before a comment that had one in the source.
func (p *printer) comments(trivia []token.Trivia, ownLine, blank bool) int {
	newlines := 0
	for _, tr := range trivia {
		switch {
		case tr.Kind == token.TriviaNewline:
			newlines += strings.Count(tr.Text, "\n")
		case tr.IsComment() && !p.opt.DropComments:
			switch {
			case (ownLine || newlines > 0) && blank && newlines > 1:
				p.w.BlankLine()
			case ownLine || newlines > 0:
				p.w.Newline()
			default:
				p.w.Space()
			}
			p.w.WriteString(strings.TrimRight(tr.Text, " \t\r"))
			if tr.Kind == token.TriviaLineComment || tr.Kind == token.TriviaDocLine {
				p.w.Newline()
			} else {
				p.w.Space()
			}
			newlines = 0
			blank = true
		}
	}
	return newlines
}

func (p *printer) hasComments(trivia []token.Trivia) bool {
	if p.opt.DropComments {
		return false
	}
	for _, tr := range trivia {
		if tr.IsComment() {
			return true
		}
	}
	return false
}

func (p *printer) hasLineComment(trivia []token.Trivia) bool {
	if p.opt.DropComments {
		return false
	}
	for _, tr := range trivia {
		if tr.Kind == token.TriviaLineComment || tr.Kind == token.TriviaDocLine {
			return true
		}
	}
	return false
}

func (p *printer) isBlock(g tree.Node) bool {
	if p.hasLineComment(g.Close.Leading) {
		return true
	}
	for i, c := range g.Children {
		switch {
		case c.IsPunct(token.Semicolon), c.Is(tree.Brace):
			return true
		case c.IsPunct(token.Pound) && i+1 < len(g.Children) &&
			(g.Children[i+1].Is(tree.Bracket) || g.Children[i+1].IsPunct(token.Bang)):
			return true
		case p.hasLineComment(c.Tok.Leading):
			return true
		}
	}
	return false
}

// continues reports whether the node at i keeps the statement going after a
// brace group (`} else {`, `};`, `},`, `}.method()`).
func continues(nodes []tree.Node, i int) bool {
	if i >= len(nodes) {
		return false
	}
	n := nodes[i]
	switch {
	case n.IsPunct(token.Semicolon), n.IsPunct(token.Comma), n.IsPunct(token.Dot), n.IsPunct(token.Question):
		return true
	case n.IsWord("else"), n.IsWord("as"):
		return true
	}
	return false
}

func classify(nodes []tree.Node, i int, st *seqState) role {
	n := nodes[i]
	if n.IsGroup() {
		return roleNone
	}
	var prev, prevPrev *tree.Node
	if i > 0 {
		prev = &nodes[i-1]
	}
	if i > 1 {
		prevPrev = &nodes[i-2]
	}
	unary := prev == nil || operandExpected(*prev, st.prevRole)

	switch n.Tok.Kind {
	case token.Pound:
		if i+1 < len(nodes) && (nodes[i+1].Is(tree.Bracket) ||
			(nodes[i+1].IsPunct(token.Bang) && i+2 < len(nodes) && nodes[i+2].Is(tree.Bracket))) {
			return roleAttr
		}
	case token.Bang:
		switch {
		case prev != nil && prev.IsPunct(token.Pound) && st.prevRole == roleAttr:
			return roleAttr
		case prev != nil && prev.IsIdent() && !isKeyword(prev.Tok.Text):
			return roleMacroBang
		case unary:
			return roleUnary
		}
	case token.Amp, token.AndAnd, token.Star, token.Minus:
		if unary {
			return roleUnary
		}
	case token.Lt:
		if opensGeneric(prev, prevPrev) {
			st.angles++
			return roleGenericOpen
		}
	case token.Gt:
		if st.angles > 0 {
			st.angles--
			return roleGenericClose
		}
	case token.Shr:
		if st.angles > 0 {
			st.angles = max(st.angles-2, 0)
			return roleGenericClose
		}
	case token.Pipe:
		if st.inClosure {
			st.inClosure = false
			return roleClosureClose
		}
		if unary {
			st.inClosure = true
			return roleClosureOpen
		}
	}
	return roleNone
}

// operandExpected reports whether an operand (not an operator) should follow prev.
func operandExpected(prev tree.Node, prevRole role) bool {
	if prev.IsGroup() {
		return false
	}
	switch prev.Tok.Kind {
	case token.Ident:
		return isKeyword(prev.Tok.Text)
	case token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.Lifetime, token.Question:
		return false
	}
	return prevRole != roleGenericClose
}

func opensGeneric(prev, prevPrev *tree.Node) bool {
	if prev == nil {
		return false
	}
	if prev.IsPunct(token.ColonColon) {
		return true
	}
	if !prev.IsIdent() {
		return false
	}
	name := prev.Tok.Text
	switch {
	case name == "impl" || name == "for":
		return true
	case isKeyword(name):
		return false
	case primitiveTypes[name]:
		return true
	case unicode.IsUpper([]rune(name)[0]):
		return true
	}
	return prevPrev != nil && prevPrev.IsIdent() && itemKeywords[prevPrev.Tok.Text]
}

func needSpace(prev tree.Node, prevRole role, n tree.Node, r role) bool {
	// `& &x` must not turn into `&&x`.
	if !prev.IsGroup() && !n.IsGroup() && prev.Tok.Kind.IsPunct() && n.Tok.Kind.IsPunct() && n.Tok.Text != "" {
		if _, ok := token.LookupPunct(prev.Tok.Text + n.Tok.Text[:1]); ok {
			return true
		}
	}
	switch {
	case !n.IsGroup():
		switch n.Tok.Kind {
		case token.Comma, token.Semicolon, token.Dot, token.Question, token.Colon:
			return false
		case token.ColonColon:
			return !(prev.IsGroup() || (prev.IsIdent() && !isKeyword(prev.Tok.Text)) ||
				prevRole == roleGenericClose || prev.IsPunct(token.ColonColon))
		case token.DotDot, token.DotDotEq:
			return operandExpected(prev, prevRole)
		}
		switch r {
		case roleGenericOpen, roleGenericClose, roleClosureClose, roleMacroBang:
			return false
		case roleAttr:
			if n.IsPunct(token.Bang) {
				return false
			}
		}
	case !n.Is(tree.Brace):
		if prev.IsGroup() && !prev.Is(tree.Brace) {
			return false
		}
		if prev.IsIdent() && !isKeyword(prev.Tok.Text) {
			return false
		}
		switch prevRole {
		case roleMacroBang, roleAttr, roleGenericClose, roleUnary, roleClosureOpen:
			return false
		}
	}

	if !prev.IsGroup() {
		switch prev.Tok.Kind {
		case token.ColonColon, token.Dot, token.Dollar, token.Pound, token.DotDot, token.DotDotEq:
			return false
		}
		switch prevRole {
		case roleUnary, roleGenericOpen, roleClosureOpen, roleAttr:
			return false
		}
	}
	return true
}

var keywords = map[string]bool{
	"as": true, "async": true, "break": true, "const": true, "continue": true,
	"dyn": true, "else": true, "enum": true, "extern": true, "for": true,
	"if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "ref": true,
	"return": true, "static": true, "struct": true, "trait": true, "type": true,
	"union": true, "unsafe": true, "use": true, "where": true, "while": true,
	"yield": true,
}

var itemKeywords = map[string]bool{
	"fn": true, "struct": true, "enum": true, "trait": true, "type": true, "union": true,
}

var primitiveTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true, "bool": true, "char": true, "str": true,
}

func isKeyword(s string) bool { return keywords[s] }
