package dialect

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// TypePlaceholder stands for the slot type inside TypedUnreachable.
const TypePlaceholder = "$T"

// Dialect holds host-language conventions.
type Dialect struct {
	Marker           string   // punctuation that starts an annotation, "#"
	FnKeyword        string   // "fn"
	LetKeyword       string   // "let"
	ModKeyword       string   // "mod"
	OpaqueKeyword    string   // first token of an opaque type, "impl"
	Unreachable      string   // untyped never-returning expression
	TypedUnreachable string   // same, producing $T
	Guard            []string // annotations placed on scaffold modules
	ScaffoldPrefix   string   // scaffold module name prefix
	AttrNamespace    string   // namespace of emitted annotations
	TemplateModule   string   // required name of the template module, "__"
	TypeCheckedFn    string   // helper used for opaque constructions
}

// Default returns the Rust dialect.
func Default() Dialect {
	return Dialect{
		Marker:           "#",
		FnKeyword:        "fn",
		LetKeyword:       "let",
		ModKeyword:       "mod",
		OpaqueKeyword:    "impl",
		Unreachable:      "unreachable!()",
		TypedUnreachable: "(|| -> $T { unreachable!() })()",
		Guard:            []string{"#[cfg(test)]", "#[allow(non_snake_case)]"},
		ScaffoldPrefix:   "__stencil_check__",
		AttrNamespace:    "stencil",
		TemplateModule:   "__",
		TypeCheckedFn:    "type_checked",
	}
}

// Annotation paths recognized inside templates and emitted by the expander.
const (
	ConstructMarker  = "__CONSTRUCT"
	SubstituteMarker = "__SUBSTITUTE"
	DefineAttr       = "define"
	ConstructAttr    = "construct"
	ExtendAttr       = "extend_parameter_list"
)

// MarkerKind resolves Marker to a token kind. Validate guarantees success.
func (d Dialect) MarkerKind() token.Kind {
	k, ok := token.LookupPunct(d.Marker)
	if !ok {
		panic(fmt.Sprintf("dialect: marker %q is not punctuation", d.Marker))
	}
	return k
}

// Qualified prefixes name with the annotation namespace.
func (d Dialect) Qualified(name string) string {
	if d.AttrNamespace == "" {
		return name
	}
	return d.AttrNamespace + "::" + name
}

// Is reports whether path names the annotation name, bare or namespaced.
func (d Dialect) Is(path, name string) bool {
	return path == name || path == d.Qualified(name)
}

// IsOpaque reports whether a declared type is opaque (`impl Trait`).
func (d Dialect) IsOpaque(ty []tree.Node) bool {
	return len(ty) > 0 && ty[0].IsWord(d.OpaqueKeyword)
}

// UnreachableExpr builds the untyped unreachable expression at span.
func (d Dialect) UnreachableExpr(span source.Span) []tree.Node {
	return tree.MustSnippet(d.Unreachable, span)
}

// TypedUnreachableExpr builds an unreachable expression of type ty.
func (d Dialect) TypedUnreachableExpr(ty []tree.Node, span source.Span) []tree.Node {
	return replacePlaceholder(tree.MustSnippet(d.TypedUnreachable, span), ty)
}

// GuardAnnotations builds the scaffold guard annotations at span.
func (d Dialect) GuardAnnotations(span source.Span) []tree.Node {
	var out []tree.Node
	for _, g := range d.Guard {
		out = append(out, tree.MustSnippet(g, span)...)
	}
	return out
}

// replacePlaceholder substitutes every `$T` pair (Dollar + Ident T) with ty.
func replacePlaceholder(nodes, ty []tree.Node) []tree.Node {
	out := make([]tree.Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if n.IsPunct(token.Dollar) && i+1 < len(nodes) && nodes[i+1].IsWord("T") {
			out = append(out, ty...)
			i++
			continue
		}
		if n.IsGroup() {
			n = n.WithChildren(replacePlaceholder(n.Children, ty))
		}
		out = append(out, n)
	}
	return out
}

// Validate checks that every configurable piece is usable.
func (d Dialect) Validate() error {
	if k, ok := token.LookupPunct(d.Marker); !ok || k.IsOpenDelim() || k.IsCloseDelim() {
		return fmt.Errorf("dialect: marker %q is not a punctuation token", d.Marker)
	}
	words := []struct{ key, value string }{
		{"fn_keyword", d.FnKeyword},
		{"let_keyword", d.LetKeyword},
		{"mod_keyword", d.ModKeyword},
		{"opaque_keyword", d.OpaqueKeyword},
		{"template_module", d.TemplateModule},
		{"type_checked_fn", d.TypeCheckedFn},
	}
	for _, w := range words {
		if err := checkWord(w.key, w.value); err != nil {
			return err
		}
	}
	if d.AttrNamespace != "" {
		if err := checkWord("attr_namespace", d.AttrNamespace); err != nil {
			return err
		}
	}
	if d.ScaffoldPrefix != "" {
		if err := checkWord("scaffold_prefix", d.ScaffoldPrefix); err != nil {
			return err
		}
	}
	if _, err := tree.Snippet(d.Unreachable, source.Span{}); err != nil || strings.TrimSpace(d.Unreachable) == "" {
		return fmt.Errorf("dialect: unreachable %q does not parse", d.Unreachable)
	}
	if !strings.Contains(d.TypedUnreachable, TypePlaceholder) {
		return fmt.Errorf("dialect: typed_unreachable %q lacks %s", d.TypedUnreachable, TypePlaceholder)
	}
	if _, err := tree.Snippet(d.TypedUnreachable, source.Span{}); err != nil {
		return fmt.Errorf("dialect: typed_unreachable %q does not parse: %w", d.TypedUnreachable, err)
	}
	for _, g := range d.Guard {
		if _, err := tree.Snippet(g, source.Span{}); err != nil {
			return fmt.Errorf("dialect: guard %q does not parse: %w", g, err)
		}
	}
	return nil
}

func checkWord(key, w string) error {
	nodes, err := tree.Snippet(w, source.Span{})
	if err != nil || len(nodes) != 1 || !nodes[0].IsIdent() {
		return fmt.Errorf("dialect: %s %q is not a single identifier", key, w)
	}
	return nil
}

// Fingerprint identifies the dialect in cache keys.
func (d Dialect) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{
		d.Marker, d.FnKeyword, d.LetKeyword, d.ModKeyword, d.OpaqueKeyword,
		d.Unreachable, d.TypedUnreachable, strings.Join(d.Guard, "\x1f"),
		d.ScaffoldPrefix, d.AttrNamespace, d.TemplateModule, d.TypeCheckedFn,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
