// Package token defines lexical token kinds and trivia for stencil sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies), except for
//     tokens synthesized during expansion, whose Span points at the trigger.
//   - Keywords of the host language are plain identifiers; the dialect
//     (fn, let, mod, impl) is matched by text in the tree layer.
//   - Comments and whitespace are leading Trivia and never appear in the
//     main token stream.
package token
