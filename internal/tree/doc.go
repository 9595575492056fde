// Package tree is the delimiter-aware token tree every expansion phase works on.
//
// A Node is either a leaf (one token) or a group: a Paren, Brace or Bracket
// delimiter pair with ordered children. Nodes are values; rewrites always build
// new child slices and never mutate a slice they did not allocate.
//
// Build turns a token stream into a forest and reports unbalanced delimiters.
// Nesting is limited (Options.MaxDepth) so later recursive passes run in
// bounded stack. Print renders the canonical compact text used for comparing
// trees; internal/format renders the human layout.
package tree
