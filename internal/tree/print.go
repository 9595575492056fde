package tree

import (
	"strings"
)

// Print renders nodes in canonical compact form: one space between sibling
// nodes, none inside delimiters.
func Print(nodes []Node) string {
	var b strings.Builder
	printNodes(&b, nodes)
	return b.String()
}

// PrintNode renders a single node.
func PrintNode(n Node) string {
	return Print([]Node{n})
}

func printNodes(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		if !n.IsGroup() {
			b.WriteString(n.Tok.Text)
			continue
		}
		open, closeText := n.Delim.String()[:1], n.Delim.String()[1:]
		b.WriteString(open)
		printNodes(b, n.Children)
		b.WriteString(closeText)
	}
}
