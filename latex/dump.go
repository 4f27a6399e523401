package latex

import "github.com/alecthomas/repr"

// Dump renders n as a readable, deterministic-enough Go-literal-style
// representation for test failure output.
func (n *Node) Dump() string {
	if n == nil {
		return "<nil Node>"
	}
	return repr.String(n, repr.Indent("  "))
}

// Dump renders the node list's items via repr.
func (nl *NodeList) Dump() string {
	if nl == nil {
		return "<nil NodeList>"
	}
	return repr.String(nl.Items(), repr.Indent("  "))
}

// Dump renders a parse error, including its recovery nodes and open
// context stack.
func (e *ParseError) Dump() string {
	if e == nil {
		return "<nil ParseError>"
	}
	return repr.String(e, repr.Indent("  "))
}
