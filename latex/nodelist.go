package latex

import "strings"

// NodeList is an ordered sequence of nodes with an overall span. If
// the list is non-empty, its span always equals (first child's Pos, last
// child's PosEnd); an explicit span is still stored so an empty list (e.g.
// the inner list of `$ $`) can report a meaningful span of its own.
type NodeList struct {
	state  *ParsingState
	items  []*Node
	pos    Pos
	posEnd Pos
}

// NewNodeList builds a NodeList, deriving pos/posEnd from the children when
// any are present and falling back to the given pos/posEnd otherwise.
func NewNodeList(state *ParsingState, items []*Node, pos, posEnd Pos) *NodeList {
	nl := &NodeList{state: state, items: items, pos: pos, posEnd: posEnd}
	if len(items) > 0 {
		nl.pos = items[0].Pos()
		nl.posEnd = items[len(items)-1].PosEnd()
	}
	return nl
}

func (nl *NodeList) Items() []*Node { return nl.items }
func (nl *NodeList) Len() int       { return len(nl.items) }
func (nl *NodeList) Pos() Pos       { return nl.pos }
func (nl *NodeList) PosEnd() Pos    { return nl.posEnd }

// At returns the node at index i.
func (nl *NodeList) At(i int) *Node { return nl.items[i] }

// SplitBy splits the list into groups separated by character nodes
// satisfying isSeparator. A separator predicate only ever fires on whole
// Chars nodes whose text is exactly one separator rune; a Chars node mixing
// separator and non-separator text is treated as ordinary content and not
// split within. The collector merges adjacent characters into one Chars
// node, so the content of `\cite{a,b,c}` (one Chars node "a,b,c") comes back
// as a single group.
func (nl *NodeList) SplitBy(isSeparator func(r rune) bool) []*NodeList {
	var groups []*NodeList
	var current []*Node

	flush := func() {
		groups = append(groups, NewNodeList(nl.state, current, 0, 0))
		current = nil
	}

	for _, item := range nl.items {
		if item.Kind() == NodeChars {
			text := item.Text()
			runes := []rune(text)
			if len(runes) == 1 && isSeparator(runes[0]) {
				flush()
				continue
			}
		}
		current = append(current, item)
	}
	flush()

	return groups
}

// String pretty-prints the list for debugging.
func (nl *NodeList) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, item := range nl.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item.String())
	}
	sb.WriteString("]")
	return sb.String()
}
