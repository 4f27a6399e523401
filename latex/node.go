package latex

import (
	"fmt"
	"weak"
)

// Node is a member of the syntax-tree sum type. It comes in seven
// flavors (Chars, Group, Comment, Macro, Environment, Specials, Math); the
// flavor is reported by Kind() and the matching accessor methods below. A
// single tagged struct with a closed kind tag and variant-specific payload
// is simpler here than one interface implementation per node kind, since
// there are only seven variants.
//
// Every node carries the parsing state at the point of creation, its
// [pos, posEnd) span, and a weak back-reference to the owning Walker (used
// only for position -> line/column diagnostics, never to keep the Walker
// alive).
type Node struct {
	kind    NodeKind
	state   *ParsingState
	pos     Pos
	posEnd  Pos
	walker  weak.Pointer[Walker]
	payload nodePayload
}

// nodePayload is implemented by the seven variant payload structs below.
type nodePayload interface {
	isNodePayload()
}

type charsPayload struct {
	Text string
}

func (charsPayload) isNodePayload() {}

type groupPayload struct {
	Open, Close string
	List        *NodeList
}

func (groupPayload) isNodePayload() {}

type commentPayload struct {
	Text      string
	PostSpace string
}

func (commentPayload) isNodePayload() {}

type macroPayload struct {
	Name      string
	Spec      Spec
	Args      *ParsedArguments
	PostSpace string
}

func (macroPayload) isNodePayload() {}

type environmentPayload struct {
	Name string
	Spec Spec
	Args *ParsedArguments
	Body *NodeList
}

func (environmentPayload) isNodePayload() {}

type specialsPayload struct {
	Chars string
	Spec  Spec
	Args  *ParsedArguments
}

func (specialsPayload) isNodePayload() {}

type mathPayload struct {
	Display     DisplayKind
	Open, Close string
	List        *NodeList
}

func (mathPayload) isNodePayload() {}

// --- Constructors (used by the Walker's Make*Node methods; see walker.go) ---

func newNode(kind NodeKind, state *ParsingState, pos, posEnd Pos, payload nodePayload) *Node {
	return &Node{kind: kind, state: state, pos: pos, posEnd: posEnd, payload: payload}
}

func newCharsNode(state *ParsingState, pos, posEnd Pos, text string) *Node {
	return newNode(NodeChars, state, pos, posEnd, charsPayload{Text: text})
}

func newGroupNode(state *ParsingState, pos, posEnd Pos, open, close string, list *NodeList) *Node {
	return newNode(NodeGroup, state, pos, posEnd, groupPayload{Open: open, Close: close, List: list})
}

func newCommentNode(state *ParsingState, pos, posEnd Pos, text, postSpace string) *Node {
	return newNode(NodeComment, state, pos, posEnd, commentPayload{Text: text, PostSpace: postSpace})
}

func newMacroNode(state *ParsingState, pos, posEnd Pos, name string, spec Spec, args *ParsedArguments, postSpace string) *Node {
	return newNode(NodeMacro, state, pos, posEnd, macroPayload{Name: name, Spec: spec, Args: args, PostSpace: postSpace})
}

func newEnvironmentNode(state *ParsingState, pos, posEnd Pos, name string, spec Spec, args *ParsedArguments, body *NodeList) *Node {
	return newNode(NodeEnvironment, state, pos, posEnd, environmentPayload{Name: name, Spec: spec, Args: args, Body: body})
}

func newSpecialsNode(state *ParsingState, pos, posEnd Pos, chars string, spec Spec, args *ParsedArguments) *Node {
	return newNode(NodeSpecials, state, pos, posEnd, specialsPayload{Chars: chars, Spec: spec, Args: args})
}

func newMathNode(state *ParsingState, pos, posEnd Pos, display DisplayKind, open, close string, list *NodeList) *Node {
	return newNode(NodeMath, state, pos, posEnd, mathPayload{Display: display, Open: open, Close: close, List: list})
}

// --- Common accessors ---

func (n *Node) Kind() NodeKind         { return n.kind }
func (n *Node) Pos() Pos               { return n.pos }
func (n *Node) PosEnd() Pos            { return n.posEnd }
func (n *Node) ParsingState() *ParsingState { return n.state }

// Walker resolves the weak back-reference, or nil if the Walker has since
// been collected.
func (n *Node) Walker() *Walker { return n.walker.Value() }

func (n *Node) setWalker(w *Walker) { n.walker = weak.Make(w) }

// --- Variant-specific accessors; each panics if called on the wrong kind,
// asserting on mismatched node access rather than silently returning a
// zero value. ---

func (n *Node) mustKind(k NodeKind) {
	if n.kind != k {
		panic(fmt.Sprintf("latex: %s accessor called on %s node", k, n.kind))
	}
}

// Text returns the character payload of a Chars or Comment node.
func (n *Node) Text() string {
	switch p := n.payload.(type) {
	case charsPayload:
		return p.Text
	case commentPayload:
		return p.Text
	default:
		panic(fmt.Sprintf("latex: Text accessor called on %s node", n.kind))
	}
}

// PostSpace returns the trailing whitespace of a Comment or Macro node.
func (n *Node) PostSpace() string {
	switch p := n.payload.(type) {
	case commentPayload:
		return p.PostSpace
	case macroPayload:
		return p.PostSpace
	default:
		panic(fmt.Sprintf("latex: PostSpace accessor called on %s node", n.kind))
	}
}

// Delimiters returns the (open, close) delimiter pair of a Group or Math node.
func (n *Node) Delimiters() (string, string) {
	switch p := n.payload.(type) {
	case groupPayload:
		return p.Open, p.Close
	case mathPayload:
		return p.Open, p.Close
	default:
		panic(fmt.Sprintf("latex: Delimiters accessor called on %s node", n.kind))
	}
}

// NodeList returns the child list of a Group or Math node.
func (n *Node) NodeList() *NodeList {
	switch p := n.payload.(type) {
	case groupPayload:
		return p.List
	case mathPayload:
		return p.List
	default:
		panic(fmt.Sprintf("latex: NodeList accessor called on %s node", n.kind))
	}
}

// Name returns the construct name of a Macro or Environment node.
func (n *Node) Name() string {
	switch p := n.payload.(type) {
	case macroPayload:
		return p.Name
	case environmentPayload:
		return p.Name
	default:
		panic(fmt.Sprintf("latex: Name accessor called on %s node", n.kind))
	}
}

// SpecOf returns the Spec consulted to parse a Macro, Environment, or
// Specials node.
func (n *Node) SpecOf() Spec {
	switch p := n.payload.(type) {
	case macroPayload:
		return p.Spec
	case environmentPayload:
		return p.Spec
	case specialsPayload:
		return p.Spec
	default:
		panic(fmt.Sprintf("latex: SpecOf accessor called on %s node", n.kind))
	}
}

// Args returns the parsed call arguments of a Macro, Environment, or
// Specials node.
func (n *Node) Args() *ParsedArguments {
	switch p := n.payload.(type) {
	case macroPayload:
		return p.Args
	case environmentPayload:
		return p.Args
	case specialsPayload:
		return p.Args
	default:
		panic(fmt.Sprintf("latex: Args accessor called on %s node", n.kind))
	}
}

// Body returns the child node list of an Environment node.
func (n *Node) Body() *NodeList {
	n.mustKind(NodeEnvironment)
	return n.payload.(environmentPayload).Body
}

// Chars returns the matched character sequence of a Specials node.
func (n *Node) Chars() string {
	n.mustKind(NodeSpecials)
	return n.payload.(specialsPayload).Chars
}

// Display returns the inline/display classification of a Math node.
func (n *Node) Display() DisplayKind {
	n.mustKind(NodeMath)
	return n.payload.(mathPayload).Display
}

// String implements fmt.Stringer for debugging; Dump (dump.go) is preferred
// for test failure output.
func (n *Node) String() string {
	switch n.kind {
	case NodeChars:
		return fmt.Sprintf("Chars(%q)", n.Text())
	case NodeComment:
		return fmt.Sprintf("Comment(%q)", n.Text())
	case NodeGroup:
		o, c := n.Delimiters()
		return fmt.Sprintf("Group(%q,%q,%d nodes)", o, c, len(n.NodeList().Items()))
	case NodeMath:
		o, c := n.Delimiters()
		return fmt.Sprintf("Math(%s,%q,%q,%d nodes)", n.Display(), o, c, len(n.NodeList().Items()))
	case NodeMacro:
		return fmt.Sprintf("Macro(%q)", n.Name())
	case NodeEnvironment:
		return fmt.Sprintf("Environment(%q)", n.Name())
	case NodeSpecials:
		return fmt.Sprintf("Specials(%q)", n.Chars())
	default:
		return "Node(?)"
	}
}
