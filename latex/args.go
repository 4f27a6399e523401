package latex

// ParsedArguments is the result of parsing a macro/environment/specials
// call's argument list: an ordered list of argument specs paired
// with the node parsed for each (nil for an optional argument that was not
// provided).
type ParsedArguments struct {
	specList []string
	names    []string // same length as specList; "" if the argument is unnamed
	argnlist []*Node
}

// NewParsedArguments builds a ParsedArguments. names may be nil if no
// arguments are named; otherwise it must be the same length as specList.
func NewParsedArguments(specList []string, names []string, argnlist []*Node) *ParsedArguments {
	return &ParsedArguments{specList: specList, names: names, argnlist: argnlist}
}

// SpecList returns the argument-spec strings this call was parsed with.
func (pa *ParsedArguments) SpecList() []string { return pa.specList }

// Nodes returns the parsed argument nodes, nil entries meaning "not
// provided".
func (pa *ParsedArguments) Nodes() []*Node { return pa.argnlist }

// Info returns a read-only accessor facade over this argument list.
func (pa *ParsedArguments) Info() *ParsedArgumentsInfo {
	return &ParsedArgumentsInfo{pa: pa}
}

// ParsedArgumentsInfo is a read-only façade over a ParsedArguments.
type ParsedArgumentsInfo struct {
	pa *ParsedArguments
}

// GetArgumentInfo resolves indexOrName to a single argument's info.
// indexOrName is either an int index or a string name (matched against the
// names passed to NewParsedArguments). Returns an error if the argument
// cannot be resolved.
func (info *ParsedArgumentsInfo) GetArgumentInfo(indexOrName any) (*SingleParsedArgumentInfo, error) {
	idx, err := info.resolve(indexOrName)
	if err != nil {
		return nil, err
	}
	return &SingleParsedArgumentInfo{node: info.pa.argnlist[idx], spec: info.pa.specList[idx]}, nil
}

func (info *ParsedArgumentsInfo) resolve(indexOrName any) (int, error) {
	switch v := indexOrName.(type) {
	case int:
		if v < 0 || v >= len(info.pa.argnlist) {
			return 0, &WalkerError{Msg: "argument index out of range"}
		}
		return v, nil
	case string:
		for i, name := range info.pa.names {
			if name == v {
				return i, nil
			}
		}
		return 0, &WalkerError{Msg: "no such named argument: " + v}
	default:
		return 0, &WalkerError{Msg: "argument key must be an int index or a string name"}
	}
}

// SingleParsedArgumentInfo exposes read accessors over one parsed argument.
type SingleParsedArgumentInfo struct {
	node *Node
	spec string
}

// WasProvided reports whether this (necessarily optional) argument was
// actually present in the source.
func (s *SingleParsedArgumentInfo) WasProvided() bool { return s.node != nil }

// Node returns the raw parsed node for this argument, or nil if not
// provided.
func (s *SingleParsedArgumentInfo) Node() *Node { return s.node }

// GetContentNodeList returns the argument's content as a NodeList: a Group
// or Math node's inner list is unwrapped, any other node is returned as a
// singleton list. Returns nil if the argument was not provided.
func (s *SingleParsedArgumentInfo) GetContentNodeList() *NodeList {
	if s.node == nil {
		return nil
	}
	switch s.node.Kind() {
	case NodeGroup, NodeMath:
		return s.node.NodeList()
	default:
		return NewNodeList(s.node.ParsingState(), []*Node{s.node}, s.node.Pos(), s.node.PosEnd())
	}
}

// GetContentAsChars concatenates the argument's content into plain text,
// failing with a typed parse error if the content contains anything other
// than Chars/Comment nodes.
func (s *SingleParsedArgumentInfo) GetContentAsChars() (string, error) {
	nl := s.GetContentNodeList()
	if nl == nil {
		return "", nil
	}
	var out []byte
	for _, item := range nl.Items() {
		switch item.Kind() {
		case NodeChars, NodeComment:
			out = append(out, item.Text()...)
		default:
			return "", &ParseError{
				Msg:  "expected only character content in argument, found " + item.Kind().String(),
				Pos:  item.Pos(),
				Info: ErrorTypeInfo{What: ErrArgumentNotChars, Construct: s.spec},
			}
		}
	}
	return string(out), nil
}
