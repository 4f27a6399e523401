package latex

// simpleSpec is a minimal Spec implementation used across tests: a macro,
// environment, or specials call with a fixed xparse-style argument list and
// an optional environment body.
type simpleSpec struct {
	name     string
	argSpecs []string
	argNames []string
	hasBody  bool
}

func (s *simpleSpec) String() string { return "simpleSpec(" + s.name + ")" }

func (s *simpleSpec) GetNodeParser(tok Token) Parser {
	return NewInvocableParser(tok, s)
}

func (s *simpleSpec) ArgumentsParser() Parser {
	if len(s.argSpecs) == 0 {
		return nil
	}
	p, err := NewArgumentListParser(s.argSpecs, s.argNames)
	if err != nil {
		panic(err)
	}
	return p
}

func (s *simpleSpec) MakeBodyParser(args *ParsedArguments) Parser {
	if !s.hasBody {
		return nil
	}
	return NewGeneralNodesParser(WithStopTokenCondition(EnvironmentEndCondition(s.name)))
}

func (s *simpleSpec) MakeArgumentsParsingStateDelta(state *ParsingState) ParsingStateDelta {
	return nil
}

func (s *simpleSpec) MakeBodyParsingStateDelta(args *ParsedArguments, state *ParsingState) ParsingStateDelta {
	return nil
}

func (s *simpleSpec) MakeAfterParsingStateDelta(node *Node, state *ParsingState) ParsingStateDelta {
	return nil
}

func (s *simpleSpec) FinalizeNode(node *Node) *Node { return node }

// newTestContext builds a MapContextDB with a handful of macros/
// environments/specials used across the test suite.
func newTestContext() *MapContextDB {
	db := NewMapContextDB()
	db.AddMacro("textbf", &simpleSpec{name: "textbf", argSpecs: []string{"m"}})
	db.AddMacro("emph", &simpleSpec{name: "emph", argSpecs: []string{"m"}})
	db.AddMacro("relax", &simpleSpec{name: "relax"})
	db.AddMacro("section", &simpleSpec{name: "section", argSpecs: []string{"s", "m"}, argNames: []string{"star", "title"}})
	db.AddMacro("includegraphics", &simpleSpec{name: "includegraphics", argSpecs: []string{"o", "m"}})
	db.AddEnvironment("itemize", &simpleSpec{name: "itemize", hasBody: true})
	db.AddEnvironment("center", &simpleSpec{name: "center", hasBody: true})
	db.AddSpecials("~", &simpleSpec{name: "nbsp"})
	db.AddSpecials("--", &simpleSpec{name: "endash"})
	return db
}

func mustParse(text string) *NodeList {
	w := NewWalker()
	nl, err := w.ParseString(text, newTestContext())
	if err != nil {
		panic(err)
	}
	return nl
}
