package latex

import "strconv"

// NewGeneralNodesParser returns a Parser that runs a NodesCollector to
// completion and returns its accumulated *NodeList — a thin wrapper around
// the collector for top-level use and the default
// content parser used by the delimited-expression engine.
func NewGeneralNodesParser(opts ...CollectorOption) Parser {
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		c := w.MakeNodesCollector(tr, state, opts...)
		if err := c.ProcessTokens(); err != nil {
			return nil, nil, err
		}
		return c.Result(), nil, nil
	})
}

// NewSingleNodeParser returns a Parser that collects exactly the nodes a
// NodesCollector would, but returns the single child node directly instead
// of a NodeList, failing if the collected content is not exactly one node
// (ignoring the general-nodes parser's own internal whitespace bookkeeping
// is the caller's responsibility via a stop condition).
func NewSingleNodeParser(opts ...CollectorOption) Parser {
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		c := w.MakeNodesCollector(tr, state, opts...)
		if err := c.ProcessTokens(); err != nil {
			return nil, nil, err
		}
		nl := c.Result()
		if nl.Len() != 1 {
			p := tr.PositionOf(nl.Pos())
			return nil, nil, &ParseError{
				Msg: "expected a single node, found " + strconv.Itoa(nl.Len()),
				Pos: nl.Pos(), Line: p.Line, Col: p.Col,
				Info: ErrorTypeInfo{What: ErrExpressionExpected},
			}
		}
		return nl.At(0), nil, nil
	})
}
