package latex

// NewMathParser builds the delimited-expression parser specialized for
// math mode. openDelim is the opening
// delimiter token payload already peeked by the collector; kind is its
// inline/display classification. Content parsing state is derived via an
// enter_math_mode walker event, so a host can swap in a math-only context
// database; discard_parsing_state_delta defaults to false for math, so the
// leave-math-mode transition is visible to the caller: parsing-state deltas
// are always discarded at group boundaries except math mode.
func NewMathParser(openDelim string, kind DisplayKind) Parser {
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		cfg := delimitedConfig{
			optional: false,
			parseOpening: func(tr *TokenReader, _ *ParsingState) (Token, error) {
				tok, err := tr.PeekToken(state)
				if err != nil {
					return Token{}, &openingDelimiterNotFoundError{msg: "opening math delimiter not found", tok: Token{Pos: tr.CurPos()}}
				}
				wantKind := KindMathInline
				if kind == Display {
					wantKind = KindMathDisplay
				}
				if tok.Kind != wantKind || tok.Payload != openDelim {
					return Token{}, &openingDelimiterNotFoundError{msg: "expected opening math delimiter " + openDelim, tok: tok}
				}
				if _, err := tr.NextToken(state); err != nil {
					return Token{}, err
				}
				return tok, nil
			},
			closeFor: func(openTok Token) string {
				for _, e := range state.MathDelimiters() {
					if e.Open == openTok.Payload {
						return e.Close
					}
				}
				return openTok.Payload
			},
			stopTokenMatches: func(_, tok Token) bool {
				return tok.Kind == KindMathInline || tok.Kind == KindMathDisplay
			},
			deriveContentState: func(w *Walker, state *ParsingState, openTok Token) (*ParsingState, error) {
				handler := w.ParsingStateEventHandler()
				delta, err := handler.EnterMathMode(openTok.Payload, openTok)
				if err != nil {
					return nil, err
				}
				return ApplyDelta(delta, state, w)
			},
			discardChildDelta: false,
			makeNode: func(w *Walker, outerState *ParsingState, openTok, closeTok Token, nl *NodeList, posEnd Pos) *Node {
				return w.MakeMathNode(outerState, openTok.Pos, posEnd, kind, openTok.Payload, closeTok.Payload, nl)
			},
		}
		return parseDelimited(w, tr, state, cfg)
	})
}
