package latex

// NewGroupParser builds the delimited-expression parser specialized for a
// brace-style group whose opening delimiter the collector has already
// peeked. The close delimiter is looked up
// from the state's configured group delimiters.
func NewGroupParser(openDelim string) Parser {
	return buildGroupParser(openDelim, "", false, false)
}

// NewCustomGroupParser builds a group parser for an explicit (open, close)
// pair that may not yet be registered in the current parsing state — used
// by the standard-argument parser's `r<o><c>`/`d<o><c>` specs. If the pair
// is not already present in the state's group delimiters, it is added for
// the duration of the group. optional controls whether a missing opening delimiter is a
// silent miss or a parse error.
func NewCustomGroupParser(openDelim, closeDelim string, optional bool) Parser {
	return buildGroupParser(openDelim, closeDelim, true, optional)
}

func buildGroupParser(openDelim, closeDelim string, extend, optional bool) Parser {
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		peekState := state
		if extend {
			if _, ok := state.CloseOf(openDelim); !ok {
				peekState = state.SubContext(WithGroupDelimiters(append(
					append([]DelimPair{}, state.GroupDelimiters()...),
					DelimPair{Open: openDelim, Close: closeDelim},
				)))
			}
		}

		cfg := delimitedConfig{
			optional: optional,
			parseOpening: func(tr *TokenReader, _ *ParsingState) (Token, error) {
				tok, err := tr.PeekToken(peekState)
				if err != nil {
					return Token{}, &openingDelimiterNotFoundError{msg: "opening group delimiter not found", tok: Token{Pos: tr.CurPos()}}
				}
				if tok.Kind != KindBraceOpen || (openDelim != "" && tok.Payload != openDelim) {
					return Token{}, &openingDelimiterNotFoundError{msg: "expected opening delimiter " + openDelim, tok: tok}
				}
				if _, err := tr.NextToken(peekState); err != nil {
					return Token{}, err
				}
				return tok, nil
			},
			closeFor: func(openTok Token) string {
				c, _ := peekState.CloseOf(openTok.Payload)
				return c
			},
			stopTokenMatches: func(_, tok Token) bool { return tok.Kind == KindBraceClose },
			deriveContentState: func(_ *Walker, _ *ParsingState, _ Token) (*ParsingState, error) {
				return peekState, nil
			},
			discardChildDelta: true,
			makeNode: func(w *Walker, outerState *ParsingState, openTok, closeTok Token, nl *NodeList, posEnd Pos) *Node {
				return w.MakeGroupNode(outerState, openTok.Pos, posEnd, openTok.Payload, closeTok.Payload, nl)
			},
		}
		return parseDelimited(w, tr, state, cfg)
	})
}
