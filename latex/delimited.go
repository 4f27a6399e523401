package latex

import "errors"

// openingDelimiterNotFoundError is delimitedConfig.parseOpening's internal
// signal that the expected opening delimiter is not present at the current
// position. It is never itself returned to a caller outside this file: parseDelimited
// turns it into either a silent (nil, nil, nil) result (optional) or a
// *ParseError (mandatory).
type openingDelimiterNotFoundError struct {
	msg string
	tok Token
}

func (e *openingDelimiterNotFoundError) Error() string { return e.msg }

// delimitedConfig parameterizes the generic delimited-expression algorithm
// as a parser parameterized by an info class; Group and
// Math each build one of these rather than implementing a shared interface,
// since between them almost every method differs only by a token kind
// check and a couple of strings.
type delimitedConfig struct {
	optional bool

	// parseOpening peeks (never unconditionally consumes) the current
	// token and, if it is the expected opening delimiter, consumes it and
	// returns it; otherwise returns an *openingDelimiterNotFoundError.
	parseOpening func(tr *TokenReader, state *ParsingState) (Token, error)

	// closeFor returns the close-delimiter payload expected for openTok.
	closeFor func(openTok Token) string

	// stopTokenMatches reports whether tok is the closing delimiter
	// matching openTok.
	stopTokenMatches func(openTok, tok Token) bool

	// deriveContentState computes the parsing state content is parsed
	// under, given the (possibly already-extended) state and the consumed
	// opening token.
	deriveContentState func(w *Walker, state *ParsingState, openTok Token) (*ParsingState, error)

	// discardChildDelta, when true (Group's default), means whatever the
	// content parse's final state diverged to is dropped: the construct
	// reports no after-delta to the caller, emulating TeX's group-local
	// scoping. Math defaults this to false so the
	// enter/leave-math-mode transition is visible to the caller.
	discardChildDelta bool

	// makeNode assembles the final node from the parsed pieces.
	makeNode func(w *Walker, state *ParsingState, openTok, closeTok Token, nl *NodeList, posEnd Pos) *Node
}

// parseDelimited implements the shared delimited-expression algorithm: derive group parsing state,
// read the opening delimiter, parse content up to the matching close, and
// assemble the result node plus any after-construct delta.
func parseDelimited(w *Walker, tr *TokenReader, state *ParsingState, cfg delimitedConfig) (*Node, ParsingStateDelta, error) {
	openTok, err := cfg.parseOpening(tr, state)
	if err != nil {
		var notFound *openingDelimiterNotFoundError
		if errors.As(err, &notFound) {
			if cfg.optional {
				return nil, nil, nil
			}
			p := tr.PositionOf(notFound.tok.Pos)
			return nil, nil, &ParseError{
				Msg: notFound.msg, Pos: notFound.tok.Pos, Line: p.Line, Col: p.Col,
				Info:          ErrorTypeInfo{What: ErrOpeningDelimiterNotFound},
				RecoveryNodes: NewNodeList(state, nil, notFound.tok.Pos, notFound.tok.Pos),
			}
		}
		return nil, nil, err
	}

	contentState, err := cfg.deriveContentState(w, state, openTok)
	if err != nil {
		return nil, nil, err
	}

	closePayload := cfg.closeFor(openTok)
	stop := func(tok Token) (any, bool) {
		return nil, cfg.stopTokenMatches(openTok, tok) && tok.Payload == closePayload
	}

	contentParser := NewGeneralNodesParser(WithStopTokenCondition(stop))
	result, _, err := w.ParseContent(contentParser, tr, contentState, OpenContextFrame{
		Description: "delimited by " + openTok.Payload, Pos: openTok.Pos,
	})
	if err != nil {
		return nil, nil, err
	}
	nl, ok := result.(*NodeList)
	if !ok {
		return nil, nil, &WalkerError{Msg: "delimited content parser did not return a *NodeList"}
	}

	closeTok, err := tr.NextToken(contentState)
	if err != nil {
		return nil, nil, err
	}

	posEnd := tr.CurPos()
	node := cfg.makeNode(w, state, openTok, closeTok, nl, posEnd)

	if cfg.discardChildDelta {
		return node, nil, nil
	}
	return node, LeaveMathModeEvent(closeTok), nil
}
