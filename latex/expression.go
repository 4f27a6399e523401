package latex

// ExpressionParserOption configures NewExpressionParser.
type ExpressionParserOption func(*expressionConfig)

type expressionConfig struct {
	singleTokenRequiringArgIsError bool
	returnFullNodeList             bool
	collectComments                bool
}

// WithSingleTokenRequiringArgIsError controls whether a macro/specials spec
// that takes arguments is rejected when it appears bare in expression
// position (default true) — an expression parses one macro *head*, never
// its argument list, so a callable with mandatory arguments here is almost
// always a caller mistake.
func WithSingleTokenRequiringArgIsError(v bool) ExpressionParserOption {
	return func(c *expressionConfig) { c.singleTokenRequiringArgIsError = v }
}

// WithReturnFullNodeList makes the parser return a *NodeList of all
// collected children (comments plus the payload) instead of unwrapping to
// the bare payload node when only one node was collected.
func WithReturnFullNodeList(v bool) ExpressionParserOption {
	return func(c *expressionConfig) { c.returnFullNodeList = v }
}

// WithCollectComments controls whether comments encountered before the
// expression's payload are kept (default true) or silently dropped.
func WithCollectComments(v bool) ExpressionParserOption {
	return func(c *expressionConfig) { c.collectComments = v }
}

// NewExpressionParser parses a single LaTeX "expression": one character,
// one macro/specials head (without arguments), a group, or a run of
// skipped comments followed by one of the above.
func NewExpressionParser(opts ...ExpressionParserOption) Parser {
	cfg := expressionConfig{singleTokenRequiringArgIsError: true, collectComments: true}
	for _, o := range opts {
		o(&cfg)
	}

	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		exprState := state.SubContext(WithEnableEnvironments(false))
		var collected []*Node
		var payload *Node

	loop:
		for {
			tok, err := tr.NextToken(exprState)
			if err != nil {
				return nil, nil, err
			}

			switch tok.Kind {
			case KindComment:
				if cfg.collectComments {
					collected = append(collected, w.MakeCommentNode(exprState, tok.Pos, tok.PosEnd, tok.Payload, tok.PostSpace))
				}
				continue loop

			case KindMacro:
				if tok.Payload == "begin" || tok.Payload == "end" {
					node, err := handleBeginEndAsExpression(w, tr, exprState, tok)
					if err != nil {
						return nil, nil, err
					}
					payload = node
					break loop
				}
				node, err := expressionMacroOrSpecials(w, tr, exprState, tok, cfg, func() (Spec, bool) {
					return exprState.Context().GetMacroSpec(tok.Payload)
				}, func(state *ParsingState, pos, posEnd Pos, spec Spec) *Node {
					return w.MakeMacroNode(state, pos, posEnd, tok.Payload, spec, NewParsedArguments(nil, nil, nil), tok.PostSpace)
				})
				if err != nil {
					return nil, nil, err
				}
				payload = node
				break loop

			case KindSpecials:
				spec := tok.SpecialsSpec
				node, err := expressionMacroOrSpecials(w, tr, exprState, tok, cfg, func() (Spec, bool) {
					if spec != nil {
						return spec, true
					}
					return exprState.Context().GetSpecialsSpec(tok.Payload)
				}, func(state *ParsingState, pos, posEnd Pos, s Spec) *Node {
					return w.MakeSpecialsNode(state, pos, posEnd, tok.Payload, s, NewParsedArguments(nil, nil, nil))
				})
				if err != nil {
					return nil, nil, err
				}
				payload = node
				break loop

			case KindBraceOpen:
				tr.MoveToToken(tok, false)
				node, _, err := w.ParseContent(w.MakeLatexGroupParser(tok.Payload), tr, exprState, OpenContextFrame{
					Description: "group " + tok.Payload, Pos: tok.Pos,
				})
				if err != nil {
					return nil, nil, err
				}
				payload = node.(*Node)
				break loop

			case KindBraceClose:
				p := tr.PositionOf(tok.Pos)
				perr := &ParseError{
					Msg: "expected expression, got closing brace", Pos: tok.Pos, Line: p.Line, Col: p.Col,
					Info:          ErrorTypeInfo{What: ErrExpressionExpected, Construct: tok.Payload},
					RecoveryNodes: NewNodeList(exprState, []*Node{w.MakeCharsNode(exprState, tok.Pos, tok.Pos, "")}, tok.Pos, tok.Pos),
				}
				tr.MoveToToken(tok, false)
				if ignored := w.CheckTolerantParsingIgnoreError(perr); ignored != nil {
					return nil, nil, ignored
				}
				payload = perr.RecoveryNodes.At(0)
				break loop

			case KindChar:
				payload = w.MakeCharsNode(exprState, tok.Pos, tok.PosEnd, tok.Payload)
				break loop

			case KindMathInline, KindMathDisplay:
				p := tr.PositionOf(tok.Pos)
				recovery := w.MakeCharsNode(exprState, tok.Pos, tok.PosEnd, tok.Payload)
				if tok.Payload != "" && rune(tok.Payload[0]) == state.MacroEscapeChar() {
					recovery = w.MakeMacroNode(exprState, tok.Pos, tok.PosEnd, tok.Payload, nil, NewParsedArguments(nil, nil, nil), "")
				}
				perr := &ParseError{
					Msg: "unexpected math mode delimiter", Pos: tok.Pos, Line: p.Line, Col: p.Col,
					Info:          ErrorTypeInfo{What: ErrUnexpectedMathDelimiter, Construct: tok.Payload},
					RecoveryNodes: NewNodeList(exprState, []*Node{recovery}, tok.Pos, tok.PosEnd),
				}
				if ignored := w.CheckTolerantParsingIgnoreError(perr); ignored != nil {
					return nil, nil, ignored
				}
				payload = recovery
				break loop

			default:
				return nil, nil, &WalkerError{Msg: "expression parser: unreachable token kind " + tok.Kind.String()}
			}
		}

		if payload != nil {
			collected = append(collected, payload)
		}

		if cfg.returnFullNodeList || len(collected) > 1 {
			pos, posEnd := exprSpan(collected, tr)
			return NewNodeList(exprState, collected, pos, posEnd), nil, nil
		}
		if len(collected) == 1 {
			return collected[0], nil, nil
		}
		return NewNodeList(exprState, nil, tr.CurPos(), tr.CurPos()), nil, nil
	})
}

func exprSpan(nodes []*Node, tr *TokenReader) (Pos, Pos) {
	if len(nodes) == 0 {
		return tr.CurPos(), tr.CurPos()
	}
	return nodes[0].Pos(), nodes[len(nodes)-1].PosEnd()
}

// expressionMacroOrSpecials implements the shared macro/specials handling:
// look up the spec, reject (or tolerate) a spec requiring
// arguments, and build a bare node with no arguments parsed.
func expressionMacroOrSpecials(
	w *Walker, tr *TokenReader, state *ParsingState, tok Token, cfg expressionConfig,
	lookup func() (Spec, bool),
	build func(state *ParsingState, pos, posEnd Pos, spec Spec) *Node,
) (*Node, error) {
	spec, _ := lookup()

	bare := build(state, tok.Pos, tok.PosEnd, spec)

	if cfg.singleTokenRequiringArgIsError && spec != nil && spec.ArgumentsParser() != nil {
		p := tr.PositionOf(tok.Pos)
		perr := &ParseError{
			Msg: "callable with mandatory arguments encountered where an expression was expected",
			Pos: tok.Pos, Line: p.Line, Col: p.Col,
			Info:          ErrorTypeInfo{What: ErrMandatoryArgMacroAsExpression, Construct: tok.Payload},
			RecoveryNodes: NewNodeList(state, []*Node{bare}, tok.Pos, tok.PosEnd),
		}
		if ignored := w.CheckTolerantParsingIgnoreError(perr); ignored != nil {
			return nil, ignored
		}
		return bare, nil
	}

	return bare, nil
}

func handleBeginEndAsExpression(w *Walker, tr *TokenReader, state *ParsingState, tok Token) (*Node, error) {
	bare := w.MakeMacroNode(state, tok.Pos, tok.PosEnd, tok.Payload, nil, NewParsedArguments(nil, nil, nil), tok.PostSpace)
	p := tr.PositionOf(tok.Pos)
	perr := &ParseError{
		Msg: `\` + tok.Payload + " is not allowed where an expression is expected", Pos: tok.Pos, Line: p.Line, Col: p.Col,
		Info:          ErrorTypeInfo{What: ErrBeginEndAsExpression, Construct: tok.Payload},
		RecoveryNodes: NewNodeList(state, []*Node{bare}, tok.Pos, tok.PosEnd),
	}
	if ignored := w.CheckTolerantParsingIgnoreError(perr); ignored != nil {
		return nil, ignored
	}
	return bare, nil
}
