package latex

// EnvironmentEndCondition builds a StopTokenConditionFunc matching the
// `\end{name}` token closing an environment started under that name. A
// Spec's MakeBodyParser must install this (or an equivalent condition) on
// whatever parser it returns: the collector rewinds to
// (but does not consume) the matching token, and NewInvocableParser
// consumes it immediately after the body parser returns.
func EnvironmentEndCondition(name string) StopTokenConditionFunc {
	return func(tok Token) (any, bool) {
		return nil, tok.Kind == KindEndEnvironment && tok.Payload == name
	}
}

// NewInvocableParser builds the generic driver shared by macro calls,
// environment calls, and specials calls: parse the argument list under the spec's argument-parsing-state
// delta, optionally parse a body (environments only), assemble the node,
// let the spec finalize it, and report the spec's after-construct delta.
//
// A Spec's GetNodeParser implementation will typically just return
// NewInvocableParser(initiating, spec); a spec with unusual needs (e.g. one
// that reads raw characters instead of arguments) is free to return a
// different Parser entirely, since the core only ever treats Spec as an
// opaque capability object.
func NewInvocableParser(initiating Token, spec Spec) Parser {
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		argState, err := ApplyDelta(spec.MakeArgumentsParsingStateDelta(state), state, w)
		if err != nil {
			return nil, nil, err
		}

		args := NewParsedArguments(nil, nil, nil)
		if ap := spec.ArgumentsParser(); ap != nil {
			result, _, err := w.ParseContent(ap, tr, argState, OpenContextFrame{
				Description: "arguments of " + initiating.Payload, Pos: initiating.Pos,
			})
			if err != nil {
				return nil, nil, err
			}
			parsed, ok := result.(*ParsedArguments)
			if !ok {
				return nil, nil, &WalkerError{Msg: "arguments parser for " + initiating.Payload + " did not return *ParsedArguments"}
			}
			args = parsed
		}

		var body *NodeList
		if bp := spec.MakeBodyParser(args); bp != nil {
			bodyState, err := ApplyDelta(spec.MakeBodyParsingStateDelta(args, state), state, w)
			if err != nil {
				return nil, nil, err
			}
			result, _, err := w.ParseContent(bp, tr, bodyState, OpenContextFrame{
				Description: "body of " + initiating.Payload, Pos: initiating.Pos,
			})
			if err != nil {
				return nil, nil, err
			}
			nl, ok := result.(*NodeList)
			if !ok {
				return nil, nil, &WalkerError{Msg: "body parser for " + initiating.Payload + " did not return *NodeList"}
			}
			body = nl

			endTok, err := tr.NextToken(state)
			if err != nil {
				return nil, nil, err
			}
			if endTok.Kind != KindEndEnvironment || endTok.Payload != initiating.Payload {
				p := tr.PositionOf(endTok.Pos)
				return nil, nil, &ParseError{
					Msg: "expected \\end{" + initiating.Payload + "}, found " + endTok.Kind.String(),
					Pos: endTok.Pos, Line: p.Line, Col: p.Col,
					Info: ErrorTypeInfo{What: ErrUnexpectedClosingEnvironment, Construct: initiating.Payload},
				}
			}
		}

		posEnd := tr.CurPos()
		var node *Node
		switch initiating.Kind {
		case KindMacro:
			node = w.MakeMacroNode(state, initiating.Pos, posEnd, initiating.Payload, spec, args, initiating.PostSpace)
		case KindBeginEnvironment:
			node = w.MakeEnvironmentNode(state, initiating.Pos, posEnd, initiating.Payload, spec, args, body)
		case KindSpecials:
			node = w.MakeSpecialsNode(state, initiating.Pos, posEnd, initiating.Payload, spec, args)
		default:
			return nil, nil, &WalkerError{Msg: "invocable parser invoked for unsupported token kind " + initiating.Kind.String()}
		}

		node = spec.FinalizeNode(node)
		return node, spec.MakeAfterParsingStateDelta(node, state), nil
	})
}
