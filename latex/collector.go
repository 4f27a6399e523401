package latex

import "errors"

// stopReason records why a NodesCollector's main loop ended, as an explicit
// result value rather than an internal control-flow exception.
type stopReason int

const (
	stopNone stopReason = iota
	stopEndOfStream
	stopTokenCondition
	stopNodeListCondition
)

// StopTokenConditionFunc reports whether tok should stop collection, and
// arbitrary data to attach to the stop.
type StopTokenConditionFunc func(tok Token) (data any, stop bool)

// StopNodeListConditionFunc reports whether the node list accumulated so
// far should stop collection.
type StopNodeListConditionFunc func(nl *NodeList) (data any, stop bool)

// MakeChildParsingStateFunc derives the parsing state for a dispatched
// child construct of the given kind. NodesCollector stores a function passed
// via WithMakeChildParsingState but does not call it: child constructs are
// parsed under the collector's current state.
type MakeChildParsingStateFunc func(parent *ParsingState, nodeClass NodeKind) *ParsingState

// CollectorOption configures a NodesCollector at construction time.
type CollectorOption func(*NodesCollector)

func WithStopTokenCondition(f StopTokenConditionFunc) CollectorOption {
	return func(c *NodesCollector) { c.stopTokenCondition = f }
}
func WithStopNodeListCondition(f StopNodeListConditionFunc) CollectorOption {
	return func(c *NodesCollector) { c.stopNodeListCondition = f }
}
func WithMakeChildParsingState(f MakeChildParsingStateFunc) CollectorOption {
	return func(c *NodesCollector) { c.makeChildParsingState = f }
}
func WithIncludeStopTokenPreSpaceChars(v bool) CollectorOption {
	return func(c *NodesCollector) { c.includeStopTokenPreSpaceChars = v }
}

// NodesCollector is the central parse loop: it repeatedly pulls
// tokens from a TokenReader, dispatches each to the sub-parser appropriate
// for its kind, accumulates a NodeList, and honors caller-supplied stopping
// conditions and recoverable-error tolerance.
type NodesCollector struct {
	walker *Walker
	tr     *TokenReader
	state  *ParsingState

	stopTokenCondition            StopTokenConditionFunc
	stopNodeListCondition         StopNodeListConditionFunc
	makeChildParsingState         MakeChildParsingStateFunc
	includeStopTokenPreSpaceChars bool

	pendingChars   []byte
	pendingStart   Pos
	hasPendingFlag bool

	items     []*Node
	startPos  Pos
	finalized bool

	stopReasonVal     stopReason
	stopTokenData     any
	stopNodeListData  any
	stopToken         Token
}

// NewNodesCollector builds a collector that will read from tr under state,
// starting at the reader's current position.
func NewNodesCollector(w *Walker, tr *TokenReader, state *ParsingState, opts ...CollectorOption) *NodesCollector {
	c := &NodesCollector{
		walker:                        w,
		tr:                            tr,
		state:                         state,
		includeStopTokenPreSpaceChars: true,
		startPos:                      tr.CurPos(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NodesCollector) State() *ParsingState { return c.state }
func (c *NodesCollector) StopReasonIsEndOfStream() bool     { return c.stopReasonVal == stopEndOfStream }
func (c *NodesCollector) StopTokenData() any                { return c.stopTokenData }
func (c *NodesCollector) StopNodeListData() any              { return c.stopNodeListData }
func (c *NodesCollector) StopToken() Token                   { return c.stopToken }

// Result returns the accumulated NodeList, finalizing first if needed.
func (c *NodesCollector) Result() *NodeList {
	c.finalize()
	endPos := c.tr.CurPos()
	if len(c.items) > 0 {
		return NewNodeList(c.state, c.items, c.items[0].Pos(), c.items[len(c.items)-1].PosEnd())
	}
	return NewNodeList(c.state, nil, c.startPos, endPos)
}

// ProcessTokens runs the main loop until a stopping condition, end of
// stream, or an unrecoverable error.
func (c *NodesCollector) ProcessTokens() error {
	for {
		reason, err := c.processOneToken()
		if err != nil {
			c.finalize()
			var pe *ParseError
			if errors.As(err, &pe) {
				cp := *pe
				cp.RecoveryNodes = c.Result()
				return &cp
			}
			return err
		}
		if reason != stopNone {
			c.stopReasonVal = reason
			c.finalize()
			return nil
		}
	}
}

// finalize flushes pending chars into a single Chars node. Idempotent, and
// always safe to call more than once.
func (c *NodesCollector) finalize() {
	if c.finalized {
		return
	}
	c.finalized = true
	if c.hasPendingFlag {
		text := string(c.pendingChars)
		node := c.walker.MakeCharsNode(c.state, c.pendingStart, c.pendingStart+Pos(len(text)), text)
		c.items = append(c.items, node)
		c.pendingChars = nil
		c.hasPendingFlag = false
	}
}

func (c *NodesCollector) appendPending(text string, startIfEmpty Pos) {
	if !c.hasPendingFlag {
		c.pendingStart = startIfEmpty
		c.hasPendingFlag = true
	}
	c.pendingChars = append(c.pendingChars, text...)
}

// flushPendingWithPrefix appends prefix (the new token's pre_space) to the
// end of the pending-chars buffer and emits the buffer as a single Chars
// node.
func (c *NodesCollector) flushPendingWithPrefix(prefix string) {
	if prefix != "" {
		c.pendingChars = append(c.pendingChars, prefix...)
	}
	text := string(c.pendingChars)
	end := c.pendingStart + Pos(len(text))
	node := c.walker.MakeCharsNode(c.state, c.pendingStart, end, text)
	c.items = append(c.items, node)
	c.pendingChars = nil
	c.hasPendingFlag = false
}

func (c *NodesCollector) currentNodeList() *NodeList {
	if len(c.items) == 0 {
		return NewNodeList(c.state, nil, c.startPos, c.tr.CurPos())
	}
	return NewNodeList(c.state, c.items, c.items[0].Pos(), c.items[len(c.items)-1].PosEnd())
}

// checkNodeListStop evaluates the nodelist stop condition, and if it fires,
// rewinds the reader to before tok (including its pre_space) and records
// the stop.
func (c *NodesCollector) checkNodeListStop(tok Token) bool {
	if c.stopNodeListCondition == nil {
		return false
	}
	data, stop := c.stopNodeListCondition(c.currentNodeList())
	if !stop {
		return false
	}
	c.stopNodeListData = data
	c.tr.MoveToToken(tok, true)
	c.stopToken = tok
	return true
}

// processOneToken implements the collector's per-token dispatch step.
func (c *NodesCollector) processOneToken() (stopReason, error) {
	tok, err := c.tr.NextToken(c.state)
	if err != nil {
		var eos *EndOfStreamError
		if errors.As(err, &eos) {
			if eos.HasFinal {
				c.tr.MoveToPosChars(c.tr.FinalPos())
				c.appendPending(eos.FinalSpace, c.tr.CurPos()-Pos(len(eos.FinalSpace)))
				return stopNone, nil
			}
			return stopEndOfStream, nil
		}
		return stopNone, err
	}

	// Step 2: token stop condition.
	if c.stopTokenCondition != nil {
		if data, stop := c.stopTokenCondition(tok); stop {
			c.stopTokenData = data
			if c.includeStopTokenPreSpaceChars && tok.PreSpace != "" {
				c.appendPending(tok.PreSpace, tok.Pos-Pos(len(tok.PreSpace)))
			}
			c.tr.MoveToToken(tok, false)
			c.stopToken = tok
			return stopTokenCondition, nil
		}
	}

	// Step 3: plain character.
	if tok.Kind == KindChar {
		c.appendPending(tok.PreSpace+tok.Payload, tok.Pos-Pos(len(tok.PreSpace)))
		return stopNone, nil
	}

	// Steps 4/5: flush pending chars, or emit a whitespace-only chars node.
	if c.hasPendingFlag {
		c.flushPendingWithPrefix(tok.PreSpace)
		if c.checkNodeListStop(tok) {
			return stopNodeListCondition, nil
		}
	} else if tok.PreSpace != "" {
		start := tok.Pos - Pos(len(tok.PreSpace))
		node := c.walker.MakeCharsNode(c.state, start, tok.Pos, tok.PreSpace)
		c.items = append(c.items, node)
		if c.checkNodeListStop(tok) {
			return stopNodeListCondition, nil
		}
	}

	// Step 6: classify and dispatch.
	switch tok.Kind {
	case KindBraceClose:
		return c.recoverable(tok, "unexpected mismatching closing delimiter", ErrMismatchedClosingDelimiter, tok.Payload)
	case KindEndEnvironment:
		return c.recoverable(tok, "unexpected closing environment", ErrUnexpectedClosingEnvironment, tok.Payload)
	case KindMathInline, KindMathDisplay:
		if !c.state.isMathOpenDelimiter(tok.Payload) {
			return c.recoverable(tok, "unexpected closing math delimiter", ErrUnexpectedClosingMathDelimiter, tok.Payload)
		}
		kind := Inline
		if tok.Kind == KindMathDisplay {
			kind = Display
		}
		c.tr.MoveToToken(tok, false)
		node, delta, err := c.walker.ParseContent(c.walker.MakeLatexMathParser(tok.Payload, kind), c.tr, c.state,
			OpenContextFrame{Description: "math mode " + tok.Payload, Pos: tok.Pos})
		if err != nil {
			return stopNone, err
		}
		c.items = append(c.items, node.(*Node))
		if delta != nil {
			ns, err := delta.GetUpdatedParsingState(c.state, c.walker)
			if err != nil {
				return stopNone, err
			}
			c.state = ns
		}
		return stopNone, nil
	case KindComment:
		node := c.walker.MakeCommentNode(c.state, tok.Pos, tok.PosEnd, tok.Payload, tok.PostSpace)
		c.items = append(c.items, node)
		return stopNone, nil
	case KindBraceOpen:
		c.tr.MoveToToken(tok, false)
		node, delta, err := c.walker.ParseContent(c.walker.MakeLatexGroupParser(tok.Payload), c.tr, c.state,
			OpenContextFrame{Description: "group " + tok.Payload, Pos: tok.Pos})
		if err != nil {
			return stopNone, err
		}
		c.items = append(c.items, node.(*Node))
		if delta != nil {
			ns, err := delta.GetUpdatedParsingState(c.state, c.walker)
			if err != nil {
				return stopNone, err
			}
			c.state = ns
		}
		return stopNone, nil
	case KindMacro:
		spec, ok := c.state.Context().GetMacroSpec(tok.Payload)
		if !ok {
			return c.recoverable(tok, "unknown macro: "+tok.Payload, ErrUnknownMacro, tok.Payload)
		}
		return c.dispatchInvocable(tok, spec)
	case KindBeginEnvironment:
		spec, ok := c.state.Context().GetEnvironmentSpec(tok.Payload)
		if !ok {
			return c.recoverable(tok, "unknown environment: "+tok.Payload, ErrUnknownEnvironment, tok.Payload)
		}
		return c.dispatchInvocable(tok, spec)
	case KindSpecials:
		spec := tok.SpecialsSpec
		if spec == nil {
			s, ok := c.state.Context().GetSpecialsSpec(tok.Payload)
			if !ok {
				return c.recoverable(tok, "unknown specials: "+tok.Payload, ErrUnknownSpecials, tok.Payload)
			}
			spec = s
		}
		return c.dispatchInvocable(tok, spec)
	}

	return stopNone, &WalkerError{Msg: "nodes collector: unreachable token kind " + tok.Kind.String()}
}

// dispatchInvocable delegates to the Spec's node parser and applies the
// resulting delta to the collector's running state.
func (c *NodesCollector) dispatchInvocable(tok Token, spec Spec) (stopReason, error) {
	parser := spec.GetNodeParser(tok)
	if parser == nil {
		return stopNone, &WalkerError{Msg: "spec returned a nil parser for " + tok.Payload}
	}
	result, delta, err := c.walker.ParseContent(parser, c.tr, c.state,
		OpenContextFrame{Description: tok.Kind.String() + " " + tok.Payload, Pos: tok.Pos})
	if err != nil {
		return stopNone, err
	}
	node, ok := result.(*Node)
	if !ok {
		return stopNone, &WalkerError{Msg: "invocable parser for " + tok.Payload + " did not return a *Node"}
	}
	c.items = append(c.items, node)
	if delta != nil {
		ns, err := delta.GetUpdatedParsingState(c.state, c.walker)
		if err != nil {
			return stopNone, err
		}
		c.state = ns
	}
	return stopNone, nil
}

// recoverable raises a NodesParseError for tok (already consumed by
// NextToken), routing it through the walker's tolerance check: in tolerant
// mode the construct is dropped (no node emitted) and collection continues
// from just past tok; otherwise the error propagates.
func (c *NodesCollector) recoverable(tok Token, msg string, what ErrorWhat, construct string) (stopReason, error) {
	p := c.tr.PositionOf(tok.Pos)
	perr := &ParseError{
		Msg: msg, Pos: tok.Pos, Line: p.Line, Col: p.Col,
		Info:              ErrorTypeInfo{What: what, Construct: construct},
		RecoveryPastToken: &tok,
	}
	if ignored := c.walker.CheckTolerantParsingIgnoreError(perr); ignored != nil {
		return stopNone, ignored
	}
	c.tr.MovePastToken(*perr.RecoveryPastToken, true)
	return stopNone, nil
}
