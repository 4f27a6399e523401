package latex

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ParsingStateEventHandler computes the state transition for the two
// walker-dispatched events a ParsingStateDelta can carry: a
// host can swap in a math-only context database on entry, for instance.
type ParsingStateEventHandler interface {
	EnterMathMode(mathModeDelimiter string, trigger Token) (ParsingStateDelta, error)
	LeaveMathMode(trigger Token) (ParsingStateDelta, error)
}

// defaultEventHandler implements the obvious state transition: flip
// in_math_mode and record/clear the triggering delimiter, with no context
// database swap.
type defaultEventHandler struct{}

func (defaultEventHandler) EnterMathMode(delim string, _ Token) (ParsingStateDelta, error) {
	return SetAttributes(WithInMathMode(true, delim)), nil
}

func (defaultEventHandler) LeaveMathMode(_ Token) (ParsingStateDelta, error) {
	return SetAttributes(WithInMathMode(false, "")), nil
}

// WalkerOption configures a Walker at construction time.
type WalkerOption func(*Walker)

// WithTolerantParsing enables tolerant mode: recoverable parse errors
// are swallowed and substituted with best-effort recovery nodes instead of
// propagating.
func WithTolerantParsing(v bool) WalkerOption {
	return func(w *Walker) { w.tolerant = v }
}

// WithParsingStateEventHandler overrides the default math-mode transition
// handler.
func WithParsingStateEventHandler(h ParsingStateEventHandler) WalkerOption {
	return func(w *Walker) { w.eventHandler = h }
}

// WithLogger attaches a structured logger; parse_content logs one debug
// entry per construct entered, tagged with the walker's trace id.
func WithLogger(l *logrus.Logger) WalkerOption {
	return func(w *Walker) { w.logger = l }
}

// Walker is the narrow façade mediating recursion, node construction, and
// error tolerance. It is the single point through which sub-parsers
// recurse into one another, so it is also where state-change deltas,
// tolerant-mode recovery, and diagnostic position lookups are resolved.
type Walker struct {
	tolerant     bool
	eventHandler ParsingStateEventHandler
	logger       *logrus.Logger
	traceID      string

	// activeReader is the TokenReader of the parse currently in flight,
	// refreshed on every ParseContent call; used only by FormatNodePos to
	// resolve a node's byte offset to line/column without every Node
	// needing to carry its own source text.
	activeReader *TokenReader
}

// NewWalker builds a Walker. Each walker gets its own trace id (via
// google/uuid) so logrus output from concurrent parses run by different
// walkers in the same process can be told apart.
func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{
		logger:  logrus.StandardLogger(),
		traceID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Walker) Tolerant() bool { return w.tolerant }

// ParsingStateEventHandler returns the handler for enter/leave-math-mode
// walker events, falling back to the obvious default.
func (w *Walker) ParsingStateEventHandler() ParsingStateEventHandler {
	if w.eventHandler != nil {
		return w.eventHandler
	}
	return defaultEventHandler{}
}

// CheckTolerantParsingIgnoreError implements the tolerance gate: in
// tolerant mode, a *ParseError is swallowed (nil returned, meaning "ignore
// and recover"); anything else (including a *WalkerError, which signals
// programmer misuse rather than a malformed document) always propagates.
func (w *Walker) CheckTolerantParsingIgnoreError(err error) error {
	if err == nil || !w.tolerant {
		return err
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return nil
	}
	return err
}

// ParseContent invokes parser over tr under state, attaching frame as an
// open-context diagnostic frame to any *ParseError it raises.
func (w *Walker) ParseContent(parser Parser, tr *TokenReader, state *ParsingState, frame OpenContextFrame) (any, ParsingStateDelta, error) {
	w.activeReader = tr
	pos := tr.PositionOf(frame.Pos)
	frame.Line, frame.Col = pos.Line, pos.Col

	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{
			"trace_id": w.traceID,
			"context":  frame.Description,
			"pos":      int(frame.Pos),
		}).Debug("entering construct")
	}

	result, delta, err := parser.Parse(w, tr, state)
	if err == nil {
		return result, delta, nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return result, delta, pe.WithOpenContext(frame)
	}
	return result, delta, err
}

// FormatNodePos formats n's start position as "(line L, col C)" for
// diagnostics, resolving against the most recently active TokenReader.
func (w *Walker) FormatNodePos(n *Node) string {
	if w.activeReader == nil {
		return ""
	}
	return "(" + w.activeReader.PositionOf(n.Pos()).String() + ")"
}

// --- node construction ---

func (w *Walker) MakeCharsNode(state *ParsingState, pos, posEnd Pos, text string) *Node {
	n := newCharsNode(state, pos, posEnd, text)
	n.setWalker(w)
	return n
}

func (w *Walker) MakeGroupNode(state *ParsingState, pos, posEnd Pos, open, close string, list *NodeList) *Node {
	n := newGroupNode(state, pos, posEnd, open, close, list)
	n.setWalker(w)
	return n
}

func (w *Walker) MakeCommentNode(state *ParsingState, pos, posEnd Pos, text, postSpace string) *Node {
	n := newCommentNode(state, pos, posEnd, text, postSpace)
	n.setWalker(w)
	return n
}

func (w *Walker) MakeMacroNode(state *ParsingState, pos, posEnd Pos, name string, spec Spec, args *ParsedArguments, postSpace string) *Node {
	n := newMacroNode(state, pos, posEnd, name, spec, args, postSpace)
	n.setWalker(w)
	return n
}

func (w *Walker) MakeEnvironmentNode(state *ParsingState, pos, posEnd Pos, name string, spec Spec, args *ParsedArguments, body *NodeList) *Node {
	n := newEnvironmentNode(state, pos, posEnd, name, spec, args, body)
	n.setWalker(w)
	return n
}

func (w *Walker) MakeSpecialsNode(state *ParsingState, pos, posEnd Pos, chars string, spec Spec, args *ParsedArguments) *Node {
	n := newSpecialsNode(state, pos, posEnd, chars, spec, args)
	n.setWalker(w)
	return n
}

func (w *Walker) MakeMathNode(state *ParsingState, pos, posEnd Pos, display DisplayKind, open, close string, list *NodeList) *Node {
	n := newMathNode(state, pos, posEnd, display, open, close, list)
	n.setWalker(w)
	return n
}

// MakeNodeList wraps items in a NodeList under state.
func (w *Walker) MakeNodeList(state *ParsingState, items []*Node, pos, posEnd Pos) *NodeList {
	return NewNodeList(state, items, pos, posEnd)
}

// MakeNodesCollector builds a NodesCollector bound to this walker.
func (w *Walker) MakeNodesCollector(tr *TokenReader, state *ParsingState, opts ...CollectorOption) *NodesCollector {
	return NewNodesCollector(w, tr, state, opts...)
}

// MakeLatexGroupParser returns the delimited-expression parser specialized
// for brace-style groups, seeded with the opening delimiter already peeked
// by the collector.
func (w *Walker) MakeLatexGroupParser(openDelim string) Parser {
	return NewGroupParser(openDelim)
}

// MakeLatexMathParser returns the delimited-expression parser specialized
// for math mode, seeded with the opening delimiter and its inline/display
// classification.
func (w *Walker) MakeLatexMathParser(openDelim string, kind DisplayKind) Parser {
	return NewMathParser(openDelim, kind)
}

// ParseString is the top-level convenience entry point: parse text to a
// NodeList under a fresh parsing state over context.
func (w *Walker) ParseString(text string, context ContextDB, opts ...StateOption) (*NodeList, error) {
	tr := NewTokenReader(text)
	tr.SetTolerant(w.tolerant)
	state := NewParsingState(context, opts...)
	result, _, err := w.ParseContent(NewGeneralNodesParser(), tr, state, OpenContextFrame{Description: "document", Pos: 0})
	if err != nil {
		return nil, err
	}
	return result.(*NodeList), nil
}
