package latex

// ParsingStateDelta describes how a construct mutates parsing state for
// whatever comes after it. Every variant implements
// GetUpdatedParsingState.
type ParsingStateDelta interface {
	// GetUpdatedParsingState returns the state obtained by applying this
	// delta to state. w is consulted only by walkerEventDelta, which defers
	// the actual transformation to a handler on the Walker.
	GetUpdatedParsingState(state *ParsingState, w *Walker) (*ParsingState, error)
}

// --- (a) set-attributes ---

// setAttributesDelta applies a list of field mutators to a clone of the
// input state. This is the Go rendering of "a map of field->new value":
// each StateOption already closes over the field and the value to set, so
// a slice of them composes exactly like such a map would.
type setAttributesDelta struct {
	opts []StateOption
}

// SetAttributes builds a delta that derives a sub-context of whatever state
// it is applied to, changing only the given fields.
func SetAttributes(opts ...StateOption) ParsingStateDelta {
	return &setAttributesDelta{opts: opts}
}

func (d *setAttributesDelta) GetUpdatedParsingState(state *ParsingState, _ *Walker) (*ParsingState, error) {
	return state.SubContext(d.opts...), nil
}

// --- (b) replace-parsing-state ---

type replaceStateDelta struct {
	newState *ParsingState
}

// ReplaceParsingState builds a delta that ignores the input state entirely
// and installs newState instead.
func ReplaceParsingState(newState *ParsingState) ParsingStateDelta {
	return &replaceStateDelta{newState: newState}
}

func (d *replaceStateDelta) GetUpdatedParsingState(_ *ParsingState, _ *Walker) (*ParsingState, error) {
	return d.newState, nil
}

// --- (c) walker-event ---

// WalkerEventKind distinguishes the two events a delta can defer to the
// Walker's event handler.
type WalkerEventKind int

const (
	EventEnterMathMode WalkerEventKind = iota
	EventLeaveMathMode
)

type walkerEventDelta struct {
	event             WalkerEventKind
	mathModeDelimiter string // only meaningful for EventEnterMathMode
	triggerToken       Token
}

// EnterMathModeEvent builds a delta that asks the Walker's parsing-state
// event handler to compute the state transition for entering math mode
// opened by triggerToken (e.g. swapping in a math-only context database).
func EnterMathModeEvent(mathModeDelimiter string, triggerToken Token) ParsingStateDelta {
	return &walkerEventDelta{event: EventEnterMathMode, mathModeDelimiter: mathModeDelimiter, triggerToken: triggerToken}
}

// LeaveMathModeEvent builds a delta that asks the Walker's parsing-state
// event handler to compute the state transition for leaving math mode.
func LeaveMathModeEvent(triggerToken Token) ParsingStateDelta {
	return &walkerEventDelta{event: EventLeaveMathMode, triggerToken: triggerToken}
}

func (d *walkerEventDelta) GetUpdatedParsingState(state *ParsingState, w *Walker) (*ParsingState, error) {
	handler := w.ParsingStateEventHandler()
	var (
		inner ParsingStateDelta
		err   error
	)
	switch d.event {
	case EventEnterMathMode:
		inner, err = handler.EnterMathMode(d.mathModeDelimiter, d.triggerToken)
	case EventLeaveMathMode:
		inner, err = handler.LeaveMathMode(d.triggerToken)
	}
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return state, nil
	}
	return inner.GetUpdatedParsingState(state, w)
}

// --- (d) chained ---

type chainedDelta struct {
	deltas []ParsingStateDelta
}

// Chain composes deltas left to right: the state produced by deltas[i] is
// fed into deltas[i+1]. Nil entries are skipped, so callers can build a
// chain conditionally without filtering nils themselves.
func Chain(deltas ...ParsingStateDelta) ParsingStateDelta {
	return &chainedDelta{deltas: deltas}
}

func (d *chainedDelta) GetUpdatedParsingState(state *ParsingState, w *Walker) (*ParsingState, error) {
	cur := state
	for _, delta := range d.deltas {
		if delta == nil {
			continue
		}
		var err error
		cur, err = delta.GetUpdatedParsingState(cur, w)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// ApplyDelta is a nil-safe helper: a nil delta leaves the state unchanged.
func ApplyDelta(delta ParsingStateDelta, state *ParsingState, w *Walker) (*ParsingState, error) {
	if delta == nil {
		return state, nil
	}
	return delta.GetUpdatedParsingState(state, w)
}
