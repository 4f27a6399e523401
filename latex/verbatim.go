package latex

import (
	"strings"
	"unicode/utf8"
)

// VerbatimStopCheck decides, given the next character that would be read,
// the buffer accumulated so far, and the current parsing state, whether a
// verbatim scan should stop before consuming that character. Implementations that need nesting
// bookkeeping are free to close over mutable state.
type VerbatimStopCheck func(ch rune, buffer string, state *ParsingState) bool

// VerbatimOption configures the verbatim parsers.
type VerbatimOption func(*verbatimConfig)

type verbatimConfig struct {
	finalize        func(string) string
	forcedOpen      rune
	forcedClose     rune
	hasForcedDelims bool
}

// WithForcedDelimiters requires the delimited verbatim parser to use
// exactly this (open, close) pair instead of auto-detecting one from the
// input — the xparse `v<o><c>` spec form.
func WithForcedDelimiters(open, close rune) VerbatimOption {
	return func(c *verbatimConfig) { c.forcedOpen, c.forcedClose, c.hasForcedDelims = open, close, true }
}

// WithVerbatimFinalize post-processes the captured buffer before it becomes
// a Chars node's text.
func WithVerbatimFinalize(f func(string) string) VerbatimOption {
	return func(c *verbatimConfig) { c.finalize = f }
}

func newVerbatimConfig(opts []VerbatimOption) verbatimConfig {
	cfg := verbatimConfig{finalize: func(s string) string { return s }}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// verbatimCharsState derives the state a verbatim Chars node is built
// under: verbatim content is inert text, so every other construct's
// recognition is switched off regardless of what the caller had enabled.
func verbatimCharsState(state *ParsingState) *ParsingState {
	return state.SubContext(
		WithEnableMacros(false),
		WithEnableEnvironments(false),
		WithEnableSpecials(false),
		WithEnableGroups(false),
		WithEnableComments(false),
		WithEnableMath(false),
	)
}

// verbatimReadLoop pulls runes one at a time through the token reader's
// character-level interface, stopping (without consuming the triggering
// character) as soon as stop reports true. ok is false if the input was
// exhausted first.
func verbatimReadLoop(tr *TokenReader, state *ParsingState, stop VerbatimStopCheck) (buffer string, ok bool) {
	var b strings.Builder
	for {
		if tr.Done() {
			return b.String(), false
		}
		ch := tr.PeekRune()
		if stop(ch, b.String(), state) {
			return b.String(), true
		}
		tr.EatRune()
		b.WriteRune(ch)
	}
}

func verbatimUnterminatedError(state *ParsingState, tr *TokenReader, start, posEnd Pos, partial *Node, construct string) error {
	p := tr.PositionOf(start)
	return &ParseError{
		Msg: "verbatim content not terminated", Pos: start, Line: p.Line, Col: p.Col,
		Info:          ErrorTypeInfo{What: ErrVerbatimUnterminated, Construct: construct},
		RecoveryNodes: NewNodeList(state, []*Node{partial}, start, posEnd),
	}
}

// NewVerbatimBaseParser reads characters one at a time until stop matches,
// producing a Chars node from the captured (and optionally finalized)
// buffer.
func NewVerbatimBaseParser(stop VerbatimStopCheck, opts ...VerbatimOption) Parser {
	cfg := newVerbatimConfig(opts)
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		start := tr.CurPos()
		buf, matched := verbatimReadLoop(tr, state, stop)
		posEnd := tr.CurPos()
		charsState := verbatimCharsState(state)
		if !matched {
			partial := w.MakeCharsNode(charsState, start, posEnd, cfg.finalize(buf))
			return nil, nil, verbatimUnterminatedError(state, tr, start, posEnd, partial, "")
		}
		return w.MakeCharsNode(charsState, start, posEnd, cfg.finalize(buf)), nil, nil
	})
}

var verbatimDelimPairs = map[rune]rune{
	'{': '}',
	'[': ']',
	'<': '>',
	'(': ')',
}

// NewDelimitedVerbatimParser reads a delimiter (auto-detected from the
// bracket pairs above, or the character itself used as both open and
// close) and scans verbatim to the matching close, tracking nesting depth
// when open and close differ, producing a Group node wrapping the inner
// Chars node.
func NewDelimitedVerbatimParser(opts ...VerbatimOption) Parser {
	cfg := newVerbatimConfig(opts)
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		openPos := tr.CurPos()
		if tr.Done() {
			p := tr.PositionOf(openPos)
			return nil, nil, &ParseError{
				Msg: "verbatim delimiter not found", Pos: openPos, Line: p.Line, Col: p.Col,
				Info: ErrorTypeInfo{What: ErrOpeningDelimiterNotFound},
			}
		}
		var openCh, closeCh rune
		if cfg.hasForcedDelims {
			openCh, closeCh = cfg.forcedOpen, cfg.forcedClose
			if tr.PeekRune() != openCh {
				p := tr.PositionOf(openPos)
				return nil, nil, &ParseError{
					Msg: "expected verbatim delimiter " + string(openCh), Pos: openPos, Line: p.Line, Col: p.Col,
					Info: ErrorTypeInfo{What: ErrOpeningDelimiterNotFound, Construct: string(openCh)},
				}
			}
			tr.EatRune()
		} else {
			openCh = tr.EatRune()
			var ok bool
			closeCh, ok = verbatimDelimPairs[openCh]
			if !ok {
				closeCh = openCh
			}
		}
		innerStart := Pos(int(openPos) + utf8.RuneLen(openCh))

		depth := 1
		stop := func(ch rune, buffer string, _ *ParsingState) bool {
			if openCh != closeCh && ch == openCh {
				depth++
				return false
			}
			if ch == closeCh {
				depth--
				return depth == 0
			}
			return false
		}

		buf, matched := verbatimReadLoop(tr, state, stop)
		innerEnd := tr.CurPos()
		charsState := verbatimCharsState(state)
		if !matched {
			partial := w.MakeCharsNode(charsState, innerStart, innerEnd, cfg.finalize(buf))
			return nil, nil, verbatimUnterminatedError(state, tr, openPos, innerEnd, partial, string(openCh)+string(closeCh))
		}
		tr.EatRune()
		posEnd := tr.CurPos()

		chars := w.MakeCharsNode(charsState, innerStart, innerEnd, cfg.finalize(buf))
		nl := NewNodeList(state, []*Node{chars}, innerStart, innerEnd)
		return w.MakeGroupNode(state, openPos, posEnd, string(openCh), string(closeCh), nl), nil, nil
	})
}

// NewVerbatimEnvironmentParser scans verbatim until the literal closing tag
// for envName (e.g. `\end{verbatim}`), leaving the reader positioned just
// before it, and strips at most one leading newline from the captured body
func NewVerbatimEnvironmentParser(envName string, opts ...VerbatimOption) Parser {
	cfg := newVerbatimConfig(opts)
	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		target := string(state.MacroEscapeChar()) + "end{" + envName + "}"
		start := tr.CurPos()
		stop := func(ch rune, buffer string, _ *ParsingState) bool {
			return tr.AtString(target)
		}
		buf, matched := verbatimReadLoop(tr, state, stop)
		posEnd := tr.CurPos()
		charsState := verbatimCharsState(state)
		if !matched {
			partial := w.MakeCharsNode(charsState, start, posEnd, buf)
			return nil, nil, verbatimUnterminatedError(state, tr, start, posEnd, partial, envName)
		}
		buf = stripOneLeadingNewline(buf)
		return w.MakeCharsNode(charsState, start, posEnd, cfg.finalize(buf)), nil, nil
	})
}

func stripOneLeadingNewline(s string) string {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		return s[2:]
	case len(s) > 0 && (s[0] == '\n' || s[0] == '\r'):
		return s[1:]
	default:
		return s
	}
}
