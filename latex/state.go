package latex

import (
	"sort"
	"weak"

	"github.com/smasher164/xid"
)

// DelimPair is an (open, close) delimiter pair, each usually one or two
// characters.
type DelimPair struct {
	Open, Close string
}

// mathDelimEntry pairs a DelimPair with its inline/display classification,
// used by the derived, longest-first-sorted math delimiter table.
type mathDelimEntry struct {
	DelimPair
	Display DisplayKind
}

// ParsingState is an immutable snapshot of tokenizer/parser configuration.
// New states are only ever produced by NewParsingState or
// SubContext; existing states are never mutated in place.
type ParsingState struct {
	context ContextDB

	inMathMode        bool
	mathModeDelimiter string

	groupDelimiters       []DelimPair
	inlineMathDelimiters  []DelimPair
	displayMathDelimiters []DelimPair

	enableDoubleNewlineParagraphs bool
	enableEnvironments            bool
	enableComments                bool
	enableGroups                  bool
	enableMacros                  bool
	enableSpecials                bool
	enableMath                    bool

	macroAlphaChars func(rune) bool
	macroEscapeChar rune
	commentStart    rune

	forbiddenCharacters map[rune]bool

	// parent is a debug-only back-pointer to the state this one was derived
	// from via SubContext; weak so long-running hosts never leak a chain of
	// ancestor states.
	parent weak.Pointer[ParsingState]

	// --- derived, cached on construction ---
	openToClose    map[string]string
	mathDelimsSorted []mathDelimEntry
	expectedMathClose string
}

// defaultMacroAlphaChars continues a multi-character macro name on any
// Unicode identifier-continue character, using XID classification rather
// than a hand-rolled table.
func defaultMacroAlphaChars(r rune) bool {
	return xid.Continue(r)
}

// StateOption configures a ParsingState at construction time.
type StateOption func(*ParsingState)

func WithInMathMode(v bool, delimiter string) StateOption {
	return func(s *ParsingState) { s.inMathMode = v; s.mathModeDelimiter = delimiter }
}
func WithGroupDelimiters(v []DelimPair) StateOption {
	return func(s *ParsingState) { s.groupDelimiters = v }
}
func WithInlineMathDelimiters(v []DelimPair) StateOption {
	return func(s *ParsingState) { s.inlineMathDelimiters = v }
}
func WithDisplayMathDelimiters(v []DelimPair) StateOption {
	return func(s *ParsingState) { s.displayMathDelimiters = v }
}
func WithEnableDoubleNewlineParagraphs(v bool) StateOption {
	return func(s *ParsingState) { s.enableDoubleNewlineParagraphs = v }
}
func WithEnableEnvironments(v bool) StateOption {
	return func(s *ParsingState) { s.enableEnvironments = v }
}
func WithEnableComments(v bool) StateOption {
	return func(s *ParsingState) { s.enableComments = v }
}
func WithEnableGroups(v bool) StateOption {
	return func(s *ParsingState) { s.enableGroups = v }
}
func WithEnableMacros(v bool) StateOption {
	return func(s *ParsingState) { s.enableMacros = v }
}
func WithEnableSpecials(v bool) StateOption {
	return func(s *ParsingState) { s.enableSpecials = v }
}
func WithEnableMath(v bool) StateOption {
	return func(s *ParsingState) { s.enableMath = v }
}
func WithMacroAlphaChars(f func(rune) bool) StateOption {
	return func(s *ParsingState) { s.macroAlphaChars = f }
}
func WithMacroEscapeChar(c rune) StateOption {
	return func(s *ParsingState) { s.macroEscapeChar = c }
}
func WithCommentStart(c rune) StateOption {
	return func(s *ParsingState) { s.commentStart = c }
}
func WithForbiddenCharacters(chars map[rune]bool) StateOption {
	return func(s *ParsingState) { s.forbiddenCharacters = chars }
}

// NewParsingState builds the default parsing state (plain text mode, `{`/`}`
// groups, `$`/`$$` math, `\` escape, `%` comments) and applies opts on top.
func NewParsingState(context ContextDB, opts ...StateOption) *ParsingState {
	s := &ParsingState{
		context:                       context,
		groupDelimiters:               []DelimPair{{"{", "}"}},
		inlineMathDelimiters:          []DelimPair{{"$", "$"}, {`\(`, `\)`}},
		displayMathDelimiters:         []DelimPair{{"$$", "$$"}, {`\[`, `\]`}},
		enableDoubleNewlineParagraphs: true,
		enableEnvironments:            true,
		enableComments:                true,
		enableGroups:                  true,
		enableMacros:                  true,
		enableSpecials:                true,
		enableMath:                    true,
		macroAlphaChars:               defaultMacroAlphaChars,
		macroEscapeChar:               '\\',
		commentStart:                  '%',
	}
	for _, opt := range opts {
		opt(s)
	}
	s.computeDerived()
	return s
}

// computeDerived rebuilds the open->close delimiter map and the
// longest-first math delimiter table from the state's declared fields.
func (s *ParsingState) computeDerived() {
	s.openToClose = make(map[string]string, len(s.groupDelimiters))
	for _, d := range s.groupDelimiters {
		s.openToClose[d.Open] = d.Close
	}

	s.mathDelimsSorted = make([]mathDelimEntry, 0, len(s.inlineMathDelimiters)+len(s.displayMathDelimiters))
	for _, d := range s.inlineMathDelimiters {
		s.mathDelimsSorted = append(s.mathDelimsSorted, mathDelimEntry{d, Inline})
	}
	for _, d := range s.displayMathDelimiters {
		s.mathDelimsSorted = append(s.mathDelimsSorted, mathDelimEntry{d, Display})
	}
	sort.SliceStable(s.mathDelimsSorted, func(i, j int) bool {
		return len(s.mathDelimsSorted[i].Open) > len(s.mathDelimsSorted[j].Open)
	})

	s.expectedMathClose = ""
	if s.inMathMode {
		for _, e := range s.mathDelimsSorted {
			if e.Open == s.mathModeDelimiter {
				s.expectedMathClose = e.Close
				break
			}
		}
	}
}

// SubContext derives a child state by copying this state and applying opts,
// preserving a (weak) back-pointer to the parent for debug/logging only
func (s *ParsingState) SubContext(opts ...StateOption) *ParsingState {
	cp := *s
	cp.parent = weak.Make(s)
	for _, opt := range opts {
		opt(&cp)
	}
	cp.computeDerived()
	return &cp
}

// Parent resolves the debug-only back-pointer to the state this one was
// derived from, or nil for a root state or a collected parent.
func (s *ParsingState) Parent() *ParsingState { return s.parent.Value() }

func (s *ParsingState) Context() ContextDB    { return s.context }
func (s *ParsingState) InMathMode() bool      { return s.inMathMode }
func (s *ParsingState) MathModeDelimiter() string { return s.mathModeDelimiter }
func (s *ParsingState) GroupDelimiters() []DelimPair { return s.groupDelimiters }
func (s *ParsingState) InlineMathDelimiters() []DelimPair { return s.inlineMathDelimiters }
func (s *ParsingState) DisplayMathDelimiters() []DelimPair { return s.displayMathDelimiters }
func (s *ParsingState) EnableDoubleNewlineParagraphs() bool { return s.enableDoubleNewlineParagraphs }
func (s *ParsingState) EnableEnvironments() bool { return s.enableEnvironments }
func (s *ParsingState) EnableComments() bool     { return s.enableComments }
func (s *ParsingState) EnableGroups() bool       { return s.enableGroups }
func (s *ParsingState) EnableMacros() bool       { return s.enableMacros }
func (s *ParsingState) EnableSpecials() bool     { return s.enableSpecials }
func (s *ParsingState) EnableMath() bool         { return s.enableMath }
func (s *ParsingState) MacroAlphaChars() func(rune) bool { return s.macroAlphaChars }
func (s *ParsingState) MacroEscapeChar() rune    { return s.macroEscapeChar }
func (s *ParsingState) CommentStart() rune       { return s.commentStart }
func (s *ParsingState) IsForbidden(r rune) bool  { return s.forbiddenCharacters[r] }

// ExpectedMathClose returns the closing delimiter expected to end the
// current math block, or "" if not in math mode.
func (s *ParsingState) ExpectedMathClose() string { return s.expectedMathClose }

// CloseOf returns the configured close delimiter for a group open
// delimiter, and whether one is configured.
func (s *ParsingState) CloseOf(open string) (string, bool) {
	c, ok := s.openToClose[open]
	return c, ok
}

// MathDelimiters returns the derived, longest-open-first table of math
// delimiters with their inline/display classification.
func (s *ParsingState) MathDelimiters() []mathDelimEntry { return s.mathDelimsSorted }

// isMathOpenDelimiter reports whether payload is a configured opening math
// delimiter, used by the nodes collector to distinguish a legitimate math
// token (dispatch to the math parser) from a stray closing delimiter with
// no matching open.
func (s *ParsingState) isMathOpenDelimiter(payload string) bool {
	for _, e := range s.mathDelimsSorted {
		if e.Open == payload {
			return true
		}
	}
	return false
}

// Equal compares two states by value on their declared (non-derived,
// non-parent) fields. macroAlphaChars is a function and is not compared.
func (s *ParsingState) Equal(o *ParsingState) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	if s.context != o.context || s.inMathMode != o.inMathMode ||
		s.mathModeDelimiter != o.mathModeDelimiter ||
		s.enableDoubleNewlineParagraphs != o.enableDoubleNewlineParagraphs ||
		s.enableEnvironments != o.enableEnvironments ||
		s.enableComments != o.enableComments ||
		s.enableGroups != o.enableGroups ||
		s.enableMacros != o.enableMacros ||
		s.enableSpecials != o.enableSpecials ||
		s.enableMath != o.enableMath ||
		s.macroEscapeChar != o.macroEscapeChar ||
		s.commentStart != o.commentStart {
		return false
	}
	for r, v := range s.forbiddenCharacters {
		if o.forbiddenCharacters[r] != v {
			return false
		}
	}
	for r, v := range o.forbiddenCharacters {
		if s.forbiddenCharacters[r] != v {
			return false
		}
	}
	return delimSlicesEqual(s.groupDelimiters, o.groupDelimiters) &&
		delimSlicesEqual(s.inlineMathDelimiters, o.inlineMathDelimiters) &&
		delimSlicesEqual(s.displayMathDelimiters, o.displayMathDelimiters)
}

func delimSlicesEqual(a, b []DelimPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
