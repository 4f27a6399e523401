package latex

import (
	"fmt"
	"strings"
)

// ErrorWhat is a closed tag classifying a ParseError's construct-specific
// shape. Downstream consumers can switch on it instead of parsing
// Msg strings.
type ErrorWhat int

const (
	ErrUnknown ErrorWhat = iota
	ErrMismatchedClosingDelimiter
	ErrUnexpectedClosingEnvironment
	ErrUnexpectedClosingMathDelimiter
	ErrUnexpectedMathDelimiter
	ErrUnknownMacro
	ErrUnknownEnvironment
	ErrUnknownSpecials
	ErrExpressionExpected
	ErrMandatoryArgMacroAsExpression
	ErrBeginEndAsExpression
	ErrMalformedBeginEnd
	ErrBareEscapeAtEOF
	ErrOpeningDelimiterNotFound
	ErrForbiddenCharacter
	ErrArgumentNotChars
	ErrVerbatimUnterminated
)

func (w ErrorWhat) String() string {
	switch w {
	case ErrMismatchedClosingDelimiter:
		return "mismatched_closing_delimiter"
	case ErrUnexpectedClosingEnvironment:
		return "unexpected_closing_environment"
	case ErrUnexpectedClosingMathDelimiter:
		return "unexpected_closing_math_delimiter"
	case ErrUnexpectedMathDelimiter:
		return "unexpected_math_delimiter"
	case ErrUnknownMacro:
		return "unknown_macro"
	case ErrUnknownEnvironment:
		return "unknown_environment"
	case ErrUnknownSpecials:
		return "unknown_specials"
	case ErrExpressionExpected:
		return "expression_expected"
	case ErrMandatoryArgMacroAsExpression:
		return "mandatory_arg_macro_as_expression"
	case ErrBeginEndAsExpression:
		return "begin_end_as_expression"
	case ErrMalformedBeginEnd:
		return "malformed_begin_end"
	case ErrBareEscapeAtEOF:
		return "bare_escape_at_eof"
	case ErrOpeningDelimiterNotFound:
		return "opening_delimiter_not_found"
	case ErrForbiddenCharacter:
		return "forbidden_character"
	case ErrArgumentNotChars:
		return "argument_not_chars"
	case ErrVerbatimUnterminated:
		return "verbatim_unterminated"
	default:
		return "unknown"
	}
}

// ErrorTypeInfo is the structured, construct-specific payload of a
// ParseError.
type ErrorTypeInfo struct {
	What ErrorWhat
	// Construct names the macro/environment/specials/delimiter involved,
	// when applicable.
	Construct string
}

// OpenContextFrame is one frame of the diagnostic stack a ParseError
// accumulates as it propagates out through nested parse_content calls
type OpenContextFrame struct {
	Description string
	Pos         Pos
	Line, Col   int
}

// ParseError is the common shape of TokenParseError and NodesParseError.
// Both are represented by this one type, distinguished by Info.What;
// a dedicated Go type per error-what would fragment the recovery-handling
// code that treats them uniformly (recovery nodes/positions, tolerant-mode
// swallowing, open-context accumulation).
type ParseError struct {
	Msg         string
	Pos         Pos
	Line, Col   int
	InputSource string
	Info        ErrorTypeInfo

	// RecoveryNodes substitutes for the failed construct in tolerant mode.
	RecoveryNodes *NodeList
	// RecoveryAtToken/RecoveryPastToken tell the reader where to resume;
	// at most one is meaningful for a given error.
	RecoveryAtToken   *Token
	RecoveryPastToken *Token
	// RecoveryParsingStateDelta is applied in tolerant mode alongside the
	// recovery nodes, so downstream content sees a consistent state.
	RecoveryParsingStateDelta ParsingStateDelta

	OpenContexts []OpenContextFrame
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s @ (line %d, col %d)", e.Msg, e.Line, e.Col)
	for _, f := range e.OpenContexts {
		fmt.Fprintf(&sb, "\n@ (line %d, col %d)  %s", f.Line, f.Col, f.Description)
	}
	return sb.String()
}

// WithOpenContext returns a copy of e with an additional open-context frame
// appended, used by Walker.ParseContent to build the diagnostic stack as an
// error propagates out through nested constructs.
func (e *ParseError) WithOpenContext(frame OpenContextFrame) *ParseError {
	cp := *e
	cp.OpenContexts = append(append([]OpenContextFrame{}, e.OpenContexts...), frame)
	return &cp
}

// EndOfStreamError signals that the token reader has no more input. It is
// not a user-visible parse failure: callers are expected to check for it
// with errors.As and react, not to report it. FinalSpace carries any
// trailing whitespace the reader found before end of input, which
// process_one_token synthesizes into one last char token.
type EndOfStreamError struct {
	FinalSpace string
	HasFinal   bool
}

func (e *EndOfStreamError) Error() string { return "end of stream" }

// WalkerError signals programmer misuse of the API (e.g. a Spec returning
// a nil Parser where one is required), as opposed to a malformed input.
type WalkerError struct {
	Msg string
}

func (e *WalkerError) Error() string { return "latex: " + e.Msg }
