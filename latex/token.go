package latex

// Token is a single lexical unit produced by the TokenReader.
//
// Pos/PosEnd are half-open byte offsets into the original source. PosEnd
// includes trailing whitespace gobbled for Macro and Comment tokens but
// never includes PreSpace, the whitespace skipped immediately before the
// token: Pos <= PosEnd always holds, and PosEnd-Pos equals the tokenized
// span including trailing whitespace but excluding leading whitespace.
type Token struct {
	Kind TokenKind

	// Payload is the token's string content: the literal character for
	// KindChar, the macro/environment name for KindMacro/KindBeginEnvironment/
	// KindEndEnvironment (without the escape character), the delimiter for
	// KindBraceOpen/KindBraceClose/KindMathInline/KindMathDisplay, or the
	// matched specials string for KindSpecials.
	Payload string

	// SpecialsSpec is set instead of (or alongside) Payload for KindSpecials
	// tokens, carrying the Spec the context database matched, if any.
	SpecialsSpec Spec

	Pos    Pos
	PosEnd Pos

	// PreSpace is whitespace immediately preceding this token, not included
	// in [Pos, PosEnd).
	PreSpace string

	// PostSpace is trailing whitespace absorbed into PosEnd for KindMacro
	// (when the macro name is alphabetic) and KindComment tokens.
	PostSpace string
}

// Len returns the byte length of the token's own span, excluding PreSpace.
func (t Token) Len() int { return int(t.PosEnd - t.Pos) }
