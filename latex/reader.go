package latex

import (
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TokenReader is a character-level cursor over an input string that
// produces Tokens on demand, context-sensitively, per the parsing state
// passed to each call. It assumes random access to the input rather than
// streaming it, needed for verbatim scanning and position rewinding.
type TokenReader struct {
	sc       *scanner
	tolerant bool
	posIndex *positionIndex
}

// NewTokenReader builds a token reader over text.
func NewTokenReader(text string) *TokenReader {
	return &TokenReader{sc: newScanner(text)}
}

// NewTokenReaderFromReader reads all of r, strips a leading UTF-8 BOM if
// present (via golang.org/x/text/encoding/unicode, so a host handing the
// core an *os.File never throws off the byte-offset tokenizer with an
// invisible BOM), and builds a TokenReader over the result.
func NewTokenReaderFromReader(r io.Reader) (*TokenReader, error) {
	decoder := unicode.BOMOverride(transform.Nop)
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, err
	}
	return NewTokenReader(string(data)), nil
}

// SetTolerant enables or disables tolerant-mode recovery substitution in
// NextToken. Walker sets this once, at reader construction time, to
// match its own tolerant flag.
func (r *TokenReader) SetTolerant(v bool) { r.tolerant = v }
func (r *TokenReader) Tolerant() bool     { return r.tolerant }

// CurPos returns the reader's current byte offset.
func (r *TokenReader) CurPos() Pos { return Pos(r.sc.Cursor()) }

// FinalPos returns the byte length of the input.
func (r *TokenReader) FinalPos() Pos { return Pos(r.sc.Len()) }

// PositionOf resolves a byte offset to a 1-indexed (line, col) pair,
// lazily building and caching a grapheme-aware index over the source text
func (r *TokenReader) PositionOf(pos Pos) Position {
	if r.posIndex == nil {
		r.posIndex = newPositionIndex(r.sc.text)
	}
	return r.posIndex.At(pos)
}

// PeekToken reads the next token without advancing the cursor.
func (r *TokenReader) PeekToken(state *ParsingState) (Token, error) {
	return r.tokenizeAt(r.sc.Cursor(), state)
}

// NextToken reads the next token and advances the cursor past its PosEnd.
// In tolerant mode, a TokenParseError carrying a recovery
// placeholder is swallowed: the placeholder token is returned and the
// cursor advances to the recovery position instead of propagating the
// error.
func (r *TokenReader) NextToken(state *ParsingState) (Token, error) {
	tok, err := r.tokenizeAt(r.sc.Cursor(), state)
	if err != nil {
		var pe *ParseError
		if r.tolerant && errors.As(err, &pe) && pe.RecoveryAtToken != nil {
			placeholder := *pe.RecoveryAtToken
			r.sc.Jump(int(placeholder.PosEnd))
			return placeholder, nil
		}
		return tok, err
	}
	r.sc.Jump(int(tok.PosEnd))
	return tok, nil
}

// MoveToToken rewinds the cursor to the start of tok. If rewindPreSpace is
// true, the cursor is placed before tok's PreSpace
// too, so the whitespace will be re-tokenized; otherwise it is placed
// exactly at tok.Pos.
func (r *TokenReader) MoveToToken(tok Token, rewindPreSpace bool) {
	if rewindPreSpace {
		r.sc.Jump(int(tok.Pos) - len(tok.PreSpace))
	} else {
		r.sc.Jump(int(tok.Pos))
	}
}

// MovePastToken advances the cursor past tok. If fastforwardPostSpace is
// true (the default), the cursor lands at tok.PosEnd, after tok's
// PostSpace; otherwise it lands at tok.PosEnd minus PostSpace, right after
// the token's own text. Only Macro and Comment tokens carry PostSpace, so
// passing false only matters for those kinds.
func (r *TokenReader) MovePastToken(tok Token, fastforwardPostSpace bool) {
	if fastforwardPostSpace {
		r.sc.Jump(int(tok.PosEnd))
	} else {
		r.sc.Jump(int(tok.PosEnd) - len(tok.PostSpace))
	}
}

// SkipSpaceChars advances past a whitespace run at the current position
// per the whitespace policy of peekSpaceChars, and returns the skipped
// text and its [start, end) span.
func (r *TokenReader) SkipSpaceChars(state *ParsingState) (string, Pos, Pos) {
	space, start, end := r.peekSpaceChars(r.sc.Cursor(), state)
	r.sc.Jump(end)
	return space, Pos(start), Pos(end)
}

// --- character-level escape hatch ---

// PeekChars returns up to n bytes starting at the current position without
// advancing.
func (r *TokenReader) PeekChars(n int) string {
	return r.sc.Get(r.sc.Cursor(), r.sc.Cursor()+n)
}

// NextChars returns up to n bytes starting at the current position and
// advances past them.
func (r *TokenReader) NextChars(n int) string {
	s := r.PeekChars(n)
	r.sc.Jump(r.sc.Cursor() + len(s))
	return s
}

// MoveToPosChars sets the cursor to an arbitrary byte offset.
func (r *TokenReader) MoveToPosChars(pos Pos) { r.sc.Jump(int(pos)) }

// PeekRune returns the next rune without consuming it, for verbatim
// scanners that need to inspect one rune at a time.
func (r *TokenReader) PeekRune() rune { return r.sc.Peek() }

// EatRune consumes and returns the next rune.
func (r *TokenReader) EatRune() rune { return r.sc.Eat() }

// AtString reports whether the text at the current position equals s.
func (r *TokenReader) AtString(s string) bool { return r.sc.At(s) }

// Done reports whether the cursor has reached the end of input.
func (r *TokenReader) Done() bool { return r.sc.Done() }

// --- whitespace policy ---

// peekSpaceChars advances a copy of the scan starting at pos over a
// whitespace run, stopping immediately before a literal "\n\n" when
// enable_double_newline_paragraphs is set, so that run becomes its own
// token. Returns the skipped text and its [start, end) span.
func (r *TokenReader) peekSpaceChars(pos int, state *ParsingState) (string, int, int) {
	text := r.sc.text
	cur := pos
	for cur < len(text) {
		if state.EnableDoubleNewlineParagraphs() && cur+1 < len(text) && text[cur] == '\n' && text[cur+1] == '\n' {
			break
		}
		ru, size := utf8.DecodeRuneInString(text[cur:])
		if !isSpaceRune(ru) {
			break
		}
		cur += size
	}
	return text[pos:cur], pos, cur
}

func isNewlineRune(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || isNewlineRune(r)
}

// --- token production ---

// tokenizeAt produces the token starting at (or after whitespace from) pos,
// without mutating the reader's cursor.
func (r *TokenReader) tokenizeAt(pos int, state *ParsingState) (Token, error) {
	text := r.sc.text

	preSpace, _, tokStart := r.peekSpaceChars(pos, state)

	if tokStart >= len(text) {
		return Token{PreSpace: preSpace, Pos: Pos(tokStart), PosEnd: Pos(tokStart)},
			&EndOfStreamError{FinalSpace: preSpace, HasFinal: preSpace != ""}
	}

	// Step 3: double-newline paragraph break.
	if state.EnableDoubleNewlineParagraphs() && tokStart+1 < len(text) &&
		text[tokStart] == '\n' && text[tokStart+1] == '\n' {
		if spec, matched, ok := state.Context().TestForSpecials(text, tokStart, state); ok && matched == "\n\n" {
			return Token{
				Kind: KindSpecials, Payload: matched, SpecialsSpec: spec,
				Pos: Pos(tokStart), PosEnd: Pos(tokStart + 2), PreSpace: preSpace,
			}, nil
		}
		return Token{
			Kind: KindChar, Payload: "\n\n",
			Pos: Pos(tokStart), PosEnd: Pos(tokStart + 2), PreSpace: preSpace,
		}, nil
	}

	// Step 4: math-mode delimiters.
	if state.EnableMath() {
		if tok, ok := r.tryMathToken(text, tokStart, preSpace, state); ok {
			return tok, nil
		}
	}

	c, cSize := utf8.DecodeRuneInString(text[tokStart:])

	// Step 5: macro escape character.
	if c == state.MacroEscapeChar() {
		return r.tokenizeEscape(text, tokStart, cSize, preSpace, state)
	}

	// Step 6: comments.
	if c == state.CommentStart() && state.EnableComments() {
		return r.tokenizeComment(text, tokStart, cSize, preSpace, state), nil
	}

	// Step 7: group delimiters.
	if state.EnableGroups() {
		if open, ok := longestMatch(text, tokStart, openDelims(state.GroupDelimiters())); ok {
			return Token{Kind: KindBraceOpen, Payload: open, Pos: Pos(tokStart), PosEnd: Pos(tokStart + len(open)), PreSpace: preSpace}, nil
		}
		if close, ok := longestMatch(text, tokStart, closeDelims(state.GroupDelimiters())); ok {
			return Token{Kind: KindBraceClose, Payload: close, Pos: Pos(tokStart), PosEnd: Pos(tokStart + len(close)), PreSpace: preSpace}, nil
		}
	}

	// Step 8: specials.
	if state.EnableSpecials() {
		if spec, matched, ok := state.Context().TestForSpecials(text, tokStart, state); ok {
			return Token{
				Kind: KindSpecials, Payload: matched, SpecialsSpec: spec,
				Pos: Pos(tokStart), PosEnd: Pos(tokStart + len(matched)), PreSpace: preSpace,
			}, nil
		}
	}

	// Step 9: plain character.
	if state.IsForbidden(c) {
		placeholder := Token{Kind: KindChar, Payload: string(c), Pos: Pos(tokStart), PosEnd: Pos(tokStart + cSize), PreSpace: preSpace}
		p := r.PositionOf(Pos(tokStart))
		return Token{}, &ParseError{
			Msg: "forbidden character " + string(c), Pos: Pos(tokStart), Line: p.Line, Col: p.Col,
			Info:              ErrorTypeInfo{What: ErrForbiddenCharacter, Construct: string(c)},
			RecoveryAtToken:   &placeholder,
			RecoveryPastToken: &placeholder,
		}
	}
	return Token{Kind: KindChar, Payload: string(c), Pos: Pos(tokStart), PosEnd: Pos(tokStart + cSize), PreSpace: preSpace}, nil
}

func (r *TokenReader) tryMathToken(text string, pos int, preSpace string, state *ParsingState) (Token, bool) {
	if state.InMathMode() {
		close := state.ExpectedMathClose()
		if close != "" && len(text) >= pos+len(close) && text[pos:pos+len(close)] == close {
			for _, e := range state.MathDelimiters() {
				if e.Open == state.MathModeDelimiter() {
					kind := KindMathInline
					if e.Display == Display {
						kind = KindMathDisplay
					}
					return Token{Kind: kind, Payload: close, Pos: Pos(pos), PosEnd: Pos(pos + len(close)), PreSpace: preSpace}, true
				}
			}
		}
	}
	for _, e := range state.MathDelimiters() {
		if len(text) >= pos+len(e.Open) && text[pos:pos+len(e.Open)] == e.Open {
			kind := KindMathInline
			if e.Display == Display {
				kind = KindMathDisplay
			}
			return Token{Kind: kind, Payload: e.Open, Pos: Pos(pos), PosEnd: Pos(pos + len(e.Open)), PreSpace: preSpace}, true
		}
	}
	return Token{}, false
}

// environmentNameChar matches [A-Za-z0-9* ._-], the character class allowed
// in `\begin{envname}`/`\end{envname}`.
func environmentNameChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '*' || r == ' ' || r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}

func (r *TokenReader) tokenizeEscape(text string, pos, escSize int, preSpace string, state *ParsingState) (Token, error) {
	nameStart := pos + escSize

	if state.EnableEnvironments() {
		for _, word := range [...]struct {
			text string
			kind TokenKind
		}{{"begin", KindBeginEnvironment}, {"end", KindEndEnvironment}} {
			w := word.text
			if len(text) < nameStart+len(w) || text[nameStart:nameStart+len(w)] != w {
				continue
			}
			boundary := nameStart + len(w)
			if boundary < len(text) {
				br, _ := utf8.DecodeRuneInString(text[boundary:])
				if state.MacroAlphaChars()(br) {
					continue // e.g. "\beginfoo" is one macro name, not \begin
				}
			}
			return r.tokenizeBeginEnd(text, pos, boundary, preSpace, word.kind)
		}
	}

	if !state.EnableMacros() {
		return Token{Kind: KindChar, Payload: string(state.MacroEscapeChar()), Pos: Pos(pos), PosEnd: Pos(pos + escSize), PreSpace: preSpace}, nil
	}

	if nameStart >= len(text) {
		placeholder := Token{Kind: KindMacro, Payload: "", Pos: Pos(pos), PosEnd: Pos(nameStart), PreSpace: preSpace}
		p := r.PositionOf(Pos(pos))
		return Token{}, &ParseError{
			Msg: "bare escape character at end of input", Pos: Pos(pos), Line: p.Line, Col: p.Col,
			Info:              ErrorTypeInfo{What: ErrBareEscapeAtEOF},
			RecoveryAtToken:   &placeholder,
			RecoveryPastToken: &placeholder,
		}
	}

	c, _ := utf8.DecodeRuneInString(text[nameStart:])
	var nameEnd int
	if state.MacroAlphaChars()(c) {
		end := nameStart
		for end < len(text) {
			ru, size := utf8.DecodeRuneInString(text[end:])
			if !state.MacroAlphaChars()(ru) {
				break
			}
			end += size
		}
		nameEnd = end
	} else {
		_, size := utf8.DecodeRuneInString(text[nameStart:])
		nameEnd = nameStart + size
	}

	name := text[nameStart:nameEnd]
	postSpace := ""
	tokEnd := nameEnd
	if state.MacroAlphaChars()(c) {
		space, _, end := r.peekSpaceChars(nameEnd, state)
		postSpace = space
		tokEnd = end
	}

	return Token{
		Kind: KindMacro, Payload: name, Pos: Pos(pos), PosEnd: Pos(tokEnd),
		PreSpace: preSpace, PostSpace: postSpace,
	}, nil
}

func (r *TokenReader) tokenizeBeginEnd(text string, pos, afterWord int, preSpace string, kind TokenKind) (Token, error) {
	i := afterWord
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i >= len(text) || text[i] != '{' {
		return r.malformedBeginEnd(text, pos, afterWord, preSpace)
	}
	i++
	nameStart := i
	for i < len(text) {
		ru, size := utf8.DecodeRuneInString(text[i:])
		if ru == '}' {
			break
		}
		if !environmentNameChar(ru) {
			return r.malformedBeginEnd(text, pos, afterWord, preSpace)
		}
		i += size
	}
	if i >= len(text) || text[i] != '}' || i == nameStart {
		return r.malformedBeginEnd(text, pos, afterWord, preSpace)
	}
	name := text[nameStart:i]
	return Token{Kind: kind, Payload: name, Pos: Pos(pos), PosEnd: Pos(i + 1), PreSpace: preSpace}, nil
}

func (r *TokenReader) malformedBeginEnd(text string, pos, afterWord int, preSpace string) (Token, error) {
	placeholder := Token{Kind: KindChar, Payload: text[pos:afterWord], Pos: Pos(pos), PosEnd: Pos(afterWord), PreSpace: preSpace}
	p := r.PositionOf(Pos(pos))
	return Token{}, &ParseError{
		Msg: "malformed \\begin/\\end construct", Pos: Pos(pos), Line: p.Line, Col: p.Col,
		Info:              ErrorTypeInfo{What: ErrMalformedBeginEnd},
		RecoveryAtToken:   &placeholder,
		RecoveryPastToken: &placeholder,
	}
}

func (r *TokenReader) tokenizeComment(text string, pos, markerSize int, preSpace string, state *ParsingState) Token {
	bodyStart := pos + markerSize
	i := bodyStart
	for i < len(text) && !isNewlineRune(rune(text[i])) {
		i++
	}
	body := text[bodyStart:i]
	postSpace := ""
	tokEnd := i
	if i < len(text) {
		space, _, end := r.peekSpaceChars(i, state)
		postSpace = space
		tokEnd = end
	}
	return Token{Kind: KindComment, Payload: body, Pos: Pos(pos), PosEnd: Pos(tokEnd), PreSpace: preSpace, PostSpace: postSpace}
}

func openDelims(pairs []DelimPair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Open
	}
	return out
}

func closeDelims(pairs []DelimPair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Close
	}
	return out
}

// longestMatch returns the longest candidate that matches text at pos.
func longestMatch(text string, pos int, candidates []string) (string, bool) {
	best := ""
	for _, c := range candidates {
		if len(c) > len(best) && len(text) >= pos+len(c) && text[pos:pos+len(c)] == c {
			best = c
		}
	}
	return best, best != ""
}
