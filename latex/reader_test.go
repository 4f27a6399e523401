package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenReaderPlainChar(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader("ab")
	tok, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindChar, tok.Kind)
	assert.Equal(t, "a", tok.Payload)
	assert.Equal(t, "char", tok.Kind.String())
}

func TestTokenReaderMacroName(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader(`\textbf x`)
	tok, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindMacro, tok.Kind)
	assert.Equal(t, "textbf", tok.Payload)
	assert.Equal(t, " ", tok.PostSpace)
}

func TestTokenReaderMacroSingleNonAlpha(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader(`\@ x`)
	tok, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, "@", tok.Payload)
	assert.Equal(t, "", tok.PostSpace)
}

func TestTokenReaderBeginEnvironment(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader(`\begin{itemize}`)
	tok, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindBeginEnvironment, tok.Kind)
	assert.Equal(t, "itemize", tok.Payload)
	assert.Equal(t, "begin_environment", tok.Kind.String())
}

func TestTokenReaderEndEnvironment(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader(`\end{itemize}`)
	tok, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindEndEnvironment, tok.Kind)
	assert.Equal(t, "itemize", tok.Payload)
}

func TestTokenReaderMalformedBeginRecoversAsChars(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader(`\begin itemize`)
	_, err := r.NextToken(state)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrMalformedBeginEnd, pe.Info.What)
	require.NotNil(t, pe.RecoveryAtToken)
	assert.Equal(t, KindChar, pe.RecoveryAtToken.Kind)
}

func TestTokenReaderGroupDelimiters(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader(`{}`)
	open, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindBraceOpen, open.Kind)
	assert.Equal(t, "brace_open", open.Kind.String())
	close, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindBraceClose, close.Kind)
	assert.Equal(t, "brace_close", close.Kind.String())
}

func TestTokenReaderComment(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader("% hi\nafter")
	tok, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindComment, tok.Kind)
	assert.Equal(t, " hi", tok.Payload)
}

func TestTokenReaderMathInlineDollar(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader(`$x$`)
	open, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindMathInline, open.Kind)
	assert.Equal(t, "mathmode_inline", open.Kind.String())
}

func TestTokenReaderPeekDoesNotAdvance(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader("ab")
	first, err := r.PeekToken(state)
	require.NoError(t, err)
	second, err := r.PeekToken(state)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, Pos(0), r.CurPos())
}

func TestTokenReaderMoveToTokenRewindsPreSpace(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader("a  b")
	tokA, err := r.NextToken(state)
	require.NoError(t, err)
	tokB, err := r.NextToken(state)
	require.NoError(t, err)
	require.Equal(t, "b", tokB.Payload)

	r.MoveToToken(tokB, true)
	assert.Equal(t, tokA.PosEnd, r.CurPos())
}

func TestTokenReaderDoubleNewlineParagraph(t *testing.T) {
	state := NewParsingState(NewMapContextDB(), WithEnableDoubleNewlineParagraphs(true))
	r := NewTokenReader("a\n\nb")
	_, err := r.NextToken(state)
	require.NoError(t, err)
	tok, err := r.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, "\n\n", tok.Payload)
}

func TestTokenReaderEndOfStream(t *testing.T) {
	state := NewParsingState(NewMapContextDB())
	r := NewTokenReader("")
	_, err := r.NextToken(state)
	require.Error(t, err)
	var eos *EndOfStreamError
	require.ErrorAs(t, err, &eos)
}

func TestTokenReaderVerbatimEscapeHatch(t *testing.T) {
	r := NewTokenReader("abc")
	assert.True(t, r.AtString("abc"))
	assert.Equal(t, 'a', r.PeekRune())
	assert.Equal(t, 'a', r.EatRune())
	assert.False(t, r.Done())
	r.EatRune()
	r.EatRune()
	assert.True(t, r.Done())
}
