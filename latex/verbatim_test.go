package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVerbatim(t *testing.T, parser Parser, text string) (any, error) {
	t.Helper()
	w := NewWalker()
	state := NewParsingState(newTestContext())
	tr := NewTokenReader(text)
	result, _, err := w.ParseContent(parser, tr, state, OpenContextFrame{Description: "verbatim", Pos: 0})
	return result, err
}

func TestVerbatimBaseStopsAtCharacter(t *testing.T) {
	stop := func(ch rune, buffer string, state *ParsingState) bool { return ch == '!' }
	result, err := runVerbatim(t, NewVerbatimBaseParser(stop), "hello!world")
	require.NoError(t, err)
	n := result.(*Node)
	assert.Equal(t, "hello", n.Text())
}

func TestVerbatimBaseUnterminated(t *testing.T) {
	stop := func(ch rune, buffer string, state *ParsingState) bool { return ch == '!' }
	_, err := runVerbatim(t, NewVerbatimBaseParser(stop), "hello")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrVerbatimUnterminated, pe.Info.What)
}

func TestVerbatimBaseFinalize(t *testing.T) {
	stop := func(ch rune, buffer string, state *ParsingState) bool { return ch == '!' }
	upper := func(s string) string {
		b := []byte(s)
		for i := range b {
			if b[i] >= 'a' && b[i] <= 'z' {
				b[i] -= 32
			}
		}
		return string(b)
	}
	result, err := runVerbatim(t, NewVerbatimBaseParser(stop, WithVerbatimFinalize(upper)), "abc!")
	require.NoError(t, err)
	assert.Equal(t, "ABC", result.(*Node).Text())
}

func TestDelimitedVerbatimAutoDetectBraces(t *testing.T) {
	result, err := runVerbatim(t, NewDelimitedVerbatimParser(), "{a/b}c")
	require.NoError(t, err)
	n := result.(*Node)
	assert.Equal(t, NodeGroup, n.Kind())
	open, close := n.Delimiters()
	assert.Equal(t, "{", open)
	assert.Equal(t, "}", close)
	require.Equal(t, 1, n.NodeList().Len())
	assert.Equal(t, "a/b", n.NodeList().At(0).Text())
}

func TestDelimitedVerbatimSelfDelimited(t *testing.T) {
	result, err := runVerbatim(t, NewDelimitedVerbatimParser(), "|a{b|rest")
	require.NoError(t, err)
	n := result.(*Node)
	open, close := n.Delimiters()
	assert.Equal(t, "|", open)
	assert.Equal(t, "|", close)
	assert.Equal(t, "a{b", n.NodeList().At(0).Text())
}

func TestDelimitedVerbatimNesting(t *testing.T) {
	result, err := runVerbatim(t, NewDelimitedVerbatimParser(), "{a{b}c}d")
	require.NoError(t, err)
	n := result.(*Node)
	assert.Equal(t, "a{b}c", n.NodeList().At(0).Text())
}

func TestDelimitedVerbatimForcedDelimiters(t *testing.T) {
	result, err := runVerbatim(t, NewDelimitedVerbatimParser(WithForcedDelimiters('<', '>')), "<abc>x")
	require.NoError(t, err)
	n := result.(*Node)
	open, close := n.Delimiters()
	assert.Equal(t, "<", open)
	assert.Equal(t, ">", close)
}

func TestDelimitedVerbatimForcedDelimiterMismatch(t *testing.T) {
	_, err := runVerbatim(t, NewDelimitedVerbatimParser(WithForcedDelimiters('<', '>')), "{abc}")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrOpeningDelimiterNotFound, pe.Info.What)
}

func TestVerbatimEnvironmentScansToEndTag(t *testing.T) {
	result, err := runVerbatim(t, NewVerbatimEnvironmentParser("verbatim"), "\ncode & \\stuff\n\\end{verbatim}")
	require.NoError(t, err)
	n := result.(*Node)
	assert.Equal(t, "code & \\stuff\n", n.Text())
}

func TestVerbatimEnvironmentUnterminated(t *testing.T) {
	_, err := runVerbatim(t, NewVerbatimEnvironmentParser("verbatim"), "no end tag here")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrVerbatimUnterminated, pe.Info.What)
}
