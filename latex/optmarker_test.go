package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOptMarker(t *testing.T, parser Parser, text string) *OptionalMarkerResult {
	t.Helper()
	w := NewWalker()
	state := NewParsingState(newTestContext())
	tr := NewTokenReader(text)
	result, _, err := w.ParseContent(parser, tr, state, OpenContextFrame{Description: "marker", Pos: 0})
	require.NoError(t, err)
	return result.(*OptionalMarkerResult)
}

func TestOptionalMarkerAbsent(t *testing.T) {
	result := runOptMarker(t, NewOptionalCharsMarkerParser([]string{"*"}), "abc")
	assert.False(t, result.Matched)
}

func TestOptionalMarkerPresent(t *testing.T) {
	result := runOptMarker(t, NewOptionalCharsMarkerParser([]string{"*"}), "*rest")
	assert.True(t, result.Matched)
	assert.Equal(t, "*", result.MatchedString)
}

func TestOptionalMarkerLongestCandidateWins(t *testing.T) {
	result := runOptMarker(t, NewOptionalCharsMarkerParser([]string{"*", "**"}), "**x")
	assert.True(t, result.Matched)
	assert.Equal(t, "**", result.MatchedString)
}

func TestOptionalMarkerBacktracksOnOvershoot(t *testing.T) {
	w := NewWalker()
	state := NewParsingState(newTestContext())
	tr := NewTokenReader("*x")
	result, _, err := w.ParseContent(NewOptionalCharsMarkerParser([]string{"**"}), tr, state, OpenContextFrame{Description: "marker", Pos: 0})
	require.NoError(t, err)
	m := result.(*OptionalMarkerResult)
	assert.False(t, m.Matched)
	assert.Equal(t, Pos(0), tr.CurPos())
}

func TestOptionalMarkerWithFollowingArgument(t *testing.T) {
	parser := NewOptionalCharsMarkerParser([]string{"*"}, WithFollowingArgumentParser(NewExpressionParser()))
	result := runOptMarker(t, parser, "*x")
	require.True(t, result.Matched)
	nl, ok := result.Value.(*NodeList)
	require.True(t, ok)
	require.Equal(t, 2, nl.Len())
	assert.Equal(t, NodeChars, nl.At(0).Kind())
	assert.Equal(t, "*", nl.At(0).Text())
	assert.Equal(t, "x", nl.At(1).Text())
}

func TestOptionalMarkerFollowingOnlyMode(t *testing.T) {
	parser := NewOptionalCharsMarkerParser([]string{"*"},
		WithFollowingArgumentParser(NewExpressionParser()),
		WithOptionalMarkerResultMode(MarkerResultFollowingOnly))
	result := runOptMarker(t, parser, "*x")
	require.True(t, result.Matched)
	n, ok := result.Value.(*Node)
	require.True(t, ok)
	assert.Equal(t, "x", n.Text())
}
