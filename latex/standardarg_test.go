package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgList(t *testing.T, specs, names []string, text string) *ParsedArguments {
	t.Helper()
	parser, err := NewArgumentListParser(specs, names)
	require.NoError(t, err)
	w := NewWalker()
	state := NewParsingState(newTestContext())
	tr := NewTokenReader(text)
	result, _, err := w.ParseContent(parser, tr, state, OpenContextFrame{Description: "args", Pos: 0})
	require.NoError(t, err)
	return result.(*ParsedArguments)
}

func TestStandardArgMandatory(t *testing.T) {
	args := runArgList(t, []string{"m"}, []string{"title"}, "{Hello}")
	info, err := args.Info().GetArgumentInfo("title")
	require.NoError(t, err)
	require.True(t, info.WasProvided())
	text, err := info.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}

func TestStandardArgOptionalBracketAbsent(t *testing.T) {
	args := runArgList(t, []string{"o", "m"}, []string{"opt", "req"}, "{Body}")
	optInfo, err := args.Info().GetArgumentInfo("opt")
	require.NoError(t, err)
	assert.False(t, optInfo.WasProvided())
	reqInfo, err := args.Info().GetArgumentInfo("req")
	require.NoError(t, err)
	require.True(t, reqInfo.WasProvided())
}

func TestStandardArgOptionalBracketPresent(t *testing.T) {
	args := runArgList(t, []string{"o"}, []string{"opt"}, "[value]")
	info, err := args.Info().GetArgumentInfo("opt")
	require.NoError(t, err)
	require.True(t, info.WasProvided())
	text, err := info.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "value", text)
}

func TestStandardArgStarMarker(t *testing.T) {
	args := runArgList(t, []string{"s"}, []string{"star"}, "*")
	info, err := args.Info().GetArgumentInfo("star")
	require.NoError(t, err)
	assert.True(t, info.WasProvided())
}

func TestStandardArgCustomTokenMarker(t *testing.T) {
	args := runArgList(t, []string{"t+"}, []string{"plus"}, "+")
	info, err := args.Info().GetArgumentInfo("plus")
	require.NoError(t, err)
	assert.True(t, info.WasProvided())
}

func TestStandardArgRequiredCustomDelimiters(t *testing.T) {
	args := runArgList(t, []string{"r<>"}, []string{"angled"}, "<content>")
	info, err := args.Info().GetArgumentInfo("angled")
	require.NoError(t, err)
	require.True(t, info.WasProvided())
	text, err := info.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "content", text)
}

func TestStandardArgVerbatim(t *testing.T) {
	args := runArgList(t, []string{"v"}, []string{"raw"}, "|a{b|")
	info, err := args.Info().GetArgumentInfo("raw")
	require.NoError(t, err)
	require.True(t, info.WasProvided())
	text, err := info.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "a{b", text)
}

func TestNewStandardArgumentParserUnrecognizedSpec(t *testing.T) {
	_, err := NewStandardArgumentParser("q")
	require.Error(t, err)
}
