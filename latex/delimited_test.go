package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupParserUnclosedIsError(t *testing.T) {
	w := NewWalker()
	state := NewParsingState(newTestContext())
	tr := NewTokenReader(`{abc`)
	_, _, err := w.ParseContent(w.MakeLatexGroupParser("{"), tr, state, OpenContextFrame{Description: "group", Pos: 0})
	require.Error(t, err)
	var eos *EndOfStreamError
	require.ErrorAs(t, err, &eos)
}

func TestGroupParserNestedGroups(t *testing.T) {
	nl := mustParse(`{a{b}c}`)
	require.Equal(t, 1, nl.Len())
	outer := nl.At(0)
	require.Equal(t, NodeGroup, outer.Kind())
	require.Equal(t, 3, outer.NodeList().Len())
	inner := outer.NodeList().At(1)
	assert.Equal(t, NodeGroup, inner.Kind())
	assert.Equal(t, "b", inner.NodeList().At(0).Text())
}

func TestCustomGroupParserOptionalMissingReturnsNil(t *testing.T) {
	w := NewWalker()
	state := NewParsingState(newTestContext())
	tr := NewTokenReader(`notabracket`)
	result, _, err := w.ParseContent(NewCustomGroupParser("[", "]", true), tr, state, OpenContextFrame{Description: "opt group", Pos: 0})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, Pos(0), tr.CurPos())
}

func TestCustomGroupParserRequiredMissingIsError(t *testing.T) {
	w := NewWalker()
	state := NewParsingState(newTestContext())
	tr := NewTokenReader(`notabracket`)
	_, _, err := w.ParseContent(NewCustomGroupParser("[", "]", false), tr, state, OpenContextFrame{Description: "req group", Pos: 0})
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrOpeningDelimiterNotFound, pe.Info.What)
}

func TestMathGroupContainsMacroNode(t *testing.T) {
	nl := mustParse(`$\textbf{x}$`)
	math := nl.At(0)
	require.Equal(t, NodeMath, math.Kind())
	require.Equal(t, 1, math.NodeList().Len())
	assert.Equal(t, NodeMacro, math.NodeList().At(0).Kind())
}
