package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These mirror the concrete worked examples used to validate the tokenizer
// and parser pipeline end to end, rather than one layer in isolation.

func TestScenarioMacroThenEmptyGroup(t *testing.T) {
	db := NewMapContextDB()
	db.AddMacro("yourname", &simpleSpec{name: "yourname"})
	w := NewWalker()
	nl, err := w.ParseString("Hello, \\yourname. {}", db)
	require.NoError(t, err)
	require.Equal(t, 4, nl.Len())

	assert.Equal(t, NodeChars, nl.At(0).Kind())
	assert.Equal(t, "Hello, ", nl.At(0).Text())

	assert.Equal(t, NodeMacro, nl.At(1).Kind())
	assert.Equal(t, "yourname", nl.At(1).Name())

	assert.Equal(t, NodeChars, nl.At(2).Kind())
	assert.Equal(t, ". ", nl.At(2).Text())

	assert.Equal(t, NodeGroup, nl.At(3).Kind())
	assert.Equal(t, 0, nl.At(3).NodeList().Len())
}

func TestScenarioEmptyInlineMathThenChars(t *testing.T) {
	nl := mustParse("$ $, hello")
	require.Equal(t, 2, nl.Len())

	math := nl.At(0)
	assert.Equal(t, NodeMath, math.Kind())
	assert.Equal(t, Inline, math.Display())
	assert.Equal(t, 0, math.NodeList().Len())

	assert.Equal(t, NodeChars, nl.At(1).Kind())
	assert.Equal(t, ", hello", nl.At(1).Text())
}

func TestScenarioDelimitedVerbatimPipes(t *testing.T) {
	w := NewWalker()
	state := NewParsingState(NewMapContextDB())
	tr := NewTokenReader("|verbatim|")
	result, _, err := w.ParseContent(NewDelimitedVerbatimParser(), tr, state, OpenContextFrame{Description: "verbatim", Pos: 0})
	require.NoError(t, err)
	group := result.(*Node)
	open, close := group.Delimiters()
	assert.Equal(t, "|", open)
	assert.Equal(t, "|", close)
	require.Equal(t, 1, group.NodeList().Len())
	chars := group.NodeList().At(0)
	assert.Equal(t, "verbatim", chars.Text())

	charsState := chars.ParsingState()
	assert.False(t, charsState.EnableMacros())
	assert.False(t, charsState.EnableEnvironments())
	assert.False(t, charsState.EnableSpecials())
	assert.False(t, charsState.EnableGroups())
	assert.False(t, charsState.EnableComments())
	assert.False(t, charsState.EnableMath())
}

func TestScenarioVerbatimEnvironmentGobblesLeadingNewline(t *testing.T) {
	w := NewWalker()
	state := NewParsingState(NewMapContextDB())
	tr := NewTokenReader("\\begin{verbatim}\n\\macro % not comment\n\\end{verbatim}")
	_, err := tr.NextToken(state) // consume \begin{verbatim}
	require.NoError(t, err)

	result, _, err := w.ParseContent(NewVerbatimEnvironmentParser("verbatim"), tr, state, OpenContextFrame{Description: "verbatim body", Pos: tr.CurPos()})
	require.NoError(t, err)
	chars := result.(*Node)
	assert.Equal(t, "\\macro % not comment\n", chars.Text())

	assert.True(t, tr.AtString(`\end{verbatim}`))
}

func TestScenarioDoubleDollarIsTwoInlineDelimiters(t *testing.T) {
	db := NewMapContextDB()
	db.AddMacro("zeta", &simpleSpec{name: "zeta"})
	db.AddMacro("gamma", &simpleSpec{name: "gamma"})
	state := NewParsingState(db, WithInMathMode(true, "$"))
	tr := NewTokenReader(`\zeta$$\gamma$`)

	tok1, err := tr.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindMacro, tok1.Kind)
	assert.Equal(t, "zeta", tok1.Payload)

	tok2, err := tr.NextToken(state)
	require.NoError(t, err)
	assert.Equal(t, KindMathInline, tok2.Kind)
	assert.Equal(t, "$", tok2.Payload)

	// Leaving math mode: the reader is handed a fresh, not-in-math state for
	// what follows, matching how the delimited-expression engine transitions.
	outState := state.SubContext(WithInMathMode(false, ""))
	tok3, err := tr.NextToken(outState)
	require.NoError(t, err)
	assert.Equal(t, KindMathInline, tok3.Kind)
	assert.Equal(t, "$", tok3.Payload)

	inState := outState.SubContext(WithInMathMode(true, "$"))
	tok4, err := tr.NextToken(inState)
	require.NoError(t, err)
	assert.Equal(t, KindMacro, tok4.Kind)
	assert.Equal(t, "gamma", tok4.Payload)

	tok5, err := tr.NextToken(inState)
	require.NoError(t, err)
	assert.Equal(t, KindMathInline, tok5.Kind)
	assert.Equal(t, "$", tok5.Payload)
}
