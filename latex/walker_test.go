package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringPlainChars(t *testing.T) {
	nl := mustParse("hello world")
	require.Equal(t, 1, nl.Len())
	assert.Equal(t, NodeChars, nl.At(0).Kind())
	assert.Equal(t, "hello world", nl.At(0).Text())
}

func TestParseStringMacroWithMandatoryArg(t *testing.T) {
	nl := mustParse(`\textbf{bold text}`)
	require.Equal(t, 1, nl.Len())
	n := nl.At(0)
	require.Equal(t, NodeMacro, n.Kind())
	assert.Equal(t, "textbf", n.Name())

	info, err := n.Args().Info().GetArgumentInfo(0)
	require.NoError(t, err)
	assert.True(t, info.WasProvided())
	text, err := info.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "bold text", text)
}

func TestParseStringOptionalArgAbsent(t *testing.T) {
	nl := mustParse(`\includegraphics{fig.png}`)
	require.Equal(t, 1, nl.Len())
	n := nl.At(0)
	info, err := n.Args().Info().GetArgumentInfo(0)
	require.NoError(t, err)
	assert.False(t, info.WasProvided())

	info2, err := n.Args().Info().GetArgumentInfo(1)
	require.NoError(t, err)
	require.True(t, info2.WasProvided())
	text, err := info2.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "fig.png", text)
}

func TestParseStringOptionalArgPresent(t *testing.T) {
	nl := mustParse(`\includegraphics[scale=0.5]{fig.png}`)
	n := nl.At(0)
	info, err := n.Args().Info().GetArgumentInfo(0)
	require.NoError(t, err)
	require.True(t, info.WasProvided())
	text, err := info.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "scale=0.5", text)
}

func TestParseStringStarMarker(t *testing.T) {
	nl := mustParse(`\section*{Intro}`)
	n := nl.At(0)
	star, err := n.Args().Info().GetArgumentInfo("star")
	require.NoError(t, err)
	assert.True(t, star.WasProvided())

	title, err := n.Args().Info().GetArgumentInfo("title")
	require.NoError(t, err)
	text, err := title.GetContentAsChars()
	require.NoError(t, err)
	assert.Equal(t, "Intro", text)
}

func TestParseStringStarMarkerAbsent(t *testing.T) {
	nl := mustParse(`\section{Intro}`)
	n := nl.At(0)
	star, err := n.Args().Info().GetArgumentInfo("star")
	require.NoError(t, err)
	assert.False(t, star.WasProvided())
}

func TestParseStringGroup(t *testing.T) {
	nl := mustParse(`{\emph{x}}`)
	require.Equal(t, 1, nl.Len())
	n := nl.At(0)
	require.Equal(t, NodeGroup, n.Kind())
	open, close := n.Delimiters()
	assert.Equal(t, "{", open)
	assert.Equal(t, "}", close)
	require.Equal(t, 1, n.NodeList().Len())
	assert.Equal(t, NodeMacro, n.NodeList().At(0).Kind())
}

func TestParseStringEnvironment(t *testing.T) {
	nl := mustParse("\\begin{center}\nhi\n\\end{center}")
	require.Equal(t, 1, nl.Len())
	n := nl.At(0)
	require.Equal(t, NodeEnvironment, n.Kind())
	assert.Equal(t, "center", n.Name())
	body := n.Body()
	require.NotNil(t, body)
	assert.Greater(t, body.Len(), 0)
}

func TestParseStringUnknownMacroTolerant(t *testing.T) {
	w := NewWalker(WithTolerantParsing(true))
	nl, err := w.ParseString(`a \unknownmacro b`, newTestContext())
	require.NoError(t, err)
	var texts []string
	for _, n := range nl.Items() {
		if n.Kind() == NodeChars {
			texts = append(texts, n.Text())
		}
	}
	assert.Contains(t, texts, "a ")
}

func TestParseStringUnknownMacroStrict(t *testing.T) {
	w := NewWalker()
	_, err := w.ParseString(`a \unknownmacro b`, newTestContext())
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrUnknownMacro, pe.Info.What)
}

func TestParseStringMathInline(t *testing.T) {
	nl := mustParse(`before $x+y$ after`)
	require.Equal(t, 3, nl.Len())
	math := nl.At(1)
	require.Equal(t, NodeMath, math.Kind())
	assert.Equal(t, Inline, math.Display())
	open, close := math.Delimiters()
	assert.Equal(t, "$", open)
	assert.Equal(t, "$", close)
}

func TestParseStringMathDisplayBrackets(t *testing.T) {
	nl := mustParse(`\[x=y\]`)
	require.Equal(t, 1, nl.Len())
	math := nl.At(0)
	assert.Equal(t, Display, math.Display())
}

func TestParseStringComment(t *testing.T) {
	nl := mustParse("a %comment\nb")
	var sawComment bool
	for _, n := range nl.Items() {
		if n.Kind() == NodeComment {
			sawComment = true
			assert.Equal(t, "comment", n.Text())
		}
	}
	assert.True(t, sawComment)
}

func TestParseStringSpecials(t *testing.T) {
	nl := mustParse(`a~b`)
	var sawSpecials bool
	for _, n := range nl.Items() {
		if n.Kind() == NodeSpecials {
			sawSpecials = true
			assert.Equal(t, "~", n.Chars())
		}
	}
	assert.True(t, sawSpecials)
}

func TestParseStringSpecialsLongestMatch(t *testing.T) {
	db := NewMapContextDB()
	db.AddSpecials("-", &simpleSpec{name: "hyphen"})
	db.AddSpecials("--", &simpleSpec{name: "endash"})
	db.AddSpecials("---", &simpleSpec{name: "emdash"})
	w := NewWalker()
	nl, err := w.ParseString("a---b", db)
	require.NoError(t, err)
	var names []string
	for _, n := range nl.Items() {
		if n.Kind() == NodeSpecials {
			names = append(names, n.Chars())
		}
	}
	require.Len(t, names, 1)
	assert.Equal(t, "---", names[0])
}
