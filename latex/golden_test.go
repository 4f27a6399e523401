package latex

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed golden_fixture.yaml
var goldenFixtureYAML string

// goldenNode is the assertion-only shape a fixture's expected node tree is
// decoded into: kind name, text (for Chars/Comment/Specials/Macro/
// Environment), and immediate child count, not a full node reconstruction.
type goldenNode struct {
	Kind     string `yaml:"kind"`
	Text     string `yaml:"text"`
	Children int    `yaml:"children"`
}

type goldenCase struct {
	Name  string       `yaml:"name"`
	Input string       `yaml:"input"`
	Nodes []goldenNode `yaml:"nodes"`
}

func loadGoldenCases(t *testing.T) []goldenCase {
	t.Helper()
	var cases []goldenCase
	require.NoError(t, yaml.Unmarshal([]byte(goldenFixtureYAML), &cases))
	require.NotEmpty(t, cases)
	return cases
}

func nodeText(n *Node) string {
	switch n.Kind() {
	case NodeChars, NodeComment:
		return n.Text()
	case NodeSpecials:
		return n.Chars()
	case NodeMacro, NodeEnvironment:
		return n.Name()
	default:
		return ""
	}
}

func nodeChildren(n *Node) int {
	switch n.Kind() {
	case NodeGroup, NodeMath:
		return n.NodeList().Len()
	case NodeEnvironment:
		return n.Body().Len()
	default:
		return 0
	}
}

func TestGoldenFixtures(t *testing.T) {
	for _, tc := range loadGoldenCases(t) {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			nl := mustParse(tc.Input)
			require.Equal(t, len(tc.Nodes), nl.Len(), "node count mismatch for %q", tc.Input)
			for i, want := range tc.Nodes {
				got := nl.At(i)
				assert.Equal(t, want.Kind, got.Kind().String(), "node %d kind", i)
				assert.Equal(t, want.Text, nodeText(got), "node %d text", i)
				assert.Equal(t, want.Children, nodeChildren(got), "node %d children", i)
			}
		})
	}
}
