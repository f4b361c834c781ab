package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gohtml5/parser/internal/arena"
	"github.com/gohtml5/parser/internal/token"
)

// Case is one fixture in testdata/tree_construction/*.yaml: an input
// document plus its expected indented tree dump, in the spirit of
// html5lib-tests' #data/#document pairs but loaded as YAML instead of
// that format's ad hoc text grammar.
type Case struct {
	Name     string   `yaml:"name"`
	Input    string   `yaml:"input"`
	Expected []string `yaml:"expected"`
}

func loadCases(t *testing.T, path string) []Case {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	var cases []Case
	require.NoError(t, yaml.Unmarshal(raw, &cases), "parsing %s", path)
	return cases
}

// dump renders n's descendants as one line per node, indented two spaces
// per depth, skipping n itself (the document root has no line of its
// own, matching Case.Expected starting at "html").
func dump(n *Node) []string {
	var lines []string
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			indent := strings.Repeat("  ", depth)
			switch c.Kind {
			case ElementKind:
				lines = append(lines, indent+c.Element.Name)
			case TextKind:
				lines = append(lines, fmt.Sprintf("%s#text %q", indent, string(c.Text.Text.Data)))
			case WhitespaceKind:
				lines = append(lines, fmt.Sprintf("%s#text %q", indent, string(c.Whitespace.Text.Data)))
			case CommentKind:
				lines = append(lines, fmt.Sprintf("%s#comment %q", indent, string(c.Comment.Text.Data)))
			case CDATAKind:
				lines = append(lines, fmt.Sprintf("%s#cdata %q", indent, string(c.CDATA.Text.Data)))
			}
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return lines
}

func parseForTest(t *testing.T, input string) *Constructor {
	t.Helper()
	a := arena.New(0, nil, nil)
	tok := token.New([]byte(input), 8, nil)
	c := New(Config{Arena: a})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(tok.Tokens(), tok)
	}()
	tok.Run()
	<-done
	return c
}

func TestTreeConstruction(t *testing.T) {
	matches, err := filepath.Glob("../../testdata/tree_construction/*.yaml")
	require.NoError(t, err, "globbing fixtures")
	require.NotEmpty(t, matches, "no tree_construction fixtures found")

	for _, path := range matches {
		path := path
		for _, tc := range loadCases(t, path) {
			tc := tc
			t.Run(tc.Name, func(t *testing.T) {
				c := parseForTest(t, tc.Input)
				got := dump(c.Document)
				require.Equal(t, tc.Expected, got,
					"tree mismatch for %q\ngot:\n%s\nwant:\n%s",
					tc.Input, strings.Join(got, "\n"), strings.Join(tc.Expected, "\n"))
			})
		}
	}
}
