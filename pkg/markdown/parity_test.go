package markdown_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

// Sundown-lineage Markdown and CommonMark disagree in plenty of
// corners, but on the unambiguous core they must not. These cases
// cross-check the renderer against goldmark as an independent oracle.
func TestCommonCoreParity(t *testing.T) {
	inputs := []string{
		"plain text\n",
		"*em* and **strong**\n",
		"**hello**\n",
		"`code`\n",
		"# Title\n",
		"## Sub\n",
		"> q1\n> q2\n",
		"1. a\n2. b\n",
		"- a\n- b\n",
	}

	gm := goldmark.New()
	for _, input := range inputs {
		var oracle bytes.Buffer
		require.NoError(t, gm.Convert([]byte(input), &oracle))

		got := render(t, 0, 0, input)
		require.Equal(t, oracle.String(), got, "input %q", input)
	}
}
