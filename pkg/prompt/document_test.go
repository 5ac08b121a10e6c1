package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modekit/modekit/pkg/prompt"
)

func TestParseChatmode(t *testing.T) {
	raw := `---
description: Break work into steps
tools:
  - search
  - edit
model: gpt-4
---
# Planner

Plan before acting.
`
	doc, err := prompt.Parse("planner", prompt.KindChatmode, []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "planner", doc.Name)
	assert.Equal(t, prompt.KindChatmode, doc.Kind)
	assert.Equal(t, "Break work into steps", doc.Description())
	assert.Equal(t, []string{"search", "edit"}, doc.Tools())
	assert.Equal(t, "# Planner\n\nPlan before acting.\n", doc.Body)

	model, ok := doc.Header.Get("model")
	require.True(t, ok)
	assert.Equal(t, "gpt-4", model)
}

func TestParseRoundTrip(t *testing.T) {
	raw := `---
model: gpt-4
description: Break work into steps
source_url: https://example.com/planner.chatmode.md
tools: [search, edit]
---
body text
`
	doc, err := prompt.Parse("planner", prompt.KindChatmode, []byte(raw))
	require.NoError(t, err)

	out, err := prompt.Serialize(doc)
	require.NoError(t, err)

	again, err := prompt.Parse("planner", prompt.KindChatmode, out)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestSerializeCanonicalKeyOrder(t *testing.T) {
	raw := `---
zebra: z
tools:
  - search
alpha: a
description: d
---
b
`
	doc, err := prompt.Parse("x", prompt.KindChatmode, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"description", "tools", "zebra", "alpha"}, doc.Header.Keys())

	out, err := prompt.Serialize(doc)
	require.NoError(t, err)
	text := string(out)
	assert.True(t, strings.HasPrefix(text, "---\ndescription: d\ntools:\n"), "got:\n%s", text)
}

func TestSerializeDeterministic(t *testing.T) {
	doc := prompt.NewDocument("x", prompt.KindChatmode, "d", "b\n", []string{"search"})
	a, err := prompt.Serialize(doc)
	require.NoError(t, err)
	b, err := prompt.Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"missing opening delimiter": "description: d\n---\nbody\n",
		"missing closing delimiter": "---\ndescription: d\nbody\n",
		"header not a mapping":      "---\n- a\n- b\n---\nbody\n",
		"duplicate keys":            "---\ndescription: a\ndescription: b\n---\nbody\n",
		"tools not a list":          "---\ntools: search\n---\nbody\n",
		"tools list of mappings":    "---\ntools:\n  - name: search\n---\nbody\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := prompt.Parse("x", prompt.KindChatmode, []byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, prompt.ErrMalformed)
		})
	}
}

func TestParseToolsDeduplicated(t *testing.T) {
	raw := "---\ntools:\n  - search\n  - edit\n  - search\n---\nb\n"
	doc, err := prompt.Parse("x", prompt.KindChatmode, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"search", "edit"}, doc.Tools())
}

func TestParseInstructionIgnoresToolsShape(t *testing.T) {
	// tools is only interpreted on chatmode documents; instructions carry it
	// through as an uninterpreted header value
	raw := "---\ndescription: d\ntools: whatever\n---\nb\n"
	doc, err := prompt.Parse("x", prompt.KindInstruction, []byte(raw))
	require.NoError(t, err)
	assert.Nil(t, doc.Tools())
}

func TestParseEmptyHeader(t *testing.T) {
	doc, err := prompt.Parse("x", prompt.KindChatmode, []byte("---\n---\nbody\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Header.Len())
	assert.Equal(t, "body\n", doc.Body)

	out, err := prompt.Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, "---\n---\nbody\n", string(out))
}

func TestParseNormalizesLineEndingsAndBOM(t *testing.T) {
	raw := "\ufeff---\r\ndescription: d\r\n---\r\nbody\r\n"
	doc, err := prompt.Parse("x", prompt.KindChatmode, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "d", doc.Description())
	assert.Equal(t, "body\n", doc.Body)
}

func TestBodyNormalization(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"body", "body\n"},
		{"body\n\n\n", "body\n"},
		{"\n\nbody\n", "body\n"},
		{"body  \t\n", "body\n"},
		{"", "\n"},
	}
	for _, tc := range cases {
		doc := prompt.NewDocument("x", prompt.KindInstruction, "d", tc.in, nil)
		assert.Equal(t, tc.want, doc.Body, "input %q", tc.in)
	}
}

func TestSetBodyNormalizes(t *testing.T) {
	doc := prompt.NewDocument("x", prompt.KindChatmode, "d", "b\n", nil)
	doc.SetBody("no trailing newline")
	assert.Equal(t, "no trailing newline\n", doc.Body)

	doc.SetBody("padded\n\n\n")
	assert.Equal(t, "padded\n", doc.Body)
}

func TestNewDocumentToolsOnlyOnChatmode(t *testing.T) {
	inst := prompt.NewDocument("x", prompt.KindInstruction, "d", "b\n", []string{"search"})
	assert.Nil(t, inst.Tools())

	mode := prompt.NewDocument("x", prompt.KindChatmode, "d", "b\n", []string{"search", "search"})
	assert.Equal(t, []string{"search"}, mode.Tools())
}

func TestCloneIsIndependent(t *testing.T) {
	doc := prompt.NewDocument("x", prompt.KindChatmode, "d", "b\n", []string{"search"})
	clone := doc.Clone()
	clone.SetDescription("changed")
	clone.SetTools([]string{"other"})

	assert.Equal(t, "d", doc.Description())
	assert.Equal(t, []string{"search"}, doc.Tools())
}

func TestSourceURL(t *testing.T) {
	doc := prompt.NewDocument("x", prompt.KindChatmode, "d", "b\n", nil)
	assert.Empty(t, doc.SourceURL())

	doc.SetSourceURL("  https://example.com/x.chatmode.md ")
	assert.Equal(t, "https://example.com/x.chatmode.md", doc.SourceURL())
}
