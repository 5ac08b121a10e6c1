package prompt

import (
	"strings"

	"github.com/yuin/goldmark"
	gm_ast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Preview holds the presentation pieces extracted from a document body for
// listing summaries.
type Preview struct {
	// Title is the first H1 heading, or the first non-empty line when the
	// body carries no heading.
	Title string

	// Lead is the first paragraph after the title, used as a short preview.
	Lead string
}

// ExtractPreview parses the body as Markdown and pulls out the title and
// lead paragraph. It never fails; a body without structure yields zero or
// more empty fields.
func ExtractPreview(body string) Preview {
	source := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var p Preview
	sawTitle := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch t := n.(type) {
		case *gm_ast.Heading:
			if !sawTitle && t.Level == 1 {
				p.Title = nodeText(t, source)
				sawTitle = true
				continue
			}
			if sawTitle {
				// another heading before any paragraph: no lead
				return p
			}
		case *gm_ast.Paragraph:
			if sawTitle {
				p.Lead = nodeText(t, source)
				return p
			}
			if p.Title == "" {
				// no heading at all: fall back to the first paragraph line
				line := nodeText(t, source)
				if i := strings.IndexByte(line, '\n'); i >= 0 {
					line = line[:i]
				}
				p.Title = line
				sawTitle = true
			}
		}
	}
	return p
}

// nodeText concatenates the text segments under a block node.
func nodeText(n gm_ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gm_ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return strings.TrimSpace(b.String())
}
