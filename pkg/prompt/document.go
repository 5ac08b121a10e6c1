package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recognized header keys. Everything else passes through uninterpreted.
const (
	KeyDescription = "description"
	KeyTools       = "tools"
	KeySourceURL   = "source_url"
)

// HeaderDelimiter opens and closes the frontmatter block.
const HeaderDelimiter = "---"

// Document is the parsed form of a prompt file: an ordered frontmatter
// header plus a free-form markdown body. Documents are value objects; every
// operation loads, transforms, and persists a fresh copy.
type Document struct {
	// Name is the logical identifier without the kind suffix ("foo" for
	// foo.chatmode.md).
	Name string

	Kind Kind

	Header Header

	// Body is the text following the header block. It always ends with
	// exactly one trailing newline.
	Body string
}

// NewDocument builds a document from its parts. tools is only applied to
// chatmode documents; other kinds never carry a tools key.
func NewDocument(name string, kind Kind, description, body string, tools []string) *Document {
	d := &Document{Name: name, Kind: kind, Body: normalizeBody(body)}
	d.Header.Set(KeyDescription, description)
	if kind == KindChatmode && tools != nil {
		d.SetTools(tools)
	}
	return d
}

// Parse parses raw prompt-file text into a Document. It returns a
// MalformedDocumentError when the header block is not well-formed: missing
// opening or closing delimiter, non-mapping header content, duplicate keys,
// or (for chatmode documents) a tools value that is not a list of strings.
//
// The header key order is canonicalized (description, tools, then remaining
// keys in file order) and the body is normalized to end with exactly one
// trailing newline, so Parse(Serialize(d)) yields a Document equal to d.
func Parse(name string, kind Kind, raw []byte) (*Document, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}

	text := strings.TrimPrefix(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\ufeff")
	lines := strings.Split(text, "\n")
	if strings.TrimRight(lines[0], " \t") != HeaderDelimiter {
		return nil, NewMalformedError(name, "missing opening delimiter", nil)
	}
	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == HeaderDelimiter {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, NewMalformedError(name, "missing closing delimiter", nil)
	}

	header, err := parseHeader(name, kind, strings.Join(lines[1:closing], "\n"))
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Name:   name,
		Kind:   kind,
		Header: *header,
		Body:   normalizeBody(strings.Join(lines[closing+1:], "\n")),
	}
	doc.Header.canonicalize()
	return doc, nil
}

// parseHeader decodes the YAML between the delimiters into an ordered Header.
func parseHeader(name string, kind Kind, raw string) (*Header, error) {
	var header Header
	if strings.TrimSpace(raw) == "" {
		return &header, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, NewMalformedError(name, "invalid header yaml", err)
	}
	if len(root.Content) == 0 {
		return &header, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, NewMalformedError(name, "header is not a mapping", nil)
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valNode := mapping.Content[i], mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, NewMalformedError(name, "header key is not a scalar", nil)
		}
		key := keyNode.Value
		if _, dup := header.Get(key); dup {
			return nil, NewMalformedError(name, fmt.Sprintf("duplicate header key %q", key), nil)
		}

		var value any
		if err := valNode.Decode(&value); err != nil {
			return nil, NewMalformedError(name, fmt.Sprintf("invalid value for header key %q", key), err)
		}

		if key == KeyTools && kind == KindChatmode {
			tools, ok := stringList(value)
			if !ok {
				return nil, NewMalformedError(name, "tools must be a list of strings", nil)
			}
			header.Set(key, dedupeStrings(tools))
			continue
		}
		header.Set(key, value)
	}
	return &header, nil
}

// Serialize renders the document deterministically: header keys in canonical
// order between delimiters, then the body.
func Serialize(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}

	var buf bytes.Buffer
	buf.WriteString(HeaderDelimiter + "\n")
	if doc.Header.Len() > 0 {
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range doc.Header.Keys() {
			value, _ := doc.Header.Get(key)
			keyNode := &yaml.Node{}
			if err := keyNode.Encode(key); err != nil {
				return nil, fmt.Errorf("encode header key %q: %w", key, err)
			}
			valNode := &yaml.Node{}
			if err := valNode.Encode(value); err != nil {
				return nil, fmt.Errorf("encode header value for %q: %w", key, err)
			}
			mapping.Content = append(mapping.Content, keyNode, valNode)
		}
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(mapping); err != nil {
			return nil, fmt.Errorf("encode header: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode header: %w", err)
		}
	}
	buf.WriteString(HeaderDelimiter + "\n")
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Name:   d.Name,
		Kind:   d.Kind,
		Header: d.Header.Clone(),
		Body:   d.Body,
	}
}

// Filename returns the on-disk filename for the document.
func (d *Document) Filename() string { return Filename(d.Name, d.Kind) }

// Description returns the description header value, stringified best-effort
// when a non-string value slipped in.
func (d *Document) Description() string {
	v, ok := d.Header.Get(KeyDescription)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SetDescription writes the description header value.
func (d *Document) SetDescription(desc string) {
	d.Header.Set(KeyDescription, desc)
	d.Header.canonicalize()
}

// Tools returns the tools list for chatmode documents, nil when absent.
// The returned slice is a copy.
func (d *Document) Tools() []string {
	v, ok := d.Header.Get(KeyTools)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		tools, _ := stringList(t)
		return tools
	}
	return nil
}

// SetTools replaces the tools list, deduplicating while preserving order.
func (d *Document) SetTools(tools []string) {
	d.Header.Set(KeyTools, dedupeStrings(tools))
	d.Header.canonicalize()
}

// SetBody replaces the body, normalizing it to end with exactly one
// trailing newline.
func (d *Document) SetBody(body string) {
	d.Body = normalizeBody(body)
}

// SourceURL returns the source_url header value, empty when the document was
// not installed from a remote source.
func (d *Document) SourceURL() string {
	v, ok := d.Header.Get(KeySourceURL)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// SetSourceURL records the URL the document content was fetched from.
func (d *Document) SetSourceURL(url string) {
	d.Header.Set(KeySourceURL, strings.TrimSpace(url))
}

// normalizeBody collapses CRLF line endings and normalizes surrounding
// whitespace so the body ends with exactly one trailing newline.
func normalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.TrimLeft(body, "\n")
	return strings.TrimRight(body, " \t\n") + "\n"
}

// stringList converts a decoded YAML value into a []string, reporting false
// when the value is not a sequence of scalar strings.
func stringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// dedupeStrings removes duplicates while keeping first-occurrence order.
func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
