package prompt

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two prompt-file flavors VS Code recognizes.
type Kind string

const (
	// KindChatmode is a .chatmode.md file defining an AI interaction pattern,
	// optionally with a tools list.
	KindChatmode Kind = "chatmode"

	// KindInstruction is a .instruction.md file carrying workspace guidance.
	KindInstruction Kind = "instruction"
)

// Kinds lists all valid kinds in a stable order.
func Kinds() []Kind { return []Kind{KindChatmode, KindInstruction} }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindChatmode || k == KindInstruction
}

// Suffix returns the filename suffix for the kind, e.g. ".chatmode.md".
func (k Kind) Suffix() string {
	return "." + string(k) + ".md"
}

func (k Kind) String() string { return string(k) }

// ParseKind parses a kind string, tolerating case and surrounding space.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindChatmode:
		return KindChatmode, nil
	case KindInstruction:
		return KindInstruction, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Filename composes the on-disk filename for a document name and kind.
func Filename(name string, kind Kind) string {
	return name + kind.Suffix()
}

// SplitFilename decomposes a filename like "foo.chatmode.md" into its name
// and kind. ok is false when the filename does not follow the suffix
// convention of any kind.
func SplitFilename(filename string) (name string, kind Kind, ok bool) {
	for _, k := range Kinds() {
		if n, found := strings.CutSuffix(filename, k.Suffix()); found && n != "" {
			return n, k, true
		}
	}
	return "", "", false
}

// NormalizeName strips a recognized suffix from name if the caller passed a
// full filename, so "foo.chatmode.md" and "foo" address the same document.
func NormalizeName(name string, kind Kind) string {
	name = strings.TrimSpace(name)
	if n, found := strings.CutSuffix(name, kind.Suffix()); found && n != "" {
		return n
	}
	// a bare ".md" suffix is also tolerated
	if n, found := strings.CutSuffix(name, ".md"); found && n != "" {
		return n
	}
	return name
}
