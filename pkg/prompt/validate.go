package prompt

import (
	"fmt"
	"strings"
)

// Violation is a non-fatal finding from Validate. Violations never block an
// operation; callers decide whether to surface them.
type Violation struct {
	Field string
	Msg   string
}

func (v Violation) String() string { return fmt.Sprintf("%s: %s", v.Field, v.Msg) }

// Validate inspects a document for advisory problems: an empty description,
// an empty tools list on a chatmode document, or a name that would produce a
// filename outside the suffix convention for its kind.
func Validate(doc *Document) []Violation {
	if doc == nil {
		return nil
	}
	var out []Violation

	if strings.TrimSpace(doc.Description()) == "" {
		out = append(out, Violation{Field: KeyDescription, Msg: "description is empty"})
	}

	if doc.Kind == KindChatmode {
		if v, ok := doc.Header.Get(KeyTools); ok {
			if tools, listOK := stringList(v); listOK && len(tools) == 0 {
				out = append(out, Violation{Field: KeyTools, Msg: "tools list is empty"})
			}
		}
	}

	if v := CheckFilename(doc.Filename(), doc.Kind); v != nil {
		out = append(out, *v)
	}
	return out
}

// CheckFilename verifies that filename follows the suffix convention for
// kind (<name>.chatmode.md or <name>.instruction.md) and that the name part
// is non-empty and free of path separators. Returns nil when conventional.
func CheckFilename(filename string, kind Kind) *Violation {
	name, found := strings.CutSuffix(filename, kind.Suffix())
	if !found || name == "" {
		return &Violation{
			Field: "filename",
			Msg:   fmt.Sprintf("%q does not match the %s%s convention", filename, "<name>", kind.Suffix()),
		}
	}
	if strings.ContainsAny(name, `/\`) {
		return &Violation{Field: "filename", Msg: "name must not contain path separators"}
	}
	return nil
}
