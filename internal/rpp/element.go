// Package rpp serializes track/bank assignments into REAPER project file
// text. The generator is a pure serializer: it validates nothing, performs
// no I/O, and is deterministic except for the identifiers it mints per
// call.
package rpp

import (
	"strings"
)

// Element is one < ... > block of an RPP file: a name plus attribute
// tokens on the opening line, scalar child lines, and nested blocks.
// Lines and children interleave with lines first, which matches how
// REAPER lays out every block this generator emits.
type Element struct {
	Name     string
	Attrs    []string
	Lines    []string
	Children []*Element
}

// AddLine appends a scalar line built from the given tokens.
func (e *Element) AddLine(tokens ...string) {
	e.Lines = append(e.Lines, strings.Join(tokens, " "))
}

// AddChild appends and returns a nested block.
func (e *Element) AddChild(name string, attrs ...string) *Element {
	child := &Element{Name: name, Attrs: attrs}
	e.Children = append(e.Children, child)
	return child
}

// String renders the element tree in RPP text form: two-space indentation
// per nesting level, the opening marker and the closing ">" on their own
// lines.
func (e *Element) String() string {
	var sb strings.Builder
	e.write(&sb, 0)
	return sb.String()
}

func (e *Element) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)

	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(e.Name)
	for _, attr := range e.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(attr)
	}
	sb.WriteByte('\n')

	inner := strings.Repeat("  ", depth+1)
	for _, line := range e.Lines {
		sb.WriteString(inner)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, child := range e.Children {
		child.write(sb, depth+1)
	}

	sb.WriteString(indent)
	sb.WriteString(">\n")
}

// Quote wraps a string field for an RPP line. REAPER switches the quoting
// character when the value embeds it, so a name containing double quotes
// comes out single-quoted instead of corrupting the line.
func Quote(s string) string {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	case !strings.Contains(s, `'`):
		return `'` + s + `'`
	default:
		return "`" + strings.ReplaceAll(s, "`", "'") + "`"
	}
}
