package reabank

import (
	"fmt"
	"strings"
)

// Format renders banks back into the bank-definition grammar. Parsing the
// result yields an equal bank list, so Format/Parse round-trip for any
// records whose names and numbers are themselves syntactically valid.
// Wildcard-substituted banks come back with their synthetic MSB/LSB, not
// the original wildcard markers.
func Format(banks []*Bank) string {
	var sb strings.Builder
	for i, b := range banks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "Bank %d %d %s\n", b.MSB, b.LSB, b.Name)
		for _, a := range b.Articulations {
			if meta := formatMeta(a); meta != "" {
				sb.WriteString(meta)
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%d %s\n", a.Number, a.Name)
		}
	}
	return sb.String()
}

func formatMeta(a Articulation) string {
	var toks []string
	if a.Color != "" && a.Color != DefaultColor {
		toks = append(toks, "c="+a.Color)
	}
	if a.Icon != "" {
		toks = append(toks, "i="+a.Icon)
	}
	if a.OutputSpec != "" {
		toks = append(toks, "o="+a.OutputSpec)
	}
	if len(toks) == 0 {
		return ""
	}
	return "//! " + strings.Join(toks, " ")
}
