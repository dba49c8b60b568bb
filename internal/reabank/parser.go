package reabank

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	bankKeywordRe = regexp.MustCompile(`^Bank\b`)

	bankRe = regexp.MustCompile(`^Bank\s+(\*|\d+)\s+(\*|\d+)\s+(\S.*)$`)
	metaRe = regexp.MustCompile(`^//!\s*(.*)$`)
	artRe  = regexp.MustCompile(`^(\d+)\s+(\S.*)$`)
)

// pendingMeta holds metadata from a //! line until the next articulation
// line consumes it. Metadata is positional: a new //! line or a bank line
// discards whatever was pending.
type pendingMeta struct {
	color  string
	icon   string
	output string
	set    bool
}

// Parser converts bank definition text into Bank records. The wildcard
// counter lives on the Parser, not the parse call, so feeding several
// files through one Parser keeps synthetic MSBs monotonic across all of
// them (wildcard banks are addressed by name, never by MSB/LSB, so the
// counter only needs to avoid collisions).
type Parser struct {
	wildcardCounter int
}

// NewParser creates a parser with a fresh wildcard counter.
func NewParser() *Parser {
	return &Parser{}
}

// Parse scans text line by line and returns the banks found plus a list of
// per-line error messages for declarations it had to skip. It never fails:
// malformed input degrades to errors in the second return, parsing
// continues on the next line.
func (p *Parser) Parse(text string) ([]*Bank, []string) {
	var (
		banks   []*Bank
		errs    []string
		current *Bank
		pending pendingMeta
	)

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		if line == "" {
			continue
		}

		if m := metaRe.FindStringSubmatch(line); m != nil {
			// Replaces any unconsumed metadata: it only ever describes
			// the next articulation line.
			pending = p.parseMeta(m[1])
			continue
		}

		if strings.HasPrefix(line, "//") {
			continue
		}

		if bankKeywordRe.MatchString(line) {
			m := bankRe.FindStringSubmatch(line)
			if m == nil {
				errs = append(errs, fmt.Sprintf("line %d: malformed bank declaration: %q", lineNo, line))
				continue
			}
			if current != nil {
				banks = append(banks, current)
			}
			current = p.newBank(m[1], m[2], m[3])
			pending = pendingMeta{}
			continue
		}

		if m := artRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				errs = append(errs, fmt.Sprintf("line %d: articulation outside any bank: %q", lineNo, line))
				continue
			}
			number, _ := strconv.Atoi(m[1])
			art := Articulation{
				Number: number,
				Name:   strings.TrimSpace(m[2]),
				Color:  DefaultColor,
			}
			if pending.set {
				if pending.color != "" {
					art.Color = pending.color
				}
				art.Icon = pending.icon
				art.OutputSpec = pending.output
			}
			current.Articulations = append(current.Articulations, art)
			pending = pendingMeta{}
			continue
		}

		errs = append(errs, fmt.Sprintf("line %d: unrecognized line: %q", lineNo, line))
	}

	if current != nil {
		banks = append(banks, current)
	}

	return banks, errs
}

// newBank builds a bank from the captured declaration tokens. A wildcard
// in either position means "assign automatically": the bank gets the next
// synthetic counter value as MSB and a fixed LSB of 0.
func (p *Parser) newBank(msbTok, lsbTok, name string) *Bank {
	if msbTok == "*" || lsbTok == "*" {
		p.wildcardCounter++
		return &Bank{MSB: p.wildcardCounter, LSB: 0, Name: strings.TrimSpace(name)}
	}
	msb, _ := strconv.Atoi(msbTok)
	lsb, _ := strconv.Atoi(lsbTok)
	return &Bank{MSB: msb, LSB: lsb, Name: strings.TrimSpace(name)}
}

// parseMeta splits a //! payload into k=v tokens. Known keys: c (color),
// i (icon), o (output spec). Unknown keys are ignored rather than reported,
// matching how the source format treats them.
func (p *Parser) parseMeta(payload string) pendingMeta {
	meta := pendingMeta{set: true}
	for _, tok := range strings.Fields(payload) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		switch key {
		case "c":
			meta.color = value
		case "i":
			meta.icon = value
		case "o":
			meta.output = value
		}
	}
	return meta
}
