package catalog

import (
	"strings"

	"github.com/willardjansen/cubby-remote-reaper/internal/reabank"
)

// SelectionState is the aggregate state of a folder's descendants.
type SelectionState string

const (
	SelectionNone SelectionState = "none"
	SelectionSome SelectionState = "some"
	SelectionAll  SelectionState = "all"
)

// Search filters banks to those whose name contains every whitespace
// separated term of query, case-insensitively and in any order. A blank
// query is the identity: the input slice comes back as-is, not empty.
func Search(banks []*reabank.Bank, query string) []*reabank.Bank {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return banks
	}

	var matched []*reabank.Bank
	for _, bank := range banks {
		name := strings.ToLower(bank.Name)
		ok := true
		for _, term := range terms {
			if !strings.Contains(name, term) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, bank)
		}
	}
	return matched
}

// State reports the tri-state selection of a folder by counting selected
// banks across all descendant levels, not just direct children. Banks
// sharing an MSB/LSB key share selection state; that merge is a known
// property of the key scheme, not something this layer repairs.
func State(folder *Folder, selected map[string]bool) SelectionState {
	total := 0
	count := 0
	for _, bank := range folder.AllBanks() {
		total++
		if selected[bank.Key()] {
			count++
		}
	}
	switch {
	case total == 0 || count == 0:
		return SelectionNone
	case count == total:
		return SelectionAll
	default:
		return SelectionSome
	}
}

// Toggle flips a folder's selection: a fully selected folder is cleared,
// anything else (none or partial) becomes fully selected. Partial state
// never toggles to empty; that asymmetry is deliberate.
func Toggle(folder *Folder, selected map[string]bool) {
	banks := folder.AllBanks()
	if State(folder, selected) == SelectionAll {
		for _, bank := range banks {
			delete(selected, bank.Key())
		}
		return
	}
	for _, bank := range banks {
		selected[bank.Key()] = true
	}
}
