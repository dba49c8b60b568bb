package catalog

import (
	"sort"
	"strings"

	"github.com/willardjansen/cubby-remote-reaper/internal/reabank"
)

// Entry is a bank leaf in the folder tree. Label is the classified display
// name (vendor prefix stripped); the full raw name stays on the Bank.
type Entry struct {
	Bank  *reabank.Bank `json:"bank"`
	Label string        `json:"label"`
}

// Folder is one node of the classified hierarchy. Path doubles as the
// stable identity key for expand/collapse and selection state, so it must
// not change when siblings are added or removed.
type Folder struct {
	Name     string             `json:"name"`
	Path     string             `json:"path"`
	Banks    []Entry            `json:"banks"`
	Children map[string]*Folder `json:"children"`
}

// BuildTree classifies every bank and folds the paths into a nested
// folder structure. Each bank lands in exactly one folder; the tree is
// rebuilt wholesale on every call, there is no incremental mutation.
func BuildTree(banks []*reabank.Bank) *Folder {
	root := &Folder{Name: "", Path: "", Children: map[string]*Folder{}}

	for _, bank := range banks {
		path := Classify(bank.Name)
		label := path[len(path)-1]
		folders := path[:len(path)-1]

		node := root
		for _, name := range folders {
			child, ok := node.Children[name]
			if !ok {
				childPath := name
				if node.Path != "" {
					childPath = node.Path + "/" + name
				}
				child = &Folder{Name: name, Path: childPath, Children: map[string]*Folder{}}
				node.Children[name] = child
			}
			node = child
		}
		node.Banks = append(node.Banks, Entry{Bank: bank, Label: label})
	}

	return root
}

// SortedChildren returns the child folders ordered by name. Children are
// stored unordered; render-time consumers sort here.
func (f *Folder) SortedChildren() []*Folder {
	names := make([]string, 0, len(f.Children))
	for name := range f.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	children := make([]*Folder, 0, len(names))
	for _, name := range names {
		children = append(children, f.Children[name])
	}
	return children
}

// Walk visits f and every descendant folder depth-first in child-name
// order.
func (f *Folder) Walk(visit func(*Folder)) {
	visit(f)
	for _, child := range f.SortedChildren() {
		child.Walk(visit)
	}
}

// AllBanks collects every bank at or below f, depth-first.
func (f *Folder) AllBanks() []*reabank.Bank {
	var banks []*reabank.Bank
	f.Walk(func(node *Folder) {
		for _, entry := range node.Banks {
			banks = append(banks, entry.Bank)
		}
	})
	return banks
}

// Find returns the descendant folder with the given slash-joined path, or
// nil. The empty path is the root itself.
func (f *Folder) Find(path string) *Folder {
	if path == "" {
		return f
	}
	node := f
	for _, name := range strings.Split(path, "/") {
		child, ok := node.Children[name]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}
