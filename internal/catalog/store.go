package catalog

import (
	"sync"

	"github.com/willardjansen/cubby-remote-reaper/internal/reabank"
)

// Source is one named blob of bank definition text, typically the contents
// of a .reabank file. The name only appears in error messages.
type Source struct {
	Name string
	Text string
}

// Store is the explicit, reloadable home for the current parse result.
// The parser itself caches nothing; whoever owns the poll/reload loop owns
// a Store and invalidates it when the underlying files change. Reads are
// concurrent; writes are serialized internally.
type Store struct {
	mu     sync.RWMutex
	banks  []*reabank.Bank
	byKey  map[string]*reabank.Bank
	tree   *Folder
	errors []string
}

func NewStore() *Store {
	return &Store{
		byKey: map[string]*reabank.Bank{},
		tree:  BuildTree(nil),
	}
}

// Reload re-parses every source from scratch and replaces the store
// contents wholesale. Sources are parsed independently and concatenated;
// the key index applies insert-or-replace so a later declaration of the
// same MSB/LSB pair replaces the earlier one, matching source behavior.
func (s *Store) Reload(sources []Source) (bankCount int, parseErrors []string) {
	parser := reabank.NewParser()

	var banks []*reabank.Bank
	var errs []string
	for _, src := range sources {
		parsed, perrs := parser.Parse(src.Text)
		banks = append(banks, parsed...)
		for _, e := range perrs {
			errs = append(errs, src.Name+": "+e)
		}
	}

	byKey := make(map[string]*reabank.Bank, len(banks))
	for _, bank := range banks {
		byKey[bank.Key()] = bank
	}

	tree := BuildTree(banks)

	s.mu.Lock()
	s.banks = banks
	s.byKey = byKey
	s.tree = tree
	s.errors = errs
	s.mu.Unlock()

	return len(banks), errs
}

// Invalidate drops everything, leaving an empty store until the next
// Reload.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.banks = nil
	s.byKey = map[string]*reabank.Bank{}
	s.tree = BuildTree(nil)
	s.errors = nil
	s.mu.Unlock()
}

// Banks returns the current bank list in declaration order.
func (s *Store) Banks() []*reabank.Bank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banks
}

// Tree returns the current classified folder tree.
func (s *Store) Tree() *Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Errors returns the parse errors from the last Reload.
func (s *Store) Errors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors
}

// Lookup resolves a bank by MSB/LSB key. With duplicate declarations the
// last one wins, by construction of the key index.
func (s *Store) Lookup(msb, lsb int) (*reabank.Bank, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bank, ok := s.byKey[(&reabank.Bank{MSB: msb, LSB: lsb}).Key()]
	return bank, ok
}
