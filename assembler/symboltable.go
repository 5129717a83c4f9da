package assembler

import (
	"sort"

	"github.com/samber/lo"

	"github.com/lookbusy1344/cs382asm/internal/asmerr"
	"github.com/lookbusy1344/cs382asm/token"
)

// SymbolTable maps label names to absolute image addresses. It is a flat
// map: a label is either defined once, or it's a fatal error.
type SymbolTable struct {
	addr map[string]int
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addr: make(map[string]int)}
}

// Define records name -> address, failing if name was already defined:
// every label name may appear in the table at most once.
func (s *SymbolTable) Define(pos token.Position, name string, address int) error {
	if _, exists := s.addr[name]; exists {
		return asmerr.Newf(pos, asmerr.Semantic, "label %q redefined", name)
	}
	s.addr[name] = address
	return nil
}

// Lookup returns a label's absolute address.
func (s *SymbolTable) Lookup(name string) (int, bool) {
	addr, ok := s.addr[name]
	return addr, ok
}

// Names returns every defined label name, sorted, for the dump-symbols
// subcommand.
func (s *SymbolTable) Names() []string {
	names := lo.Keys(s.addr)
	sort.Strings(names)
	return names
}

// Len reports how many labels are defined.
func (s *SymbolTable) Len() int {
	return len(s.addr)
}
