// Package symtab implements the assembler's symbol table: a name-keyed,
// insertion-ordered collection of label entries, carrying an address value
// and a kind (data, code, entry, external).
package symtab

import "fmt"

// Kind classifies a symbol. Entry is a flag-like kind: a symbol promoted to
// Entry during pass two keeps its address but is now also slated for .ent
// emission.
type Kind int

const (
	Data Kind = iota
	Code
	Entry
	External
)

func (k Kind) String() string {
	switch k {
	case Data:
		return "data"
	case Code:
		return "code"
	case Entry:
		return "entry"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// Symbol is one entry in the symbol table.
type Symbol struct {
	Name  string
	Value int
	Kind  Kind

	// wasData remembers whether the symbol was of Data kind before being
	// promoted to Entry, so .ent emission and relocation logic can both
	// reason about it correctly.
	wasData bool
}

// DuplicateSymbolError reports an attempt to add a name already present.
type DuplicateSymbolError struct {
	Name string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %q already defined", e.Name)
}

// Table is the ordered name->Symbol collection. Insertion order is
// preserved so diagnostics and emission are stable across runs.
type Table struct {
	order []*Symbol
	index map[string]*Symbol
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{index: make(map[string]*Symbol)}
}

// Add inserts a new symbol with the given name and kind, defaulting value to
// 0. It fails with *DuplicateSymbolError if name is already present.
func (t *Table) Add(name string, kind Kind) (*Symbol, error) {
	if _, ok := t.index[name]; ok {
		return nil, &DuplicateSymbolError{Name: name}
	}
	sym := &Symbol{Name: name, Kind: kind, wasData: kind == Data}
	t.index[name] = sym
	t.order = append(t.order, sym)
	return sym, nil
}

// Lookup returns the entry for name, or (nil, false) if absent.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.index[name]
	return sym, ok
}

// SetKind changes a symbol's kind in place.
func (t *Table) SetKind(sym *Symbol, kind Kind) {
	sym.Kind = kind
	if kind == Data {
		sym.wasData = true
	}
}

// SetValue changes a symbol's value in place.
func (t *Table) SetValue(sym *Symbol, v int) {
	sym.Value = v
}

// PromoteEntry marks sym as an Entry for .ent emission while remembering
// whether it was originally a Data symbol (relocation is unaffected: Entry
// promotion never happens before RelocateData, so this is purely
// informational bookkeeping for callers that still need to distinguish
// Entry-of-Data from Entry-of-Code).
func (t *Table) PromoteEntry(sym *Symbol) {
	sym.wasData = sym.Kind == Data || sym.wasData
	sym.Kind = Entry
}

// WasData reports whether sym held Data kind before any Entry promotion.
func (sym *Symbol) WasData() bool {
	return sym.wasData
}

// RelocateData adds finalIC to the value of every Data-kind entry. Must be
// called exactly once, at the end of pass one; calling it twice would
// double-relocate every data symbol.
func (t *Table) RelocateData(finalIC int) {
	for _, sym := range t.order {
		if sym.Kind == Data {
			sym.Value += finalIC
		}
	}
}

// All returns every symbol in insertion order.
func (t *Table) All() []*Symbol {
	return t.order
}

// Entries returns every symbol currently of Entry kind, in insertion order.
func (t *Table) Entries() []*Symbol {
	var out []*Symbol
	for _, sym := range t.order {
		if sym.Kind == Entry {
			out = append(out, sym)
		}
	}
	return out
}
