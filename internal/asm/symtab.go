package asm

// symtab.go is the symbol table built across the first pass and finalised at its end. Its shape
// is driven directly by the reconciliation rules for .entry and .extern: a symbol can be named by
// an .entry line before its defining label is ever seen, so the table has to carry an explicit
// "not yet defined" state rather than inferring entry-ness from the symbol's name, the bug the
// architecture notes warn against.

import "fmt"

// SymbolKind classifies what a symbol names. It is independent of whether the symbol was declared
// an .entry: a data symbol that is also an entry is still SymbolData, with IsEntry set, rather than
// some third hybrid kind.
type SymbolKind uint8

const (
	// SymbolUnknown marks a symbol named by an .entry line before its defining label was seen.
	// It is never a valid final kind: SymbolTable.Finish rejects any symbol still in this state.
	SymbolUnknown SymbolKind = iota
	SymbolCode
	SymbolData
	SymbolExternal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolCode:
		return "code"
	case SymbolData:
		return "data"
	case SymbolExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Symbol is one entry in the symbol table.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Address uint16
	IsEntry bool

	// defined is true once the symbol's defining label (or .extern line) has been processed.
	// A symbol named by a forward .entry starts with defined=false and Kind=SymbolUnknown.
	defined bool
}

// SymbolTable maps symbol names to their entries. It is built during the first pass and consulted,
// read-only, during the second.
type SymbolTable struct {
	symbols map[string]*Symbol
	// order preserves first-mention order, so Entries() and Finish's diagnostics are deterministic
	// across runs instead of depending on Go's randomised map iteration.
	order []string
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

func (t *SymbolTable) insert(name string) *Symbol {
	if sym, ok := t.symbols[name]; ok {
		return sym
	}

	sym := &Symbol{Name: name}
	t.symbols[name] = sym
	t.order = append(t.order, name)

	return sym
}

// Lookup finds a symbol by name. The second return is false if the name was never mentioned.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// DefineLabel records a label definition (an ordinary code or data line's leading label). Redefining
// an already-defined symbol is a naming error: labels must be unique.
func (t *SymbolTable) DefineLabel(name string, kind SymbolKind, address uint16, pos Position) error {
	sym := t.insert(name)

	if sym.defined {
		return &NamingError{Position: pos, Name: name, Msg: "symbol already defined"}
	}

	sym.Kind = kind
	sym.Address = address
	sym.defined = true

	return nil
}

// DeclareExternal records an .extern line. Per §4.4, re-declaring the same name as external is
// idempotent; declaring a name already defined as code or data is the naming conflict §7 calls
// "external redefined as defined or vice versa" — not a pass-two reference error, since nothing
// here is an unresolved label. A name already declared .entry is refused as a naming error too.
func (t *SymbolTable) DeclareExternal(name string, pos Position) error {
	sym := t.insert(name)

	if sym.defined {
		if sym.Kind == SymbolExternal {
			return nil
		}

		return &NamingError{Position: pos, Name: name, Msg: "already defined in this file, cannot redeclare as external"}
	}

	if sym.IsEntry {
		return &NamingError{Position: pos, Name: name, Msg: "cannot be both external and entry"}
	}

	sym.Kind = SymbolExternal
	sym.defined = true

	return nil
}

// DeclareEntry records an .entry line. If name hasn't been mentioned yet, a placeholder entry is
// inserted (Kind=SymbolUnknown, defined=false) and resolved when the label is later defined; if the
// label was already defined, IsEntry is set immediately. A name already declared external is the
// same §7 naming conflict DeclareExternal guards against the other way around.
func (t *SymbolTable) DeclareEntry(name string, pos Position) error {
	sym := t.insert(name)

	if sym.defined && sym.Kind == SymbolExternal {
		return &NamingError{Position: pos, Name: name, Msg: "cannot be both external and entry"}
	}

	sym.IsEntry = true

	return nil
}

// Finish is called once at the end of the first pass. It rejects any symbol left in SymbolUnknown
// (an .entry whose label was never defined) and relocates every data symbol's address by icFinal,
// the final instruction counter, per §4.6's "data follows code" layout rule.
func (t *SymbolTable) Finish(icFinal uint16) []error {
	var errs []error

	for _, name := range t.order {
		sym := t.symbols[name]

		if !sym.defined {
			errs = append(errs, &ReferenceError{Name: name, Msg: "declared .entry but never defined"})
			continue
		}

		if sym.Kind == SymbolData {
			sym.Address += icFinal
		}
	}

	return errs
}

// Entries returns every symbol flagged .entry, in first-mention order.
func (t *SymbolTable) Entries() []*Symbol {
	var out []*Symbol

	for _, name := range t.order {
		sym := t.symbols[name]
		if sym.IsEntry {
			out = append(out, sym)
		}
	}

	return out
}

// Count reports how many distinct names have been mentioned, defined or not.
func (t *SymbolTable) Count() int {
	return len(t.order)
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s@%#03x entry=%v", s.Name, s.Kind, s.Address, s.IsEntry)
}
