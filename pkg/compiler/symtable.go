package compiler

import (
	"fmt"
	"sort"
	"strings"
)

type SymbolKind int

const (
	SymGlobal SymbolKind = iota
	SymFunction
	SymArgument
	SymLocal
)

var symbolKindNames = [...]string{
	SymGlobal:   "global",
	SymFunction: "function",
	SymArgument: "argument",
	SymLocal:    "local",
}

func (k SymbolKind) String() string {
	if int(k) >= 0 && int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is one named binding. For functions Type is the return type.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type Type
}

// SymbolTable maps names to symbols. Globals and functions share the
// global scope. Inside a function, arguments and locals share one function
// scope which shadows the global one.
type SymbolTable struct {
	globals map[string]Symbol

	// nil outside a function
	locals map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{globals: make(map[string]Symbol)}
}

func (s *SymbolTable) EnterFunction() {
	s.locals = make(map[string]Symbol)
}

func (s *SymbolTable) ExitFunction() {
	s.locals = nil
}

// Define adds sym to the current scope. If the name is already bound in
// that scope the existing symbol is returned with true and nothing changes.
func (s *SymbolTable) Define(sym Symbol) (Symbol, bool) {
	scope := s.globals
	if s.inFunction() {
		scope = s.locals
	}
	if existing, ok := scope[sym.Name]; ok {
		return existing, true
	}
	scope[sym.Name] = sym
	return sym, false
}

// Lookup returns the symbol and whether it was found.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	if sym, ok := s.locals[name]; ok {
		return sym, true
	}
	sym, ok := s.globals[name]
	return sym, ok
}

// inFunction returns true if we are inside a function.
func (s *SymbolTable) inFunction() bool {
	return s.locals != nil
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.globals) > 0 {
		sb.WriteString("Globals:\n")
		writeScope(&sb, s.globals)
	} else {
		sb.WriteString("Globals: (empty)\n")
	}

	if s.inFunction() {
		sb.WriteString("Function scope:\n")
		writeScope(&sb, s.locals)
	}
	return sb.String()
}

func writeScope(sb *strings.Builder, scope map[string]Symbol) {
	names := make([]string, 0, len(scope))
	for name := range scope {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sym := scope[name]
		fmt.Fprintf(sb, "  %-20s  %-8s  %s\n", name, sym.Kind, sym.Type)
	}
}
