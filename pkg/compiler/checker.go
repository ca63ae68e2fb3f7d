package compiler

import "fmt"

// CheckOptions tunes Check.
type CheckOptions struct {
	// RequireMain rejects programs without a main function.
	RequireMain bool

	// Builtins are function names that may be called without being
	// declared, such as write_int.
	Builtins []string
}

// Check validates the names in p: no duplicate or clashing declarations,
// and every variable or function used is declared before use. Types are
// not checked. The first problem found is returned.
func Check(p *Program, opts CheckOptions) error {
	c := &checker{syms: NewSymbolTable()}
	for _, name := range opts.Builtins {
		c.syms.Define(Symbol{Name: name, Kind: SymFunction})
	}

	for _, g := range p.Globals {
		if prev, dup := c.syms.Define(Symbol{Name: g.Name, Kind: SymGlobal, Type: g.Type}); dup {
			return clash(g.Name, prev.Kind, SymGlobal)
		}
	}
	for _, f := range p.Prototypes {
		if prev, dup := c.syms.Define(Symbol{Name: f.Name, Kind: SymFunction, Type: f.ReturnType}); dup && prev.Kind != SymFunction {
			return clash(f.Name, prev.Kind, SymFunction)
		}
	}

	defined := make(map[string]bool, len(p.Functions))
	for _, f := range p.Functions {
		if defined[f.Name] {
			return fmt.Errorf("duplicate function %q", f.Name)
		}
		defined[f.Name] = true
		if prev, dup := c.syms.Define(Symbol{Name: f.Name, Kind: SymFunction, Type: f.ReturnType}); dup && prev.Kind != SymFunction {
			return clash(f.Name, prev.Kind, SymFunction)
		}
	}

	if opts.RequireMain && !defined["main"] {
		return fmt.Errorf("no main function found in program")
	}

	for i := range p.Functions {
		if err := c.function(&p.Functions[i]); err != nil {
			return err
		}
	}
	return nil
}

func clash(name string, prev, cur SymbolKind) error {
	if prev == cur {
		return fmt.Errorf("duplicate %s %q", cur, name)
	}
	return fmt.Errorf("%q declared as both a %s and a %s", name, prev, cur)
}

type checker struct {
	syms *SymbolTable
	err  error
}

func (c *checker) function(f *Function) error {
	c.syms.EnterFunction()
	defer c.syms.ExitFunction()

	for _, arg := range f.Arguments {
		if _, dup := c.syms.Define(Symbol{Name: arg.Name, Kind: SymArgument, Type: arg.Type}); dup {
			return fmt.Errorf("duplicate argument %q in function %s", arg.Name, f.Name)
		}
	}

	c.err = nil
	for _, s := range f.Statements {
		if ds, ok := s.(*DeclStmt); ok {
			c.declare(ds.Decl, f)
		}
		Walk(s, func(n Node) bool { return c.visit(n, f) })
		if c.err != nil {
			return c.err
		}
	}
	return nil
}

// visit checks one node. It returns false to stop descending once an error
// has been recorded.
func (c *checker) visit(n Node, f *Function) bool {
	if c.err != nil {
		return false
	}
	switch n := n.(type) {
	case *DeclExpr:
		c.declare(n.Decl, f)

	case *Variable:
		if _, ok := c.syms.Lookup(n.Name); !ok {
			c.err = fmt.Errorf("undefined variable %q in function %s", n.Name, f.Name)
		}

	case *FunctionCall:
		sym, ok := c.syms.Lookup(n.Name)
		switch {
		case !ok:
			c.err = fmt.Errorf("call to undefined function %q in function %s", n.Name, f.Name)
		case sym.Kind != SymFunction:
			c.err = fmt.Errorf("called object %q is a %s, not a function, in function %s", n.Name, sym.Kind, f.Name)
		}
	}
	return c.err == nil
}

func (c *checker) declare(d Declaration, f *Function) {
	if c.err != nil {
		return
	}
	if _, dup := c.syms.Define(Symbol{Name: d.Name, Kind: SymLocal, Type: d.Type}); dup {
		c.err = fmt.Errorf("%q redeclared in function %s", d.Name, f.Name)
	}
}
