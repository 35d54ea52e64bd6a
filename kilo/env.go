package kilo

import (
	"fmt"
	"sort"
)

// Frame represents one level of a lexical scope chain.
// The global frame has no parent.
type Frame struct {
	vars   map[*Sym]Any
	Parent *Frame
}

// NewFrame constructs an empty frame enclosed by parent.
func NewFrame(parent *Frame) *Frame {
	return &Frame{make(map[*Sym]Any), parent}
}

// f.String() returns "#N-symbols" where N is the number of atoms bound in f.
func (f *Frame) String() string {
	return fmt.Sprintf("#%d-symbols", len(f.vars))
}

// Get retrieves the value of sym from f or its ancestors.
func (f *Frame) Get(sym *Sym) (Any, bool) {
	for e := f; e != nil; e = e.Parent {
		if v, ok := e.vars[sym]; ok {
			return v, true
		}
	}
	return nil, false
}

// Lookup retrieves the value of sym; it panics with an UnboundError
// if no frame of the chain binds sym.
func (f *Frame) Lookup(sym *Sym) Any {
	if v, ok := f.Get(sym); ok {
		return v
	}
	panic(&UnboundError{sym})
}

// BindLocal binds sym to value in f only.
func (f *Frame) BindLocal(sym *Sym, value Any) {
	f.vars[sym] = value
}

// Assign updates the nearest binding of sym.
// If sym is unbound, it is bound in the global frame.
func (f *Frame) Assign(sym *Sym, value Any) {
	e := f
	for {
		if _, ok := e.vars[sym]; ok || e.Parent == nil {
			e.vars[sym] = value
			return
		}
		e = e.Parent
	}
}

// Each calls fn for every binding of f (not of its ancestors)
// in the order of the atom names.
func (f *Frame) Each(fn func(sym *Sym, value Any)) {
	syms := make([]*Sym, 0, len(f.vars))
	for sym := range f.vars {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Name < syms[j].Name
	})
	for _, sym := range syms {
		fn(sym, f.vars[sym])
	}
}
