/*
  Kilo LISP in Go.

  The Reader type and the continuation-driven evaluator are derived from
  Scheme in Go (https://github.com/nukata/scheme-in-go).
*/
package kilo

import (
	"fmt"
	"sync"
)

const Version = 0.10

type Any = interface{}

//----------------------------------------------------------------------

// Cell represents a pair.
// &Cell{car, cdr} works as the "CONS" operation.
type Cell struct {
	Car Any
	Cdr Any
}

// Cons returns a new pair of a and b.
func Cons(a, b Any) *Cell {
	return &Cell{a, b}
}

// j.String() returns a textual representation of the list j.
func (j *Cell) String() string {
	return Str(j)
}

// List(e1, ..., eN Any) builds a list (e1 ... eN) terminated by NIL.
func List(j ...Any) Any {
	var result Any = Nil
	p := &result
	for _, v := range j {
		x := &Cell{v, Nil}
		*p = x
		p = &x.Cdr
	}
	return result
}

// Slice returns the elements of the proper list x.
// It returns false if x is not a proper list, circular lists included.
func Slice(x Any) ([]Any, bool) {
	var s []Any
	slow := x // advances at half speed to detect a cycle
	for {
		j, ok := x.(*Cell)
		if !ok {
			return s, x == Nil
		}
		s = append(s, j.Car)
		x = j.Cdr
		if len(s)%2 == 0 {
			slow = slow.(*Cell).Cdr
			if slow == x {
				return s, false
			}
		}
	}
}

//----------------------------------------------------------------------

// Sym represents an atom.
// &Sym{Name: name} constructs an atom which is not interned.
type Sym struct {
	Name     string
	special  bool // names a special form
	constant bool // evaluates to itself and cannot be assigned
}

// symbols is the table of interned atoms.
var symbols = make(map[string]*Sym)

// symLock is the exclusive lock for the table.
var symLock sync.RWMutex

// gensymCount numbers the atoms made by Gensym.
var gensymCount int

// Intern returns the canonical atom for name.
func Intern(name string) *Sym {
	symLock.Lock()
	sym, ok := symbols[name]
	if !ok {
		sym = &Sym{Name: name, constant: isNumeral(name)}
		symbols[name] = sym
	}
	symLock.Unlock()
	return sym
}

func newSpecial(name string) *Sym {
	sym := Intern(name)
	sym.special = true
	return sym
}

func newConstant(name string) *Sym {
	sym := Intern(name)
	sym.constant = true
	return sym
}

// Gensym returns a fresh atom which is never interned.
// Its name may collide with an interned one; its identity never does.
func Gensym(prefix string) *Sym {
	if prefix == "" {
		prefix = "G"
	}
	symLock.Lock()
	gensymCount++
	n := gensymCount
	symLock.Unlock()
	return &Sym{Name: fmt.Sprintf("%s%d", prefix, n)}
}

// IsInterned returns true if sym is interned.
func (sym *Sym) IsInterned() bool {
	symLock.RLock()
	s, ok := symbols[sym.Name]
	symLock.RUnlock()
	return ok && s == sym
}

// sym.String() returns the name of sym.
func (sym *Sym) String() string {
	return sym.Name
}

func isNumeral(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Nil is the empty list and the only false value.
var Nil = newConstant("NIL")

// T is the canonical true value.
var T = newConstant("T")

// EOF is returned by READ when the input has no further forms.
var EOF = &Sym{Name: "<EOF>", constant: true}

// Truth converts a Go bool into T or NIL.
func Truth(b bool) Any {
	if b {
		return T
	}
	return Nil
}

// Special forms

var Apply_ = newSpecial("APPLY")
var If_ = newSpecial("IF")
var IfNot_ = newSpecial("IFNOT")
var Lambda_ = newSpecial("LAMBDA")
var Macro_ = newSpecial("MACRO")
var Prog_ = newSpecial("PROG")
var QQuote_ = newSpecial("QQUOTE")
var Quote_ = newSpecial("QUOTE")
var SetQ_ = newSpecial("SETQ")
var Splice_ = newSpecial("SPLICE")
var Unquote_ = newSpecial("UNQUOTE")

//----------------------------------------------------------------------

// Closure represents a function made by LAMBDA.
type Closure struct {
	Params Any // *Sym or *Cell
	Body   Any // list of forms
	Env    *Frame
}

// fn.String() returns "<closure (params...)>".
func (fn *Closure) String() string {
	return "<closure " + Str(fn.Params) + ">"
}

// Macro represents a rewrite rule.  Its expander receives the
// unevaluated argument forms and returns the replacement form.
type Macro struct {
	Name     string
	Expander Any // *Closure or *Subr
}

// m.String() returns "<macro NAME>".
func (m *Macro) String() string {
	if m.Name == "" {
		return "<macro>"
	}
	return "<macro " + m.Name + ">"
}

// Subr represents a primitive procedure.
// An Arity of -1 accepts any number of arguments.
type Subr struct {
	Name  string
	Arity int
	Fn    func(in *Interp, args []Any) Any
}

// s.String() returns "<primitive NAME>".
func (s *Subr) String() string {
	return "<primitive " + s.Name + ">"
}
