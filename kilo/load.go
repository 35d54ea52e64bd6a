package kilo

import (
	_ "embed"
	"io"
)

// prelude defines the derived functions in Kilo LISP itself.
//
//go:embed prelude.kl
var prelude string

// Load opens path with in.Open and evaluates its forms.
// See LoadFrom.
func (in *Interp) Load(path string) (Any, error) {
	file, err := in.Open(path)
	if err != nil {
		return Nil, err
	}
	defer file.Close()
	return in.LoadFrom(path, file)
}

// LoadFrom evaluates the forms read from r in the global frame and returns
// the value of the last one.  While it runs, READ reads from r too.
//
// It stops at the first form which fails to be read or evaluated and
// returns a *LoadError naming the form; bindings made by the forms before
// it are kept.
func (in *Interp) LoadFrom(name string, r io.Reader) (Any, error) {
	rr := NewReader(r)
	saved := in.input
	in.input = rr
	defer func() {
		in.input = saved
	}()
	var result Any = Nil
	for i := 1; ; i++ {
		x, err := rr.Read()
		if err != nil {
			return Nil, &LoadError{name, i, rr.FormLine(), err}
		}
		if x == EOF {
			return result, nil
		}
		line := rr.FormLine()
		if result, err = in.Eval(x); err != nil {
			return Nil, &LoadError{name, i, line, err}
		}
	}
}
