package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/nukata/kilo-lisp-in-go/kilo"
)

// sourceImage writes the global bindings made since start-up as
// Kilo LISP source.  Loading the file restores them.
type sourceImage struct{}

func (sourceImage) Suspend(path string, in *kilo.Interp) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "; Kilo LISP %v image\n", kilo.Version)
	in.Global.Each(func(sym *kilo.Sym, value kilo.Any) {
		if in.IsStartupBinding(sym, value) {
			return
		}
		form, ok := imageForm(in, sym, value)
		if !ok {
			slog.Warn("image: binding not written", "symbol", sym.Name,
				"value", kilo.Str(value))
			return
		}
		b.WriteString(kilo.Str(form))
		b.WriteByte('\n')
	})
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return err
	}
	slog.Debug("image written", "path", path)
	return nil
}

// imageForm returns (SETQ sym e) where e evaluates to value in a fresh
// interpreter.  It returns false if value has no such source form.
func imageForm(in *kilo.Interp, sym *kilo.Sym, value kilo.Any) (kilo.Any, bool) {
	var e kilo.Any
	switch x := value.(type) {
	case *kilo.Closure:
		if x.Env != in.Global {
			return nil, false
		}
		e = kilo.Cons(kilo.Lambda_, kilo.Cons(x.Params, x.Body))
	case *kilo.Macro:
		c, ok := x.Expander.(*kilo.Closure)
		if !ok || c.Env != in.Global {
			return nil, false
		}
		e = kilo.Cons(kilo.Macro_, kilo.Cons(c.Params, c.Body))
	case *kilo.Subr: // a primitive under another name
		name := kilo.Intern(x.Name)
		if !in.IsStartupBinding(name, x) {
			return nil, false
		}
		e = name
	default:
		if !isData(value, make(map[*kilo.Cell]bool)) {
			return nil, false
		}
		e = kilo.List(kilo.Quote_, value)
	}
	return kilo.List(kilo.SetQ_, sym, e), true
}

// isData returns true if x is built of atoms and pairs without cycles.
func isData(x kilo.Any, path map[*kilo.Cell]bool) bool {
	switch v := x.(type) {
	case *kilo.Sym:
		return v != kilo.EOF
	case *kilo.Cell:
		if path[v] {
			return false
		}
		path[v] = true
		ok := isData(v.Car, path) && isData(v.Cdr, path)
		delete(path, v)
		return ok
	}
	return false
}
