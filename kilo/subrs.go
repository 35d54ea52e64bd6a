package kilo

import (
	"fmt"
	"runtime"
	"strings"
)

// Subrs

func car_(_ *Interp, a []Any) Any {
	switch x := a[0].(type) {
	case *Cell:
		return x.Car
	default:
		if x == Nil {
			return Nil
		}
		panic(&TypeError{"CAR", "pair", x})
	}
}

func cdr_(_ *Interp, a []Any) Any {
	switch x := a[0].(type) {
	case *Cell:
		return x.Cdr
	default:
		if x == Nil {
			return Nil
		}
		panic(&TypeError{"CDR", "pair", x})
	}
}

func cons_(_ *Interp, a []Any) Any {
	return &Cell{a[0], a[1]}
}

func setcar_(_ *Interp, a []Any) Any {
	pair, ok := a[0].(*Cell)
	if !ok {
		panic(&TypeError{"SETCAR", "pair", a[0]})
	}
	pair.Car = a[1]
	return pair
}

func setcdr_(_ *Interp, a []Any) Any {
	pair, ok := a[0].(*Cell)
	if !ok {
		panic(&TypeError{"SETCDR", "pair", a[0]})
	}
	pair.Cdr = a[1]
	return pair
}

func atom_(_ *Interp, a []Any) Any {
	_, ok := a[0].(*Cell)
	return Truth(!ok)
}

func eq_(_ *Interp, a []Any) Any {
	return Truth(a[0] == a[1])
}

func eofp_(_ *Interp, a []Any) Any {
	return Truth(a[0] == EOF)
}

func error_(_ *Interp, a []Any) Any {
	panic(&UserError{a[0]})
}

func gc_(_ *Interp, a []Any) Any {
	runtime.GC()
	return Nil
}

func gensym_(_ *Interp, a []Any) Any {
	return Gensym("G")
}

func load_(in *Interp, a []Any) Any {
	path := pathName("LOAD", a[0])
	if _, err := in.Load(path); err != nil {
		panic(err)
	}
	return T
}

func prin_(in *Interp, a []Any) Any {
	fmt.Fprint(in.Out, Str2(a[0], false))
	return a[0]
}

func prin1_(in *Interp, a []Any) Any {
	fmt.Fprint(in.Out, Str(a[0]))
	return a[0]
}

func print_(in *Interp, a []Any) Any {
	fmt.Fprintln(in.Out, Str(a[0]))
	return a[0]
}

func read_(in *Interp, a []Any) Any {
	x, err := in.input.Read()
	if err != nil {
		panic(err)
	}
	return x
}

func suspend_(in *Interp, a []Any) Any {
	path := pathName("SUSPEND", a[0])
	if in.Image == nil {
		panic(ErrNoImage)
	}
	if err := in.Image.Suspend(path, in); err != nil {
		panic(err)
	}
	return T
}

// pathName returns the name of an atom, or the concatenated names of
// a list of atoms such as #foo.l.
func pathName(op string, x Any) string {
	if sym, ok := x.(*Sym); ok && x != Nil {
		return sym.Name
	}
	list, ok := Slice(x)
	if !ok || len(list) == 0 {
		panic(&TypeError{op, "path", x})
	}
	var sb strings.Builder
	for _, e := range list {
		sym, ok := e.(*Sym)
		if !ok {
			panic(&TypeError{op, "path", x})
		}
		sb.WriteString(sym.Name)
	}
	return sb.String()
}

// definePrimitives binds the primitives in the global frame.
func (in *Interp) definePrimitives() {
	for _, s := range []*Subr{
		{"ATOM", 1, atom_},
		{"CAR", 1, car_},
		{"CDR", 1, cdr_},
		{"CONS", 2, cons_},
		{"EOFP", 1, eofp_},
		{"EQ", 2, eq_},
		{"ERROR", 1, error_},
		{"GC", 0, gc_},
		{"GENSYM", 0, gensym_},
		{"LOAD", 1, load_},
		{"PRIN", 1, prin_},
		{"PRIN1", 1, prin1_},
		{"PRINT", 1, print_},
		{"READ", 0, read_},
		{"SETCAR", 2, setcar_},
		{"SETCDR", 2, setcdr_},
		{"SUSPEND", 1, suspend_},
	} {
		in.Global.BindLocal(Intern(s.Name), s)
	}
}

// call applies s to args, checking its arity.
func (s *Subr) call(in *Interp, args Any) Any {
	a, ok := Slice(args)
	if !ok {
		panic(&TypeError{s.Name, "proper argument list", args})
	}
	if s.Arity >= 0 && len(a) != s.Arity {
		panic(&ArityError{s.Name, s.Arity, false, len(a)})
	}
	return s.Fn(in, a)
}
