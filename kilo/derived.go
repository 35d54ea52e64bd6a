package kilo

// Derived forms.  Each is a macro whose expander rewrites the call into
// core forms.  Expansions refer to other derived forms by their macro
// objects so that rebinding the names cannot change their meaning.
var andMacro, condMacro, labelsMacro, letMacro, loopMacro, orMacro *Macro

func init() {
	andMacro = derived("AND", and_)
	condMacro = derived("COND", cond_)
	labelsMacro = derived("LABELS", labels_)
	letMacro = derived("LET", let_)
	loopMacro = derived("LOOP", loop_)
	orMacro = derived("OR", or_)
}

func derived(name string, rewrite func([]Any) Any) *Macro {
	return &Macro{name, &Subr{name, -1, func(_ *Interp, args []Any) Any {
		return rewrite(args)
	}}}
}

func (in *Interp) defineDerivedForms() {
	for _, m := range []*Macro{
		andMacro, condMacro, labelsMacro, letMacro, loopMacro, orMacro,
	} {
		in.Global.BindLocal(Intern(m.Name), m)
	}
}

// (AND e1 ... eN)
func and_(args []Any) Any {
	switch len(args) {
	case 0: // (AND) => T
		return T
	case 1: // (AND e1) => e1
		return args[0]
	default: // (AND e1 e2...) => (IF e1 (AND e2...))
		return List(If_, args[0], &Cell{andMacro, List(args[1:]...)})
	}
}

// (OR e1 ... eN)
func or_(args []Any) Any {
	switch len(args) {
	case 0: // (OR) => NIL
		return Nil
	case 1: // (OR e1) => e1
		return args[0]
	default: // (OR e1 e2...) => ((LAMBDA (g) (IF g g (OR e2...))) e1)
		g := Gensym("G")
		return List(
			List(Lambda_, List(g),
				List(If_, g, g, &Cell{orMacro, List(args[1:]...)})),
			args[0])
	}
}

// (COND (test e1...eN)...)
func cond_(args []Any) Any {
	if len(args) == 0 {
		return Nil
	}
	clause, ok := Slice(args[0])
	if !ok || len(clause) == 0 {
		panic(&TypeError{"COND", "clause", args[0]})
	}
	test, body := clause[0], clause[1:]
	var rest Any
	if len(args) > 1 {
		rest = &Cell{condMacro, List(args[1:]...)}
	}
	if len(body) == 0 { // (COND (test) ...)
		if rest == nil {
			return test
		}
		return List(orMacro, test, rest)
	}
	then := body[0]
	if len(body) > 1 {
		then = &Cell{Prog_, &Cell{Nil, List(body...)}}
	}
	if rest == nil {
		return List(If_, test, then)
	}
	return List(If_, test, then, rest)
}

// (LET ((v e)...) e...) => ((LAMBDA (v...) e...) e...)
func let_(args []Any) Any {
	if len(args) == 0 {
		panic(&ArityError{"LET", 1, true, 0})
	}
	vars, vals := bindings("LET", args[0])
	lambda := &Cell{Lambda_, &Cell{List(vars...), List(args[1:]...)}}
	return &Cell{lambda, List(vals...)}
}

// (LABELS ((f params e...)...) e...)
// => ((LAMBDA (f...) (SETQ f (LAMBDA params e...))... e...) NIL...)
//
// All names are bound to NIL in one frame first, then each closure is
// built over that frame, so every function sees its siblings.
func labels_(args []Any) Any {
	if len(args) == 0 {
		panic(&ArityError{"LABELS", 1, true, 0})
	}
	defs, ok := Slice(args[0])
	if !ok {
		panic(&TypeError{"LABELS", "list of definitions", args[0]})
	}
	var names, nils, body []Any
	for _, d := range defs {
		def, ok := d.(*Cell)
		if !ok {
			panic(&TypeError{"LABELS", "definition", d})
		}
		params, ok := def.Cdr.(*Cell)
		if !ok {
			panic(&TypeError{"LABELS", "definition", d})
		}
		names = append(names, def.Car)
		nils = append(nils, Nil)
		body = append(body, List(SetQ_, def.Car, &Cell{Lambda_, params}))
	}
	body = append(body, args[1:]...)
	lambda := &Cell{Lambda_, &Cell{List(names...), List(body...)}}
	return &Cell{lambda, List(nils...)}
}

// (LOOP name ((v e)...) e...)
// => (LABELS ((name (v...) e...)) (name e...))
func loop_(args []Any) Any {
	if len(args) < 2 {
		panic(&ArityError{"LOOP", 2, true, len(args)})
	}
	name := args[0]
	vars, inits := bindings("LOOP", args[1])
	def := &Cell{name, &Cell{List(vars...), List(args[2:]...)}}
	return List(labelsMacro, List(def), &Cell{name, List(inits...)})
}

// bindings splits ((v e)...) into (v...) and (e...).
// A bare v or (v) binds NIL.
func bindings(op string, x Any) (vars, vals []Any) {
	list, ok := Slice(x)
	if !ok {
		panic(&TypeError{op, "list of bindings", x})
	}
	for _, b := range list {
		switch v := b.(type) {
		case *Sym:
			vars = append(vars, v)
			vals = append(vals, Nil)
		case *Cell:
			a, ok := Slice(v)
			if !ok || len(a) > 2 {
				panic(&TypeError{op, "binding", b})
			}
			vars = append(vars, a[0])
			if len(a) == 2 {
				vals = append(vals, a[1])
			} else {
				vals = append(vals, Nil)
			}
		default:
			panic(&TypeError{op, "binding", b})
		}
	}
	return vars, vals
}
