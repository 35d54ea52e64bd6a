package kilo

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ImageWriter persists the state of an interpreter for SUSPEND.
// The format is up to the implementation.
type ImageWriter interface {
	Suspend(path string, in *Interp) error
}

// Stats reports evaluator statistics.
type Stats struct {
	MaxDepth   int // high-water mark of the continuation stack
	Expansions int // macro calls expanded
}

// expansionCacheSize bounds the memo of derived-form expansions.
const expansionCacheSize = 4096

// A memoized expansion of a derived-form call
type expansion struct {
	macro *Macro
	args  Any // the argument forms the expansion was made from
	form  Any
}

// Interp represents an interpreter: a global frame and its streams.
type Interp struct {
	Global *Frame
	Out    io.Writer
	Open   func(path string) (io.ReadCloser, error)
	Image  ImageWriter

	input      *Reader      // the source of READ
	startup    map[*Sym]Any // global bindings after the prelude
	expansions map[*Cell]expansion
	stats      Stats
}

// NewInterp constructs an interpreter which reads from in and prints to
// out.  It defines the primitives and derived forms, then loads the prelude.
func NewInterp(in io.Reader, out io.Writer) (*Interp, error) {
	interp := &Interp{
		Global:     NewFrame(nil),
		Out:        out,
		Open:       openFile,
		input:      NewReader(in),
		expansions: make(map[*Cell]expansion),
	}
	interp.definePrimitives()
	interp.defineDerivedForms()
	if _, err := interp.LoadFrom("prelude", strings.NewReader(prelude)); err != nil {
		return nil, err
	}
	interp.startup = make(map[*Sym]Any)
	interp.Global.Each(func(sym *Sym, value Any) {
		interp.startup[sym] = value
	})
	return interp, nil
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// SetInput makes READ read from r outside of LOAD.
func (in *Interp) SetInput(r io.Reader) {
	in.input = NewReader(r)
}

// IsStartupBinding returns true if sym is still bound to the value it had
// when the interpreter finished loading the prelude.
func (in *Interp) IsStartupBinding(sym *Sym, value Any) bool {
	v, ok := in.startup[sym]
	return ok && v == value
}

// Stats returns the evaluator statistics.
func (in *Interp) Stats() Stats {
	return in.stats
}

// ResetStats clears the evaluator statistics.
func (in *Interp) ResetStats() {
	in.stats = Stats{}
}

//----------------------------------------------------------------------

// Continuation of (fn arg1 ... argN)
type applyCont struct {
	fun       Any
	hasFun    bool
	args      Any // the argument forms not evaluated yet
	evaluated Any
	last      *Cell
	env       *Frame
}

// Continuation of (IF cond then [else]) and (IFNOT cond then [else])
type ifCont struct {
	then    Any
	els     Any
	hasElse bool
	negate  bool
	env     *Frame
}

// Continuation of a body (e1 e2 ... eN)
type seqCont struct {
	rest Any // (e2 ... eN)
	env  *Frame
}

// Continuation of (SETQ sym e)
type setqCont struct {
	sym *Sym
	env *Frame
}

// Continuation of (APPLY fn args)
type applyFormCont struct {
	fun      Any
	hasFun   bool
	argsForm Any
	env      *Frame
}

// A singleton value to represent no need of evaluation
var doneEnv = &Frame{}

//----------------------------------------------------------------------

// Eval evaluates x in the global frame and returns the result and nil.
// If an error happens, it returns NIL and the error.
func (in *Interp) Eval(x Any) (Any, error) {
	return in.EvalIn(x, in.Global)
}

// EvalIn evaluates x in env and returns the result and nil.
// If an error happens, it returns NIL and the error.
func (in *Interp) EvalIn(x Any, env *Frame) (result Any, err error) {
	defer func() {
		if e := recover(); e != nil {
			result = Nil
			if ex, ok := e.(error); ok {
				err = ex
			} else {
				err = fmt.Errorf("%v", e)
			}
		}
	}()
	return in.eval(x, env), nil
}

// EvalString reads and evaluates every form of src in the global frame.
// It returns the value of the last form.
func (in *Interp) EvalString(src string) (Any, error) {
	rr := NewReader(strings.NewReader(src))
	var result Any = Nil
	for {
		x, err := rr.Read()
		if err != nil {
			return Nil, err
		}
		if x == EOF {
			return result, nil
		}
		if result, err = in.Eval(x); err != nil {
			return Nil, err
		}
	}
}

func (in *Interp) eval(x Any, env *Frame) Any {
	return in.run(x, env, nil)
}

// call applies fun to the evaluated arguments args.
func (in *Interp) call(fun Any, args Any) Any {
	x, env, k := in.applyFunc(fun, args, nil)
	if env == doneEnv {
		return x
	}
	return in.run(x, env, k)
}

// run evaluates x in env with the continuation k.
// Forms in tail position replace x and env instead of growing k.
func (in *Interp) run(x Any, env *Frame, k []Any) Any {
	for {
	INNER_LOOP:
		for {
			switch j := x.(type) {
			case *Sym:
				if !j.constant {
					x = env.Lookup(j)
				}
				break INNER_LOOP
			case *Cell:
				head, rest := j.Car, j.Cdr
				if f, ok := head.(*Sym); ok && f.special {
					switch f {
					case Quote_: // (QUOTE e)
						x = argsN(f, rest, 1, 1)[0]
						break INNER_LOOP
					case If_, IfNot_: // (IF cond then [else])
						a := argsN(f, rest, 2, 3)
						c := &ifCont{then: a[1], negate: f == IfNot_, env: env}
						if len(a) == 3 {
							c.els, c.hasElse = a[2], true
						}
						k = in.push(k, c)
						x = a[0]
					case Lambda_: // (LAMBDA params e...)
						x = makeClosure(f, rest, env)
						break INNER_LOOP
					case Macro_: // (MACRO params e...)
						x = &Macro{Expander: makeClosure(f, rest, env)}
						break INNER_LOOP
					case SetQ_: // (SETQ sym e)
						a := argsN(f, rest, 2, 2)
						k = in.push(k, &setqCont{assignable(f, a[0]), env})
						x = a[1]
					case Prog_: // (PROG (v...) e...)
						c, ok := rest.(*Cell)
						if !ok {
							panic(&ArityError{f.Name, 1, true, 0})
						}
						frame := NewFrame(env)
						locals, ok := Slice(c.Car)
						if !ok {
							panic(&TypeError{f.Name, "list of variables", c.Car})
						}
						for _, v := range locals {
							frame.BindLocal(assignable(f, v), Nil)
						}
						env = frame
						if c.Cdr == Nil {
							x = Nil
							break INNER_LOOP
						}
						x, k = in.sequence(c.Cdr, env, k)
					case Apply_: // (APPLY fn args)
						a := argsN(f, rest, 2, 2)
						k = in.push(k, &applyFormCont{argsForm: a[1], env: env})
						x = a[0]
					case QQuote_: // (QQUOTE e)
						x = in.quasi(argsN(f, rest, 1, 1)[0], env)
						break INNER_LOOP
					default: // UNQUOTE and SPLICE
						panic(&TypeError{f.Name, "enclosing QQUOTE", j})
					}
				} else {
					c := &applyCont{args: rest, evaluated: Nil, env: env}
					switch h := head.(type) {
					case *Sym:
						c.fun, c.hasFun = h, true
						if !h.constant {
							c.fun = env.Lookup(h)
						}
					case *Macro:
						c.fun, c.hasFun = h, true
					}
					if m, ok := c.fun.(*Macro); ok {
						x = in.expandCall(m, j)
						continue
					}
					if !c.hasFun {
						k = in.push(k, c)
						x = head
						continue
					}
					if rest == Nil {
						x, env, k = in.applyFunc(c.fun, Nil, k)
						if env == doneEnv {
							break INNER_LOOP
						}
						continue
					}
					k = in.push(k, c)
					x = c.nextArg()
				}
			default:
				break INNER_LOOP // closures, primitives etc.
			}
		} // end of INNER_LOOP
		for {
			if len(k) == 0 {
				return x
			}
			// Apply the continuation k to the value x.
			x, env, k = in.resume(k, x)
			if env != doneEnv {
				break // continue to the next OUTER LOOP
			}
		}
	}
}

// resume applies the top of the continuation k to value.
// It returns the next form, its frame and the continuation.
// If the frame is doneEnv, the form has been evaluated.
func (in *Interp) resume(k []Any, value Any) (Any, *Frame, []Any) {
	top := len(k) - 1
	switch c := k[top].(type) {
	case *applyCont:
		if !c.hasFun {
			if m, ok := value.(*Macro); ok { // ((MACRO ...) e...)
				return in.expand(m, c.args), c.env, pop(k)
			}
			c.fun, c.hasFun = value, true
		} else {
			cell := &Cell{value, Nil}
			if c.last == nil {
				c.evaluated = cell
			} else {
				c.last.Cdr = cell
			}
			c.last = cell
		}
		if c.args == Nil {
			return in.applyFunc(c.fun, c.evaluated, pop(k))
		}
		return c.nextArg(), c.env, k
	case *ifCont:
		k = pop(k)
		truth := value != Nil
		if c.negate {
			truth = !truth
		}
		if truth {
			return c.then, c.env, k
		} else if c.hasElse {
			return c.els, c.env, k
		}
		return Nil, doneEnv, k
	case *seqCont:
		body, ok := c.rest.(*Cell)
		if !ok {
			panic(&TypeError{"body", "list of forms", c.rest})
		}
		c.rest = body.Cdr
		if c.rest == Nil { // the last form is in tail position.
			k = pop(k)
		}
		return body.Car, c.env, k
	case *setqCont:
		c.env.Assign(c.sym, value)
		return value, doneEnv, pop(k)
	case *applyFormCont:
		if !c.hasFun {
			c.fun, c.hasFun = value, true
			return c.argsForm, c.env, k
		}
		if _, ok := Slice(value); !ok {
			panic(&TypeError{Apply_.Name, "list", value})
		}
		return in.applyFunc(c.fun, value, pop(k))
	default:
		panic(fmt.Errorf("unknown continuation %T", c))
	}
}

// applyFunc applies fun to args with the continuation k.
// It returns the next form, its frame and the continuation.
func (in *Interp) applyFunc(fun Any, args Any, k []Any) (Any, *Frame, []Any) {
	switch fn := fun.(type) {
	case *Closure:
		env := bindParams(fn, args)
		if fn.Body == Nil {
			return Nil, doneEnv, k
		}
		var x Any
		x, k = in.sequence(fn.Body, env, k)
		return x, env, k
	case *Subr:
		return fn.call(in, args), doneEnv, k
	default:
		panic(&TypeError{"apply", "function", fun})
	}
}

// expand rewrites the call of m with the argument forms args.
func (in *Interp) expand(m *Macro, args Any) Any {
	in.stats.Expansions++
	return in.call(m.Expander, args)
}

// expandCall rewrites the call j of m.  Derived forms are expanded by
// primitives which depend on the argument forms only, so their
// expansions are memoized per call while j keeps the same arguments.
func (in *Interp) expandCall(m *Macro, j *Cell) Any {
	if _, ok := m.Expander.(*Subr); !ok {
		return in.expand(m, j.Cdr)
	}
	if e, ok := in.expansions[j]; ok && e.macro == m && e.args == j.Cdr {
		return e.form
	}
	form := in.expand(m, j.Cdr)
	if len(in.expansions) >= expansionCacheSize {
		clear(in.expansions)
	}
	in.expansions[j] = expansion{m, j.Cdr, form}
	return form
}

// sequence returns the first form of body, pushing the rest if any.
func (in *Interp) sequence(body Any, env *Frame, k []Any) (Any, []Any) {
	c, ok := body.(*Cell)
	if !ok {
		panic(&TypeError{"body", "list of forms", body})
	}
	if c.Cdr != Nil {
		k = in.push(k, &seqCont{c.Cdr, env})
	}
	return c.Car, k
}

func (in *Interp) push(k []Any, c Any) []Any {
	k = append(k, c)
	if len(k) > in.stats.MaxDepth {
		in.stats.MaxDepth = len(k)
	}
	return k
}

func pop(k []Any) []Any {
	top := len(k) - 1
	k[top] = nil
	return k[:top]
}

func (c *applyCont) nextArg() Any {
	a, ok := c.args.(*Cell)
	if !ok {
		panic(&TypeError{"apply", "proper argument list", c.args})
	}
	c.args = a.Cdr
	return a.Car
}

//----------------------------------------------------------------------

// makeClosure builds a closure of (LAMBDA params e...) over env.
func makeClosure(f *Sym, rest Any, env *Frame) *Closure {
	c, ok := rest.(*Cell)
	if !ok {
		panic(&ArityError{f.Name, 1, true, 0})
	}
	p := c.Car
	for {
		j, ok := p.(*Cell)
		if !ok {
			break
		}
		assignable(f, j.Car)
		p = j.Cdr
	}
	if p != Nil {
		assignable(f, p)
	}
	return &Closure{c.Car, c.Cdr, env}
}

// bindParams binds the parameters of fn to args in a new frame
// enclosed by the frame fn captured.
func bindParams(fn *Closure, args Any) *Frame {
	env := NewFrame(fn.Env)
	params, a := fn.Params, args
	for {
		p, ok := params.(*Cell)
		if !ok {
			break
		}
		c, ok := a.(*Cell)
		if !ok {
			panic(arityError(fn, args))
		}
		env.BindLocal(p.Car.(*Sym), c.Car)
		params, a = p.Cdr, c.Cdr
	}
	if params == Nil {
		if a != Nil {
			panic(arityError(fn, args))
		}
	} else { // (v1 ... vN . vRest) or vAll
		env.BindLocal(params.(*Sym), a)
	}
	return env
}

func arityError(fn *Closure, args Any) *ArityError {
	want := 0
	p := fn.Params
	for j, ok := p.(*Cell); ok; j, ok = p.(*Cell) {
		want++
		p = j.Cdr
	}
	got, _ := Slice(args)
	return &ArityError{Str(fn), want, p != Nil, len(got)}
}

// assignable returns x as a variable, or panics if x cannot be bound.
func assignable(op *Sym, x Any) *Sym {
	sym, ok := x.(*Sym)
	if !ok || sym.special || sym.constant {
		panic(&TypeError{op.Name, "variable", x})
	}
	return sym
}

// argsN returns the argument forms of a special form,
// checking that there are min to max of them.
func argsN(f *Sym, rest Any, min, max int) []Any {
	a, ok := Slice(rest)
	if !ok || len(a) < min || len(a) > max {
		panic(&ArityError{f.Name, min, max > min, len(a)})
	}
	return a
}
