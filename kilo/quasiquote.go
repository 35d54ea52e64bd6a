package kilo

// Quasi-Quotation

// quasi builds a copy of the template x, evaluating (UNQUOTE e) and
// splicing the elements of (SPLICE e) in env.  It does not descend
// into (QUOTE e).
func (in *Interp) quasi(x Any, env *Frame) Any {
	j, ok := x.(*Cell)
	if !ok {
		return x
	}
	switch j.Car {
	case Unquote_: // ,a
		return in.eval(argsN(Unquote_, j.Cdr, 1, 1)[0], env)
	case Quote_: // 'a
		return j
	case Splice_: // ,@a outside of a list
		panic(&TypeError{Splice_.Name, "enclosing list", j})
	}
	var result Any = Nil
	p := &result
	var y Any = j
	for {
		c, ok := y.(*Cell)
		if !ok { // (a . b) or (a b)
			*p = y
			return result
		}
		if c.Car == Unquote_ { // (a . ,b) reads as (a UNQUOTE b)
			*p = in.quasi(c, env)
			return result
		}
		if e, ok := c.Car.(*Cell); ok && e.Car == Splice_ { // ,@b
			v := in.eval(argsN(Splice_, e.Cdr, 1, 1)[0], env)
			elements, ok := Slice(v)
			if !ok {
				panic(&TypeError{Splice_.Name, "list", v})
			}
			for _, a := range elements {
				cell := &Cell{a, Nil}
				*p = cell
				p = &cell.Cdr
			}
		} else {
			cell := &Cell{in.quasi(c.Car, env), Nil}
			*p = cell
			p = &cell.Cdr
		}
		y = c.Cdr
	}
}
