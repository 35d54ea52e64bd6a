package kilo

import (
	"fmt"
	"strings"
)

// Str(x) returns the readable representation of x, as PRIN1 prints it.
func Str(x Any) string {
	return Str2(x, true)
}

// Str2(x, readable) returns a textual representation of x.
// If readable is true, quotation forms are written with their sugar.
func Str2(x Any, readable bool) string {
	return str4(x, readable, -1, nil)
}

// sugars maps the heads of quotation forms to their reader prefixes.
var sugars = map[*Sym]string{
	Quote_:   "'",
	QQuote_:  "@",
	Unquote_: ",",
	Splice_:  ",@",
}

func str4(a Any, readable bool, count int, printed map[*Cell]bool) string {
	switch x := a.(type) {
	case *Sym:
		return x.Name
	case *Cell:
		if readable {
			if h, ok := x.Car.(*Sym); ok {
				if prefix, ok := sugars[h]; ok {
					if arg, ok := x.Cdr.(*Cell); ok && arg.Cdr == Nil && !printed[x] {
						if printed == nil {
							printed = make(map[*Cell]bool)
						}
						printed[x] = true
						s := prefix + str4(arg.Car, readable, count, printed)
						delete(printed, x)
						return s
					}
				}
			}
		}
		return "(" + strListBody(x, readable, count, printed) + ")"
	}
	return fmt.Sprintf("%v", a)
}

const thresholdOfEllipsisForCircularLists = 4

func strListBody(x *Cell, readable bool, count int, printed map[*Cell]bool) string {
	if printed == nil {
		printed = make(map[*Cell]bool)
	}
	if count < 0 {
		count = thresholdOfEllipsisForCircularLists
	}
	s := make([]string, 0, 10)
	y := x
	for {
		if _, ok := printed[y]; ok {
			count--
			if count < 0 {
				s = append(s, "...") // ellipsis for a circular list
				break
			}
		} else {
			printed[y] = true
			count = thresholdOfEllipsisForCircularLists
		}
		s = append(s, str4(y.Car, readable, count, printed))
		if cdr, ok := y.Cdr.(*Cell); ok {
			y = cdr
		} else {
			if y.Cdr != Nil {
				s = append(s, ".")
				s = append(s, str4(y.Cdr, readable, count, printed))
			}
			break
		}
	}
	y = x
	for {
		if !printed[y] {
			break
		}
		delete(printed, y)
		if cdr, ok := y.Cdr.(*Cell); ok {
			y = cdr
		} else {
			break
		}
	}
	return strings.Join(s, " ")
}
