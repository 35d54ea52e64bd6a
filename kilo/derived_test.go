package kilo

import (
	"errors"
	"testing"
)

func TestLet(t *testing.T) {
	evalCases(t, []struct{ src, want string }{
		{"(LET ((A 'X) (B 'Y)) (CONS A B))", "(X . Y)"},
		{"(LET (A (B)) (CONS A B))", "(NIL)"},
		{"(LET ())", "NIL"},
		{"(SETQ A 'OUT) (LET ((A 'IN) (B A)) B)", "OUT"},
		{"(LET ((A 'IN)) A)", "IN"},
		{"A", "OUT"},
	})
}

func TestLabelsMutualRecursion(t *testing.T) {
	in, _ := newInterp(t)
	mustEval(t, in, `
(SETQ EVENP
  (LAMBDA (L)
    (LABELS ((EV (L) (IFNOT L T (OD (CDR L))))
             (OD (L) (IFNOT L NIL (EV (CDR L)))))
      (EV L))))`)
	wantPrinted(t, mustEval(t, in, "(EVENP '(A B C D))"), "T")
	wantPrinted(t, mustEval(t, in, "(EVENP '(A B C))"), "NIL")
	if _, ok := in.Global.Get(Intern("EV")); ok {
		t.Fatal("EV must stay local")
	}
}

func TestCond(t *testing.T) {
	evalCases(t, []struct{ src, want string }{
		{"(COND)", "NIL"},
		{"(COND (NIL 'A))", "NIL"},
		{"(COND (NIL 'A) ('X 'B 'C))", "C"},
		{"(COND ('V))", "V"},
		{"(COND (NIL) ('W))", "W"},
		{"(COND ((EQ 'A 'B) 'NO) ((EQ 'A 'A) 'YES) (T 'LAST))", "YES"},
		{"((LAMBDA (OR) (COND (NIL) ('Z))) 'X)", "Z"},
	})
}

func TestAndOr(t *testing.T) {
	evalCases(t, []struct{ src, want string }{
		{"(AND)", "T"},
		{"(AND 'A)", "A"},
		{"(AND 'A 'B)", "B"},
		{"(AND 'A NIL (ERROR 'NO))", "NIL"},
		{"(OR)", "NIL"},
		{"(OR NIL)", "NIL"},
		{"(OR NIL 'B)", "B"},
		{"(OR 'A (ERROR 'NO))", "A"},
		{"(LET ((G 'MINE)) (OR NIL G))", "MINE"},
	})
}

func TestNamedLoop(t *testing.T) {
	evalCases(t, []struct{ src, want string }{
		{"(LOOP NEXT ((L '(A B C)) (R NIL)) (IFNOT L R (NEXT (CDR L) (CONS (CAR L) R))))", "(C B A)"},
		{"(LOOP NEXT () 'DONE)", "DONE"},
	})
}

func TestMacro(t *testing.T) {
	in, _ := newInterp(t)
	mustEval(t, in, `
(SETQ SWAP
  (MACRO (A B)
    ((LAMBDA (TMP)
       @(LET ((,TMP ,A)) (SETQ ,A ,B) (SETQ ,B ,TMP)))
     (GENSYM))))`)
	wantPrinted(t, mustEval(t, in, "(SETQ P 'ONE) (SETQ Q 'TWO) (SWAP P Q) (CONS P Q)"), "(TWO . ONE)")
	// The generated atom cannot capture a variable named like it.
	wantPrinted(t, mustEval(t, in, "(SETQ TMP 'X) (SETQ G 'Y) (SWAP TMP G) (CONS TMP G)"), "(Y . X)")

	mustEval(t, in, "(SETQ WHEN (MACRO (C . B) @(IF ,C (PROG NIL ,@B))))")
	wantPrinted(t, mustEval(t, in, "(WHEN T 'A 'B)"), "B")
	wantPrinted(t, mustEval(t, in, "(WHEN NIL (ERROR 'NO))"), "NIL")
	wantPrinted(t, mustEval(t, in, "((MACRO (X) X) 'Q)"), "Q")
	wantPrinted(t, mustEval(t, in, "WHEN"), "<macro>")
}

func TestLocalBindingShadowsDerivedForm(t *testing.T) {
	in, _ := newInterp(t)
	wantPrinted(t, mustEval(t, in, "((LAMBDA (LET) (LET '(A B))) CAR)"), "A")
	wantPrinted(t, mustEval(t, in, "(LET ((A 'B)) A)"), "B")
}

func TestDerivedFormErrors(t *testing.T) {
	in, _ := newInterp(t)
	for _, src := range []string{"(COND A)", "(LET (1 2))", "(LABELS (F))"} {
		var te *TypeError
		if err := evalErr(t, in, src); !errors.As(err, &te) {
			t.Errorf("%s: want TypeError, got %v", src, err)
		}
	}
	var ae *ArityError
	if err := evalErr(t, in, "(LOOP NEXT)"); !errors.As(err, &ae) {
		t.Errorf("want ArityError, got %v", err)
	}
}
