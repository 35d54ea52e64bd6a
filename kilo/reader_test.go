package kilo

import (
	"errors"
	"strings"
	"testing"
)

func readAll(t *testing.T, src string) []Any {
	t.Helper()
	rr := NewReader(strings.NewReader(src))
	var forms []Any
	for {
		x, err := rr.Read()
		if err != nil {
			t.Fatalf("read %q: %v", src, err)
		}
		if x == EOF {
			return forms
		}
		forms = append(forms, x)
	}
}

func readErr(t *testing.T, src string) *SyntaxError {
	t.Helper()
	rr := NewReader(strings.NewReader(src))
	for {
		x, err := rr.Read()
		if err != nil {
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("read %q: want SyntaxError, got %v", src, err)
			}
			return se
		}
		if x == EOF {
			t.Fatalf("read %q: want an error", src)
		}
	}
}

func TestReadForms(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{"FOO", "FOO"},
		{"'x", "(QUOTE x)"},
		{"#abc", "(QUOTE (a b c))"},
		{"#", "(QUOTE NIL)"},
		{"@(a ,b ,@c)", "(QQUOTE (a (UNQUOTE b) (SPLICE c)))"},
		{"(a . b)", "(a . b)"},
		{"(a b . (c))", "(a b c)"},
		{"(a . NIL)", "(a)"},
		{"()", "NIL"},
		{"( )", "NIL"},
		{"; comment\nFOO ; trailing", "FOO"},
		{"(a\n  (b\n c))", "(a (b c))"},
		{"foo.l", "foo.l"},
		{"-12", "-12"},
	} {
		forms := readAll(t, c.src)
		if len(forms) != 1 {
			t.Errorf("%q: want 1 form, got %d", c.src, len(forms))
			continue
		}
		if got := Str2(forms[0], false); got != c.want {
			t.Errorf("%q: want %s, got %s", c.src, c.want, got)
		}
	}
}

func TestReadInternsAtoms(t *testing.T) {
	forms := readAll(t, "FOO (FOO) #FO")
	foo := Intern("FOO")
	if forms[0] != foo || forms[1].(*Cell).Car != foo {
		t.Fatal("FOO read twice must be one atom")
	}
	chars, _ := Slice(forms[2].(*Cell).Cdr.(*Cell).Car)
	if len(chars) != 2 || chars[0] != Intern("F") || chars[1] != Intern("O") {
		t.Fatalf("got %v", Str(forms[2]))
	}
}

func TestGensymIsNeverInterned(t *testing.T) {
	in, _ := newInterp(t)
	g, ok := mustEval(t, in, "(GENSYM)").(*Sym)
	if !ok {
		t.Fatal("GENSYM must return an atom")
	}
	if g.IsInterned() || Intern(g.Name) == g {
		t.Fatalf("%s is interned", g.Name)
	}
	wantPrinted(t, mustEval(t, in, "(EQ (GENSYM) (GENSYM))"), "NIL")
	in.Global.BindLocal(Intern("G"), g)
	wantPrinted(t, mustEval(t, in, "(EQ G G)"), "T")
	wantPrinted(t, mustEval(t, in, "(EQ G '"+g.Name+")"), "NIL")
	if !Intern("FOO").IsInterned() {
		t.Fatal("FOO must be interned")
	}
}

func TestReadSyntaxErrors(t *testing.T) {
	for _, src := range []string{")", "(a . )", "(a . b c)", "(. a)", "(a . . b)", "."} {
		se := readErr(t, src)
		if se.Incomplete {
			t.Errorf("%q: must not be incomplete", src)
		}
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	se := readErr(t, "(A B)\n  (C . D E)")
	if se.Line != 2 || se.Col != 10 {
		t.Fatalf("want 2:10, got %d:%d", se.Line, se.Col)
	}
	if se.Text != "  (C . D E)" {
		t.Fatalf("got text %q", se.Text)
	}
}

func TestReadIncomplete(t *testing.T) {
	for _, src := range []string{"(a (b", "'", "(a .", "@(a ,"} {
		se := readErr(t, src)
		if !se.Incomplete || !IsIncomplete(se) {
			t.Errorf("%q: want incomplete", src)
		}
	}
}

func TestReadEOF(t *testing.T) {
	rr := NewReader(strings.NewReader(""))
	if x, err := rr.Read(); x != EOF || err != nil {
		t.Fatalf("got %v, %v", x, err)
	}
	rr = NewReader(strings.NewReader("A\n(B)\n"))
	if x, _ := rr.Read(); x != Intern("A") || rr.FormLine() != 1 {
		t.Fatalf("got %v at line %d", x, rr.FormLine())
	}
	if x, _ := rr.Read(); Str(x) != "(B)" || rr.FormLine() != 2 {
		t.Fatalf("got %v at line %d", x, rr.FormLine())
	}
	if x, err := rr.Read(); x != EOF || err != nil {
		t.Fatalf("got %v, %v", x, err)
	}
}

func TestReadSkipsRestOfLineAfterError(t *testing.T) {
	rr := NewReader(strings.NewReader(") A\nB"))
	if _, err := rr.Read(); err == nil {
		t.Fatal("want an error")
	}
	if x, err := rr.Read(); x != Intern("B") || err != nil {
		t.Fatalf("got %v, %v", x, err)
	}
}

func TestReadLongLines(t *testing.T) {
	long := strings.Repeat("A", 100000)
	forms := readAll(t, "("+long+" B)")
	if Str(forms[0]) != "("+long+" B)" {
		t.Fatal("long atom was split")
	}

	se := readErr(t, "(A)\n"+strings.Repeat("B", MaxLineLength+1)+"\n")
	if se.Line != 2 || se.Incomplete {
		t.Fatalf("got %v", se)
	}
}
