package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestIncomplete(t *testing.T) {
	for _, c := range []struct {
		src  string
		want bool
	}{
		{"", false},
		{"(A B)", false},
		{"(A (B", true},
		{"(A\n (B)", true},
		{"'", true},
		{")", false},
		{"(A . B C)", false},
		{"(A) (B", true},
	} {
		if got := incomplete(c.src); got != c.want {
			t.Errorf("%q: want %v, got %v", c.src, c.want, got)
		}
	}
}

func TestEvalPrintGoesOnAfterError(t *testing.T) {
	in := newInterp(t)
	var out, errOut bytes.Buffer
	evalPrint(in, "(SETQ X 'A) (CAR 'X) (CONS X X)", &out, &errOut, false)
	if got := out.String(); got != "A\n(A . A)\n" {
		t.Fatalf("got %q", got)
	}
	if got := errOut.String(); !strings.Contains(got, "CAR") {
		t.Fatalf("got %q", got)
	}
}

func TestEvalPrintStopsAtSyntaxError(t *testing.T) {
	in := newInterp(t)
	var out, errOut bytes.Buffer
	evalPrint(in, "'A ) 'B", &out, &errOut, false)
	if got := out.String(); got != "A\n" {
		t.Fatalf("got %q", got)
	}
	if got := errOut.String(); !strings.Contains(got, "syntax error") {
		t.Fatalf("got %q", got)
	}
}

func TestReadTakesNextInputLine(t *testing.T) {
	in := newInterp(t)
	lines := []string{"(A", " B)", "C D"}
	in.SetInput(&lineSource{prompt: func() (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}})
	var out, errOut bytes.Buffer
	evalPrint(in, "(READ) (READ) (READ) (EOFP (READ))", &out, &errOut, false)
	if got := out.String(); got != "(A B)\nC\nD\nT\n" {
		t.Fatalf("got %q, errors %q", got, errOut.String())
	}
}
