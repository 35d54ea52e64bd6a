package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/xyproto/vt"

	"github.com/nukata/kilo-lisp-in-go/kilo"
)

const (
	historyFile = ".kilolisp_history"
	promptMain  = "* "
	promptCont  = "  "
)

// ReadEvalPrintLoop reads forms with line editing and history, evaluates
// them in in and prints their values.  An error is reported and the loop
// goes on with the next form.
func ReadEvalPrintLoop(in *kilo.Interp, banner bool) {
	if banner {
		fmt.Printf("Kilo LISP %v\nCtrl+C cancels input, Ctrl+D exits.\n", kilo.Version)
	}
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	in.SetInput(&lineSource{prompt: func() (string, error) {
		return ln.Prompt("")
	}})

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readSource(ln)
		if !ok {
			fmt.Println()
			return
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		evalPrint(in, src, os.Stdout, os.Stderr, true)
	}
}

// readSource prompts for lines until they hold no incomplete form.
// It returns false at the end of input.
func readSource(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// incomplete returns true if src ends inside a form.
func incomplete(src string) bool {
	rr := kilo.NewReader(strings.NewReader(src))
	for {
		x, err := rr.Read()
		if err != nil {
			return kilo.IsIncomplete(err)
		}
		if x == kilo.EOF {
			return false
		}
	}
}

// evalPrint evaluates the forms of src one by one, writing each value to
// out and each error to errOut.
func evalPrint(in *kilo.Interp, src string, out, errOut io.Writer, color bool) {
	rr := kilo.NewReader(strings.NewReader(src))
	for {
		x, err := rr.Read()
		if err != nil {
			fmt.Fprintln(errOut, paint(vt.LightRed, err.Error(), color))
			return
		}
		if x == kilo.EOF {
			return
		}
		result, err := in.Eval(x)
		if err != nil {
			fmt.Fprintln(errOut, paint(vt.LightRed, err.Error(), color))
			continue
		}
		fmt.Fprintln(out, paint(vt.LightBlue, kilo.Str(result), color))
	}
}

// lineSource feeds READ with lines from the line editor, which owns
// the terminal.  It ends at the first failed prompt.
type lineSource struct {
	prompt func() (string, error)
	buf    []byte
}

func (s *lineSource) Read(p []byte) (int, error) {
	for len(s.buf) == 0 {
		line, err := s.prompt()
		if err != nil {
			return 0, io.EOF
		}
		s.buf = append([]byte(line), '\n')
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

func paint(c vt.AttributeColor, s string, color bool) string {
	if !color {
		return s
	}
	return c.Get(s)
}
