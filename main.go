/*
  Kilo LISP in Go: the command-line front end.
*/
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nukata/kilo-lisp-in-go/kilo"
)

var (
	verbose = flag.Bool("v", false, "log file loads and image writes")
	quiet   = flag.Bool("q", false, "do not print the banner")
	expr    = flag.String("e", "", "evaluate `form` after loading the files and print its value")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [file ... | -]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))
	os.Exit(Main(flag.Args(), *expr))
}

// Main loads each element of files as a Kilo LISP source file, then
// evaluates form if it is not empty.  If there are neither files nor
// form, or some element of files is "-", it begins REPL.
func Main(files []string, form string) int {
	in, err := kilo.NewInterp(os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	in.Image = sourceImage{}
	if len(files) == 0 && form == "" {
		files = []string{"-"}
	}
	for _, fileName := range files {
		if fileName == "-" {
			ReadEvalPrintLoop(in, !*quiet)
			continue
		}
		slog.Debug("loading", "file", fileName)
		if _, err := in.Load(fileName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if form != "" {
		result, err := in.EvalString(form)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(kilo.Str(result))
	}
	return 0
}
