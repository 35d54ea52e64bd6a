package kilo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
)

var atSym = Intern("@")
var commaAtSym = Intern(",@")
var commaSym = Intern(",")
var dotSym = Intern(".")
var leftParenSym = Intern("(")
var rightParenSym = Intern(")")
var singleQuoteSym = Intern("'")

type token struct {
	text string
	col  int // 1-based
}

// Reader represents a reader of forms.
type Reader struct {
	scanner  *bufio.Scanner
	token    Any     // the current token
	tokCol   int     // the column of the current token
	tokens   []token // tokens read from the current line
	index    int     // the next index of tokens
	line     string  // the current line
	lineNo   int     // the current line number
	formLine int     // the line on which the last form started
	erred    bool    // a flag if an error has happened
}

// MaxLineLength is the longest source line a Reader accepts.
const MaxLineLength = 1 << 20

// NewReader constructs a reader which will read forms from r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)
	return &Reader{scanner: scanner}
}

// FormLine returns the line on which the last form read started.
func (rr *Reader) FormLine() int {
	return rr.formLine
}

// Read reads a form and returns it and nil.
// If the input runs out, it will return EOF and nil.
// If an error happens, it will return NIL and the error.
func (rr *Reader) Read() (result Any, err error) {
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
	rr.readToken()
	if rr.token == EOF {
		return EOF, nil
	}
	rr.formLine = rr.lineNo
	return rr.parseExpression(), nil
}

func (rr *Reader) newSyntaxError(msg string, arg Any) *SyntaxError {
	rr.erred = true
	return &SyntaxError{
		Message: fmt.Sprintf(msg, arg),
		Line:    rr.lineNo,
		Col:     rr.tokCol,
		Text:    rr.line,
	}
}

func (rr *Reader) unexpectedEOF() *SyntaxError {
	err := rr.newSyntaxError("unexpected EOF%s", "")
	err.Incomplete = true
	return err
}

func (rr *Reader) parseExpression() Any {
	switch rr.token {
	case leftParenSym: // (a b c)
		rr.readToken()
		return rr.parseListBody()
	case singleQuoteSym: // 'a => (QUOTE a)
		return List(Quote_, rr.parsePrefixed())
	case atSym: // @a => (QQUOTE a)
		return List(QQuote_, rr.parsePrefixed())
	case commaSym: // ,a => (UNQUOTE a)
		return List(Unquote_, rr.parsePrefixed())
	case commaAtSym: // ,@a => (SPLICE a)
		return List(Splice_, rr.parsePrefixed())
	case dotSym, rightParenSym:
		panic(rr.newSyntaxError("unexpected \"%v\"", rr.token))
	case EOF:
		panic(rr.unexpectedEOF())
	default:
		return rr.token
	}
}

func (rr *Reader) parsePrefixed() Any {
	rr.readToken()
	return rr.parseExpression()
}

func (rr *Reader) parseListBody() Any {
	if rr.token == EOF {
		panic(rr.unexpectedEOF())
	} else if rr.token == rightParenSym {
		return Nil
	} else if rr.token == dotSym {
		panic(rr.newSyntaxError("unexpected \"%v\"", rr.token))
	}
	var result Any = Nil
	p := &result
	for {
		cell := &Cell{rr.parseExpression(), Nil}
		*p = cell
		p = &cell.Cdr
		rr.readToken()
		switch rr.token {
		case EOF:
			panic(rr.unexpectedEOF())
		case rightParenSym:
			return result
		case dotSym: // (a . b)
			rr.readToken()
			if rr.token == EOF {
				panic(rr.unexpectedEOF())
			}
			*p = rr.parseExpression()
			rr.readToken()
			if rr.token == EOF {
				panic(rr.unexpectedEOF())
			}
			if rr.token != rightParenSym {
				panic(rr.newSyntaxError("\")\" expected: %v", rr.token))
			}
			return result
		}
	}
}

// readToken reads the next token and set it to rr.token.
func (rr *Reader) readToken() {
	// Read the next line if the line ends or an error happened last time.
	for len(rr.tokens) <= rr.index || rr.erred {
		rr.erred = false
		if rr.scanner.Scan() {
			rr.line = rr.scanner.Text()
			rr.lineNo++
		} else {
			if err := rr.scanner.Err(); err != nil {
				if errors.Is(err, bufio.ErrTooLong) {
					rr.lineNo++
					rr.line, rr.tokCol = "", 1
					panic(rr.newSyntaxError("line longer than %d bytes", MaxLineLength))
				}
				panic(err)
			}
			rr.token = EOF
			rr.tokCol = len(rr.line) + 1
			return
		}
		mm := tokenPat.FindAllStringSubmatchIndex(rr.line, -1)
		tt := make([]token, 0, len(mm)*3/5) // Estimate 40% will be spaces.
		for _, m := range mm {
			if m[2] >= 0 {
				tt = append(tt, token{rr.line[m[2]:m[3]], m[2] + 1})
			}
		}
		rr.tokens = tt
		rr.index = 0
	}
	// Read the next token.
	t := rr.tokens[rr.index]
	rr.index++
	rr.tokCol = t.col
	if t.text[0] == '#' { // #xyz => (QUOTE (x y z))
		chars := make([]Any, 0, len(t.text)-1)
		for _, r := range t.text[1:] {
			chars = append(chars, Intern(string(r)))
		}
		rr.token = List(Quote_, List(chars...))
		return
	}
	rr.token = Intern(t.text)
}

// tokenPat is a regular expression to split a line to tokens.
var tokenPat = regexp.MustCompile(`\s+|;.*$|(,@|[()'@,]|#[^\s()'@,;#]*|[^\s()'@,;#]+)`)
