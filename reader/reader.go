// Package reader implements the external parser/tokenizer collaborator:
// it turns slight source text into term.Object values (forms) the
// machine can evaluate. Grounded on sxreader's rune-at-a-time Reader,
// generalized to slight's own token syntax (keywords, booleans,
// line comments).
package reader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/slight-lang/slight/term"
)

// Reader consumes runes from a stream and parses them into forms, one
// at a time, the way a REPL needs to read a single top-level form
// without blocking for more input than necessary.
type Reader struct {
	rr   io.RuneScanner
	name string
	line int
	col  int
}

// New wraps r, labelling positions with name (used in error messages).
func New(r io.Reader, name string) *Reader {
	rs, ok := r.(io.RuneScanner)
	if !ok {
		rs = bufio.NewReader(r)
	}
	return &Reader{rr: rs, name: name, line: 1, col: 0}
}

// NewString wraps a single string of source text.
func NewString(src, name string) *Reader {
	return New(strings.NewReader(src), name)
}

// SyntaxError reports a lexical or structural parse failure. It is the
// one error class that belongs to the external collaborator, not the
// machine's own taxonomy.
type SyntaxError struct {
	Name    string
	Line    int
	Col     int
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Col, e.Message)
}

func (r *Reader) errf(format string, a ...any) error {
	return SyntaxError{Name: r.name, Line: r.line, Col: r.col, Message: fmt.Sprintf(format, a...)}
}

func (r *Reader) next() (rune, error) {
	ru, _, err := r.rr.ReadRune()
	if err != nil {
		return 0, err
	}
	if ru == '\n' {
		r.line++
		r.col = 0
	} else {
		r.col++
	}
	return ru, nil
}

func (r *Reader) unread() {
	_ = r.rr.UnreadRune()
	if r.col > 0 {
		r.col--
	}
}

// ReadAll reads every top-level form in the stream.
func (r *Reader) ReadAll() ([]term.Object, error) {
	var out []term.Object
	for {
		form, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, form)
	}
}

// Read parses and returns the next top-level form, or io.EOF if the
// stream is exhausted with no further non-whitespace content.
func (r *Reader) Read() (term.Object, error) {
	if err := r.skipAtmosphere(); err != nil {
		return nil, err
	}
	return r.readForm()
}

func (r *Reader) skipAtmosphere() error {
	for {
		ru, err := r.next()
		if err != nil {
			return err
		}
		switch {
		case unicode.IsSpace(ru):
			continue
		case ru == ';':
			for {
				c, err := r.next()
				if err != nil {
					return nil
				}
				if c == '\n' {
					break
				}
			}
		default:
			r.unread()
			return nil
		}
	}
}

func (r *Reader) readForm() (term.Object, error) {
	ru, err := r.next()
	if err != nil {
		return nil, err
	}
	switch {
	case ru == '(':
		return r.readList(')')
	case ru == ')':
		return nil, r.errf("unexpected )")
	case ru == '\'':
		inner, err := r.Read()
		if err != nil {
			return nil, err
		}
		return term.MakeList(term.Sym("quote"), inner), nil
	case ru == '"':
		return r.readString()
	case ru == ':':
		return r.readKeyword()
	default:
		r.unread()
		return r.readAtom()
	}
}

func (r *Reader) readList(close rune) (term.Object, error) {
	var items []term.Object
	for {
		if err := r.skipAtmosphere(); err != nil {
			if err == io.EOF {
				return nil, r.errf("unexpected EOF, expected %q", close)
			}
			return nil, err
		}
		ru, err := r.next()
		if err != nil {
			return nil, r.errf("unexpected EOF, expected %q", close)
		}
		if ru == close {
			return term.MakeList(items...), nil
		}
		r.unread()
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, form)
	}
}

func (r *Reader) readString() (term.Object, error) {
	var sb strings.Builder
	for {
		ru, err := r.next()
		if err != nil {
			return nil, r.errf("unterminated string")
		}
		if ru == '"' {
			return term.Str(sb.String()), nil
		}
		if ru == '\\' {
			esc, err := r.next()
			if err != nil {
				return nil, r.errf("unterminated string escape")
			}
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(ru)
	}
}

func (r *Reader) readKeyword() (term.Object, error) {
	name, err := r.readToken()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, r.errf("empty keyword")
	}
	return term.MakeKey(name), nil
}

func isDelim(ru rune) bool {
	return unicode.IsSpace(ru) || ru == '(' || ru == ')' || ru == '"' || ru == ';'
}

func (r *Reader) readToken() (string, error) {
	var sb strings.Builder
	for {
		ru, err := r.next()
		if err != nil {
			break
		}
		if isDelim(ru) {
			r.unread()
			break
		}
		sb.WriteRune(ru)
	}
	return sb.String(), nil
}

func (r *Reader) readAtom() (term.Object, error) {
	tok, err := r.readToken()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, r.errf("empty atom")
	}
	switch tok {
	case "true":
		return term.Bool(true), nil
	case "false":
		return term.Bool(false), nil
	case "nil":
		return term.Nil(), nil
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return term.Num(n), nil
	}
	return term.Sym(tok), nil
}
