// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package migrate

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stmt represents a scanned statement text along with its
// position in the input and associated comments group.
type Stmt struct {
	Pos      int      // statement position
	Text     string   // statement text
	Comments []string // associated comments
}

// Directive returns all directive comments with the given name.
// For example, "-- sfplan:notx" is a directive named "notx".
func (s *Stmt) Directive(name string) (ds []string) {
	for _, c := range s.Comments {
		switch {
		case strings.HasPrefix(c, "/*") && !strings.Contains(c, "\n"):
			if d, ok := Directive(strings.TrimSuffix(c, "*/"), "/*", name); ok {
				ds = append(ds, d)
			}
		default:
			for _, p := range []string{"--", "-- ", "//", "// "} {
				if d, ok := Directive(c, p, name); ok {
					ds = append(ds, d)
				}
			}
		}
	}
	return
}

var reDirective = regexp.MustCompile(`^([ -~]*)sfplan:(\w+)(?: +([ -~]*))*`)

// Directive searches in the content a line that matches a directive
// with the given prefix and name. For example:
//
//	Directive(c, "-- ", "notx")
func Directive(content, prefix, name string) (string, bool) {
	m := reDirective.FindStringSubmatch(content)
	if len(m) == 4 && m[1] == prefix && m[2] == name {
		return strings.TrimSpace(m[3]), true
	}
	return "", false
}

// Stmts splits the given SQL input to its statements. Statements are
// terminated by a semicolon that is not part of a string literal, a quoted
// identifier, a $$-delimited body or a parenthesized expression.
func Stmts(input string) ([]*Stmt, error) {
	var stmts []*Stmt
	l := &lex{input: input}
	for {
		s, err := l.stmt()
		if err == io.EOF {
			return stmts, nil
		}
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

type lex struct {
	input    string
	pos      int      // current and real position
	total    int      // total bytes scanned so far
	width    int      // size of latest rune
	depth    int      // depth of parentheses
	comments []string // collected comments
}

const (
	eos       = -1
	delimiter = ";"
)

func (l *lex) stmt() (*Stmt, error) {
	var text string
	// Trim leading whitespace.
	l.skipSpaces()
Scan:
	for {
		switch r := l.next(); {
		case r == eos:
			if l.depth > 0 {
				return nil, errors.New("unclosed parentheses")
			}
			if l.pos > 0 {
				text = l.input
				break Scan
			}
			return nil, io.EOF
		case r == '(':
			l.depth++
		case r == ')':
			if l.depth == 0 {
				return nil, fmt.Errorf("unexpected ')' at position %d", l.total)
			}
			l.depth--
		case r == '\'', r == '"':
			if err := l.skipQuote(r); err != nil {
				return nil, err
			}
		case r == '$' && strings.HasPrefix(l.input[l.pos:], "$"):
			if err := l.skipDollar(); err != nil {
				return nil, err
			}
		case r == ';' && l.depth == 0:
			text = l.input[:l.pos]
			break Scan
		case r == '-' && strings.HasPrefix(l.input[l.pos:], "-"):
			l.next()
			l.comment("--", "\n")
		case r == '/' && strings.HasPrefix(l.input[l.pos:], "/"):
			l.next()
			l.comment("//", "\n")
		case r == '/' && strings.HasPrefix(l.input[l.pos:], "*"):
			l.next()
			l.comment("/*", "*/")
		}
	}
	return l.emit(text), nil
}

func (l *lex) next() rune {
	if l.pos >= len(l.input) {
		return eos
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.addPos(w)
	return r
}

func (l *lex) addPos(p int) {
	l.pos += p
	l.total += p
}

func (l *lex) skipQuote(quote rune) error {
	for {
		switch r := l.next(); {
		case r == eos:
			return fmt.Errorf("unclosed quote %q", quote)
		case r == '\\' && quote == '\'':
			l.next()
		case r == quote:
			// Doubled quotes are escaped quotes.
			if strings.HasPrefix(l.input[l.pos:], string(quote)) {
				l.next()
				continue
			}
			return nil
		}
	}
}

// skipDollar skips a $$-delimited string. The opening
// delimiter was partially consumed by the caller.
func (l *lex) skipDollar() error {
	l.next()
	i := strings.Index(l.input[l.pos:], "$$")
	if i == -1 {
		return errors.New("unclosed $$ delimiter")
	}
	l.addPos(i + 2)
	return nil
}

func (l *lex) comment(left, right string) {
	i := strings.Index(l.input[l.pos:], right)
	// Comment runs to the end of the input.
	if i == -1 {
		i = len(l.input) - l.pos - len(right)
		if i < 0 {
			return
		}
	}
	// If the comment reside inside a statement, skip it.
	if l.pos != len(left) {
		l.addPos(i + len(right))
		return
	}
	l.addPos(i + len(right))
	// If we did not scan any statement characters, it
	// can be skipped and stored in the comments group.
	l.comments = append(l.comments, l.input[:l.pos])
	l.input = l.input[l.pos:]
	l.pos = 0
	// Double \n separate the comments group from the statement.
	if strings.HasPrefix(l.input, "\n\n") || right == "\n" && strings.HasPrefix(l.input, "\n") {
		l.comments = nil
	}
	l.skipSpaces()
}

func (l *lex) skipSpaces() {
	n := len(l.input)
	l.input = strings.TrimLeftFunc(l.input, unicode.IsSpace)
	l.total += n - len(l.input)
}

func (l *lex) emit(text string) *Stmt {
	s := &Stmt{Pos: l.total - len(text), Text: strings.TrimSpace(text), Comments: l.comments}
	l.input = l.input[l.pos:]
	l.pos = 0
	l.comments = nil
	return s
}
