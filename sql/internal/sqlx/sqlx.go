// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqlx

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"reflect"
	"strings"
)

// Terminator is the statement terminator appended to planned commands.
const Terminator = ";"

// Builder provides a syntactic sugar API for writing SQL statements.
type Builder struct {
	bytes.Buffer
	QuoteChar byte   // quoting identifiers
	Indent    string // indentation of multi-line statements
	level     int    // current indentation level
}

// P writes a list of phrases to the builder separated and
// suffixed with whitespace.
func (b *Builder) P(phrases ...string) *Builder {
	for _, p := range phrases {
		if p == "" {
			continue
		}
		b.space()
		b.WriteString(p)
	}
	return b
}

// Ident writes the given string quoted as an SQL identifier.
// Quote characters inside the identifier are doubled.
func (b *Builder) Ident(s string) *Builder {
	if s != "" {
		b.space()
		b.WriteString(b.quote(s))
	}
	return b
}

// Table writes the table identifier to the builder, prefixed
// with the schema name if exists.
func (b *Builder) Table(schema, name string) *Builder {
	b.space()
	if schema != "" {
		b.WriteString(b.quote(schema))
		b.WriteByte('.')
	}
	b.WriteString(b.quote(name))
	return b
}

// Qualified writes a dot separated list of identifiers
// to the builder, skipping the empty ones.
func (b *Builder) Qualified(names ...string) *Builder {
	b.space()
	first := true
	for _, n := range names {
		if n == "" {
			continue
		}
		if !first {
			b.WriteByte('.')
		}
		b.WriteString(b.quote(n))
		first = false
	}
	return b
}

// Comma writes a comma in case the buffer is not empty, or
// replaces the last char if it is a whitespace.
func (b *Builder) Comma() *Builder {
	switch {
	case b.Len() == 0:
	case b.lastByte() == ' ':
		b.Truncate(b.Len() - 1)
		b.WriteString(", ")
	default:
		b.WriteString(", ")
	}
	return b
}

// NL writes a line break followed by the current indentation.
// Without indentation, a space is written instead.
func (b *Builder) NL() *Builder {
	b.trimSpace()
	if b.Indent == "" {
		b.space()
		return b
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(b.Indent, b.level))
	return b
}

// MapComma maps the slice x using the function f and joins the result with
// a comma separating between the written elements.
func (b *Builder) MapComma(x any, f func(i int, b *Builder)) *Builder {
	s := reflect.ValueOf(x)
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.Comma()
		}
		f(i, b)
	}
	return b
}

// MapIndent is like MapComma, but writes a new line before each element.
func (b *Builder) MapIndent(x any, f func(i int, b *Builder)) *Builder {
	s := reflect.ValueOf(x)
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.Comma()
		}
		b.NL()
		f(i, b)
	}
	return b
}

// Wrap wraps the written string with parentheses.
func (b *Builder) Wrap(f func(b *Builder)) *Builder {
	b.space()
	b.WriteByte('(')
	f(b)
	b.trimSpace()
	b.WriteByte(')')
	return b
}

// WrapIndent is like Wrap, but writes the body indented in new lines.
// If no indentation is configured, it falls back to Wrap.
func (b *Builder) WrapIndent(f func(b *Builder)) *Builder {
	if b.Indent == "" {
		return b.Wrap(f)
	}
	b.space()
	b.WriteByte('(')
	b.level++
	f(b)
	b.level--
	b.NL()
	b.WriteByte(')')
	return b
}

// Block writes a multi-line block where each of the given
// lines is written indented in its own line.
func (b *Builder) Block(begin, end string, lines ...string) *Builder {
	b.P(begin)
	b.level++
	for _, l := range lines {
		b.NL()
		b.WriteString(l)
	}
	b.level--
	b.NL()
	b.WriteString(end)
	return b
}

// String overrides the Buffer.String method and ensure no spaces pad the returned statement.
func (b *Builder) String() string {
	return strings.TrimSpace(b.Buffer.String())
}

// Stmt returns the terminated statement.
func (b *Builder) Stmt() string {
	return Terminate(b.String())
}

func (b *Builder) quote(s string) string {
	q := string(b.QuoteChar)
	if b.QuoteChar == 0 {
		q = `"`
	}
	return q + strings.ReplaceAll(s, q, q+q) + q
}

// space writes a space separator if the last character
// of the buffer does not open a group or a line.
func (b *Builder) space() {
	if b.Len() == 0 {
		return
	}
	switch b.lastByte() {
	case ' ', '(', '\n', '.':
	default:
		b.WriteByte(' ')
	}
}

func (b *Builder) trimSpace() {
	for b.Len() > 0 && b.lastByte() == ' ' {
		b.Truncate(b.Len() - 1)
	}
}

func (b *Builder) lastByte() byte {
	if b.Len() == 0 {
		return 0
	}
	buf := b.Bytes()
	return buf[len(buf)-1]
}

// Terminate appends the statement terminator to the given
// statement, if it is not already terminated.
func Terminate(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" || strings.HasSuffix(stmt, Terminator) {
		return stmt
	}
	return stmt + Terminator
}

// TrimTerminators removes all trailing terminators and spaces from the statement.
func TrimTerminators(stmt string) string {
	return strings.TrimRight(stmt, Terminator+" \t\r\n")
}

// SingleQuote quotes the given string with single quotes. Quotes and
// backslashes are escaped, and control characters are written using
// their escape sequences.
func SingleQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`''`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// MayWrap wraps the given expression with parentheses if it is not wrapped already.
func MayWrap(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || IsWrapped(s) {
		return s
	}
	return "(" + s + ")"
}

// IsWrapped reports if the given expression is wrapped with a
// single pair of parentheses, e.g. "(a)" but not "(a) + (b)".
func IsWrapped(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// TrimName returns the given name as is if it is not longer than max.
// Longer names are trimmed and suffixed with their hash to remain unique.
func TrimName(name string, max int) string {
	if max <= 0 || len(name) <= max {
		return name
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	suffix := fmt.Sprintf("_%08x", h.Sum32())
	return name[:max-len(suffix)] + suffix
}
