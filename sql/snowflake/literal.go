// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxConcatOperands is the default number of operands
// passed to a single CONCAT call by the LiteralEncoder.
const DefaultMaxConcatOperands = 254

// A LiteralEncoder renders values as Snowflake SQL literals.
type LiteralEncoder struct {
	// MaxOperands caps the number of operands in a single CONCAT call.
	// DefaultMaxConcatOperands is used if it is not positive.
	MaxOperands int
}

// DefaultEncoder is the encoder used by the planner.
var DefaultEncoder = &LiteralEncoder{MaxOperands: DefaultMaxConcatOperands}

// scan states of the string encoder.
type scanState uint8

const (
	stateStart  scanState = iota // outside any operand
	stateQuoted                  // inside an open quoted run
	stateChar                    // after a CHAR(n) operand
)

// EncodeString returns an SQL expression that evaluates to s. Line
// breaks are written as CHAR(n) operands concatenated to the quoted runs
// around them, and quotes are escaped by doubling.
func (e *LiteralEncoder) EncodeString(s string) string {
	if s == "" {
		return "''"
	}
	ops := operands(s)
	if len(ops) == 1 {
		return ops[0]
	}
	return e.concat(ops)
}

// operands splits s into the operands of its literal.
func operands(s string) []string {
	var (
		ops   []string
		run   strings.Builder
		state = stateStart
	)
	closeRun := func() {
		if state == stateQuoted {
			run.WriteByte('\'')
			ops = append(ops, run.String())
			run.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case '\n', '\r':
			closeRun()
			ops = append(ops, fmt.Sprintf("CHAR(%d)", r))
			state = stateChar
			continue
		}
		if state != stateQuoted {
			run.WriteByte('\'')
			state = stateQuoted
		}
		switch r {
		case '\'':
			run.WriteString("''")
		case '\\':
			run.WriteString(`\\`)
		default:
			run.WriteRune(r)
		}
	}
	closeRun()
	return ops
}

// concat joins the operands with CONCAT calls of at most MaxOperands
// operands each. Groups are joined by an outer CONCAT, chunked as well.
func (e *LiteralEncoder) concat(ops []string) string {
	n := e.MaxOperands
	if n <= 1 {
		n = DefaultMaxConcatOperands
	}
	groups := make([]string, 0, len(ops)/n+1)
	for len(ops) > 0 {
		k := n
		if len(ops) < k {
			k = len(ops)
		}
		groups = append(groups, group(ops[:k]))
		ops = ops[k:]
	}
	if len(groups) == 1 {
		return groups[0]
	}
	return e.concat(groups)
}

// group renders a single CONCAT call. The first operand is cast
// to VARCHAR to type the result of the call as text.
func group(ops []string) string {
	if len(ops) == 1 {
		return ops[0]
	}
	var b strings.Builder
	b.WriteString("CONCAT(CAST(")
	b.WriteString(ops[0])
	b.WriteString(" AS VARCHAR)")
	for _, op := range ops[1:] {
		b.WriteString(", ")
		b.WriteString(op)
	}
	b.WriteByte(')')
	return b.String()
}

// Literal renders the given value as an SQL literal. The optional store type
// is used to cast string values that are stored in non-text columns.
func (e *LiteralEncoder) Literal(v any, storeType string) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		lit := e.EncodeString(v)
		if storeType != "" && !isTextType(storeType) {
			lit = fmt.Sprintf("%s::%s", lit, storeType)
		}
		return lit, nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return floatLiteral(float64(v), 32), nil
	case float64:
		return floatLiteral(v, 64), nil
	case time.Time:
		if v.Location() == time.UTC {
			return fmt.Sprintf("'%s'::%s", v.Format("2006-01-02 15:04:05.999999999"), TypeTimestampNTZ), nil
		}
		return fmt.Sprintf("'%s'::%s", v.Format("2006-01-02 15:04:05.999999999 -07:00"), TypeTimestampTZ), nil
	case json.RawMessage:
		return fmt.Sprintf("PARSE_JSON(%s)", e.EncodeString(string(v))), nil
	case []byte:
		return fmt.Sprintf("TO_BINARY('%s', 'HEX')", strings.ToUpper(hex.EncodeToString(v))), nil
	case fmt.Stringer:
		return e.Literal(v.String(), storeType)
	default:
		return "", fmt.Errorf("snowflake: unsupported literal type %T", v)
	}
}

func floatLiteral(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "'NaN'::FLOAT"
	case math.IsInf(f, 1):
		return "'inf'::FLOAT"
	case math.IsInf(f, -1):
		return "'-inf'::FLOAT"
	default:
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
}

// isTextType reports if the store type holds text values.
func isTextType(storeType string) bool {
	t, err := ParseType(storeType)
	if err != nil {
		return true
	}
	switch t.Base {
	case TypeVarchar, TypeNVarchar, TypeChar, TypeCharacter, TypeNChar, TypeString, TypeText:
		return true
	}
	return false
}
