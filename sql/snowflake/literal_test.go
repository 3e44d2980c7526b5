// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import (
	"encoding/json"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLiteralEncoder_EncodeString(t *testing.T) {
	for _, tt := range []struct {
		in, out string
	}{
		{in: "", out: "''"},
		{in: "a", out: "'a'"},
		{in: "O'Brien", out: "'O''Brien'"},
		{in: "'", out: "''''"},
		{in: `C:\dir`, out: `'C:\\dir'`},
		{in: "line1\nline2", out: "CONCAT(CAST('line1' AS VARCHAR), CHAR(10), 'line2')"},
		{in: "a\r\nb", out: "CONCAT(CAST('a' AS VARCHAR), CHAR(13), CHAR(10), 'b')"},
		{in: "\n", out: "CHAR(10)"},
		{in: "\nx", out: "CONCAT(CAST(CHAR(10) AS VARCHAR), 'x')"},
		{in: "x\n", out: "CONCAT(CAST('x' AS VARCHAR), CHAR(10))"},
		{in: "it's\nok", out: "CONCAT(CAST('it''s' AS VARCHAR), CHAR(10), 'ok')"},
	} {
		t.Run(tt.out, func(t *testing.T) {
			require.Equal(t, tt.out, DefaultEncoder.EncodeString(tt.in))
			require.Equal(t, tt.in, evalLiteral(t, tt.out))
		})
	}
}

func TestLiteralEncoder_Chunks(t *testing.T) {
	e := &LiteralEncoder{MaxOperands: 3}
	require.Equal(t,
		"CONCAT(CAST(CONCAT(CAST(CHAR(10) AS VARCHAR), CHAR(10), CHAR(10)) AS VARCHAR), CHAR(10))",
		e.EncodeString("\n\n\n\n"),
	)
	require.Equal(t,
		"CONCAT(CAST(CONCAT(CAST('a' AS VARCHAR), CHAR(10), 'b') AS VARCHAR), CONCAT(CAST(CHAR(10) AS VARCHAR), 'c'))",
		e.EncodeString("a\nb\nc"),
	)
	// Nested groups are chunked as well.
	out := e.EncodeString(strings.Repeat("\n", 10))
	require.Equal(t, strings.Repeat("\n", 10), evalLiteral(t, out))
	requireMaxOperands(t, out, 3)
}

func TestLiteralEncoder_ChunkBoundaries(t *testing.T) {
	for _, tt := range []struct {
		operands int
		concats  int
	}{
		{operands: 253, concats: 1},
		{operands: 254, concats: 1},
		{operands: 255, concats: 2},
		{operands: 508, concats: 3},
		{operands: 509, concats: 3},
	} {
		t.Run(strconv.Itoa(tt.operands), func(t *testing.T) {
			in := strings.Repeat("\n", tt.operands)
			out := DefaultEncoder.EncodeString(in)
			require.Equal(t, tt.operands, strings.Count(out, "CHAR(10)"))
			require.Equal(t, tt.concats, strings.Count(out, "CONCAT("))
			requireMaxOperands(t, out, DefaultMaxConcatOperands)
			require.Equal(t, in, evalLiteral(t, out))
		})
	}
}

func TestLiteralEncoder_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	alphabet := []rune{'a', 'b', ' ', '\'', '\n', '\r', '\\', 'é', '\t'}
	for i := 0; i < 200; i++ {
		var b strings.Builder
		for j, n := 0, r.Intn(40); j < n; j++ {
			b.WriteRune(alphabet[r.Intn(len(alphabet))])
		}
		e := &LiteralEncoder{MaxOperands: 2 + r.Intn(5)}
		out := e.EncodeString(b.String())
		require.Equal(t, b.String(), evalLiteral(t, out), out)
		requireMaxOperands(t, out, e.MaxOperands)
	}
}

func TestLiteralEncoder_Literal(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 500000000, time.UTC)
	for _, tt := range []struct {
		v         any
		storeType string
		out       string
	}{
		{v: nil, out: "NULL"},
		{v: true, out: "TRUE"},
		{v: false, out: "FALSE"},
		{v: 42, out: "42"},
		{v: int64(-7), out: "-7"},
		{v: uint8(255), out: "255"},
		{v: 1.5, out: "1.5"},
		{v: float32(0.25), out: "0.25"},
		{v: math.NaN(), out: "'NaN'::FLOAT"},
		{v: math.Inf(-1), out: "'-inf'::FLOAT"},
		{v: "O'Brien", out: "'O''Brien'"},
		{v: "O'Brien", storeType: "VARCHAR(20)", out: "'O''Brien'"},
		{v: "2024-01-01", storeType: "DATE", out: "'2024-01-01'::DATE"},
		{v: ts, out: "'2024-03-01 10:30:00.5'::TIMESTAMP_NTZ"},
		{v: ts.In(time.FixedZone("", 2*60*60)), out: "'2024-03-01 12:30:00.5 +02:00'::TIMESTAMP_TZ"},
		{v: []byte{0xca, 0xfe}, out: "TO_BINARY('CAFE', 'HEX')"},
		{v: json.RawMessage(`{"a":"b'c"}`), out: `PARSE_JSON('{"a":"b''c"}')`},
	} {
		out, err := DefaultEncoder.Literal(tt.v, tt.storeType)
		require.NoError(t, err)
		require.Equal(t, tt.out, out)
	}
	_, err := DefaultEncoder.Literal(struct{}{}, "")
	require.EqualError(t, err, "snowflake: unsupported literal type struct {}")
}

// requireMaxOperands checks that no CONCAT call in the
// expression has more than max operands.
func requireMaxOperands(t *testing.T, expr string, max int) {
	var (
		stack []int
		quote bool
	)
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; {
		case c == '\'':
			quote = !quote
		case quote:
		case c == '(':
			n := 0
			if strings.HasSuffix(expr[:i], "CONCAT") {
				n = 1
			}
			stack = append(stack, n)
		case c == ',' && stack[len(stack)-1] > 0:
			stack[len(stack)-1]++
		case c == ')':
			require.LessOrEqual(t, stack[len(stack)-1], max)
			stack = stack[:len(stack)-1]
		}
	}
	require.Empty(t, stack)
}

// evalLiteral evaluates the string expressions produced by the encoder.
func evalLiteral(t *testing.T, expr string) string {
	v, rest := evalExpr(t, expr)
	require.Empty(t, rest)
	return v
}

func evalExpr(t *testing.T, s string) (string, string) {
	switch {
	case strings.HasPrefix(s, "CONCAT("):
		var b strings.Builder
		s = strings.TrimPrefix(s, "CONCAT(")
		for {
			v, rest := evalExpr(t, s)
			b.WriteString(v)
			switch {
			case strings.HasPrefix(rest, ", "):
				s = rest[2:]
			case strings.HasPrefix(rest, ")"):
				return b.String(), rest[1:]
			default:
				t.Fatalf("unexpected CONCAT rest: %q", rest)
			}
		}
	case strings.HasPrefix(s, "CAST("):
		v, rest := evalExpr(t, strings.TrimPrefix(s, "CAST("))
		require.True(t, strings.HasPrefix(rest, " AS VARCHAR)"), rest)
		return v, strings.TrimPrefix(rest, " AS VARCHAR)")
	case strings.HasPrefix(s, "CHAR("):
		end := strings.IndexByte(s, ')')
		n, err := strconv.Atoi(s[len("CHAR("):end])
		require.NoError(t, err)
		return string(rune(n)), s[end+1:]
	case strings.HasPrefix(s, "'"):
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			switch {
			case s[i] == '\\':
				i++
				b.WriteByte(s[i])
			case s[i] == '\'' && i+1 < len(s) && s[i+1] == '\'':
				b.WriteByte('\'')
				i++
			case s[i] == '\'':
				return b.String(), s[i+1:]
			default:
				b.WriteByte(s[i])
			}
		}
		t.Fatalf("unclosed quote: %q", s)
	}
	t.Fatalf("unexpected expression: %q", s)
	return "", ""
}
