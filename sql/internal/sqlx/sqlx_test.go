// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqlx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	cols := []string{"a", "b"}
	b := &Builder{}
	b.P("CREATE TABLE").Table("s", "t").Wrap(func(b *Builder) {
		b.MapComma(cols, func(i int, b *Builder) {
			b.Ident(cols[i]).P("INT")
		})
	})
	require.Equal(t, `CREATE TABLE "s"."t" ("a" INT, "b" INT)`, b.String())
	require.Equal(t, `CREATE TABLE "s"."t" ("a" INT, "b" INT);`, b.Stmt())

	b = &Builder{}
	b.P("DROP INDEX").Qualified("", "t", "i")
	require.Equal(t, `DROP INDEX "t"."i"`, b.String())

	b = &Builder{}
	b.P("SELECT", "", "1").Ident("").Ident(`a"b`).Table("", "t")
	require.Equal(t, `SELECT 1 "a""b" "t"`, b.String())

	b = &Builder{QuoteChar: '`'}
	b.Ident("t")
	require.Equal(t, "`t`", b.String())
}

func TestBuilder_Indent(t *testing.T) {
	cols := []string{"a", "b"}
	create := func(b *Builder) string {
		b.P("CREATE TABLE").Ident("t").WrapIndent(func(b *Builder) {
			b.MapIndent(cols, func(i int, b *Builder) {
				b.Ident(cols[i]).P("INT")
			})
		})
		return b.String()
	}
	require.Equal(t, "CREATE TABLE \"t\" (\n  \"a\" INT,\n  \"b\" INT\n)", create(&Builder{Indent: "  "}))
	require.Equal(t, `CREATE TABLE "t" ("a" INT, "b" INT)`, create(&Builder{}))

	b := &Builder{Indent: "  "}
	b.Block("BEGIN", "END;", "A;", "B;")
	require.Equal(t, "BEGIN\n  A;\n  B;\nEND;", b.String())
	b = &Builder{}
	b.Block("BEGIN", "END;", "A;", "B;")
	require.Equal(t, "BEGIN A; B; END;", b.String())
}

func TestBuilder_Comma(t *testing.T) {
	b := &Builder{}
	b.Comma()
	require.Zero(t, b.Len())
	b.P("a")
	b.WriteByte(' ')
	b.Comma().P("b")
	require.Equal(t, "a, b", b.String())
}

func TestTerminate(t *testing.T) {
	require.Equal(t, "SELECT 1;", Terminate("SELECT 1"))
	require.Equal(t, "SELECT 1;", Terminate(" SELECT 1; "))
	require.Empty(t, Terminate(" "))
	require.Equal(t, "SELECT 1", TrimTerminators("SELECT 1;; \n"))
}

func TestQuote(t *testing.T) {
	require.Equal(t, `'it''s\\\n\t\0'`, SingleQuote("it's\\\n\t\x00"))
	require.Equal(t, `''`, SingleQuote(""))
}

func TestMayWrap(t *testing.T) {
	for s, expected := range map[string]string{
		"":          "",
		"a":         "(a)",
		" (a) ":     "(a)",
		"(a) + (b)": "((a) + (b))",
		"((a)":      "(((a))",
	} {
		require.Equal(t, expected, MayWrap(s), s)
	}
	require.True(t, IsWrapped("((a) + (b))"))
	require.False(t, IsWrapped("(a)(b)"))
	require.False(t, IsWrapped("a"))
}

func TestTrimName(t *testing.T) {
	require.Equal(t, "abc", TrimName("abc", 5))
	require.Equal(t, "abc", TrimName("abc", 0))
	name := strings.Repeat("a", 20)
	trimmed := TrimName(name, 12)
	require.Len(t, trimmed, 12)
	require.True(t, strings.HasPrefix(trimmed, "aaa_"))
	require.Equal(t, trimmed, TrimName(name, 12))
	require.NotEqual(t, trimmed, TrimName(strings.Repeat("a", 21), 12))
}
