// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema_test

import (
	"testing"

	"ariga.io/sfplan/sql/schema"

	"github.com/stretchr/testify/require"
)

func TestAnnotations(t *testing.T) {
	a := schema.Annotations{
		{Name: "hybrid"},
		{Name: "temporal", Value: "TRUE"},
		{Name: "retention", Value: 7},
		{Name: "order", Value: false},
	}
	require.True(t, a.Has("hybrid"))
	require.True(t, a.Bool("hybrid"))
	require.True(t, a.Bool("temporal"))
	require.False(t, a.Bool("retention"))
	require.False(t, a.Bool("order"))
	require.False(t, a.Bool("missing"))
	v, ok := a.Get("retention")
	require.True(t, ok)
	require.Equal(t, 7, v)

	b := a.With("retention", 14)
	require.Len(t, b, 4)
	v, _ = b.Get("retention")
	require.Equal(t, 14, v)
	// The receiver is not modified.
	v, _ = a.Get("retention")
	require.Equal(t, 7, v)

	b = a.With("identity", "1,1")
	require.Len(t, b, 5)
	require.Equal(t, "identity", b[4].Name)

	b = a.Without("hybrid", "order")
	require.Equal(t, schema.Annotations{{Name: "temporal", Value: "TRUE"}, {Name: "retention", Value: 7}}, b)
	require.Len(t, a, 4)
	require.Nil(t, schema.Annotations(nil).Without("a"))
}

func TestAnnotations_Missing(t *testing.T) {
	a := schema.Annotations{
		{Name: "a", Value: 1},
		{Name: "b", Value: "x"},
		{Name: "c", Value: []int{1}},
	}
	require.Empty(t, a[:2].Missing(a))
	require.Equal(t, []string{"c"}, a[:3].Missing(a[:2]))
	// Uncomparable values are considered different.
	require.Equal(t, []string{"c"}, a.Missing(a))
	require.Equal(t, []string{"a", "b"}, a[:2].Missing(schema.Annotations{{Name: "a", Value: 2}}))
	require.Nil(t, schema.Annotations(nil).Missing(a))
}

func TestParseKind(t *testing.T) {
	for name, k := range map[string]schema.Kind{
		"bool":           schema.KindBool,
		"Boolean":        schema.KindBool,
		" int64 ":        schema.KindInt64,
		"int":            schema.KindInt32,
		"text":           schema.KindString,
		"timestamp":      schema.KindDateTime,
		"datetimeoffset": schema.KindDateTimeOffset,
		"json":           schema.KindJSON,
	} {
		got, err := schema.ParseKind(name)
		require.NoError(t, err, name)
		require.Equal(t, k, got, name)
	}
	for _, name := range []string{"", "invalid", "money"} {
		_, err := schema.ParseKind(name)
		require.Error(t, err, name)
	}
	require.Equal(t, "uuid", schema.KindUUID.String())
	require.Equal(t, "kind(200)", schema.Kind(200).String())
}

func TestColumnSpec_Clone(t *testing.T) {
	size := 10
	c := &schema.ColumnSpec{Name: "c", Kind: schema.KindString, Size: &size}
	cc := c.Clone()
	require.Equal(t, c, cc)
	require.NotSame(t, c, cc)
	cc.Name = "d"
	require.Equal(t, "c", c.Name)
}

type recorder struct {
	schema.Visitor
	visited []string
}

func (r *recorder) VisitCreateTable(*schema.CreateTable) error {
	r.visited = append(r.visited, "CreateTable")
	return nil
}

func (r *recorder) VisitRawSQL(*schema.RawSQL) error {
	r.visited = append(r.visited, "RawSQL")
	return nil
}

func TestChange_Accept(t *testing.T) {
	r := &recorder{}
	for _, c := range []schema.Change{&schema.CreateTable{Name: "t"}, &schema.RawSQL{SQL: "SELECT 1"}} {
		require.NoError(t, c.Accept(r))
	}
	require.Equal(t, []string{"CreateTable", "RawSQL"}, r.visited)
}
