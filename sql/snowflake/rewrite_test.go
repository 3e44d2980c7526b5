// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import (
	"errors"
	"testing"

	"ariga.io/sfplan/sql/schema"
	"github.com/stretchr/testify/require"
)

func temporalColumn(name string) *schema.ColumnSpec {
	return &schema.ColumnSpec{
		Name:        name,
		Kind:        schema.KindDateTime,
		Annotations: schema.Annotations{{Name: AnnotationTemporal, Value: true}},
	}
}

func TestRewrite_TemporalNoop(t *testing.T) {
	old := &schema.ColumnSpec{Name: "period_start", Kind: schema.KindDateTime}
	changes := []schema.Change{
		&schema.AlterColumn{Table: "users", Column: temporalColumn("period_start"), Old: old},
	}
	r, err := Rewrite(changes, nil)
	require.NoError(t, err)
	require.Empty(t, r.Changes)

	// Both sides marked.
	changes = []schema.Change{
		&schema.AlterColumn{Table: "users", Column: temporalColumn("period_start"), Old: temporalColumn("period_start")},
	}
	r, err = Rewrite(changes, nil)
	require.NoError(t, err)
	require.Empty(t, r.Changes)
}

func TestRewrite_TemporalStrip(t *testing.T) {
	for name, old := range map[string]*schema.ColumnSpec{
		"null":        {Name: "period_start", Kind: schema.KindDateTime, Null: true},
		"comment":     {Name: "period_start", Kind: schema.KindDateTime, Comment: "c"},
		"annotations": {Name: "period_start", Kind: schema.KindDateTime, Annotations: schema.Annotations{{Name: "other", Value: 1}}},
		"size":        {Name: "period_start", Kind: schema.KindDateTime, Size: intp(1)},
		"missing old": nil,
	} {
		t.Run(name, func(t *testing.T) {
			col := temporalColumn("period_start")
			c := &schema.AlterColumn{Table: "users", Column: col, Old: old}
			r, err := Rewrite([]schema.Change{c}, nil)
			require.NoError(t, err)
			require.Len(t, r.Changes, 1)
			got := r.Changes[0].(*schema.AlterColumn)
			require.NotSame(t, c, got)
			require.False(t, got.Column.Annotations.Has(AnnotationTemporal))
			if old != nil {
				require.False(t, got.Old.Annotations.Has(AnnotationTemporal))
			}
			// The input is not modified.
			require.True(t, col.Annotations.Has(AnnotationTemporal))
			require.Same(t, col, c.Column)
		})
	}
}

func TestRewrite_ForeignKeyConflict(t *testing.T) {
	hybrid := schema.Annotations{{Name: AnnotationHybrid, Value: true}}
	fk := &schema.AddForeignKey{
		Table:      "orders",
		ForeignKey: &schema.ForeignKeySpec{Name: "orders_user", Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}},
	}
	_, err := Rewrite([]schema.Change{
		&schema.CreateTable{Name: "users", Annotations: hybrid},
		&schema.CreateTable{Name: "orders", Annotations: hybrid},
		fk,
	}, nil)
	var cerr *ConflictError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, &ConflictError{Table: "orders", RefTable: "users", Symbol: "orders_user"}, cerr)

	// Only one side is hybrid.
	r, err := Rewrite([]schema.Change{
		&schema.CreateTable{Name: "users"},
		&schema.CreateTable{Name: "orders", Annotations: hybrid},
		fk,
	}, nil)
	require.NoError(t, err)
	require.Len(t, r.Changes, 3)

	// The foreign key precedes the table creation.
	_, err = Rewrite([]schema.Change{
		&schema.CreateTable{Name: "users", Annotations: hybrid},
		fk,
		&schema.CreateTable{Name: "orders", Annotations: hybrid},
	}, nil)
	require.NoError(t, err)

	// Unqualified names resolve to the default schema.
	_, err = Rewrite([]schema.Change{
		&schema.CreateTable{Name: "users", Annotations: hybrid},
		&schema.CreateTable{Schema: "PUBLIC", Name: "orders", Annotations: hybrid},
		&schema.AddForeignKey{Schema: "PUBLIC", Table: "orders", ForeignKey: fk.ForeignKey},
	}, nil)
	require.True(t, errors.As(err, &cerr))
	_, err = Rewrite([]schema.Change{
		&schema.CreateTable{Schema: "APP", Name: "users", Annotations: hybrid},
		&schema.CreateTable{Schema: "APP", Name: "orders", Annotations: hybrid},
		fk,
	}, &schema.Realm{DefaultSchema: "APP"})
	require.True(t, errors.As(err, &cerr))

	// Different schemas.
	_, err = Rewrite([]schema.Change{
		&schema.CreateTable{Schema: "a", Name: "users", Annotations: hybrid},
		&schema.CreateTable{Name: "orders", Annotations: hybrid},
		fk,
	}, nil)
	require.NoError(t, err)
}

func TestRewrite_RenameIndex(t *testing.T) {
	users := schema.NewTable("users").
		AddColumns(schema.NewColumn("id", "NUMBER(10,0)"), schema.NewColumn("name", "VARCHAR"))
	idx := schema.NewIndex("users_name_idx").AddColumns(users.Columns[1])
	idx.Annotations = schema.Annotations{{Name: "k", Value: "v"}}
	users.AddIndexes(idx)
	realm := schema.NewRealm(schema.New("PUBLIC").AddTables(users))

	rename := &schema.RenameIndex{Table: "users", Name: "name_idx", NewName: "users_name_idx"}
	r, err := Rewrite([]schema.Change{rename}, realm)
	require.NoError(t, err)
	require.Equal(t, []schema.Change{
		&schema.DropIndex{Table: "users", Name: "name_idx"},
		&schema.CreateIndex{Table: "users", Name: "users_name_idx", Columns: []string{"name"}, Annotations: idx.Annotations},
	}, r.Changes)

	// Index was not found.
	missing := &schema.RenameIndex{Table: "users", Name: "a", NewName: "b"}
	r, err = Rewrite([]schema.Change{missing}, realm)
	require.NoError(t, err)
	require.Equal(t, []schema.Change{missing}, r.Changes)
	r, err = Rewrite([]schema.Change{missing}, nil)
	require.NoError(t, err)
	require.Equal(t, []schema.Change{missing}, r.Changes)
}

func TestRewrite_Schemas(t *testing.T) {
	r, err := Rewrite([]schema.Change{
		&schema.EnsureSchema{Name: "a"},
		&schema.CreateTable{Schema: "a", Name: "t"},
		&schema.EnsureSchema{Name: "b"},
		&schema.EnsureSchema{Name: "a"},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, r.Schemas)
	require.True(t, r.Ensured("a"))
	require.False(t, r.Ensured("c"))
	require.Len(t, r.Changes, 4)
}

func TestRewrite_Idempotent(t *testing.T) {
	users := schema.NewTable("users").AddColumns(schema.NewColumn("name", "VARCHAR"))
	users.AddIndexes(schema.NewIndex("users_name_idx").AddColumns(users.Columns[0]))
	realm := schema.NewRealm(schema.New("PUBLIC").AddTables(users))
	changes := []schema.Change{
		&schema.EnsureSchema{Name: "s"},
		&schema.AlterColumn{Table: "users", Column: temporalColumn("c"), Old: &schema.ColumnSpec{Name: "c", Null: true}},
		&schema.AlterColumn{Table: "users", Column: temporalColumn("d"), Old: &schema.ColumnSpec{Name: "d", Kind: schema.KindDateTime}},
		&schema.RenameIndex{Table: "users", Name: "idx", NewName: "users_name_idx"},
		&schema.AddColumn{Table: "users", Column: &schema.ColumnSpec{Name: "e", Kind: schema.KindInt32}},
	}
	r1, err := Rewrite(changes, realm)
	require.NoError(t, err)
	require.Len(t, r1.Changes, 5)
	r2, err := Rewrite(r1.Changes, realm)
	require.NoError(t, err)
	require.Equal(t, r1.Changes, r2.Changes)
}
