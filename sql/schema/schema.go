// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

import "strings"

type (
	// A Realm or a database describes a domain of schema resources that are logically connected
	// and can be accessed and queried in the same connection (e.g. a Snowflake database).
	Realm struct {
		// DefaultSchema is the schema that unqualified names resolve to.
		// PUBLIC is used if it is empty.
		DefaultSchema string
		Schemas       []*Schema
	}

	// A Schema describes a database schema (i.e. named database).
	Schema struct {
		Name      string
		Realm     *Realm
		Tables    []*Table
		Sequences []*Sequence
	}

	// A Table represents a table definition.
	Table struct {
		Name        string
		Schema      *Schema
		Columns     []*Column
		Indexes     []*Index
		PrimaryKey  *Index
		ForeignKeys []*ForeignKey
		Comment     string
		Annotations Annotations
	}

	// A Column represents a column definition.
	Column struct {
		Name        string
		Type        string // Raw store type, e.g. NUMBER(10,0).
		Null        bool
		Default     string
		Comment     string
		Annotations Annotations
	}

	// An Index represents an index definition.
	Index struct {
		Name    string
		Unique  bool
		Table   *Table
		Columns []*Column
		// Desc holds the descending flags of the columns above, if set.
		Desc        []bool
		Filter      string
		Include     []string
		Annotations Annotations
	}

	// A ForeignKey represents a foreign-key definition.
	ForeignKey struct {
		Symbol     string // Constraint name, if exists.
		Table      *Table
		Columns    []*Column
		RefTable   *Table
		RefColumns []*Column
		OnUpdate   ReferenceOption
		OnDelete   ReferenceOption
	}

	// A Sequence represents a sequence definition.
	Sequence struct {
		Name      string
		Schema    *Schema
		Start     int64
		Increment int64
	}
)

// DefaultSchemaName is used by realms that do not define their default schema.
const DefaultSchemaName = "PUBLIC"

// ReferenceOption for constraint actions.
type ReferenceOption string

// Reference options (actions) specified by ON UPDATE and ON DELETE
// subclauses of the FOREIGN KEY clause.
const (
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

// Default returns the name of the default schema of the realm.
func (r *Realm) Default() string {
	if r == nil || r.DefaultSchema == "" {
		return DefaultSchemaName
	}
	return r.DefaultSchema
}

// Schema returns the first schema that matched the given name.
// An empty name resolves to the default schema of the realm.
func (r *Realm) Schema(name string) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	if name == "" {
		name = r.Default()
	}
	for _, s := range r.Schemas {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

// Table returns the table that matched the given schema and name.
// It implements the Snapshot interface.
func (r *Realm) Table(schema, name string) (*Table, bool) {
	s, ok := r.Schema(schema)
	if !ok {
		return nil, false
	}
	return s.Table(name)
}

// AddSchemas adds and links the given schemas to the realm.
func (r *Realm) AddSchemas(schemas ...*Schema) *Realm {
	for _, s := range schemas {
		s.Realm = r
	}
	r.Schemas = append(r.Schemas, schemas...)
	return r
}

// Table returns the first table that matched the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Sequence returns the first sequence that matched the given name.
func (s *Schema) Sequence(name string) (*Sequence, bool) {
	for _, q := range s.Sequences {
		if q.Name == name {
			return q, true
		}
	}
	return nil, false
}

// Column returns the first column that matched the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Index returns the first index that matched the given name.
func (t *Table) Index(name string) (*Index, bool) {
	for _, i := range t.Indexes {
		if i.Name == name {
			return i, true
		}
	}
	return nil, false
}

// ForeignKey returns the first foreign-key that matched the given symbol (constraint name).
func (t *Table) ForeignKey(symbol string) (*ForeignKey, bool) {
	for _, f := range t.ForeignKeys {
		if f.Symbol == symbol {
			return f, true
		}
	}
	return nil, false
}

// SchemaName returns the name of the schema the table belongs to, or
// an empty string if the table is not attached to a schema.
func (t *Table) SchemaName() string {
	if t.Schema == nil {
		return ""
	}
	return t.Schema.Name
}

// ColumnNames returns the names of the index columns.
func (i *Index) ColumnNames() []string {
	names := make([]string, len(i.Columns))
	for j, c := range i.Columns {
		names[j] = c.Name
	}
	return names
}

// Column returns the first column that matches the given name.
func (f *ForeignKey) Column(name string) (*Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// RefColumn returns the first referenced column that matches the given name.
func (f *ForeignKey) RefColumn(name string) (*Column, bool) {
	for _, c := range f.RefColumns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

type (
	// An Annotation is a named, opaque value attached to a schema element
	// or a change. Dialects use annotations to carry markers that are not
	// representable in the generic shape of the element.
	Annotation struct {
		Name  string
		Value any
	}

	// Annotations is an ordered bag of annotations. The methods below never
	// modify the receiver; changes return a new bag.
	Annotations []Annotation
)

// Get returns the value of the first annotation that matched the given name.
func (a Annotations) Get(name string) (any, bool) {
	for i := range a {
		if a[i].Name == name {
			return a[i].Value, true
		}
	}
	return nil, false
}

// Has reports if an annotation with the given name exists in the bag.
func (a Annotations) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Bool reports if the annotation with the given name exists and holds a
// true value. Annotations without a value (nil) are treated as set.
func (a Annotations) Bool(name string) bool {
	v, ok := a.Get(name)
	if !ok {
		return false
	}
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// With returns a copy of the bag where the annotation with the given
// name is replaced with (or appended as) the given value.
func (a Annotations) With(name string, v any) Annotations {
	b := make(Annotations, 0, len(a)+1)
	found := false
	for _, x := range a {
		if x.Name == name {
			x.Value, found = v, true
		}
		b = append(b, x)
	}
	if !found {
		b = append(b, Annotation{Name: name, Value: v})
	}
	return b
}

// Without returns a copy of the bag without the annotations that
// matched the given names.
func (a Annotations) Without(names ...string) Annotations {
	if len(a) == 0 {
		return nil
	}
	b := make(Annotations, 0, len(a))
Loop:
	for _, x := range a {
		for _, n := range names {
			if x.Name == n {
				continue Loop
			}
		}
		b = append(b, x)
	}
	return b
}

// Missing returns the names of the annotations in a that do not exist in
// other, or exist with a different value. The result keeps the order of a.
func (a Annotations) Missing(other Annotations) []string {
	var names []string
	for _, x := range a {
		v, ok := other.Get(x.Name)
		if !ok || !sameValue(x.Value, v) {
			names = append(names, x.Name)
		}
	}
	return names
}

// sameValue compares two annotation values. Values that cannot be
// compared are considered different.
func sameValue(v1, v2 any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return v1 == v2
}
