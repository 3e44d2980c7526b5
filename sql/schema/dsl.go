// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

// NewRealm creates a new Realm.
func NewRealm(schemas ...*Schema) *Realm {
	r := &Realm{}
	return r.AddSchemas(schemas...)
}

// New creates a new Schema.
func New(name string) *Schema {
	return &Schema{Name: name}
}

// AddTables adds and links the given tables to the schema.
func (s *Schema) AddTables(tables ...*Table) *Schema {
	for _, t := range tables {
		t.SetSchema(s)
	}
	return s
}

// AddSequences adds and links the given sequences to the schema.
func (s *Schema) AddSequences(seqs ...*Sequence) *Schema {
	for _, q := range seqs {
		q.Schema = s
	}
	s.Sequences = append(s.Sequences, seqs...)
	return s
}

// NewTable creates a new Table.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// SetSchema sets the schema (named-database) of the table.
func (t *Table) SetSchema(s *Schema) *Table {
	t.Schema = s
	if _, ok := s.Table(t.Name); !ok {
		s.Tables = append(s.Tables, t)
	}
	return t
}

// SetComment sets the comment of the table.
func (t *Table) SetComment(c string) *Table {
	t.Comment = c
	return t
}

// Annotate sets an annotation on the table.
func (t *Table) Annotate(name string, v any) *Table {
	t.Annotations = t.Annotations.With(name, v)
	return t
}

// AddColumns appends the given columns to the table column list.
func (t *Table) AddColumns(columns ...*Column) *Table {
	t.Columns = append(t.Columns, columns...)
	return t
}

// AddIndexes appends the given indexes to the table index list.
func (t *Table) AddIndexes(indexes ...*Index) *Table {
	for _, idx := range indexes {
		idx.Table = t
	}
	t.Indexes = append(t.Indexes, indexes...)
	return t
}

// SetPrimaryKey sets the primary-key of the table.
func (t *Table) SetPrimaryKey(pk *Index) *Table {
	pk.Table = t
	t.PrimaryKey = pk
	return t
}

// AddForeignKeys appends the given foreign-keys to the table.
func (t *Table) AddForeignKeys(fks ...*ForeignKey) *Table {
	for _, fk := range fks {
		fk.Table = t
	}
	t.ForeignKeys = append(t.ForeignKeys, fks...)
	return t
}

// NewColumn creates a new column with the given name and raw store type.
func NewColumn(name, typ string) *Column {
	return &Column{Name: name, Type: typ}
}

// NewNullColumn creates a new nullable column with the given name and raw store type.
func NewNullColumn(name, typ string) *Column {
	return &Column{Name: name, Type: typ, Null: true}
}

// NewIndex creates a new index with the given name.
func NewIndex(name string) *Index {
	return &Index{Name: name}
}

// NewUniqueIndex creates a new unique index with the given name.
func NewUniqueIndex(name string) *Index {
	return &Index{Name: name, Unique: true}
}

// NewPrimaryKey creates a new primary-key index for the given columns.
func NewPrimaryKey(columns ...*Column) *Index {
	return &Index{Unique: true, Columns: columns}
}

// AddColumns adds the columns to the index.
func (i *Index) AddColumns(columns ...*Column) *Index {
	i.Columns = append(i.Columns, columns...)
	return i
}

// SetFilter sets the filter predicate of the index.
func (i *Index) SetFilter(p string) *Index {
	i.Filter = p
	return i
}

// NewForeignKey creates a new foreign-key with the given constraint name.
func NewForeignKey(symbol string) *ForeignKey {
	return &ForeignKey{Symbol: symbol}
}

// AddColumns appends columns to the foreign-key.
func (f *ForeignKey) AddColumns(columns ...*Column) *ForeignKey {
	f.Columns = append(f.Columns, columns...)
	return f
}

// SetRefTable sets the referenced table.
func (f *ForeignKey) SetRefTable(t *Table) *ForeignKey {
	f.RefTable = t
	return f
}

// AddRefColumns appends columns to the referenced columns.
func (f *ForeignKey) AddRefColumns(columns ...*Column) *ForeignKey {
	f.RefColumns = append(f.RefColumns, columns...)
	return f
}

// NewSequence creates a new sequence with the given name.
func NewSequence(name string, start, increment int64) *Sequence {
	return &Sequence{Name: name, Start: start, Increment: increment}
}
