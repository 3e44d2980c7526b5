// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import (
	"reflect"

	"ariga.io/sfplan/sql/schema"
)

// Rewritten is the result of rewriting a program of changes.
type Rewritten struct {
	// Changes holds the rewritten program.
	Changes []schema.Change
	// Schemas holds the names of the schemas that were ensured
	// by the program, in the order they were ensured.
	Schemas []string
	// snapshot used to resolve unqualified schema names.
	snap schema.Snapshot
}

// Ensured reports if the schema was ensured by the program.
func (r *Rewritten) Ensured(name string) bool {
	for _, s := range r.Schemas {
		if s == name {
			return true
		}
	}
	return false
}

// Rewrite transforms the program into one that can be planned directly
// by Snowflake. The given changes are never modified, and the snapshot
// is optional (can be nil), and used only for lookups.
func Rewrite(changes []schema.Change, snap schema.Snapshot) (*Rewritten, error) {
	r := &Rewritten{Changes: make([]schema.Change, 0, len(changes)), snap: snap}
	for _, c := range changes {
		switch c := c.(type) {
		case *schema.EnsureSchema:
			if !r.Ensured(c.Name) {
				r.Schemas = append(r.Schemas, c.Name)
			}
			r.Changes = append(r.Changes, c)
		case *schema.AlterColumn:
			if c.Column == nil || !isTemporal(c.Column.Annotations) {
				r.Changes = append(r.Changes, c)
				continue
			}
			if temporalNoop(c.Old, c.Column) {
				continue
			}
			r.Changes = append(r.Changes, stripTemporal(c))
		case *schema.AddForeignKey:
			if err := r.checkForeignKey(c); err != nil {
				return nil, err
			}
			r.Changes = append(r.Changes, c)
		case *schema.RenameIndex:
			idx, err := schema.LookupIndex(snap, c.Schema, c.Table, c.NewName)
			if err != nil {
				r.Changes = append(r.Changes, c)
				continue
			}
			r.Changes = append(r.Changes,
				&schema.DropIndex{Schema: c.Schema, Table: c.Table, Name: c.Name, Annotations: c.Annotations},
				&schema.CreateIndex{
					Schema:      c.Schema,
					Table:       c.Table,
					Name:        idx.Name,
					Columns:     idx.ColumnNames(),
					Unique:      idx.Unique,
					Desc:        idx.Desc,
					Filter:      idx.Filter,
					Include:     idx.Include,
					Annotations: idx.Annotations,
				},
			)
		default:
			r.Changes = append(r.Changes, c)
		}
	}
	return r, nil
}

// checkForeignKey rejects foreign keys between two hybrid
// tables that are both created earlier in the program.
func (r *Rewritten) checkForeignKey(c *schema.AddForeignKey) error {
	if c.ForeignKey == nil {
		return nil
	}
	refSchema := c.ForeignKey.RefSchema
	if refSchema == "" {
		refSchema = c.Schema
	}
	t, ok := r.created(c.Schema, c.Table)
	if !ok || !isHybrid(t.Annotations) {
		return nil
	}
	ref, ok := r.created(refSchema, c.ForeignKey.RefTable)
	if !ok || !isHybrid(ref.Annotations) {
		return nil
	}
	return &ConflictError{Table: c.Table, RefTable: c.ForeignKey.RefTable, Symbol: c.ForeignKey.Name}
}

// created returns the CreateTable change of the table, if it
// was already placed in the rewritten program.
func (r *Rewritten) created(schemaName, name string) (*schema.CreateTable, bool) {
	schemaName = schema.ResolveSchema(r.snap, schemaName)
	for _, c := range r.Changes {
		if t, ok := c.(*schema.CreateTable); ok && schema.ResolveSchema(r.snap, t.Schema) == schemaName && t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// temporalNoop reports if the alteration of a history-tracked column
// changes nothing but the temporal marker itself.
func temporalNoop(old, c *schema.ColumnSpec) bool {
	if old == nil || c == nil {
		return false
	}
	if old.Kind != c.Kind ||
		old.StoreType != c.StoreType ||
		old.Null != c.Null ||
		old.DefaultSQL != c.DefaultSQL ||
		old.ComputedSQL != c.ComputedSQL ||
		old.Comment != c.Comment ||
		old.Collation != c.Collation ||
		old.RowVersion != c.RowVersion ||
		!equalBool(old.Unicode, c.Unicode) ||
		!equalBool(old.FixedLength, c.FixedLength) ||
		!equalInt(old.Size, c.Size) ||
		!equalInt(old.Precision, c.Precision) ||
		!equalInt(old.Scale, c.Scale) ||
		!reflect.DeepEqual(old.Default, c.Default) {
		return false
	}
	return onlyTemporal(old.Annotations.Missing(c.Annotations)) &&
		onlyTemporal(c.Annotations.Missing(old.Annotations))
}

func onlyTemporal(names []string) bool {
	return len(names) == 0 || len(names) == 1 && names[0] == AnnotationTemporal
}

// stripTemporal returns a copy of the change without the temporal
// marker on its new and old column specs.
func stripTemporal(c *schema.AlterColumn) *schema.AlterColumn {
	cc := *c
	cc.Column = c.Column.Clone()
	cc.Column.Annotations = c.Column.Annotations.Without(AnnotationTemporal)
	if c.Old != nil {
		cc.Old = c.Old.Clone()
		cc.Old.Annotations = c.Old.Annotations.Without(AnnotationTemporal)
	}
	return &cc
}

func equalBool(b1, b2 *bool) bool {
	return b1 == nil && b2 == nil || b1 != nil && b2 != nil && *b1 == *b2
}

func equalInt(i1, i2 *int) bool {
	return i1 == nil && i2 == nil || i1 != nil && i2 != nil && *i1 == *i2
}
