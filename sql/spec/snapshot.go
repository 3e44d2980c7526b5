// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package spec

import (
	"fmt"

	"ariga.io/sfplan/sql/schema"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
)

type (
	snapshotFile struct {
		Version       string         `hcl:"version,optional"`
		DefaultSchema string         `hcl:"default_schema,optional"`
		Schemas       []*schemaBlock `hcl:"schema,block"`
	}

	schemaBlock struct {
		Name      string           `hcl:"name,label"`
		Tables    []*tableBlock    `hcl:"table,block"`
		Sequences []*sequenceBlock `hcl:"sequence,block"`
	}

	tableBlock struct {
		Name        string             `hcl:"name,label"`
		Comment     string             `hcl:"comment,optional"`
		Annotations cty.Value          `hcl:"annotations,optional"`
		Columns     []*snapColumnBlock `hcl:"column,block"`
		PrimaryKey  *keyBlock          `hcl:"primary_key,block"`
		Indexes     []*indexBlock      `hcl:"index,block"`
		ForeignKeys []*foreignKeyBlock `hcl:"foreign_key,block"`
	}

	snapColumnBlock struct {
		Name        string    `hcl:"name,label"`
		Type        string    `hcl:"type"`
		Null        bool      `hcl:"null,optional"`
		Default     string    `hcl:"default,optional"`
		Comment     string    `hcl:"comment,optional"`
		Annotations cty.Value `hcl:"annotations,optional"`
	}

	indexBlock struct {
		Name        string    `hcl:"name,label"`
		Columns     []string  `hcl:"columns"`
		Unique      bool      `hcl:"unique,optional"`
		Desc        []bool    `hcl:"desc,optional"`
		Where       string    `hcl:"where,optional"`
		Include     []string  `hcl:"include,optional"`
		Annotations cty.Value `hcl:"annotations,optional"`
	}

	sequenceBlock struct {
		Name      string `hcl:"name,label"`
		Start     int64  `hcl:"start,optional"`
		Increment int64  `hcl:"increment,optional"`
	}
)

// ParseSnapshot decodes a database snapshot from the given HCL source.
//
//	schema "PUBLIC" {
//	  table "users" {
//	    column "id" {
//	      type = "NUMBER(10,0)"
//	    }
//	    primary_key {
//	      columns = ["id"]
//	    }
//	  }
//	}
func ParseSnapshot(src []byte, filename string) (*schema.Realm, error) {
	body, err := parse(src, filename)
	if err != nil {
		return nil, err
	}
	f := &snapshotFile{}
	if diags := gohcl.DecodeBody(body, nil, f); diags.HasErrors() {
		return nil, diags
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	r := schema.NewRealm()
	r.DefaultSchema = f.DefaultSchema
	tables := make(map[*tableBlock]*schema.Table)
	for _, sb := range f.Schemas {
		s := schema.New(sb.Name)
		r.AddSchemas(s)
		for _, tb := range sb.Tables {
			t, err := tb.table()
			if err != nil {
				return nil, fmt.Errorf("spec: table %q.%q: %w", sb.Name, tb.Name, err)
			}
			s.AddTables(t)
			tables[tb] = t
		}
		for _, qb := range sb.Sequences {
			s.AddSequences(schema.NewSequence(qb.Name, qb.Start, qb.Increment))
		}
	}
	// Foreign keys are linked after all tables were loaded.
	for _, sb := range f.Schemas {
		for _, tb := range sb.Tables {
			t := tables[tb]
			for _, fb := range tb.ForeignKeys {
				fk, err := foreignKey(r, sb.Name, t, fb)
				if err != nil {
					return nil, fmt.Errorf("spec: table %q.%q: %w", sb.Name, tb.Name, err)
				}
				t.AddForeignKeys(fk)
			}
		}
	}
	return r, nil
}

// ParseSnapshotFile decodes a database snapshot from the file in the given path.
func ParseSnapshotFile(path string) (*schema.Realm, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(b, path)
}

func (tb *tableBlock) table() (*schema.Table, error) {
	t := schema.NewTable(tb.Name).SetComment(tb.Comment)
	a, err := annotations(tb.Annotations)
	if err != nil {
		return nil, err
	}
	t.Annotations = a
	for _, cb := range tb.Columns {
		c := schema.NewColumn(cb.Name, cb.Type)
		c.Null, c.Default, c.Comment = cb.Null, cb.Default, cb.Comment
		if c.Annotations, err = annotations(cb.Annotations); err != nil {
			return nil, fmt.Errorf("column %q: %w", cb.Name, err)
		}
		t.AddColumns(c)
	}
	if pb := tb.PrimaryKey; pb != nil {
		cols, err := columns(t, pb.Columns)
		if err != nil {
			return nil, fmt.Errorf("primary key: %w", err)
		}
		pk := schema.NewPrimaryKey(cols...)
		pk.Name = pb.Name
		t.SetPrimaryKey(pk)
	}
	for _, ib := range tb.Indexes {
		cols, err := columns(t, ib.Columns)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", ib.Name, err)
		}
		idx := schema.NewIndex(ib.Name).AddColumns(cols...).SetFilter(ib.Where)
		idx.Unique, idx.Desc, idx.Include = ib.Unique, ib.Desc, ib.Include
		if idx.Annotations, err = annotations(ib.Annotations); err != nil {
			return nil, fmt.Errorf("index %q: %w", ib.Name, err)
		}
		t.AddIndexes(idx)
	}
	return t, nil
}

func foreignKey(r *schema.Realm, schemaName string, t *schema.Table, fb *foreignKeyBlock) (*schema.ForeignKey, error) {
	refSchema := fb.RefSchema
	if refSchema == "" {
		refSchema = schemaName
	}
	ref, ok := r.Table(refSchema, fb.RefTable)
	if !ok {
		return nil, fmt.Errorf("foreign key %q: referenced table %q.%q was not found", fb.Name, refSchema, fb.RefTable)
	}
	cols, err := columns(t, fb.Columns)
	if err != nil {
		return nil, fmt.Errorf("foreign key %q: %w", fb.Name, err)
	}
	refCols, err := columns(ref, fb.RefColumns)
	if err != nil {
		return nil, fmt.Errorf("foreign key %q: %w", fb.Name, err)
	}
	fk := schema.NewForeignKey(fb.Name).AddColumns(cols...).SetRefTable(ref).AddRefColumns(refCols...)
	fk.OnUpdate = schema.ReferenceOption(fb.OnUpdate)
	fk.OnDelete = schema.ReferenceOption(fb.OnDelete)
	return fk, nil
}

func columns(t *schema.Table, names []string) ([]*schema.Column, error) {
	cols := make([]*schema.Column, len(names))
	for i, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, fmt.Errorf("column %q was not found", n)
		}
		cols[i] = c
	}
	return cols, nil
}
