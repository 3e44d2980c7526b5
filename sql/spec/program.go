// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package spec

import (
	"fmt"
	"sort"

	"ariga.io/sfplan/sql/schema"
	"github.com/go-openapi/inflect"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
)

// A Program is a decoded list of changes.
type Program struct {
	Version string
	Changes []schema.Change
}

type (
	// changeBody holds the union of the attributes and blocks of all change
	// kinds. Each kind reads the fields it uses.
	changeBody struct {
		Schema          string             `hcl:"schema,optional"`
		Table           string             `hcl:"table,optional"`
		Name            string             `hcl:"name,optional"`
		NewSchema       string             `hcl:"new_schema,optional"`
		NewName         string             `hcl:"new_name,optional"`
		ToDefaultSchema bool               `hcl:"to_default_schema,optional"`
		Comment         string             `hcl:"comment,optional"`
		OldComment      string             `hcl:"old_comment,optional"`
		Columns         []string           `hcl:"columns,optional"`
		ColumnTypes     []string           `hcl:"column_types,optional"`
		KeyColumns      []string           `hcl:"key_columns,optional"`
		Values          cty.Value          `hcl:"values,optional"`
		Keys            cty.Value          `hcl:"keys,optional"`
		Unique          bool               `hcl:"unique,optional"`
		Desc            []bool             `hcl:"desc,optional"`
		Where           string             `hcl:"where,optional"`
		Include         []string           `hcl:"include,optional"`
		Expr            string             `hcl:"expr,optional"`
		Start           int64              `hcl:"start,optional"`
		StartValue      *int64             `hcl:"start_value,optional"`
		Increment       int64              `hcl:"increment,optional"`
		OldIncrement    int64              `hcl:"old_increment,optional"`
		SQL             string             `hcl:"sql,optional"`
		SuppressTx      bool               `hcl:"suppress_tx,optional"`
		Annotations     cty.Value          `hcl:"annotations,optional"`
		OldAnnotations  cty.Value          `hcl:"old_annotations,optional"`
		Column          []*columnBlock     `hcl:"column,block"`
		Old             *columnBlock       `hcl:"old,block"`
		PrimaryKey      *keyBlock          `hcl:"primary_key,block"`
		UniqueKeys      []*keyBlock        `hcl:"unique_key,block"`
		ForeignKeys     []*foreignKeyBlock `hcl:"foreign_key,block"`
		Checks          []*checkBlock      `hcl:"check,block"`
	}

	columnBlock struct {
		Name        string    `hcl:"name,label"`
		Kind        string    `hcl:"kind,optional"`
		Type        string    `hcl:"type,optional"`
		Unicode     *bool     `hcl:"unicode,optional"`
		FixedLength *bool     `hcl:"fixed_length,optional"`
		Size        *int      `hcl:"size,optional"`
		Precision   *int      `hcl:"precision,optional"`
		Scale       *int      `hcl:"scale,optional"`
		Null        bool      `hcl:"null,optional"`
		Default     cty.Value `hcl:"default,optional"`
		DefaultSQL  string    `hcl:"default_sql,optional"`
		Computed    string    `hcl:"computed,optional"`
		Comment     string    `hcl:"comment,optional"`
		Collation   string    `hcl:"collation,optional"`
		RowVersion  bool      `hcl:"row_version,optional"`
		Annotations cty.Value `hcl:"annotations,optional"`
	}

	keyBlock struct {
		Name    string   `hcl:"name,optional"`
		Columns []string `hcl:"columns"`
	}

	foreignKeyBlock struct {
		Name       string   `hcl:"name,label"`
		Columns    []string `hcl:"columns"`
		RefSchema  string   `hcl:"ref_schema,optional"`
		RefTable   string   `hcl:"ref_table"`
		RefColumns []string `hcl:"ref_columns"`
		OnUpdate   string   `hcl:"on_update,optional"`
		OnDelete   string   `hcl:"on_delete,optional"`
	}

	checkBlock struct {
		Name string `hcl:"name,label"`
		Expr string `hcl:"expr"`
	}
)

// changeKinds maps the camel-cased block types to their decoders.
var changeKinds = map[string]func(*changeBody) (schema.Change, error){
	"EnsureSchema": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.EnsureSchema{Name: b.Name, Annotations: a}, err
	},
	"DropSchema": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropSchema{Name: b.Name, Annotations: a}, err
	},
	"CreateTable": func(b *changeBody) (schema.Change, error) {
		c := &schema.CreateTable{Schema: b.Schema, Name: b.Name, Comment: b.Comment}
		for _, col := range b.Column {
			spec, err := col.spec()
			if err != nil {
				return nil, err
			}
			c.Columns = append(c.Columns, spec)
		}
		if pk := b.PrimaryKey; pk != nil {
			c.PrimaryKey = &schema.PrimaryKeySpec{Name: pk.Name, Columns: pk.Columns}
		}
		for _, u := range b.UniqueKeys {
			c.Uniques = append(c.Uniques, &schema.UniqueSpec{Name: u.Name, Columns: u.Columns})
		}
		for _, fk := range b.ForeignKeys {
			c.ForeignKeys = append(c.ForeignKeys, fk.spec())
		}
		for _, ck := range b.Checks {
			c.Checks = append(c.Checks, &schema.CheckSpec{Name: ck.Name, Expr: ck.Expr})
		}
		var err error
		c.Annotations, err = annotations(b.Annotations)
		return c, err
	},
	"DropTable": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropTable{Schema: b.Schema, Name: b.Name, Annotations: a}, err
	},
	"RenameTable": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.RenameTable{
			Schema: b.Schema, Name: b.Name, NewSchema: b.NewSchema, NewName: b.NewName,
			ToDefaultSchema: b.ToDefaultSchema, Annotations: a,
		}, err
	},
	"AlterTable": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		if err != nil {
			return nil, err
		}
		old, err := annotations(b.OldAnnotations)
		return &schema.AlterTable{
			Schema: b.Schema, Name: b.Name, Comment: b.Comment, OldComment: b.OldComment,
			Annotations: a, OldAnnotations: old,
		}, err
	},
	"AddColumn": func(b *changeBody) (schema.Change, error) {
		col, err := b.column()
		if err != nil {
			return nil, err
		}
		return &schema.AddColumn{Schema: b.Schema, Table: b.Table, Column: col}, nil
	},
	"DropColumn": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropColumn{Schema: b.Schema, Table: b.Table, Name: b.Name, Annotations: a}, err
	},
	"AlterColumn": func(b *changeBody) (schema.Change, error) {
		col, err := b.column()
		if err != nil {
			return nil, err
		}
		if b.Old == nil {
			return nil, fmt.Errorf("missing old block of column %q", col.Name)
		}
		old, err := b.Old.spec()
		if err != nil {
			return nil, err
		}
		return &schema.AlterColumn{Schema: b.Schema, Table: b.Table, Column: col, Old: old}, nil
	},
	"RenameColumn": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.RenameColumn{Schema: b.Schema, Table: b.Table, Name: b.Name, NewName: b.NewName, Annotations: a}, err
	},
	"CreateIndex": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.CreateIndex{
			Schema: b.Schema, Table: b.Table, Name: b.Name, Columns: b.Columns, Unique: b.Unique,
			Desc: b.Desc, Filter: b.Where, Include: b.Include, Annotations: a,
		}, err
	},
	"DropIndex": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropIndex{Schema: b.Schema, Table: b.Table, Name: b.Name, Annotations: a}, err
	},
	"RenameIndex": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.RenameIndex{Schema: b.Schema, Table: b.Table, Name: b.Name, NewName: b.NewName, Annotations: a}, err
	},
	"AddPrimaryKey": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.AddPrimaryKey{Schema: b.Schema, Table: b.Table, Name: b.Name, Columns: b.Columns, Annotations: a}, err
	},
	"DropPrimaryKey": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropPrimaryKey{Schema: b.Schema, Table: b.Table, Name: b.Name, Annotations: a}, err
	},
	"AddUniqueConstraint": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.AddUniqueConstraint{Schema: b.Schema, Table: b.Table, Name: b.Name, Columns: b.Columns, Annotations: a}, err
	},
	"DropUniqueConstraint": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropUniqueConstraint{Schema: b.Schema, Table: b.Table, Name: b.Name, Annotations: a}, err
	},
	"AddCheckConstraint": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.AddCheckConstraint{Schema: b.Schema, Table: b.Table, Name: b.Name, Expr: b.Expr, Annotations: a}, err
	},
	"DropCheckConstraint": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropCheckConstraint{Schema: b.Schema, Table: b.Table, Name: b.Name, Annotations: a}, err
	},
	"AddForeignKey": func(b *changeBody) (schema.Change, error) {
		if len(b.ForeignKeys) != 1 {
			return nil, fmt.Errorf("expected exactly one foreign_key block, got %d", len(b.ForeignKeys))
		}
		a, err := annotations(b.Annotations)
		return &schema.AddForeignKey{Schema: b.Schema, Table: b.Table, ForeignKey: b.ForeignKeys[0].spec(), Annotations: a}, err
	},
	"DropForeignKey": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropForeignKey{Schema: b.Schema, Table: b.Table, Name: b.Name, Annotations: a}, err
	},
	"CreateSequence": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.CreateSequence{
			Schema: b.Schema, Name: b.Name, Start: b.Start, Increment: b.Increment,
			Comment: b.Comment, Annotations: a,
		}, err
	},
	"AlterSequence": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.AlterSequence{
			Schema: b.Schema, Name: b.Name, Increment: b.Increment,
			OldIncrement: b.OldIncrement, Annotations: a,
		}, err
	},
	"RenameSequence": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.RenameSequence{
			Schema: b.Schema, Name: b.Name, NewSchema: b.NewSchema, NewName: b.NewName,
			ToDefaultSchema: b.ToDefaultSchema, Annotations: a,
		}, err
	},
	"RestartSequence": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.RestartSequence{Schema: b.Schema, Name: b.Name, StartValue: b.StartValue, Annotations: a}, err
	},
	"DropSequence": func(b *changeBody) (schema.Change, error) {
		a, err := annotations(b.Annotations)
		return &schema.DropSequence{Schema: b.Schema, Name: b.Name, Annotations: a}, err
	},
	"InsertData": func(b *changeBody) (schema.Change, error) {
		vs, err := rows(b.Values)
		return &schema.InsertData{Schema: b.Schema, Table: b.Table, Columns: b.Columns, ColumnTypes: b.ColumnTypes, Values: vs}, err
	},
	"UpdateData": func(b *changeBody) (schema.Change, error) {
		vs, err := rows(b.Values)
		if err != nil {
			return nil, err
		}
		keys, err := rows(b.Keys)
		return &schema.UpdateData{
			Schema: b.Schema, Table: b.Table, KeyColumns: b.KeyColumns, KeyValues: keys,
			Columns: b.Columns, ColumnTypes: b.ColumnTypes, Values: vs,
		}, err
	},
	"DeleteData": func(b *changeBody) (schema.Change, error) {
		keys, err := rows(b.Keys)
		return &schema.DeleteData{Schema: b.Schema, Table: b.Table, KeyColumns: b.KeyColumns, KeyValues: keys}, err
	},
	"RawSql": func(b *changeBody) (schema.Change, error) {
		return &schema.RawSQL{SQL: b.SQL, SuppressTx: b.SuppressTx}, nil
	},
}

// Kinds returns the block types of all change kinds, sorted.
func Kinds() []string {
	names := make([]string, 0, len(changeKinds))
	for k := range changeKinds {
		names = append(names, inflect.Underscore(k))
	}
	sort.Strings(names)
	return names
}

// ParseProgram decodes a change program from the given HCL source.
func ParseProgram(src []byte, filename string) (*Program, error) {
	body, err := parse(src, filename)
	if err != nil {
		return nil, err
	}
	p := &Program{}
	if p.Version, err = fileVersion(body); err != nil {
		return nil, err
	}
	for name, attr := range body.Attributes {
		if name != versionAttr {
			return nil, rangeErr(attr.SrcRange, "unexpected attribute %q", name)
		}
	}
	for _, blk := range body.Blocks {
		decode, ok := changeKinds[inflect.Camelize(blk.Type)]
		if !ok {
			return nil, rangeErr(blk.TypeRange, "unknown change kind %q", blk.Type)
		}
		if len(blk.Labels) > 1 {
			return nil, rangeErr(blk.TypeRange, "%s block expects at most one label", blk.Type)
		}
		b := &changeBody{}
		if diags := gohcl.DecodeBody(blk.Body, nil, b); diags.HasErrors() {
			return nil, diags
		}
		if len(blk.Labels) == 1 {
			if b.Name != "" && b.Name != blk.Labels[0] {
				return nil, rangeErr(blk.TypeRange, "label %q does not match name %q", blk.Labels[0], b.Name)
			}
			b.Name = blk.Labels[0]
		}
		c, err := decode(b)
		if err != nil {
			return nil, rangeErr(blk.TypeRange, "%s: %v", blk.Type, err)
		}
		p.Changes = append(p.Changes, c)
	}
	return p, nil
}

// ParseProgramFile decodes a change program from the file in the given path.
func ParseProgramFile(path string) (*Program, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProgram(b, path)
}

// column returns the single column block of the body.
func (b *changeBody) column() (*schema.ColumnSpec, error) {
	if len(b.Column) != 1 {
		return nil, fmt.Errorf("expected exactly one column block, got %d", len(b.Column))
	}
	return b.Column[0].spec()
}

func (c *columnBlock) spec() (*schema.ColumnSpec, error) {
	s := &schema.ColumnSpec{
		Name:        c.Name,
		StoreType:   c.Type,
		Unicode:     c.Unicode,
		FixedLength: c.FixedLength,
		Size:        c.Size,
		Precision:   c.Precision,
		Scale:       c.Scale,
		Null:        c.Null,
		DefaultSQL:  c.DefaultSQL,
		ComputedSQL: c.Computed,
		Comment:     c.Comment,
		Collation:   c.Collation,
		RowVersion:  c.RowVersion,
	}
	if c.Kind != "" {
		k, err := schema.ParseKind(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		s.Kind = k
	}
	if c.Kind == "" && c.Type == "" {
		return nil, fmt.Errorf("column %q: kind or type must be set", c.Name)
	}
	var err error
	if s.Default, err = goValue(c.Default); err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	if s.Annotations, err = annotations(c.Annotations); err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	return s, nil
}

func (fk *foreignKeyBlock) spec() *schema.ForeignKeySpec {
	return &schema.ForeignKeySpec{
		Name:       fk.Name,
		Columns:    fk.Columns,
		RefSchema:  fk.RefSchema,
		RefTable:   fk.RefTable,
		RefColumns: fk.RefColumns,
		OnUpdate:   schema.ReferenceOption(fk.OnUpdate),
		OnDelete:   schema.ReferenceOption(fk.OnDelete),
	}
}
