// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"ariga.io/sfplan/sql/internal/sqlx"
	"ariga.io/sfplan/sql/migrate"
	"ariga.io/sfplan/sql/schema"
)

// Diagnostic codes reported by the planner.
const (
	CodeUniqueNotEnforced = "SF101"
	CodeFKAction          = "SF102"
	CodeUniqueIndex       = "SF103"
	CodeDescIndex         = "SF104"
	CodeFilteredIndex     = "SF105"
	CodeRowVersion        = "SF106"
)

// maxNameLen is the maximum length of generated identifiers.
const maxNameLen = 255

// A Planner plans schema changes for Snowflake.
type Planner struct {
	// Snapshot is an optional snapshot of the database. It is used to
	// look up the tables and indexes that are not created by the changes.
	Snapshot schema.Snapshot

	// Encoder renders literals. DefaultEncoder is used if it is nil.
	Encoder *LiteralEncoder
}

// DefaultPlan provides planning capabilities without a database snapshot.
var DefaultPlan migrate.PlanApplier = &Planner{}

// PlanChanges returns a migration plan for the given schema changes. The
// changes are rewritten first, and then lowered to Snowflake statements.
func (p *Planner) PlanChanges(ctx context.Context, name string, changes []schema.Change, opts ...migrate.PlanOption) (*migrate.Plan, error) {
	s := &state{
		Plan:        migrate.Plan{Name: name},
		PlanOptions: migrate.PlanOptions{Indent: "    "},
		snap:        p.Snapshot,
		enc:         p.Encoder,
	}
	if s.enc == nil {
		s.enc = DefaultEncoder
	}
	for _, o := range opts {
		o(&s.PlanOptions)
	}
	rw, err := Rewrite(changes, p.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("snowflake: %w", err)
	}
	for _, c := range rw.Changes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.Accept(s); err != nil {
			return nil, fmt.Errorf("snowflake: %w", err)
		}
	}
	return &s.Plan, nil
}

// state represents the state of a planning. It's not part of
// Planner so that multiple plannings can be called in parallel.
type state struct {
	migrate.Plan
	migrate.PlanOptions
	snap schema.Snapshot
	enc  *LiteralEncoder
	// tables created by the planned changes so far.
	created []*schema.CreateTable
	// vars counts the session variables declared by the plan.
	vars int
}

var _ schema.Visitor = (*state)(nil)

// Build instantiates a new builder and writes the given phrase to it.
func Build(phrase string) *sqlx.Builder {
	b := &sqlx.Builder{QuoteChar: '"'}
	return b.P(phrase)
}

// Build instantiates a new builder with the indentation of the plan.
func (s *state) Build(phrases ...string) *sqlx.Builder {
	b := &sqlx.Builder{QuoteChar: '"', Indent: s.Indent}
	return b.P(phrases...)
}

func (s *state) append(src schema.Change, comment string, b *sqlx.Builder) {
	s.Changes = append(s.Changes, &migrate.Change{
		Cmd:     b.Stmt(),
		Comment: comment,
		Source:  src,
	})
}

// VisitEnsureSchema implements schema.Visitor.
func (s *state) VisitEnsureSchema(c *schema.EnsureSchema) error {
	if c.Name == "" {
		return &MissingFieldError{Op: "EnsureSchema", Field: "schema name"}
	}
	s.append(c, fmt.Sprintf("ensure %q schema", c.Name), s.Build("CREATE SCHEMA IF NOT EXISTS").Ident(c.Name))
	return nil
}

// VisitDropSchema implements schema.Visitor.
func (s *state) VisitDropSchema(c *schema.DropSchema) error {
	if c.Name == "" {
		return &MissingFieldError{Op: "DropSchema", Field: "schema name"}
	}
	s.append(c, fmt.Sprintf("drop %q schema", c.Name), s.Build("DROP SCHEMA").Ident(c.Name))
	return nil
}

// VisitCreateTable implements schema.Visitor.
func (s *state) VisitCreateTable(c *schema.CreateTable) error {
	hybrid := isHybrid(c.Annotations)
	if hybrid && (c.PrimaryKey == nil || len(c.PrimaryKey.Columns) == 0) {
		return &MissingFieldError{Op: "CreateTable", Field: "primary key of hybrid table " + c.Name}
	}
	if len(c.Checks) > 0 {
		return unsupported("CreateTable", "check constraint %q on table %q", c.Checks[0].Name, c.Name)
	}
	keys := make(map[string]bool)
	if c.PrimaryKey != nil {
		mark(keys, c.PrimaryKey.Columns)
	}
	for _, u := range c.Uniques {
		mark(keys, u.Columns)
	}
	for _, fk := range c.ForeignKeys {
		mark(keys, fk.Columns)
	}
	b := s.Build("CREATE")
	if hybrid {
		b.P("HYBRID")
	}
	b.P("TABLE").Table(c.Schema, c.Name)
	var err error
	b.WrapIndent(func(b *sqlx.Builder) {
		b.MapIndent(c.Columns, func(i int, b *sqlx.Builder) {
			if err == nil {
				err = s.column(b, c, c.Columns[i], keys[c.Columns[i].Name])
			}
		})
		if pk := c.PrimaryKey; pk != nil {
			b.Comma().NL()
			constraint(b, pk.Name).P("PRIMARY KEY")
			identList(b, pk.Columns)
		}
		for _, u := range c.Uniques {
			b.Comma().NL()
			constraint(b, u.Name).P("UNIQUE")
			identList(b, u.Columns)
			if !hybrid {
				s.Diagnose(CodeUniqueNotEnforced, fmt.Sprintf("unique constraint %q on table %q is not enforced", u.Name, c.Name), c)
			}
		}
		for _, fk := range c.ForeignKeys {
			b.Comma().NL()
			s.fk(b, c, c.Name, c.Schema, fk)
		}
	})
	if err != nil {
		return fmt.Errorf("create table %q: %w", c.Name, err)
	}
	days, ok, err := retention(c.Annotations)
	if err != nil {
		return err
	}
	if ok {
		b.P("DATA_RETENTION_TIME_IN_DAYS =", fmt.Sprint(days))
	}
	if c.Comment != "" {
		b.P("COMMENT =", sqlx.SingleQuote(c.Comment))
	}
	s.append(c, fmt.Sprintf("create %q table", c.Name), b)
	s.created = append(s.created, c)
	return nil
}

// VisitDropTable implements schema.Visitor.
func (s *state) VisitDropTable(c *schema.DropTable) error {
	s.append(c, fmt.Sprintf("drop %q table", c.Name), s.Build("DROP TABLE").Table(c.Schema, c.Name))
	for i := range s.created {
		if t := s.created[i]; schema.ResolveSchema(s.snap, t.Schema) == schema.ResolveSchema(s.snap, c.Schema) && t.Name == c.Name {
			s.created = append(s.created[:i], s.created[i+1:]...)
			break
		}
	}
	return nil
}

// VisitRenameTable implements schema.Visitor.
func (s *state) VisitRenameTable(c *schema.RenameTable) error {
	return s.rename(c, "RenameTable", "TABLE", c.Schema, c.Name, c.NewSchema, c.NewName, c.ToDefaultSchema)
}

// VisitRenameSequence implements schema.Visitor.
func (s *state) VisitRenameSequence(c *schema.RenameSequence) error {
	return s.rename(c, "RenameSequence", "SEQUENCE", c.Schema, c.Name, c.NewSchema, c.NewName, c.ToDefaultSchema)
}

// rename plans a rename or a move of a table or a sequence. Moves to the
// default schema of the session are planned as an anonymous block, as the
// target is known only at execution time.
func (s *state) rename(src schema.Change, op, kind, schemaName, name, newSchema, newName string, toDefault bool) error {
	if name == "" {
		return &MissingFieldError{Op: op, Field: "name"}
	}
	if newName == "" {
		newName = name
	}
	comment := fmt.Sprintf("rename %s %q to %q", strings.ToLower(kind), name, newName)
	switch {
	case toDefault:
		s.vars++
		v := fmt.Sprintf("rename_target_%d", s.vars)
		target := sqlx.SingleQuote(Build("").Ident(newName).String())
		stmt := Build("ALTER").P(kind).Table(schemaName, name).P("RENAME TO", fmt.Sprintf("IDENTIFIER(:%s)", v)).Stmt()
		b := s.Build()
		b.Block("DECLARE", "BEGIN", fmt.Sprintf("%s VARCHAR DEFAULT CURRENT_SCHEMA() || '.' || %s;", v, target))
		b.Block("", "END", stmt)
		s.append(src, comment, b)
	case newSchema != "" && newSchema != schemaName:
		s.append(src, comment, s.Build("ALTER").P(kind).Table(schemaName, name).P("RENAME TO").Table(newSchema, newName))
	case newName != name:
		s.append(src, comment, s.Build("ALTER").P(kind).Table(schemaName, name).P("RENAME TO").Table(schemaName, newName))
	}
	return nil
}

// VisitAlterTable implements schema.Visitor.
func (s *state) VisitAlterTable(c *schema.AlterTable) error {
	if isHybrid(c.Annotations) != isHybrid(c.OldAnnotations) {
		return unsupported("AlterTable", "changing the hybrid option of table %q", c.Name)
	}
	days, ok, err := retention(c.Annotations)
	if err != nil {
		return err
	}
	oldDays, oldOK, err := retention(c.OldAnnotations)
	if err != nil {
		return err
	}
	switch {
	case ok && (!oldOK || days != oldDays):
		s.append(c, fmt.Sprintf("set retention of table %q", c.Name),
			s.Build("ALTER TABLE").Table(c.Schema, c.Name).P("SET DATA_RETENTION_TIME_IN_DAYS =", fmt.Sprint(days)))
	case !ok && oldOK:
		s.append(c, fmt.Sprintf("unset retention of table %q", c.Name),
			s.Build("ALTER TABLE").Table(c.Schema, c.Name).P("UNSET DATA_RETENTION_TIME_IN_DAYS"))
	}
	switch {
	case c.Comment == c.OldComment:
	case c.Comment != "":
		s.append(c, fmt.Sprintf("set comment of table %q", c.Name),
			s.Build("ALTER TABLE").Table(c.Schema, c.Name).P("SET COMMENT =", sqlx.SingleQuote(c.Comment)))
	default:
		s.append(c, fmt.Sprintf("unset comment of table %q", c.Name),
			s.Build("ALTER TABLE").Table(c.Schema, c.Name).P("UNSET COMMENT"))
	}
	return nil
}

// VisitAddColumn implements schema.Visitor.
func (s *state) VisitAddColumn(c *schema.AddColumn) error {
	if c.Column == nil {
		return &MissingFieldError{Op: "AddColumn", Field: "column"}
	}
	b := s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("ADD COLUMN")
	if err := s.column(b, c, c.Column, false); err != nil {
		return fmt.Errorf("add column %q: %w", c.Column.Name, err)
	}
	s.append(c, fmt.Sprintf("add column %q to table %q", c.Column.Name, c.Table), b)
	return nil
}

// VisitDropColumn implements schema.Visitor.
func (s *state) VisitDropColumn(c *schema.DropColumn) error {
	s.append(c, fmt.Sprintf("drop column %q from table %q", c.Name, c.Table),
		s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("DROP COLUMN").Ident(c.Name))
	return nil
}

// VisitRenameColumn implements schema.Visitor.
func (s *state) VisitRenameColumn(c *schema.RenameColumn) error {
	if c.NewName == "" || c.NewName == c.Name {
		return nil
	}
	s.append(c, fmt.Sprintf("rename column %q to %q", c.Name, c.NewName),
		s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("RENAME COLUMN").Ident(c.Name).P("TO").Ident(c.NewName))
	return nil
}

// VisitAlterColumn implements schema.Visitor. Each changed axis of the
// column is planned independently, in a fixed order. A change of the
// computed expression recreates the column, and ends the planning.
func (s *state) VisitAlterColumn(c *schema.AlterColumn) error {
	switch {
	case c.Column == nil:
		return &MissingFieldError{Op: "AlterColumn", Field: "column"}
	case c.Old == nil:
		return &MissingFieldError{Op: "AlterColumn", Field: "old column"}
	}
	from, to := c.Old, c.Column
	alter := func() *sqlx.Builder {
		return s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("ALTER COLUMN").Ident(to.Name)
	}
	comment := fmt.Sprintf("modify %q column of table %q", to.Name, c.Table)
	if from.Collation != to.Collation {
		return unsupported("AlterColumn", "changing the collation of column %q", to.Name)
	}
	identityChanged := hasIdentity(from) != hasIdentity(to)
	if identityChanged {
		if err := s.alterIdentity(c); err != nil {
			return err
		}
	}
	if from.ComputedSQL != to.ComputedSQL {
		if err := s.VisitDropColumn(&schema.DropColumn{Schema: c.Schema, Table: c.Table, Name: from.Name}); err != nil {
			return err
		}
		return s.VisitAddColumn(&schema.AddColumn{Schema: c.Schema, Table: c.Table, Column: to})
	}
	if from.Null != to.Null {
		if to.Null {
			s.append(c, comment, alter().P("DROP NOT NULL"))
		} else {
			s.append(c, comment, alter().P("SET NOT NULL"))
		}
	}
	changed, typ, err := typeChanged(from, to)
	if err != nil {
		return err
	}
	if changed {
		s.append(c, comment, alter().P("SET DATA TYPE", typ))
	}
	if !identityChanged && !hasIdentity(to) && defaultChanged(from, to) {
		switch {
		case to.DefaultSQL == "" && to.Default == nil:
			s.append(c, comment, alter().P("DROP DEFAULT"))
		case isSequenceRef(to.DefaultSQL):
			s.append(c, comment, alter().P("SET DEFAULT", to.DefaultSQL))
		default:
			return unsupported("AlterColumn", "changing the default value of column %q", to.Name)
		}
	}
	if from.Comment != to.Comment {
		if from.Comment != "" {
			s.append(c, comment, alter().P("UNSET COMMENT"))
		}
		if to.Comment != "" {
			s.append(c, comment, alter().P("COMMENT", sqlx.SingleQuote(to.Comment)))
		}
	}
	return nil
}

// alterIdentity plans the addition or removal of the identity of a column.
// Existing columns cannot become AUTOINCREMENT columns, and therefore, they
// are backed by a sequence instead.
func (s *state) alterIdentity(c *schema.AlterColumn) error {
	alter := s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("ALTER COLUMN").Ident(c.Column.Name)
	if !hasIdentity(c.Column) {
		s.append(c, fmt.Sprintf("remove identity from column %q", c.Column.Name), alter.P("DROP DEFAULT"))
		return nil
	}
	id, err := identity(c.Column)
	if err != nil {
		return err
	}
	seq := sqlx.TrimName(fmt.Sprintf("%s_%s_seq", c.Table, c.Column.Name), maxNameLen)
	b := s.Build("CREATE SEQUENCE IF NOT EXISTS").Table(c.Schema, seq).P("START", fmt.Sprint(id.Start), "INCREMENT", fmt.Sprint(id.Increment))
	if id.Order != nil {
		b.P(orderClause(*id.Order))
	}
	s.append(c, fmt.Sprintf("create identity sequence of column %q", c.Column.Name), b)
	s.append(c, fmt.Sprintf("add identity to column %q", c.Column.Name),
		alter.P("SET DEFAULT", Build("").Table(c.Schema, seq).String()+".NEXTVAL"))
	return nil
}

// typeChanged reports if the store type of the column was changed.
func typeChanged(from, to *schema.ColumnSpec) (bool, string, error) {
	if from.Kind == to.Kind && from.StoreType == to.StoreType &&
		equalInt(from.Size, to.Size) && equalInt(from.Precision, to.Precision) && equalInt(from.Scale, to.Scale) &&
		equalBool(from.Unicode, to.Unicode) && equalBool(from.FixedLength, to.FixedLength) {
		return false, "", nil
	}
	// Row-version markers are cleared on both sides, as in column definitions.
	info := ColumnInfo(to, false)
	info.RowVersion = false
	m, err := ResolveType(info)
	if err != nil {
		return false, "", err
	}
	// Specs that differ, but are resolved to the same type.
	prev := ColumnInfo(from, false)
	prev.RowVersion = false
	if o, err := ResolveType(prev); err == nil && o.StoreType == m.StoreType {
		return false, "", nil
	}
	return true, m.StoreType, nil
}

func defaultChanged(from, to *schema.ColumnSpec) bool {
	return from.DefaultSQL != to.DefaultSQL || !reflect.DeepEqual(from.Default, to.Default)
}

// isSequenceRef reports if the expression references the next value of a sequence.
func isSequenceRef(x string) bool {
	return strings.HasSuffix(strings.ToUpper(strings.TrimSpace(x)), ".NEXTVAL")
}

// column writes the definition of the column to the builder.
func (s *state) column(b *sqlx.Builder, src schema.Change, c *schema.ColumnSpec, key bool) error {
	info := ColumnInfo(c, key)
	if c.RowVersion {
		info.RowVersion = false
		s.Diagnose(CodeRowVersion, fmt.Sprintf("row-version marker of column %q was cleared", c.Name), src)
	}
	m, err := ResolveType(info)
	if err != nil {
		return err
	}
	b.Ident(c.Name).P(m.StoreType)
	if c.Collation != "" {
		b.P("COLLATE", sqlx.SingleQuote(c.Collation))
	}
	if c.ComputedSQL != "" {
		b.P("AS", sqlx.MayWrap(c.ComputedSQL))
	}
	if !c.Null {
		b.P("NOT NULL")
	}
	switch {
	case c.ComputedSQL != "":
	case hasIdentity(c):
		// Defaults and identities are mutually exclusive.
		id, err := identity(c)
		if err != nil {
			return err
		}
		b.P("AUTOINCREMENT START", fmt.Sprint(id.Start), "INCREMENT", fmt.Sprint(id.Increment))
		if id.Order != nil {
			b.P(orderClause(*id.Order))
		}
	case c.DefaultSQL != "" || c.Default != nil:
		if forbidsDefault(m) {
			return unsupported("AddColumn", "default value on column %q of type %s", c.Name, m.StoreType)
		}
		x := c.DefaultSQL
		if x == "" {
			if x, err = s.enc.Literal(c.Default, m.StoreType); err != nil {
				return err
			}
		}
		b.P("DEFAULT", x)
	}
	if c.Comment != "" {
		b.P("COMMENT", sqlx.SingleQuote(c.Comment))
	}
	return nil
}

// VisitCreateIndex implements schema.Visitor.
func (s *state) VisitCreateIndex(c *schema.CreateIndex) error {
	if err := s.checkIndex("CreateIndex", c.Schema, c.Table, c.Name); err != nil {
		return err
	}
	if len(c.Columns) == 0 {
		return &MissingFieldError{Op: "CreateIndex", Field: "index columns"}
	}
	if len(c.Include) > 0 {
		return unsupported("CreateIndex", "included columns on index %q", c.Name)
	}
	if c.Unique {
		s.Diagnose(CodeUniqueIndex, fmt.Sprintf("index %q was created as a non-unique index", c.Name), c)
	}
	for _, d := range c.Desc {
		if d {
			s.Diagnose(CodeDescIndex, fmt.Sprintf("descending columns of index %q were created as ascending", c.Name), c)
			break
		}
	}
	if c.Filter != "" {
		s.Diagnose(CodeFilteredIndex, fmt.Sprintf("filter of index %q was dropped", c.Name), c)
	}
	b := s.Build("CREATE INDEX").Ident(c.Name).P("ON").Table(c.Schema, c.Table)
	identList(b, c.Columns)
	s.append(c, fmt.Sprintf("create index %q to table: %q", c.Name, c.Table), b)
	return nil
}

// VisitDropIndex implements schema.Visitor.
func (s *state) VisitDropIndex(c *schema.DropIndex) error {
	if err := s.checkIndex("DropIndex", c.Schema, c.Table, c.Name); err != nil {
		return err
	}
	s.append(c, fmt.Sprintf("drop index %q from table: %q", c.Name, c.Table),
		s.Build("DROP INDEX").Qualified(c.Schema, c.Table, c.Name))
	return nil
}

// checkIndex validates the index operations, which are supported only on hybrid tables.
func (s *state) checkIndex(op, schemaName, table, name string) error {
	switch {
	case table == "":
		return &MissingFieldError{Op: op, Field: "table name"}
	case name == "":
		return &MissingFieldError{Op: op, Field: "index name"}
	case !s.hybrid(schemaName, table):
		return unsupported(op, "index %q on table %q: indexes are supported only on hybrid tables", name, table)
	}
	return nil
}

// VisitRenameIndex implements schema.Visitor.
func (s *state) VisitRenameIndex(c *schema.RenameIndex) error {
	return unsupported("RenameIndex", "index %q on table %q cannot be renamed", c.Name, c.Table)
}

// VisitAddPrimaryKey implements schema.Visitor.
func (s *state) VisitAddPrimaryKey(c *schema.AddPrimaryKey) error {
	if err := s.checkConstraint("AddPrimaryKey", c.Schema, c.Table); err != nil {
		return err
	}
	if len(c.Columns) == 0 {
		return &MissingFieldError{Op: "AddPrimaryKey", Field: "key columns"}
	}
	b := s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("ADD")
	constraint(b, c.Name).P("PRIMARY KEY")
	identList(b, c.Columns)
	s.append(c, fmt.Sprintf("add primary key to table %q", c.Table), b)
	return nil
}

// VisitDropPrimaryKey implements schema.Visitor.
func (s *state) VisitDropPrimaryKey(c *schema.DropPrimaryKey) error {
	if err := s.checkConstraint("DropPrimaryKey", c.Schema, c.Table); err != nil {
		return err
	}
	s.append(c, fmt.Sprintf("drop primary key from table %q", c.Table),
		s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("DROP PRIMARY KEY"))
	return nil
}

// VisitAddUniqueConstraint implements schema.Visitor.
func (s *state) VisitAddUniqueConstraint(c *schema.AddUniqueConstraint) error {
	if err := s.checkConstraint("AddUniqueConstraint", c.Schema, c.Table); err != nil {
		return err
	}
	if len(c.Columns) == 0 {
		return &MissingFieldError{Op: "AddUniqueConstraint", Field: "key columns"}
	}
	b := s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("ADD")
	constraint(b, c.Name).P("UNIQUE")
	identList(b, c.Columns)
	s.append(c, fmt.Sprintf("add unique constraint %q to table %q", c.Name, c.Table), b)
	s.Diagnose(CodeUniqueNotEnforced, fmt.Sprintf("unique constraint %q on table %q is not enforced", c.Name, c.Table), c)
	return nil
}

// VisitDropUniqueConstraint implements schema.Visitor.
func (s *state) VisitDropUniqueConstraint(c *schema.DropUniqueConstraint) error {
	if c.Name == "" {
		return &MissingFieldError{Op: "DropUniqueConstraint", Field: "constraint name"}
	}
	s.append(c, fmt.Sprintf("drop unique constraint %q from table %q", c.Name, c.Table),
		s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("DROP CONSTRAINT").Ident(c.Name))
	return nil
}

// VisitAddCheckConstraint implements schema.Visitor.
func (s *state) VisitAddCheckConstraint(c *schema.AddCheckConstraint) error {
	return unsupported("AddCheckConstraint", "check constraint %q on table %q", c.Name, c.Table)
}

// VisitDropCheckConstraint implements schema.Visitor.
func (s *state) VisitDropCheckConstraint(c *schema.DropCheckConstraint) error {
	return unsupported("DropCheckConstraint", "check constraint %q on table %q", c.Name, c.Table)
}

// VisitAddForeignKey implements schema.Visitor.
func (s *state) VisitAddForeignKey(c *schema.AddForeignKey) error {
	if c.ForeignKey == nil {
		return &MissingFieldError{Op: "AddForeignKey", Field: "foreign key"}
	}
	if err := s.checkConstraint("AddForeignKey", c.Schema, c.Table); err != nil {
		return err
	}
	b := s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("ADD")
	s.fk(b, c, c.Table, c.Schema, c.ForeignKey)
	s.append(c, fmt.Sprintf("add foreign key %q to table %q", c.ForeignKey.Name, c.Table), b)
	return nil
}

// VisitDropForeignKey implements schema.Visitor.
func (s *state) VisitDropForeignKey(c *schema.DropForeignKey) error {
	if err := s.checkConstraint("DropForeignKey", c.Schema, c.Table); err != nil {
		return err
	}
	if c.Name == "" {
		return &MissingFieldError{Op: "DropForeignKey", Field: "constraint name"}
	}
	s.append(c, fmt.Sprintf("drop foreign key %q from table %q", c.Name, c.Table),
		s.Build("ALTER TABLE").Table(c.Schema, c.Table).P("DROP CONSTRAINT").Ident(c.Name))
	return nil
}

// checkConstraint rejects the constraint changes that
// cannot be altered independently on hybrid tables.
func (s *state) checkConstraint(op, schemaName, table string) error {
	if table == "" {
		return &MissingFieldError{Op: op, Field: "table name"}
	}
	if s.hybrid(schemaName, table) {
		return unsupported(op, "table %q is a hybrid table", table)
	}
	return nil
}

// fk writes the foreign-key constraint clause. Referential actions are
// downgraded to NO ACTION, the only action supported by Snowflake.
func (s *state) fk(b *sqlx.Builder, src schema.Change, table, schemaName string, fk *schema.ForeignKeySpec) {
	constraint(b, fk.Name).P("FOREIGN KEY")
	identList(b, fk.Columns)
	refSchema := fk.RefSchema
	if refSchema == "" {
		refSchema = schemaName
	}
	b.P("REFERENCES").Table(refSchema, fk.RefTable)
	identList(b, fk.RefColumns)
	for _, a := range []struct {
		clause string
		option schema.ReferenceOption
	}{
		{"ON UPDATE", fk.OnUpdate},
		{"ON DELETE", fk.OnDelete},
	} {
		if a.option != "" && a.option != schema.NoAction {
			s.Diagnose(CodeFKAction, fmt.Sprintf("%s %s of foreign key %q on table %q was downgraded to NO ACTION", a.clause, a.option, fk.Name, table), src)
		}
	}
}

// hybrid reports if the table is a hybrid table. Tables created by
// the plan are looked up first, and then the database snapshot.
func (s *state) hybrid(schemaName, name string) bool {
	resolved := schema.ResolveSchema(s.snap, schemaName)
	for i := len(s.created) - 1; i >= 0; i-- {
		if t := s.created[i]; schema.ResolveSchema(s.snap, t.Schema) == resolved && t.Name == name {
			return isHybrid(t.Annotations)
		}
	}
	t, err := schema.LookupTable(s.snap, schemaName, name)
	return err == nil && isHybrid(t.Annotations)
}

// VisitCreateSequence implements schema.Visitor.
func (s *state) VisitCreateSequence(c *schema.CreateSequence) error {
	inc := c.Increment
	if inc == 0 {
		inc = 1
	}
	b := s.Build("CREATE SEQUENCE").Table(c.Schema, c.Name).P("START WITH", fmt.Sprint(c.Start), "INCREMENT BY", fmt.Sprint(inc))
	b.P(order(c.Annotations))
	if c.Comment != "" {
		b.P("COMMENT =", sqlx.SingleQuote(c.Comment))
	}
	s.append(c, fmt.Sprintf("create %q sequence", c.Name), b)
	return nil
}

// VisitAlterSequence implements schema.Visitor.
func (s *state) VisitAlterSequence(c *schema.AlterSequence) error {
	if c.Increment != c.OldIncrement && c.Increment != 0 {
		s.append(c, fmt.Sprintf("modify %q sequence", c.Name),
			s.Build("ALTER SEQUENCE").Table(c.Schema, c.Name).P("SET INCREMENT BY", fmt.Sprint(c.Increment)))
	}
	return nil
}

// VisitRestartSequence implements schema.Visitor.
func (s *state) VisitRestartSequence(c *schema.RestartSequence) error {
	return unsupported("RestartSequence", "sequence %q cannot be restarted", c.Name)
}

// VisitDropSequence implements schema.Visitor.
func (s *state) VisitDropSequence(c *schema.DropSequence) error {
	s.append(c, fmt.Sprintf("drop %q sequence", c.Name), s.Build("DROP SEQUENCE").Table(c.Schema, c.Name))
	return nil
}

// VisitInsertData implements schema.Visitor.
func (s *state) VisitInsertData(c *schema.InsertData) error {
	for i, row := range c.Values {
		if len(row) != len(c.Columns) {
			return fmt.Errorf("insert data to %q: row %d has %d values, expected %d", c.Table, i, len(row), len(c.Columns))
		}
		b := s.Build("INSERT INTO").Table(c.Schema, c.Table)
		identList(b, c.Columns)
		lits, err := s.literals(row, c.ColumnTypes)
		if err != nil {
			return fmt.Errorf("insert data to %q: %w", c.Table, err)
		}
		b.P("VALUES").Wrap(func(b *sqlx.Builder) {
			b.MapComma(lits, func(i int, b *sqlx.Builder) { b.P(lits[i]) })
		})
		s.append(c, fmt.Sprintf("insert row %d to table %q", i+1, c.Table), b)
	}
	return nil
}

// VisitUpdateData implements schema.Visitor.
func (s *state) VisitUpdateData(c *schema.UpdateData) error {
	if len(c.KeyColumns) == 0 {
		return &MissingFieldError{Op: "UpdateData", Field: "key columns"}
	}
	if len(c.Values) != len(c.KeyValues) {
		return fmt.Errorf("update data in %q: %d rows of values for %d keys", c.Table, len(c.Values), len(c.KeyValues))
	}
	for i, row := range c.Values {
		if len(row) != len(c.Columns) {
			return fmt.Errorf("update data in %q: row %d has %d values, expected %d", c.Table, i, len(row), len(c.Columns))
		}
		lits, err := s.literals(row, c.ColumnTypes)
		if err != nil {
			return fmt.Errorf("update data in %q: %w", c.Table, err)
		}
		b := s.Build("UPDATE").Table(c.Schema, c.Table).P("SET")
		b.MapComma(c.Columns, func(j int, b *sqlx.Builder) {
			b.Ident(c.Columns[j]).P("=", lits[j])
		})
		if err := s.where(b, c.KeyColumns, c.KeyValues[i]); err != nil {
			return fmt.Errorf("update data in %q: %w", c.Table, err)
		}
		s.appendData(c, fmt.Sprintf("update row %d of table %q", i+1, c.Table), b)
	}
	return nil
}

// VisitDeleteData implements schema.Visitor.
func (s *state) VisitDeleteData(c *schema.DeleteData) error {
	if len(c.KeyColumns) == 0 {
		return &MissingFieldError{Op: "DeleteData", Field: "key columns"}
	}
	for i, key := range c.KeyValues {
		b := s.Build("DELETE FROM").Table(c.Schema, c.Table)
		if err := s.where(b, c.KeyColumns, key); err != nil {
			return fmt.Errorf("delete data from %q: %w", c.Table, err)
		}
		s.appendData(c, fmt.Sprintf("delete row %d from table %q", i+1, c.Table), b)
	}
	return nil
}

// appendData appends a data modification statement to the plan. In
// idempotent mode, the statement is executed as a dynamic statement.
func (s *state) appendData(src schema.Change, comment string, b *sqlx.Builder) {
	if !s.Idempotent {
		s.append(src, comment, b)
		return
	}
	inner := sqlx.TrimTerminators(b.String())
	s.append(src, comment, s.Build("EXECUTE IMMEDIATE", "'"+dynamicEscaper.Replace(inner)+"'"))
}

// dynamicEscaper escapes statements that are embedded in string literals.
var dynamicEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

func (s *state) where(b *sqlx.Builder, cols []string, key []any) error {
	if len(key) != len(cols) {
		return fmt.Errorf("key has %d values, expected %d", len(key), len(cols))
	}
	b.P("WHERE")
	for i, c := range cols {
		if i > 0 {
			b.P("AND")
		}
		if key[i] == nil {
			b.Ident(c).P("IS NULL")
			continue
		}
		lit, err := s.enc.Literal(key[i], "")
		if err != nil {
			return err
		}
		b.Ident(c).P("=", lit)
	}
	return nil
}

func (s *state) literals(row []any, types []string) ([]string, error) {
	lits := make([]string, len(row))
	for i, v := range row {
		var t string
		if i < len(types) {
			t = types[i]
		}
		lit, err := s.enc.Literal(v, t)
		if err != nil {
			return nil, err
		}
		lits[i] = lit
	}
	return lits, nil
}

// VisitRawSQL implements schema.Visitor. Scripts are split into their
// statements, unless they are a Snowflake Scripting block.
func (s *state) VisitRawSQL(c *schema.RawSQL) error {
	if isBlock(c.SQL) {
		s.Changes = append(s.Changes, &migrate.Change{Cmd: sqlx.Terminate(c.SQL), SuppressTx: c.SuppressTx, Source: c})
		return nil
	}
	stmts, err := migrate.Stmts(c.SQL)
	if err != nil {
		return fmt.Errorf("raw sql: %w", err)
	}
	for _, stmt := range stmts {
		s.Changes = append(s.Changes, &migrate.Change{
			Cmd:        sqlx.Terminate(stmt.Text),
			Comment:    strings.Join(comments(stmt), " "),
			SuppressTx: c.SuppressTx || len(stmt.Directive("notx")) > 0,
			Source:     c,
		})
	}
	return nil
}

// isBlock reports if the script is an anonymous Snowflake Scripting block.
func isBlock(script string) bool {
	fields := strings.Fields(script)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(strings.TrimSuffix(fields[0], ";")) {
	case "DECLARE", "BEGIN":
		return true
	}
	return false
}

// comments returns the non-directive comments of the statement.
func comments(stmt *migrate.Stmt) []string {
	var cs []string
	for _, c := range stmt.Comments {
		c = strings.TrimSpace(c)
		if strings.Contains(c, "sfplan:") {
			continue
		}
		c = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(c, "--"), "//"))
		if c != "" {
			cs = append(cs, c)
		}
	}
	return cs
}

func constraint(b *sqlx.Builder, name string) *sqlx.Builder {
	if name != "" {
		b.P("CONSTRAINT").Ident(name)
	}
	return b
}

func identList(b *sqlx.Builder, names []string) {
	b.Wrap(func(b *sqlx.Builder) {
		b.MapComma(names, func(i int, b *sqlx.Builder) {
			b.Ident(names[i])
		})
	})
}

func mark(m map[string]bool, names []string) {
	for _, n := range names {
		m[n] = true
	}
}

func orderClause(o bool) string {
	if o {
		return "ORDER"
	}
	return "NOORDER"
}
