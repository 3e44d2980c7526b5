// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

type (
	// A Change represents a schema change. The types below implement this
	// interface and describe a program of schema changes that is planned
	// (lowered to SQL) by the different dialects.
	//
	// The set of changes is closed. Planners implement the Visitor interface
	// and dispatch changes using their Accept method, so adding a new change
	// kind requires all planners to handle it.
	Change interface {
		Accept(Visitor) error
		change()
	}

	// Visitor is implemented by planners to handle each change kind.
	Visitor interface {
		VisitEnsureSchema(*EnsureSchema) error
		VisitDropSchema(*DropSchema) error
		VisitCreateTable(*CreateTable) error
		VisitDropTable(*DropTable) error
		VisitRenameTable(*RenameTable) error
		VisitAlterTable(*AlterTable) error
		VisitAddColumn(*AddColumn) error
		VisitDropColumn(*DropColumn) error
		VisitAlterColumn(*AlterColumn) error
		VisitRenameColumn(*RenameColumn) error
		VisitCreateIndex(*CreateIndex) error
		VisitDropIndex(*DropIndex) error
		VisitRenameIndex(*RenameIndex) error
		VisitAddPrimaryKey(*AddPrimaryKey) error
		VisitDropPrimaryKey(*DropPrimaryKey) error
		VisitAddUniqueConstraint(*AddUniqueConstraint) error
		VisitDropUniqueConstraint(*DropUniqueConstraint) error
		VisitAddCheckConstraint(*AddCheckConstraint) error
		VisitDropCheckConstraint(*DropCheckConstraint) error
		VisitAddForeignKey(*AddForeignKey) error
		VisitDropForeignKey(*DropForeignKey) error
		VisitCreateSequence(*CreateSequence) error
		VisitAlterSequence(*AlterSequence) error
		VisitRenameSequence(*RenameSequence) error
		VisitRestartSequence(*RestartSequence) error
		VisitDropSequence(*DropSequence) error
		VisitInsertData(*InsertData) error
		VisitUpdateData(*UpdateData) error
		VisitDeleteData(*DeleteData) error
		VisitRawSQL(*RawSQL) error
	}
)

type (
	// ColumnSpec describes a column in a change.
	ColumnSpec struct {
		Name string
		// Kind is the logical type of the values stored in the column.
		Kind Kind
		// StoreType is an optional store type name, e.g. VARCHAR(255).
		StoreType   string
		Unicode     *bool
		FixedLength *bool
		Size        *int
		Precision   *int
		Scale       *int
		Null        bool
		// Default holds a literal default value. DefaultSQL holds a raw
		// default expression. At most one of them is expected to be set.
		Default     any
		DefaultSQL  string
		ComputedSQL string
		Comment     string
		Collation   string
		// RowVersion marks the column as a concurrency token.
		RowVersion  bool
		Annotations Annotations
	}

	// PrimaryKeySpec describes a primary-key constraint.
	PrimaryKeySpec struct {
		Name    string
		Columns []string
	}

	// UniqueSpec describes a unique constraint.
	UniqueSpec struct {
		Name    string
		Columns []string
	}

	// CheckSpec describes a CHECK constraint.
	CheckSpec struct {
		Name string
		Expr string
	}

	// ForeignKeySpec describes a foreign-key constraint.
	ForeignKeySpec struct {
		Name       string
		Columns    []string
		RefSchema  string
		RefTable   string
		RefColumns []string
		OnUpdate   ReferenceOption
		OnDelete   ReferenceOption
	}
)

type (
	// EnsureSchema describes a schema creation, if it does not exist.
	EnsureSchema struct {
		Name        string
		Annotations Annotations
	}

	// DropSchema describes a schema removal change.
	DropSchema struct {
		Name        string
		Annotations Annotations
	}

	// CreateTable describes a table creation change.
	CreateTable struct {
		Schema      string
		Name        string
		Columns     []*ColumnSpec
		PrimaryKey  *PrimaryKeySpec
		Uniques     []*UniqueSpec
		ForeignKeys []*ForeignKeySpec
		Checks      []*CheckSpec
		Comment     string
		Annotations Annotations
	}

	// DropTable describes a table removal change.
	DropTable struct {
		Schema      string
		Name        string
		Annotations Annotations
	}

	// RenameTable describes a table rename or a move to another schema.
	// Empty NewSchema or NewName mean the value is unchanged. ToDefaultSchema
	// moves the table to the default schema of the session that executes
	// the change.
	RenameTable struct {
		Schema          string
		Name            string
		NewSchema       string
		NewName         string
		ToDefaultSchema bool
		Annotations     Annotations
	}

	// AlterTable describes a change of the table options (e.g. comment).
	AlterTable struct {
		Schema         string
		Name           string
		Comment        string
		OldComment     string
		Annotations    Annotations
		OldAnnotations Annotations
	}

	// AddColumn describes a column creation change.
	AddColumn struct {
		Schema string
		Table  string
		Column *ColumnSpec
	}

	// DropColumn describes a column removal change.
	DropColumn struct {
		Schema      string
		Table       string
		Name        string
		Annotations Annotations
	}

	// AlterColumn describes a change that modifies a column. Column holds
	// the desired state and Old holds its current state.
	AlterColumn struct {
		Schema string
		Table  string
		Column *ColumnSpec
		Old    *ColumnSpec
	}

	// RenameColumn describes a column rename change.
	RenameColumn struct {
		Schema      string
		Table       string
		Name        string
		NewName     string
		Annotations Annotations
	}

	// CreateIndex describes an index creation change.
	CreateIndex struct {
		Schema      string
		Table       string
		Name        string
		Columns     []string
		Unique      bool
		Desc        []bool
		Filter      string
		Include     []string
		Annotations Annotations
	}

	// DropIndex describes an index removal change.
	DropIndex struct {
		Schema      string
		Table       string
		Name        string
		Annotations Annotations
	}

	// RenameIndex describes an index rename change.
	RenameIndex struct {
		Schema      string
		Table       string
		Name        string
		NewName     string
		Annotations Annotations
	}

	// AddPrimaryKey describes a primary-key creation change.
	AddPrimaryKey struct {
		Schema      string
		Table       string
		Name        string
		Columns     []string
		Annotations Annotations
	}

	// DropPrimaryKey describes a primary-key removal change.
	DropPrimaryKey struct {
		Schema      string
		Table       string
		Name        string
		Annotations Annotations
	}

	// AddUniqueConstraint describes a unique constraint creation change.
	AddUniqueConstraint struct {
		Schema      string
		Table       string
		Name        string
		Columns     []string
		Annotations Annotations
	}

	// DropUniqueConstraint describes a unique constraint removal change.
	DropUniqueConstraint struct {
		Schema      string
		Table       string
		Name        string
		Annotations Annotations
	}

	// AddCheckConstraint describes a CHECK constraint creation change.
	AddCheckConstraint struct {
		Schema      string
		Table       string
		Name        string
		Expr        string
		Annotations Annotations
	}

	// DropCheckConstraint describes a CHECK constraint removal change.
	DropCheckConstraint struct {
		Schema      string
		Table       string
		Name        string
		Annotations Annotations
	}

	// AddForeignKey describes a foreign-key creation change.
	AddForeignKey struct {
		Schema      string
		Table       string
		ForeignKey  *ForeignKeySpec
		Annotations Annotations
	}

	// DropForeignKey describes a foreign-key removal change.
	DropForeignKey struct {
		Schema      string
		Table       string
		Name        string
		Annotations Annotations
	}

	// CreateSequence describes a sequence creation change.
	CreateSequence struct {
		Schema      string
		Name        string
		Start       int64
		Increment   int64
		Comment     string
		Annotations Annotations
	}

	// AlterSequence describes a change of the sequence options.
	AlterSequence struct {
		Schema       string
		Name         string
		Increment    int64
		OldIncrement int64
		Annotations  Annotations
	}

	// RenameSequence describes a sequence rename or a move to another
	// schema. It follows the semantics of RenameTable.
	RenameSequence struct {
		Schema          string
		Name            string
		NewSchema       string
		NewName         string
		ToDefaultSchema bool
		Annotations     Annotations
	}

	// RestartSequence describes a sequence restart change.
	RestartSequence struct {
		Schema      string
		Name        string
		StartValue  *int64
		Annotations Annotations
	}

	// DropSequence describes a sequence removal change.
	DropSequence struct {
		Schema      string
		Name        string
		Annotations Annotations
	}

	// InsertData describes rows to insert to a table. ColumnTypes
	// optionally holds the store types of the columns.
	InsertData struct {
		Schema      string
		Table       string
		Columns     []string
		ColumnTypes []string
		Values      [][]any
	}

	// UpdateData describes rows to update in a table. Each row in
	// KeyValues selects the row that is updated with the Values at
	// the same position. ColumnTypes optionally holds the store types
	// of the updated columns.
	UpdateData struct {
		Schema      string
		Table       string
		KeyColumns  []string
		KeyValues   [][]any
		Columns     []string
		ColumnTypes []string
		Values      [][]any
	}

	// DeleteData describes rows to delete from a table.
	DeleteData struct {
		Schema     string
		Table      string
		KeyColumns []string
		KeyValues  [][]any
	}

	// RawSQL describes a raw SQL statement that is passed as is.
	RawSQL struct {
		SQL string
		// SuppressTx indicates the statement cannot be executed inside a transaction.
		SuppressTx bool
	}
)

// Clone returns a shallow copy of the column spec. Pointer facets are
// shared, as specs are not modified in place.
func (c *ColumnSpec) Clone() *ColumnSpec {
	cc := *c
	return &cc
}

// changes.
func (*EnsureSchema) change()         {}
func (*DropSchema) change()           {}
func (*CreateTable) change()          {}
func (*DropTable) change()            {}
func (*RenameTable) change()          {}
func (*AlterTable) change()           {}
func (*AddColumn) change()            {}
func (*DropColumn) change()           {}
func (*AlterColumn) change()          {}
func (*RenameColumn) change()         {}
func (*CreateIndex) change()          {}
func (*DropIndex) change()            {}
func (*RenameIndex) change()          {}
func (*AddPrimaryKey) change()        {}
func (*DropPrimaryKey) change()       {}
func (*AddUniqueConstraint) change()  {}
func (*DropUniqueConstraint) change() {}
func (*AddCheckConstraint) change()   {}
func (*DropCheckConstraint) change()  {}
func (*AddForeignKey) change()        {}
func (*DropForeignKey) change()       {}
func (*CreateSequence) change()       {}
func (*AlterSequence) change()        {}
func (*RenameSequence) change()       {}
func (*RestartSequence) change()      {}
func (*DropSequence) change()         {}
func (*InsertData) change()           {}
func (*UpdateData) change()           {}
func (*DeleteData) change()           {}
func (*RawSQL) change()               {}

// Accept implements Change.
func (c *EnsureSchema) Accept(v Visitor) error { return v.VisitEnsureSchema(c) }

// Accept implements Change.
func (c *DropSchema) Accept(v Visitor) error { return v.VisitDropSchema(c) }

// Accept implements Change.
func (c *CreateTable) Accept(v Visitor) error { return v.VisitCreateTable(c) }

// Accept implements Change.
func (c *DropTable) Accept(v Visitor) error { return v.VisitDropTable(c) }

// Accept implements Change.
func (c *RenameTable) Accept(v Visitor) error { return v.VisitRenameTable(c) }

// Accept implements Change.
func (c *AlterTable) Accept(v Visitor) error { return v.VisitAlterTable(c) }

// Accept implements Change.
func (c *AddColumn) Accept(v Visitor) error { return v.VisitAddColumn(c) }

// Accept implements Change.
func (c *DropColumn) Accept(v Visitor) error { return v.VisitDropColumn(c) }

// Accept implements Change.
func (c *AlterColumn) Accept(v Visitor) error { return v.VisitAlterColumn(c) }

// Accept implements Change.
func (c *RenameColumn) Accept(v Visitor) error { return v.VisitRenameColumn(c) }

// Accept implements Change.
func (c *CreateIndex) Accept(v Visitor) error { return v.VisitCreateIndex(c) }

// Accept implements Change.
func (c *DropIndex) Accept(v Visitor) error { return v.VisitDropIndex(c) }

// Accept implements Change.
func (c *RenameIndex) Accept(v Visitor) error { return v.VisitRenameIndex(c) }

// Accept implements Change.
func (c *AddPrimaryKey) Accept(v Visitor) error { return v.VisitAddPrimaryKey(c) }

// Accept implements Change.
func (c *DropPrimaryKey) Accept(v Visitor) error { return v.VisitDropPrimaryKey(c) }

// Accept implements Change.
func (c *AddUniqueConstraint) Accept(v Visitor) error { return v.VisitAddUniqueConstraint(c) }

// Accept implements Change.
func (c *DropUniqueConstraint) Accept(v Visitor) error { return v.VisitDropUniqueConstraint(c) }

// Accept implements Change.
func (c *AddCheckConstraint) Accept(v Visitor) error { return v.VisitAddCheckConstraint(c) }

// Accept implements Change.
func (c *DropCheckConstraint) Accept(v Visitor) error { return v.VisitDropCheckConstraint(c) }

// Accept implements Change.
func (c *AddForeignKey) Accept(v Visitor) error { return v.VisitAddForeignKey(c) }

// Accept implements Change.
func (c *DropForeignKey) Accept(v Visitor) error { return v.VisitDropForeignKey(c) }

// Accept implements Change.
func (c *CreateSequence) Accept(v Visitor) error { return v.VisitCreateSequence(c) }

// Accept implements Change.
func (c *AlterSequence) Accept(v Visitor) error { return v.VisitAlterSequence(c) }

// Accept implements Change.
func (c *RenameSequence) Accept(v Visitor) error { return v.VisitRenameSequence(c) }

// Accept implements Change.
func (c *RestartSequence) Accept(v Visitor) error { return v.VisitRestartSequence(c) }

// Accept implements Change.
func (c *DropSequence) Accept(v Visitor) error { return v.VisitDropSequence(c) }

// Accept implements Change.
func (c *InsertData) Accept(v Visitor) error { return v.VisitInsertData(c) }

// Accept implements Change.
func (c *UpdateData) Accept(v Visitor) error { return v.VisitUpdateData(c) }

// Accept implements Change.
func (c *DeleteData) Accept(v Visitor) error { return v.VisitDeleteData(c) }

// Accept implements Change.
func (c *RawSQL) Accept(v Visitor) error { return v.VisitRawSQL(c) }
