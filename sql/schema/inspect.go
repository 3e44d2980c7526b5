// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

import (
	"errors"
	"fmt"
)

// A Snapshot provides read-only access to the current state of a database.
// Planners use it to look up tables and indexes that are not created by the
// planned program. Realm implements this interface.
type Snapshot interface {
	// Table returns the table by its schema and name. An empty schema
	// resolves to the default schema of the snapshot.
	Table(schema, name string) (*Table, bool)
}

// ResolveSchema returns the schema name that the given name resolves to
// in the snapshot. Empty names resolve to the default schema of the snapshot,
// or to DefaultSchemaName if the snapshot does not define one.
func ResolveSchema(snap Snapshot, name string) string {
	if name != "" {
		return name
	}
	if d, ok := snap.(interface{ Default() string }); ok {
		return d.Default()
	}
	return DefaultSchemaName
}

// A NotExistError is returned by the snapshot lookup helpers when
// the requested element does not exist in the snapshot.
type NotExistError struct {
	Kind, Schema, Name string
}

func (e *NotExistError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("%s %q was not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q.%q was not found", e.Kind, e.Schema, e.Name)
}

// IsNotExistError reports an error is a NotExistError.
func IsNotExistError(err error) bool {
	if err == nil {
		return false
	}
	var e *NotExistError
	return errors.As(err, &e)
}

// LookupTable returns the table from the given snapshot, or a
// NotExistError if it does not exist. A nil snapshot is empty.
func LookupTable(s Snapshot, schema, name string) (*Table, error) {
	if s != nil {
		if t, ok := s.Table(schema, name); ok {
			return t, nil
		}
	}
	return nil, &NotExistError{Kind: "table", Schema: schema, Name: name}
}

// LookupIndex returns the index of the given table from the snapshot,
// or a NotExistError if the table or the index do not exist.
func LookupIndex(s Snapshot, schema, table, name string) (*Index, error) {
	t, err := LookupTable(s, schema, table)
	if err != nil {
		return nil, err
	}
	idx, ok := t.Index(name)
	if !ok {
		return nil, &NotExistError{Kind: "index", Schema: schema, Name: name}
	}
	return idx, nil
}

var _ Snapshot = (*Realm)(nil)
