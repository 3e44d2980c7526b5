// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

import (
	"fmt"
	"strings"
)

// A Kind describes the logical (database-agnostic) type of a value.
type Kind uint8

// List of logical kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindByte
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindBytes
	KindUUID
	KindDate
	KindTime
	KindDateTime
	KindDateTimeOffset
	KindDuration
	KindJSON
)

var kindNames = [...]string{
	KindInvalid:        "invalid",
	KindBool:           "bool",
	KindByte:           "byte",
	KindInt16:          "int16",
	KindInt32:          "int32",
	KindInt64:          "int64",
	KindFloat32:        "float32",
	KindFloat64:        "float64",
	KindDecimal:        "decimal",
	KindString:         "string",
	KindBytes:          "bytes",
	KindUUID:           "uuid",
	KindDate:           "date",
	KindTime:           "time",
	KindDateTime:       "datetime",
	KindDateTimeOffset: "datetimeoffset",
	KindDuration:       "duration",
	KindJSON:           "json",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind returns the kind represented by the given name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name && Kind(k) != KindInvalid {
			return Kind(k), nil
		}
	}
	switch name {
	case "int":
		return KindInt32, nil
	case "boolean":
		return KindBool, nil
	case "text":
		return KindString, nil
	case "timestamp":
		return KindDateTime, nil
	}
	return KindInvalid, fmt.Errorf("schema: unknown kind %q", name)
}
