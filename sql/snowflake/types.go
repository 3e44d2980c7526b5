// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import "ariga.io/sfplan/sql/schema"

// Snowflake store types.
const (
	TypeBoolean = "BOOLEAN"

	TypeNumber   = "NUMBER"
	TypeDecimal  = "DECIMAL"
	TypeNumeric  = "NUMERIC"
	TypeInt      = "INT"
	TypeInteger  = "INTEGER"
	TypeBigInt   = "BIGINT"
	TypeSmallInt = "SMALLINT"
	TypeTinyInt  = "TINYINT"
	TypeByteInt  = "BYTEINT"

	TypeFloat           = "FLOAT"
	TypeFloat4          = "FLOAT4"
	TypeFloat8          = "FLOAT8"
	TypeReal            = "REAL"
	TypeDouble          = "DOUBLE"
	TypeDoublePrecision = "DOUBLE PRECISION"

	TypeVarchar   = "VARCHAR"
	TypeNVarchar  = "NVARCHAR"
	TypeChar      = "CHAR"
	TypeCharacter = "CHARACTER"
	TypeNChar     = "NCHAR"
	TypeString    = "STRING"
	TypeText      = "TEXT"

	TypeBinary    = "BINARY"
	TypeVarbinary = "VARBINARY"

	TypeDate         = "DATE"
	TypeTime         = "TIME"
	TypeDateTime     = "DATETIME"
	TypeTimestamp    = "TIMESTAMP"
	TypeTimestampNTZ = "TIMESTAMP_NTZ"
	TypeTimestampLTZ = "TIMESTAMP_LTZ"
	TypeTimestampTZ  = "TIMESTAMP_TZ"

	TypeVariant = "VARIANT"
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
)

// DBType is the wire type code of a Snowflake value.
type DBType string

// Wire type codes, as reported by the Snowflake result-set metadata.
const (
	DBFixed        DBType = "FIXED"
	DBReal         DBType = "REAL"
	DBText         DBType = "TEXT"
	DBBinary       DBType = "BINARY"
	DBBoolean      DBType = "BOOLEAN"
	DBDate         DBType = "DATE"
	DBTime         DBType = "TIME"
	DBTimestampNTZ DBType = "TIMESTAMP_NTZ"
	DBTimestampLTZ DBType = "TIMESTAMP_LTZ"
	DBTimestampTZ  DBType = "TIMESTAMP_TZ"
	DBVariant      DBType = "VARIANT"
	DBObject       DBType = "OBJECT"
	DBArray        DBType = "ARRAY"
)

// Facet limits of string and binary types.
const (
	maxAnsiSize    = 8000
	maxUnicodeSize = 4000
	maxBinarySize  = 8000
	keyAnsiSize    = 900
	keyUnicodeSize = 450
	keyBinarySize  = 900
	rowVersionSize = 8
)

// A TypeMapping binds a store type to its logical kind, wire type and
// physical facets. Mappings returned by the resolver are shared and must
// not be modified.
type TypeMapping struct {
	// StoreType is the full store type, including its facets. e.g. NUMBER(10,0).
	StoreType string
	// StoreTypeBase is the store type name without facets. e.g. NUMBER.
	StoreTypeBase string
	Kind          schema.Kind
	DBType        DBType
	Size          *int
	Precision     *int
	Scale         *int
	FixedLength   bool
	Unicode       bool
	RowVersion    bool
}

func intp(i int) *int { return &i }

// Default mappings by kind.
var (
	boolMapping     = &TypeMapping{StoreType: TypeBoolean, StoreTypeBase: TypeBoolean, Kind: schema.KindBool, DBType: DBBoolean}
	byteMapping     = &TypeMapping{StoreType: "NUMBER(3,0)", StoreTypeBase: TypeNumber, Kind: schema.KindByte, DBType: DBFixed, Precision: intp(3), Scale: intp(0)}
	int16Mapping    = &TypeMapping{StoreType: "NUMBER(5,0)", StoreTypeBase: TypeNumber, Kind: schema.KindInt16, DBType: DBFixed, Precision: intp(5), Scale: intp(0)}
	int32Mapping    = &TypeMapping{StoreType: "NUMBER(10,0)", StoreTypeBase: TypeNumber, Kind: schema.KindInt32, DBType: DBFixed, Precision: intp(10), Scale: intp(0)}
	int64Mapping    = &TypeMapping{StoreType: "NUMBER(19,0)", StoreTypeBase: TypeNumber, Kind: schema.KindInt64, DBType: DBFixed, Precision: intp(19), Scale: intp(0)}
	decimalMapping  = &TypeMapping{StoreType: "NUMBER(38,18)", StoreTypeBase: TypeNumber, Kind: schema.KindDecimal, DBType: DBFixed, Precision: intp(38), Scale: intp(18)}
	float32Mapping  = &TypeMapping{StoreType: TypeReal, StoreTypeBase: TypeReal, Kind: schema.KindFloat32, DBType: DBReal}
	float64Mapping  = &TypeMapping{StoreType: TypeFloat, StoreTypeBase: TypeFloat, Kind: schema.KindFloat64, DBType: DBReal}
	stringMapping   = &TypeMapping{StoreType: TypeVarchar, StoreTypeBase: TypeVarchar, Kind: schema.KindString, DBType: DBText}
	bytesMapping    = &TypeMapping{StoreType: TypeVarbinary, StoreTypeBase: TypeVarbinary, Kind: schema.KindBytes, DBType: DBBinary}
	rowVersion      = &TypeMapping{StoreType: "BINARY(8)", StoreTypeBase: TypeBinary, Kind: schema.KindBytes, DBType: DBBinary, Size: intp(rowVersionSize), FixedLength: true, RowVersion: true}
	uuidMapping     = &TypeMapping{StoreType: "VARCHAR(36)", StoreTypeBase: TypeVarchar, Kind: schema.KindUUID, DBType: DBText, Size: intp(36)}
	dateMapping     = &TypeMapping{StoreType: TypeDate, StoreTypeBase: TypeDate, Kind: schema.KindDate, DBType: DBDate}
	timeMapping     = &TypeMapping{StoreType: TypeTime, StoreTypeBase: TypeTime, Kind: schema.KindTime, DBType: DBTime}
	durationMapping = &TypeMapping{StoreType: TypeTime, StoreTypeBase: TypeTime, Kind: schema.KindDuration, DBType: DBTime}
	datetimeMapping = &TypeMapping{StoreType: TypeTimestampNTZ, StoreTypeBase: TypeTimestampNTZ, Kind: schema.KindDateTime, DBType: DBTimestampNTZ}
	offsetMapping   = &TypeMapping{StoreType: TypeTimestampTZ, StoreTypeBase: TypeTimestampTZ, Kind: schema.KindDateTimeOffset, DBType: DBTimestampTZ}
	jsonMapping     = &TypeMapping{StoreType: TypeVariant, StoreTypeBase: TypeVariant, Kind: schema.KindJSON, DBType: DBVariant}
)

// kindMappings holds the default mapping of the fixed-width kinds. String
// and binary kinds are resolved by their facets and are not listed here.
var kindMappings = map[schema.Kind]*TypeMapping{
	schema.KindBool:           boolMapping,
	schema.KindByte:           byteMapping,
	schema.KindInt16:          int16Mapping,
	schema.KindInt32:          int32Mapping,
	schema.KindInt64:          int64Mapping,
	schema.KindDecimal:        decimalMapping,
	schema.KindFloat32:        float32Mapping,
	schema.KindFloat64:        float64Mapping,
	schema.KindUUID:           uuidMapping,
	schema.KindDate:           dateMapping,
	schema.KindTime:           timeMapping,
	schema.KindDuration:       durationMapping,
	schema.KindDateTime:       datetimeMapping,
	schema.KindDateTimeOffset: offsetMapping,
	schema.KindJSON:           jsonMapping,
}

// alias returns a mapping of the given kind, registered under another name.
func alias(name string, kind schema.Kind, db DBType) *TypeMapping {
	return &TypeMapping{StoreType: name, StoreTypeBase: name, Kind: kind, DBType: db}
}

// nameMappings holds the candidate mappings by their store type name (without
// facets), ordered by preference. Full names (with facets) of the default
// mappings are registered as well, and are matched first.
var nameMappings = map[string][]*TypeMapping{
	TypeBoolean: {boolMapping},

	"NUMBER(3,0)":   {byteMapping},
	"NUMBER(5,0)":   {int16Mapping},
	"NUMBER(10,0)":  {int32Mapping},
	"NUMBER(19,0)":  {int64Mapping},
	"NUMBER(38,18)": {decimalMapping},
	TypeNumber: {
		alias(TypeNumber, schema.KindDecimal, DBFixed),
		alias(TypeNumber, schema.KindInt64, DBFixed),
		alias(TypeNumber, schema.KindInt32, DBFixed),
		alias(TypeNumber, schema.KindInt16, DBFixed),
		alias(TypeNumber, schema.KindByte, DBFixed),
	},
	TypeDecimal:  {alias(TypeDecimal, schema.KindDecimal, DBFixed)},
	TypeNumeric:  {alias(TypeNumeric, schema.KindDecimal, DBFixed)},
	TypeInt:      {alias(TypeInt, schema.KindInt32, DBFixed)},
	TypeInteger:  {alias(TypeInteger, schema.KindInt32, DBFixed)},
	TypeBigInt:   {alias(TypeBigInt, schema.KindInt64, DBFixed)},
	TypeSmallInt: {alias(TypeSmallInt, schema.KindInt16, DBFixed)},
	TypeTinyInt:  {alias(TypeTinyInt, schema.KindByte, DBFixed)},
	TypeByteInt:  {alias(TypeByteInt, schema.KindByte, DBFixed)},

	TypeReal:            {float32Mapping},
	TypeFloat4:          {alias(TypeFloat4, schema.KindFloat32, DBReal)},
	TypeFloat:           {float64Mapping},
	TypeFloat8:          {alias(TypeFloat8, schema.KindFloat64, DBReal)},
	TypeDouble:          {alias(TypeDouble, schema.KindFloat64, DBReal)},
	TypeDoublePrecision: {alias(TypeDoublePrecision, schema.KindFloat64, DBReal)},

	"VARCHAR(36)": {uuidMapping},
	TypeVarchar:   {stringMapping, alias(TypeVarchar, schema.KindUUID, DBText)},
	TypeNVarchar:  {{StoreType: TypeNVarchar, StoreTypeBase: TypeNVarchar, Kind: schema.KindString, DBType: DBText, Unicode: true}},
	TypeChar:      {{StoreType: TypeChar, StoreTypeBase: TypeChar, Kind: schema.KindString, DBType: DBText, FixedLength: true}},
	TypeCharacter: {{StoreType: TypeCharacter, StoreTypeBase: TypeCharacter, Kind: schema.KindString, DBType: DBText, FixedLength: true}},
	TypeNChar:     {{StoreType: TypeNChar, StoreTypeBase: TypeNChar, Kind: schema.KindString, DBType: DBText, FixedLength: true, Unicode: true}},
	TypeString:    {alias(TypeString, schema.KindString, DBText)},
	TypeText:      {alias(TypeText, schema.KindString, DBText)},

	TypeBinary:    {{StoreType: TypeBinary, StoreTypeBase: TypeBinary, Kind: schema.KindBytes, DBType: DBBinary, FixedLength: true}},
	TypeVarbinary: {bytesMapping},

	TypeDate:         {dateMapping},
	TypeTime:         {timeMapping, durationMapping},
	TypeDateTime:     {alias(TypeDateTime, schema.KindDateTime, DBTimestampNTZ)},
	TypeTimestamp:    {alias(TypeTimestamp, schema.KindDateTime, DBTimestampNTZ)},
	TypeTimestampNTZ: {datetimeMapping},
	TypeTimestampTZ:  {offsetMapping},
	TypeTimestampLTZ: {alias(TypeTimestampLTZ, schema.KindDateTimeOffset, DBTimestampLTZ)},

	TypeVariant: {jsonMapping},
	TypeObject:  {alias(TypeObject, schema.KindJSON, DBObject)},
	TypeArray:   {alias(TypeArray, schema.KindJSON, DBArray)},
}

// precisionTypes lists the type name prefixes that use precision
// semantics for a single numeric facet, e.g. DECIMAL(10) or TIME(3).
var precisionTypes = []string{
	TypeDecimal,
	TypeNumeric,
	TypeNumber,
	TypeFloat,
	TypeDouble,
	TypeTime, // TIME, TIMESTAMP and TIMESTAMP_* types.
	TypeDateTime,
}

// noDefaultTypes lists the store types that do not accept column defaults.
var noDefaultTypes = []string{
	TypeTime,
	TypeTimestampLTZ,
	TypeTimestampTZ,
}
