// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import (
	"testing"

	"ariga.io/sfplan/sql/schema"
	"github.com/stretchr/testify/require"
)

func boolp(b bool) *bool { return &b }

func TestParseType(t *testing.T) {
	for _, tt := range []struct {
		raw                   string
		base                  string
		size, precision, scal *int
	}{
		{raw: "varchar(10)", base: "VARCHAR", size: intp(10)},
		{raw: "decimal(10)", base: "DECIMAL", precision: intp(10)},
		{raw: "decimal(10, 2)", base: "DECIMAL", precision: intp(10), scal: intp(2)},
		{raw: "NUMBER(38,0)", base: "NUMBER", precision: intp(38), scal: intp(0)},
		{raw: "timestamp_ntz(3)", base: "TIMESTAMP_NTZ", precision: intp(3)},
		{raw: "time(9)", base: "TIME", precision: intp(9)},
		{raw: "binary(16)", base: "BINARY", size: intp(16)},
		{raw: "nvarchar(max)", base: "NVARCHAR", size: intp(-1)},
		{raw: "VARCHAR(MAX)", base: "VARCHAR", size: intp(-1)},
		{raw: "[nvarchar](20)", base: "NVARCHAR", size: intp(20)},
		{raw: "[int]", base: "INT"},
		{raw: "double   precision", base: "DOUBLE PRECISION"},
		{raw: " boolean ", base: "BOOLEAN"},
	} {
		t.Run(tt.raw, func(t *testing.T) {
			typ, err := ParseType(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.base, typ.Base)
			require.Equal(t, tt.size, typ.Size)
			require.Equal(t, tt.precision, typ.Precision)
			require.Equal(t, tt.scal, typ.Scale)
		})
	}
}

func TestParseType_Error(t *testing.T) {
	for _, raw := range []string{"", "varchar(", "varchar(a)", "number(1,2,3)", "number(1,b)"} {
		_, err := ParseType(raw)
		require.Error(t, err, raw)
	}
}

func TestFindMapping(t *testing.T) {
	for _, tt := range []struct {
		name     string
		info     MappingInfo
		expected string
		kind     schema.Kind
		db       DBType
	}{
		{name: "bool", info: MappingInfo{Kind: schema.KindBool}, expected: "BOOLEAN", kind: schema.KindBool, db: DBBoolean},
		{name: "int32", info: MappingInfo{Kind: schema.KindInt32}, expected: "NUMBER(10,0)", kind: schema.KindInt32, db: DBFixed},
		{name: "int64", info: MappingInfo{Kind: schema.KindInt64}, expected: "NUMBER(19,0)", kind: schema.KindInt64, db: DBFixed},
		{name: "byte", info: MappingInfo{Kind: schema.KindByte}, expected: "NUMBER(3,0)", kind: schema.KindByte, db: DBFixed},
		{name: "decimal", info: MappingInfo{Kind: schema.KindDecimal}, expected: "NUMBER(38,18)", kind: schema.KindDecimal, db: DBFixed},
		{name: "decimal facets", info: MappingInfo{Kind: schema.KindDecimal, Precision: intp(10), Scale: intp(2)}, expected: "NUMBER(10,2)", kind: schema.KindDecimal, db: DBFixed},
		{name: "uuid", info: MappingInfo{Kind: schema.KindUUID}, expected: "VARCHAR(36)", kind: schema.KindUUID, db: DBText},
		{name: "datetime", info: MappingInfo{Kind: schema.KindDateTime}, expected: "TIMESTAMP_NTZ", kind: schema.KindDateTime, db: DBTimestampNTZ},
		{name: "offset", info: MappingInfo{Kind: schema.KindDateTimeOffset}, expected: "TIMESTAMP_TZ", kind: schema.KindDateTimeOffset, db: DBTimestampTZ},
		{name: "json", info: MappingInfo{Kind: schema.KindJSON}, expected: "VARIANT", kind: schema.KindJSON, db: DBVariant},
		{name: "fixed-width ignores size", info: MappingInfo{Kind: schema.KindInt32, Size: intp(4)}, expected: "NUMBER(10,0)", kind: schema.KindInt32, db: DBFixed},
		// Store type names.
		{name: "exact name", info: MappingInfo{Kind: schema.KindInt32, StoreType: "number(10,0)"}, expected: "NUMBER(10,0)", kind: schema.KindInt32, db: DBFixed},
		{name: "base name", info: MappingInfo{Kind: schema.KindDecimal, StoreType: "NUMBER(12,4)"}, expected: "NUMBER(12,4)", kind: schema.KindDecimal, db: DBFixed},
		{name: "base name facets from info", info: MappingInfo{Kind: schema.KindString, StoreType: "varchar", Size: intp(64)}, expected: "VARCHAR(64)", kind: schema.KindString, db: DBText},
		{name: "alias", info: MappingInfo{Kind: schema.KindInt64, StoreType: "bigint"}, expected: "BIGINT", kind: schema.KindInt64, db: DBFixed},
		{name: "introspection single candidate", info: MappingInfo{StoreType: "timestamp_tz"}, expected: "TIMESTAMP_TZ", kind: schema.KindDateTimeOffset, db: DBTimestampTZ},
		{name: "introspection with facets", info: MappingInfo{StoreType: "varchar(36)"}, expected: "VARCHAR(36)", kind: schema.KindUUID, db: DBText},
		{name: "brackets", info: MappingInfo{Kind: schema.KindString, StoreType: "[nvarchar](20)"}, expected: "NVARCHAR(20)", kind: schema.KindString, db: DBText},
		{name: "string uuid name", info: MappingInfo{Kind: schema.KindString, StoreType: "VARCHAR(36)"}, expected: "VARCHAR(36)", kind: schema.KindString, db: DBText},
		{name: "float32 as float", info: MappingInfo{Kind: schema.KindFloat32, StoreType: "float", Precision: intp(24)}, expected: "REAL", kind: schema.KindFloat32, db: DBReal},
		{name: "float32 as double precision", info: MappingInfo{Kind: schema.KindFloat32, StoreType: "double precision(10)"}, expected: "REAL", kind: schema.KindFloat32, db: DBReal},
		{name: "float64", info: MappingInfo{Kind: schema.KindFloat64, StoreType: "double precision"}, expected: "DOUBLE PRECISION", kind: schema.KindFloat64, db: DBReal},
		// Text facets.
		{name: "text default", info: MappingInfo{Kind: schema.KindString}, expected: "VARCHAR", kind: schema.KindString, db: DBText},
		{name: "text key", info: MappingInfo{Kind: schema.KindString, KeyOrIndex: true}, expected: "VARCHAR(900)", kind: schema.KindString, db: DBText},
		{name: "unicode key", info: MappingInfo{Kind: schema.KindString, KeyOrIndex: true, Unicode: boolp(true)}, expected: "NVARCHAR(450)", kind: schema.KindString, db: DBText},
		{name: "text sized", info: MappingInfo{Kind: schema.KindString, Size: intp(255)}, expected: "VARCHAR(255)", kind: schema.KindString, db: DBText},
		{name: "text too large", info: MappingInfo{Kind: schema.KindString, Size: intp(9000)}, expected: "VARCHAR", kind: schema.KindString, db: DBText},
		{name: "unicode too large", info: MappingInfo{Kind: schema.KindString, Size: intp(4001), Unicode: boolp(true)}, expected: "NVARCHAR", kind: schema.KindString, db: DBText},
		{name: "fixed too large", info: MappingInfo{Kind: schema.KindString, Size: intp(9000), FixedLength: boolp(true)}, expected: "CHAR(8000)", kind: schema.KindString, db: DBText},
		{name: "fixed unicode negative", info: MappingInfo{Kind: schema.KindString, Size: intp(-1), FixedLength: boolp(true), Unicode: boolp(true)}, expected: "NCHAR(4000)", kind: schema.KindString, db: DBText},
		// Binary facets.
		{name: "bytes default", info: MappingInfo{Kind: schema.KindBytes}, expected: "VARBINARY", kind: schema.KindBytes, db: DBBinary},
		{name: "bytes key", info: MappingInfo{Kind: schema.KindBytes, KeyOrIndex: true}, expected: "VARBINARY(900)", kind: schema.KindBytes, db: DBBinary},
		{name: "bytes fixed", info: MappingInfo{Kind: schema.KindBytes, Size: intp(16), FixedLength: boolp(true)}, expected: "BINARY(16)", kind: schema.KindBytes, db: DBBinary},
		{name: "bytes too large", info: MappingInfo{Kind: schema.KindBytes, Size: intp(8001)}, expected: "VARBINARY", kind: schema.KindBytes, db: DBBinary},
		{name: "rowversion", info: MappingInfo{Kind: schema.KindBytes, Size: intp(100), RowVersion: true}, expected: "BINARY(8)", kind: schema.KindBytes, db: DBBinary},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := FindMapping(tt.info)
			require.True(t, ok)
			require.Equal(t, tt.expected, m.StoreType)
			require.Equal(t, tt.kind, m.Kind)
			require.Equal(t, tt.db, m.DBType)
		})
	}
}

func TestFindMapping_NotFound(t *testing.T) {
	for _, info := range []MappingInfo{
		{},
		{Kind: schema.KindInt32, StoreType: "varchar"},
		{Kind: schema.KindFloat32, StoreType: "float"},
		// Ambiguous without a kind.
		{StoreType: "number(10,2)"},
		{StoreType: "time"},
		{StoreType: "unknown"},
		{Kind: schema.KindString, StoreType: "varchar("},
	} {
		_, ok := FindMapping(info)
		require.False(t, ok, "%+v", info)
	}
	_, err := ResolveType(MappingInfo{Kind: schema.KindInt32, StoreType: "varchar"})
	require.EqualError(t, err, `snowflake: no mapping for store type "varchar" of kind int32`)
}

func TestFindMapping_TextKey(t *testing.T) {
	m, ok := FindMapping(MappingInfo{Kind: schema.KindString, KeyOrIndex: true, Unicode: boolp(false)})
	require.True(t, ok)
	require.Equal(t, intp(900), m.Size)
	require.False(t, m.Unicode)
	require.False(t, m.FixedLength)
}

func TestFindMapping_Deterministic(t *testing.T) {
	for _, info := range []MappingInfo{
		{Kind: schema.KindString},
		{Kind: schema.KindString, KeyOrIndex: true},
		{Kind: schema.KindDecimal, StoreType: "decimal(10,2)"},
		{Kind: schema.KindBytes, RowVersion: true},
	} {
		m1, ok1 := FindMapping(info)
		m2, ok2 := FindMapping(info)
		require.Equal(t, ok1, ok2)
		require.Equal(t, m1, m2)
	}
	// The default text mapping is shared.
	m1, _ := FindMapping(MappingInfo{Kind: schema.KindString})
	m2, _ := FindMapping(MappingInfo{Kind: schema.KindString})
	require.Same(t, m1, m2)
}

func TestFormatType(t *testing.T) {
	require.Equal(t, "VARCHAR", FormatType("VARCHAR", nil, nil, nil))
	require.Equal(t, "VARCHAR", FormatType("VARCHAR", intp(-1), nil, nil))
	require.Equal(t, "VARCHAR(10)", FormatType("VARCHAR", intp(10), nil, nil))
	require.Equal(t, "NUMBER(10)", FormatType("NUMBER", nil, intp(10), nil))
	require.Equal(t, "NUMBER(10,2)", FormatType("NUMBER", nil, intp(10), intp(2)))
}
