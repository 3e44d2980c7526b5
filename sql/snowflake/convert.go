// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import (
	"fmt"
	"strconv"
	"strings"

	"ariga.io/sfplan/sql/schema"
)

// MappingInfo holds the request of a type resolution: a logical kind and
// the optional store type name and facets hints.
type MappingInfo struct {
	Kind        schema.Kind
	StoreType   string
	Unicode     *bool
	Size        *int
	Precision   *int
	Scale       *int
	FixedLength *bool
	// KeyOrIndex indicates the column backs a key or an index.
	KeyOrIndex bool
	RowVersion bool
}

// ColumnInfo returns the mapping request of the given column spec.
func ColumnInfo(c *schema.ColumnSpec, keyOrIndex bool) MappingInfo {
	return MappingInfo{
		Kind:        c.Kind,
		StoreType:   c.StoreType,
		Unicode:     c.Unicode,
		Size:        c.Size,
		Precision:   c.Precision,
		Scale:       c.Scale,
		FixedLength: c.FixedLength,
		KeyOrIndex:  keyOrIndex,
		RowVersion:  c.RowVersion,
	}
}

// FindMapping resolves the store type mapping of the given request. The
// returned mapping is read-only, and the function is safe for concurrent use.
func FindMapping(info MappingInfo) (*TypeMapping, bool) {
	if info.StoreType != "" {
		return findByName(info)
	}
	if m, ok := kindMappings[info.Kind]; ok {
		// Decimals are the only default mappings that accept facet hints.
		if info.Kind == schema.KindDecimal && info.Precision != nil {
			return withFacets(m, TypeNumber, nil, info.Precision, info.Scale), true
		}
		return m, true
	}
	switch info.Kind {
	case schema.KindString:
		return stringFacets(info), true
	case schema.KindBytes:
		return bytesFacets(info), true
	}
	return nil, false
}

// ResolveType is like FindMapping, but returns an error in case
// the type cannot be resolved.
func ResolveType(info MappingInfo) (*TypeMapping, error) {
	m, ok := FindMapping(info)
	if !ok {
		if info.StoreType != "" {
			return nil, fmt.Errorf("snowflake: no mapping for store type %q of kind %s", info.StoreType, info.Kind)
		}
		return nil, fmt.Errorf("snowflake: no mapping for kind %s", info.Kind)
	}
	return m, nil
}

func findByName(info MappingInfo) (*TypeMapping, bool) {
	t, err := ParseType(info.StoreType)
	if err != nil {
		return nil, false
	}
	// Single-precision floats requested by their double-precision names.
	if info.Kind == schema.KindFloat32 && (t.Base == TypeFloat || t.Base == TypeDoublePrecision) {
		p := t.Precision
		if p == nil {
			p = info.Precision
		}
		if p != nil && *p <= 24 {
			return float32Mapping, true
		}
	}
	if m, ok := pick(nameMappings[t.Normalized()], info.Kind); ok {
		return m, true
	}
	m, ok := pick(nameMappings[t.Base], info.Kind)
	if !ok {
		return nil, false
	}
	size, precision, scale := t.Size, t.Precision, t.Scale
	if !t.HasFacets() {
		size, precision, scale = info.Size, info.Precision, info.Scale
	}
	if size == nil && precision == nil && scale == nil {
		return m, true
	}
	return withFacets(m, t.Base, size, precision, scale), true
}

// pick selects the candidate that matches the requested kind. Without a
// requested kind, only a single candidate can be selected.
func pick(candidates []*TypeMapping, k schema.Kind) (*TypeMapping, bool) {
	if k == schema.KindInvalid {
		if len(candidates) == 1 {
			return candidates[0], true
		}
		return nil, false
	}
	for _, m := range candidates {
		if m.Kind == k {
			return m, true
		}
	}
	return nil, false
}

// withFacets returns a copy of m with the given facets.
func withFacets(m *TypeMapping, base string, size, precision, scale *int) *TypeMapping {
	c := *m
	c.StoreTypeBase = base
	c.Size, c.Precision, c.Scale = size, precision, scale
	c.StoreType = FormatType(base, size, precision, scale)
	return &c
}

func stringFacets(info MappingInfo) *TypeMapping {
	unicode := info.Unicode != nil && *info.Unicode
	fixed := info.FixedLength != nil && *info.FixedLength
	maxSize, keySize := maxAnsiSize, keyAnsiSize
	if unicode {
		maxSize, keySize = maxUnicodeSize, keyUnicodeSize
	}
	size := info.Size
	if size == nil && info.KeyOrIndex {
		size = intp(keySize)
	}
	if size != nil && (*size < 0 || *size > maxSize) {
		size = nil
		if fixed {
			size = intp(maxSize)
		}
	}
	if size == nil && !info.KeyOrIndex && !unicode && !fixed {
		return stringMapping
	}
	base := TypeVarchar
	switch {
	case fixed && unicode:
		base = TypeNChar
	case fixed:
		base = TypeChar
	case unicode:
		base = TypeNVarchar
	}
	return &TypeMapping{
		StoreType:     FormatType(base, size, nil, nil),
		StoreTypeBase: base,
		Kind:          schema.KindString,
		DBType:        DBText,
		Size:          size,
		FixedLength:   fixed,
		Unicode:       unicode,
	}
}

func bytesFacets(info MappingInfo) *TypeMapping {
	if info.RowVersion {
		return rowVersion
	}
	fixed := info.FixedLength != nil && *info.FixedLength
	size := info.Size
	if size == nil && info.KeyOrIndex {
		size = intp(keyBinarySize)
	}
	if size != nil && (*size < 0 || *size > maxBinarySize) {
		size = nil
		if fixed {
			size = intp(maxBinarySize)
		}
	}
	if size == nil && !info.KeyOrIndex && !fixed {
		return bytesMapping
	}
	base := TypeVarbinary
	if fixed {
		base = TypeBinary
	}
	return &TypeMapping{
		StoreType:     FormatType(base, size, nil, nil),
		StoreTypeBase: base,
		Kind:          schema.KindBytes,
		DBType:        DBBinary,
		Size:          size,
		FixedLength:   fixed,
	}
}

// FormatType formats the store type name with its facets. A negative size
// is formatted as unbounded, i.e. the facet is omitted.
func FormatType(base string, size, precision, scale *int) string {
	switch {
	case precision != nil && scale != nil:
		return fmt.Sprintf("%s(%d,%d)", base, *precision, *scale)
	case precision != nil:
		return fmt.Sprintf("%s(%d)", base, *precision)
	case size != nil && *size >= 0:
		return fmt.Sprintf("%s(%d)", base, *size)
	default:
		return base
	}
}

// StoreType is a parsed store type name.
type StoreType struct {
	// Base is the normalized type name without facets, e.g. VARCHAR.
	Base      string
	Size      *int // -1 for (max)
	Precision *int
	Scale     *int
}

// HasFacets reports if the parsed type name carried facets.
func (t *StoreType) HasFacets() bool {
	return t.Size != nil || t.Precision != nil || t.Scale != nil
}

// Normalized returns the normalized name of the type, including its facets.
func (t *StoreType) Normalized() string {
	if t.Size != nil && *t.Size < 0 {
		return t.Base + "(MAX)"
	}
	return FormatType(t.Base, t.Size, t.Precision, t.Scale)
}

// ParseType parses the given store type name to its base name and facets.
// A single facet is parsed as a precision for decimal and temporal types,
// and as a size for the rest. The (max) suffix is parsed as size -1.
func ParseType(raw string) (*StoreType, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("snowflake: empty store type")
	}
	s = StripBrackets(s)
	t := &StoreType{Base: s}
	i := strings.IndexByte(s, '(')
	if i == -1 {
		t.Base = normalizeName(s)
		return t, nil
	}
	j := strings.LastIndexByte(s, ')')
	if j < i {
		return nil, fmt.Errorf("snowflake: unexpected store type %q", raw)
	}
	t.Base = normalizeName(StripBrackets(strings.TrimSpace(s[:i])))
	args := strings.Split(s[i+1:j], ",")
	for k := range args {
		args[k] = strings.TrimSpace(args[k])
	}
	switch {
	case len(args) == 1 && strings.EqualFold(args[0], "max"):
		t.Size = intp(-1)
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("snowflake: parse facet of store type %q: %w", raw, err)
		}
		if usesPrecision(t.Base) {
			t.Precision = &n
		} else {
			t.Size = &n
		}
	case len(args) == 2:
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("snowflake: parse precision of store type %q: %w", raw, err)
		}
		sc, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("snowflake: parse scale of store type %q: %w", raw, err)
		}
		t.Precision, t.Scale = &p, &sc
	default:
		return nil, fmt.Errorf("snowflake: unexpected facets in store type %q", raw)
	}
	return t, nil
}

// StripBrackets removes a single pair of square brackets quoting the name.
func StripBrackets(s string) string {
	if len(s) > 1 && s[0] == '[' {
		if j := strings.IndexByte(s, ']'); j > 0 {
			return s[1:j] + s[j+1:]
		}
	}
	return s
}

func usesPrecision(base string) bool {
	for _, p := range precisionTypes {
		if strings.HasPrefix(base, p) {
			return true
		}
	}
	return false
}

func normalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// forbidsDefault reports if the given store type does not accept defaults.
func forbidsDefault(m *TypeMapping) bool {
	for _, t := range noDefaultTypes {
		if m.StoreTypeBase == t {
			return true
		}
	}
	return false
}
