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

// Annotation names used by the Snowflake planner.
const (
	// AnnotationHybrid marks a table as a HYBRID table.
	AnnotationHybrid = "snowflake:hybrid"

	// AnnotationTemporal marks a column (or a table) as history-tracked.
	AnnotationTemporal = "snowflake:temporal"

	// AnnotationRetention holds the Time Travel retention of a table, in days.
	AnnotationRetention = "snowflake:retention"

	// AnnotationIdentity holds the identity spec of a column. The value is
	// an Identity, a "start,increment" string, a map with the start and
	// increment keys, nil for the default spec, or a bool that marks or
	// unmarks the column.
	AnnotationIdentity = "snowflake:identity"

	// AnnotationValueGeneration holds the value-generation strategy of a
	// column. ValueGenerationIdentity marks the column as an identity column.
	AnnotationValueGeneration = "snowflake:value_generation"

	// AnnotationOrder sets the ORDER/NOORDER option of sequences and identities.
	AnnotationOrder = "snowflake:order"
)

// Value-generation strategies.
const (
	ValueGenerationNone     = "none"
	ValueGenerationIdentity = "identity"
	ValueGenerationSequence = "sequence"
)

// Identity describes the sequence options of an identity column.
type Identity struct {
	Start     int64
	Increment int64
	// Order holds the ORDER (true) or NOORDER (false) option, if set.
	Order *bool
}

// defaultIdentity is used for identity columns without explicit options.
var defaultIdentity = Identity{Start: 1, Increment: 1}

// isHybrid reports if the annotations mark a HYBRID table.
func isHybrid(a schema.Annotations) bool {
	return a.Bool(AnnotationHybrid)
}

// isTemporal reports if the annotations mark a history-tracked element.
func isTemporal(a schema.Annotations) bool {
	return a.Bool(AnnotationTemporal)
}

// hasIdentity reports if the column is an identity column, either by an
// explicit identity spec or by its value-generation strategy. Computed
// columns are never identity columns.
func hasIdentity(c *schema.ColumnSpec) bool {
	if c == nil || c.ComputedSQL != "" {
		return false
	}
	if v, ok := c.Annotations.Get(AnnotationIdentity); ok {
		if b, isBool := v.(bool); isBool {
			return b
		}
		return true
	}
	v, ok := c.Annotations.Get(AnnotationValueGeneration)
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && strings.EqualFold(s, ValueGenerationIdentity)
}

// identity returns the identity spec of the column.
func identity(c *schema.ColumnSpec) (*Identity, error) {
	id := defaultIdentity
	v, ok := c.Annotations.Get(AnnotationIdentity)
	if ok {
		switch v := v.(type) {
		case nil:
		case bool:
		case Identity:
			id = v
		case *Identity:
			id = *v
		case string:
			parts := strings.Split(v, ",")
			if len(parts) != 2 {
				return nil, fmt.Errorf("snowflake: unexpected identity spec %q for column %q", v, c.Name)
			}
			start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("snowflake: parse identity start of column %q: %w", c.Name, err)
			}
			inc, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("snowflake: parse identity increment of column %q: %w", c.Name, err)
			}
			id.Start, id.Increment = start, inc
		case map[string]any:
			for k, x := range v {
				n, err := toInt(x)
				if err != nil {
					return nil, fmt.Errorf("snowflake: identity %s of column %q: %w", k, c.Name, err)
				}
				switch k {
				case "start":
					id.Start = n
				case "increment":
					id.Increment = n
				default:
					return nil, fmt.Errorf("snowflake: unexpected identity option %q for column %q", k, c.Name)
				}
			}
		default:
			return nil, fmt.Errorf("snowflake: unexpected identity spec type %T for column %q", v, c.Name)
		}
	}
	if o, ok := c.Annotations.Get(AnnotationOrder); ok && o != nil && id.Order == nil {
		b := c.Annotations.Bool(AnnotationOrder)
		id.Order = &b
	}
	return &id, nil
}

// retention returns the Time Travel retention set on the table, if any.
func retention(a schema.Annotations) (int64, bool, error) {
	v, ok := a.Get(AnnotationRetention)
	if !ok {
		return 0, false, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, false, fmt.Errorf("snowflake: invalid %s annotation: %w", AnnotationRetention, err)
	}
	return n, true, nil
}

// order returns the ORDER/NOORDER clause of the given annotations, if set.
func order(a schema.Annotations) string {
	v, ok := a.Get(AnnotationOrder)
	if !ok || v == nil {
		return ""
	}
	if a.Bool(AnnotationOrder) {
		return "ORDER"
	}
	return "NOORDER"
}

func toInt(v any) (int64, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("unexpected fraction in %v", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}
