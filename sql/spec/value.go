// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package spec

import (
	"fmt"
	"math/big"

	"ariga.io/sfplan/sql/schema"
	"github.com/zclconf/go-cty/cty"
)

// goValue converts a cty value to its Go representation. Whole numbers
// are returned as int64, and other numbers as float64.
func goValue(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("spec: unknown value")
	}
	t := v.Type()
	switch {
	case t.Equals(cty.Bool):
		return v.True(), nil
	case t.Equals(cty.String):
		return v.AsString(), nil
	case t.Equals(cty.Number):
		f := v.AsBigFloat()
		if f.IsInt() {
			if i, acc := f.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		x, _ := f.Float64()
		return x, nil
	case t.IsListType(), t.IsTupleType(), t.IsSetType():
		vs := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			x, err := goValue(e)
			if err != nil {
				return nil, err
			}
			vs = append(vs, x)
		}
		return vs, nil
	case t.IsMapType(), t.IsObjectType():
		m := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, e := it.Element()
			x, err := goValue(e)
			if err != nil {
				return nil, err
			}
			m[k.AsString()] = x
		}
		return m, nil
	}
	return nil, fmt.Errorf("spec: unsupported value type %s", t.FriendlyName())
}

// rows converts a list of lists to rows of Go values.
func rows(v cty.Value) ([][]any, error) {
	if v.IsNull() {
		return nil, nil
	}
	x, err := goValue(v)
	if err != nil {
		return nil, err
	}
	list, ok := x.([]any)
	if !ok {
		return nil, fmt.Errorf("spec: expected a list of rows, got %s", v.Type().FriendlyName())
	}
	rs := make([][]any, len(list))
	for i, r := range list {
		if rs[i], ok = r.([]any); !ok {
			return nil, fmt.Errorf("spec: row %d is not a list", i)
		}
	}
	return rs, nil
}

// annotations converts an object or a map value to an annotation bag.
// Keys are ordered by their name.
func annotations(v cty.Value) (schema.Annotations, error) {
	if v.IsNull() {
		return nil, nil
	}
	if t := v.Type(); !t.IsObjectType() && !t.IsMapType() {
		return nil, fmt.Errorf("spec: annotations must be an object, got %s", t.FriendlyName())
	}
	var a schema.Annotations
	for it := v.ElementIterator(); it.Next(); {
		k, e := it.Element()
		x, err := goValue(e)
		if err != nil {
			return nil, fmt.Errorf("spec: annotation %q: %w", k.AsString(), err)
		}
		a = append(a, schema.Annotation{Name: k.AsString(), Value: x})
	}
	return a, nil
}
