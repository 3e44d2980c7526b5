// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package spec decodes change programs and database snapshots written in HCL.
//
// A program is a list of change blocks, executed in order. The block type
// is the snake-cased name of the change kind, and its optional label is the
// name of the changed element:
//
//	version = "v1"
//
//	create_table "users" {
//	  schema = "app"
//	  column "id" {
//	    kind = "int64"
//	  }
//	  primary_key {
//	    columns = ["id"]
//	  }
//	  annotations = {
//	    "snowflake:hybrid" = true
//	  }
//	}
package spec

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/mod/semver"
)

// Version is the file format version written and accepted by this package.
const Version = "v1"

const versionAttr = "version"

// checkVersion validates the version attribute of a file. Files without
// a version are accepted as the current version.
func checkVersion(v string) error {
	switch {
	case v == "":
		return nil
	case !semver.IsValid(v):
		return fmt.Errorf("spec: invalid version %q", v)
	case semver.Major(v) != semver.Major(Version):
		return fmt.Errorf("spec: unsupported version %q, expected %s", v, semver.Major(Version))
	}
	return nil
}

// parse parses the HCL source into its syntax body.
func parse(src []byte, filename string) (*hclsyntax.Body, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("spec: unexpected body type %T", f.Body)
	}
	return body, nil
}

// fileVersion returns the version attribute of the body, if exists.
func fileVersion(body *hclsyntax.Body) (string, error) {
	attr, ok := body.Attributes[versionAttr]
	if !ok {
		return "", nil
	}
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if v.IsNull() || !v.Type().Equals(cty.String) {
		return "", fmt.Errorf("spec: %s: version must be a string", attr.SrcRange)
	}
	s := v.AsString()
	return s, checkVersion(s)
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec: reading %s: %w", path, err)
	}
	return b, nil
}

// rangeErr returns an error prefixed with the given source range.
func rangeErr(r hcl.Range, format string, args ...any) error {
	return fmt.Errorf("spec: %s: %s", r, fmt.Sprintf(format, args...))
}
