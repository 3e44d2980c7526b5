// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	out, err := runCmd(NewRoot(), "version")
	require.NoError(t, err)
	require.Equal(t, "sfplan version - development\n", out)

	require.Equal(t, "1.2.3", parse("v1.2.3"))
	require.Equal(t, "- development", parse("dev"))
}

func TestType(t *testing.T) {
	for _, tt := range []struct {
		args     []string
		expected string
	}{
		{args: []string{"int32"}, expected: "NUMBER(10,0)"},
		{args: []string{"string"}, expected: "VARCHAR"},
		{args: []string{"string", "--key"}, expected: "VARCHAR(900)"},
		{args: []string{"string", "--key", "--unicode"}, expected: "NVARCHAR(450)"},
		{args: []string{"string", "--size", "100", "--fixed"}, expected: "CHAR(100)"},
		{args: []string{"decimal", "--precision", "10", "--scale", "2"}, expected: "NUMBER(10,2)"},
		{args: []string{"bytes", "--rowversion"}, expected: "BINARY(8)"},
		{args: []string{"--store-type", "timestamp_tz"}, expected: "TIMESTAMP_TZ"},
	} {
		out, err := runCmd(NewRoot(), append([]string{"type"}, tt.args...)...)
		require.NoError(t, err, tt.args)
		require.Equal(t, tt.expected+"\n", out, tt.args)
	}

	_, err := runCmd(NewRoot(), "type", "money")
	require.EqualError(t, err, `schema: unknown kind "money"`)
}

func TestKinds(t *testing.T) {
	out, err := runCmd(NewRoot(), "kinds")
	require.NoError(t, err)
	require.Contains(t, out, "STORE TYPE")
	require.Contains(t, out, "VARCHAR(900)")
	require.Contains(t, out, "NUMBER(19,0)")
	require.Contains(t, out, "TIMESTAMP_TZ")
}

func TestLiteral(t *testing.T) {
	out, err := runCmd(NewRoot(), "literal", "it's")
	require.NoError(t, err)
	require.Equal(t, "'it''s'\n", out)

	out, err = runCmd(NewRoot(), "literal", "a\nb")
	require.NoError(t, err)
	require.Equal(t, "CONCAT(CAST('a' AS VARCHAR), CHAR(10), 'b')\n", out)
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "init.hcl")
	require.NoError(t, os.WriteFile(prog, []byte(`
version = "v1"

ensure_schema "app" {}

add_unique_constraint "users_name" {
  table = "users"
  columns = ["name"]
}
`), 0600))

	var stderr bytes.Buffer
	root := NewRoot()
	root.SetErr(&stderr)
	out, err := runCmd(root, "plan", "-f", prog)
	require.NoError(t, err)
	require.Equal(t, `-- Plan: init
-- SF101: unique constraint "users_name" on table "users" is not enforced

-- ensure "app" schema
CREATE SCHEMA IF NOT EXISTS "app";

-- add unique constraint "users_name" to table "users"
ALTER TABLE "users" ADD CONSTRAINT "users_name" UNIQUE ("name");
`, out)
	require.Contains(t, stderr.String(), "SF101")
	require.Contains(t, stderr.String(), "AddUniqueConstraint")

	out, err = runCmd(NewRoot(), "plan", "-f", prog, "--format", "bare", "--log-level", "error")
	require.NoError(t, err)
	require.Equal(t, "CREATE SCHEMA IF NOT EXISTS \"app\";\nALTER TABLE \"users\" ADD CONSTRAINT \"users_name\" UNIQUE (\"name\");\n", out)

	out, err = runCmd(NewRoot(), "plan", "-f", prog, "--format", "{{ len .Changes }}", "--log-level", "error")
	require.NoError(t, err)
	require.Equal(t, "2", out)
}

func TestPlan_Snapshot(t *testing.T) {
	dir := t.TempDir()
	prog, snap := filepath.Join(dir, "program.hcl"), filepath.Join(dir, "snapshot.hcl")
	require.NoError(t, os.WriteFile(prog, []byte(`
create_index "orders_total" {
  table = "orders"
  columns = ["total"]
}
`), 0600))
	require.NoError(t, os.WriteFile(snap, []byte(`
schema "PUBLIC" {
  table "orders" {
    annotations = {
      "snowflake:hybrid" = true
    }
    column "id" {
      type = "NUMBER(19,0)"
    }
    column "total" {
      type = "NUMBER(10,2)"
    }
    primary_key {
      columns = ["id"]
    }
  }
}
`), 0600))
	out, err := runCmd(NewRoot(), "plan", "-f", prog, "-s", snap, "--format", "bare")
	require.NoError(t, err)
	require.Equal(t, "CREATE INDEX \"orders_total\" ON \"orders\" (\"total\");\n", out)

	_, err = runCmd(NewRoot(), "plan", "-f", prog, "--log-level", "error")
	require.Error(t, err)
	require.Contains(t, err.Error(), "indexes are supported only on hybrid tables")
}

func TestPlan_Errors(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "program.hcl")
	require.NoError(t, os.WriteFile(prog, []byte(`add_check_constraint "c" {
  table = "t"
  expr = "a > 0"
}`), 0600))

	var stderr bytes.Buffer
	root := NewRoot()
	root.SetErr(&stderr)
	_, err := runCmd(root, "plan", "-f", prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "AddCheckConstraint is not supported")
	require.Contains(t, stderr.String(), "unsupported")

	_, err = runCmd(NewRoot(), "plan")
	require.EqualError(t, err, `required flag(s) "file" not set`)

	_, err = runCmd(NewRoot(), "plan", "-f", prog, "--log-level", "loud")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --log-level")

	_, err = runCmd(NewRoot(), "plan", "-f", filepath.Join(dir, "missing.hcl"))
	require.Error(t, err)
}

func runCmd(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	if cmd.ErrOrStderr() == os.Stderr {
		cmd.SetErr(&out)
	}
	// Cobra checks for the args to equal nil and if so uses os.Args[1:].
	// In tests, this leads to go tooling arguments being part of the command arguments.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
