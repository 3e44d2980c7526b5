// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ariga.io/sfplan/sql/migrate"
	"ariga.io/sfplan/sql/snowflake"
	"ariga.io/sfplan/sql/spec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// planFlags are the flags used in the plan command.
type planFlags struct {
	file       string
	snapshot   string
	name       string
	format     string
	indent     string
	idempotent bool
}

func planCmd() *cobra.Command {
	var flags planFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compile a change program into Snowflake SQL.",
		Long: `'sfplan plan' reads a program of schema changes and prints the
Snowflake SQL commands that apply it. An optional snapshot describes the
current database and is used to resolve hybrid tables and their indexes.`,
		Example: `  sfplan plan -f program.hcl
  sfplan plan -f program.hcl -s snapshot.hcl --idempotent
  sfplan plan -f program.hcl --format bare --indent ""`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return planRun(cmd, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "path to the change program")
	cmd.Flags().StringVarP(&flags.snapshot, "snapshot", "s", "", "path to the database snapshot")
	cmd.Flags().StringVar(&flags.name, "name", "", "name of the plan, defaults to the program file name")
	cmd.Flags().StringVar(&flags.format, "format", "", `output format: "bare" or a Go template`)
	cmd.Flags().StringVar(&flags.indent, "indent", "    ", "indentation of multi-line statements")
	cmd.Flags().BoolVar(&flags.idempotent, "idempotent", false, "guard data changes so they can be re-executed")
	cobra.CheckErr(cmd.MarkFlagRequired("file"))
	return cmd
}

func planRun(cmd *cobra.Command, flags planFlags) error {
	logger, err := newLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	f, err := formatter(flags.format)
	if err != nil {
		return err
	}
	prog, err := spec.ParseProgramFile(flags.file)
	if err != nil {
		return err
	}
	pl := &snowflake.Planner{}
	if flags.snapshot != "" {
		r, err := spec.ParseSnapshotFile(flags.snapshot)
		if err != nil {
			return err
		}
		pl.Snapshot = r
	}
	name := flags.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(flags.file), filepath.Ext(flags.file))
	}
	logger.Debug("planning changes", zap.String("plan", name), zap.Int("changes", len(prog.Changes)))
	plan, err := pl.PlanChanges(cmd.Context(), name, prog.Changes,
		migrate.WithIdempotent(flags.idempotent),
		migrate.WithIndent(flags.indent),
	)
	if err != nil {
		logger.Error("planning failed", append(errFields(err), zap.Error(err))...)
		return err
	}
	for _, d := range plan.Diagnostics {
		logger.Warn(d.Text, zap.String("code", d.Code), zap.String("source", changeKind(d.Source)))
	}
	logger.Debug("plan ready", zap.Int("commands", len(plan.Changes)))
	return f.Format(cmd.OutOrStdout(), plan)
}

func formatter(format string) (migrate.Formatter, error) {
	switch format {
	case "":
		return migrate.DefaultFormatter, nil
	case "bare":
		return migrate.BareFormatter, nil
	default:
		return migrate.NewTemplateFormatter(format)
	}
}

// errFields returns the logging fields of a planning error.
func errFields(err error) []zap.Field {
	var (
		u *snowflake.UnsupportedError
		m *snowflake.MissingFieldError
		c *snowflake.ConflictError
	)
	switch {
	case errors.As(err, &u):
		return []zap.Field{zap.String("kind", "unsupported"), zap.String("op", u.Op)}
	case errors.As(err, &m):
		return []zap.Field{zap.String("kind", "missing_field"), zap.String("op", m.Op), zap.String("field", m.Field)}
	case errors.As(err, &c):
		return []zap.Field{zap.String("kind", "conflict"), zap.String("table", c.Table), zap.String("ref_table", c.RefTable)}
	}
	return nil
}

// changeKind returns the kind name of a change, e.g. CreateTable.
func changeKind(c any) string {
	if c == nil {
		return ""
	}
	// Changes are pointers to structs named after their kind.
	return strings.TrimPrefix(fmt.Sprintf("%T", c), "*schema.")
}
