// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package cmdapi holds the sfplan commands.
package cmdapi

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/semver"
)

// version holds the sfplan version. It is set by the build flag
// "-X 'ariga.io/sfplan/cmd/sfplan/internal/cmdapi.version=${version}'"
var version string

const flagLogLevel = "log-level"

// NewRoot returns the root command along with all its sub-commands.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "sfplan",
		Short:        "Plans schema changes for Snowflake.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, warn or error")
	root.AddCommand(
		planCmd(),
		typeCmd(),
		kindsCmd(),
		literalCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the sfplan version information.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("sfplan version %s\n", parse(version))
		},
	}
}

// parse returns a user facing version.
func parse(version string) string {
	if !semver.IsValid(version) {
		return "- development"
	}
	return strings.TrimPrefix(semver.Canonical(version), "v")
}

// newLogger returns a console logger that writes to w.
func newLogger(cmd *cobra.Command, w io.Writer) (*zap.Logger, error) {
	name, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return nil, err
	}
	level := new(zapcore.Level)
	if err := level.Set(name); err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flagLogLevel, err)
	}
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.AddSync(w), zap.NewAtomicLevelAt(*level))
	return zap.New(core), nil
}
