// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"ariga.io/sfplan/sql/snowflake"

	"github.com/spf13/cobra"
)

func literalCmd() *cobra.Command {
	enc := &snowflake.LiteralEncoder{}
	cmd := &cobra.Command{
		Use:   "literal [flags] <text>",
		Short: "Encode a string as a Snowflake SQL literal.",
		Example: `  sfplan literal "it's"
  sfplan literal --max-operands 2 "$(printf 'a\nb\nc')"`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(enc.EncodeString(args[0]))
		},
	}
	cmd.Flags().IntVar(&enc.MaxOperands, "max-operands", snowflake.DefaultMaxConcatOperands, "maximum number of CONCAT operands")
	return cmd
}
