// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"ariga.io/sfplan/sql/schema"
	"ariga.io/sfplan/sql/snowflake"

	"github.com/spf13/cobra"
)

func typeCmd() *cobra.Command {
	var info snowflake.MappingInfo
	cmd := &cobra.Command{
		Use:   "type [flags] <kind>",
		Short: "Resolve the Snowflake store type of a logical kind.",
		Example: `  sfplan type string --size 100 --key
  sfplan type decimal --precision 10 --scale 2
  sfplan type --store-type "NUMBER(5)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				k, err := schema.ParseKind(args[0])
				if err != nil {
					return err
				}
				info.Kind = k
			}
			fs := cmd.Flags()
			if fs.Changed("size") {
				info.Size = intFlag(cmd, "size")
			}
			if fs.Changed("precision") {
				info.Precision = intFlag(cmd, "precision")
			}
			if fs.Changed("scale") {
				info.Scale = intFlag(cmd, "scale")
			}
			if fs.Changed("unicode") {
				info.Unicode = boolFlag(cmd, "unicode")
			}
			if fs.Changed("fixed") {
				info.FixedLength = boolFlag(cmd, "fixed")
			}
			m, err := snowflake.ResolveType(info)
			if err != nil {
				return err
			}
			cmd.Println(m.StoreType)
			return nil
		},
	}
	cmd.Flags().StringVar(&info.StoreType, "store-type", "", "store type name, e.g. VARCHAR(10)")
	cmd.Flags().Int("size", 0, "maximum length of strings and binaries")
	cmd.Flags().Int("precision", 0, "precision of numbers and timestamps")
	cmd.Flags().Int("scale", 0, "scale of numbers")
	cmd.Flags().Bool("unicode", false, "strings hold unicode text")
	cmd.Flags().Bool("fixed", false, "strings and binaries have a fixed length")
	cmd.Flags().BoolVar(&info.KeyOrIndex, "key", false, "the column backs a key or an index")
	cmd.Flags().BoolVar(&info.RowVersion, "rowversion", false, "the column is a row version")
	return cmd
}

// intFlag returns a pointer to the value of an int flag.
func intFlag(cmd *cobra.Command, name string) *int {
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// boolFlag returns a pointer to the value of a bool flag.
func boolFlag(cmd *cobra.Command, name string) *bool {
	v, _ := cmd.Flags().GetBool(name)
	return &v
}
