// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"ariga.io/sfplan/sql/schema"
	"ariga.io/sfplan/sql/snowflake"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the logical kinds and their default store types.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := tablewriter.NewWriter(cmd.OutOrStdout())
			tbl.SetHeader([]string{"Kind", "Store Type", "Key Store Type", "DB Type"})
			for k := schema.KindBool; k <= schema.KindJSON; k++ {
				m, err := snowflake.ResolveType(snowflake.MappingInfo{Kind: k})
				if err != nil {
					return err
				}
				key, err := snowflake.ResolveType(snowflake.MappingInfo{Kind: k, KeyOrIndex: true})
				if err != nil {
					return err
				}
				tbl.Append([]string{k.String(), m.StoreType, key.StoreType, string(m.DBType)})
			}
			tbl.Render()
			return nil
		},
	}
}
