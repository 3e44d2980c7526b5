// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"context"
	"os"
	"os/signal"

	"ariga.io/sfplan/cmd/sfplan/internal/cmdapi"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	root := cmdapi.NewRoot()
	root.SetOut(os.Stdout)
	err := root.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
