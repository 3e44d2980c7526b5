// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package migrate

import (
	"context"

	"ariga.io/sfplan/sql/schema"
)

type (
	// A Plan defines a planned changeset that its execution brings the database to
	// the new desired state. Changes are executed in order, each one as its own unit
	// unless the executor decides to group them in a transaction.
	Plan struct {
		// Name of the plan. Provided by the user or auto-generated.
		Name string

		// Changes defines the list of changeset in the plan.
		Changes []*Change

		// Diagnostics holds the non-fatal reports that were raised while
		// planning. For example, options that were dropped or downgraded
		// because the target database cannot represent them.
		Diagnostics []*Diagnostic
	}

	// A Change of migration. A single command that is executed on the database.
	Change struct {
		// Cmd or statement to execute. Commands are terminated,
		// and can be executed as is.
		Cmd string

		// A Comment describes the change.
		Comment string

		// SuppressTx indicates the command must be
		// executed outside the ambient transaction.
		SuppressTx bool

		// The Source that caused this change, or nil.
		Source schema.Change
	}

	// A Diagnostic is a non-fatal report raised while planning a change.
	Diagnostic struct {
		Code   string        // Code of the diagnostic, e.g. SF101.
		Text   string        // Text describing the report.
		Source schema.Change // The change that raised the report.
	}

	// PlanOptions holds the options for planning.
	PlanOptions struct {
		// Idempotent indicates data changes should be planned in
		// a guarded form that can be re-executed safely.
		Idempotent bool

		// Indent is used to indent multi-line statements.
		// Defaults to four spaces.
		Indent string
	}

	// PlanOption allows configuring a drivers' plan using functional arguments.
	PlanOption func(*PlanOptions)
)

// WithIdempotent configures the planner to generate guarded data changes.
func WithIdempotent(b bool) PlanOption {
	return func(o *PlanOptions) {
		o.Idempotent = b
	}
}

// WithIndent configures the indentation of multi-line statements.
func WithIndent(indent string) PlanOption {
	return func(o *PlanOptions) {
		o.Indent = indent
	}
}

// PlanApplier wraps the methods for planning changes on the database.
type PlanApplier interface {
	// PlanChanges returns a migration plan for applying the given changeset.
	// An error is returned if one of the changes cannot be planned, in which
	// case no partial plan is returned.
	PlanChanges(ctx context.Context, name string, changes []schema.Change, opts ...PlanOption) (*Plan, error)
}

// Cmds returns the commands of the plan.
func (p *Plan) Cmds() []string {
	var cmds []string
	for _, c := range p.Changes {
		cmds = append(cmds, c.Cmd)
	}
	return cmds
}

// Diagnose appends a diagnostic to the plan.
func (p *Plan) Diagnose(code, text string, src schema.Change) {
	p.Diagnostics = append(p.Diagnostics, &Diagnostic{Code: code, Text: text, Source: src})
}
