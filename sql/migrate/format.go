// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package migrate

import (
	"fmt"
	"io"
	"text/template"
)

type (
	// A Formatter writes a plan in a specific format.
	Formatter interface {
		Format(io.Writer, *Plan) error
	}

	// TemplateFormatter formats plans using a text/template.
	TemplateFormatter struct {
		T *template.Template
	}
)

var (
	// funcs contains the template.FuncMap for the different formatters.
	funcs = template.FuncMap{
		"code": func(d *Diagnostic) string { return d.Code },
	}

	// DefaultFormatter writes the plan as an SQL script, where each command is
	// preceded by its comment, and transaction-less commands are marked.
	DefaultFormatter = MustTemplateFormatter(
		`{{ with .Name }}-- Plan: {{ println . }}{{ end }}` +
			`{{ range .Diagnostics }}-- {{ code . }}: {{ println .Text }}{{ end }}` +
			`{{ range $i, $c := .Changes }}{{ if or $i $.Name $.Diagnostics }}{{ println }}{{ end }}` +
			`{{ with $c.Comment }}-- {{ println . }}{{ end }}` +
			`{{ if $c.SuppressTx }}-- sfplan:notx{{ println }}{{ end }}` +
			`{{ println $c.Cmd }}{{ end }}`,
	)

	// BareFormatter writes only the commands of the plan.
	BareFormatter = MustTemplateFormatter(`{{ range .Changes }}{{ println .Cmd }}{{ end }}`)
)

// NewTemplateFormatter parses the given template and returns a formatter for it.
func NewTemplateFormatter(text string) (*TemplateFormatter, error) {
	t, err := template.New("plan").Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("sql/migrate: parse template: %w", err)
	}
	return &TemplateFormatter{T: t}, nil
}

// MustTemplateFormatter is like NewTemplateFormatter but panics on error.
func MustTemplateFormatter(text string) *TemplateFormatter {
	f, err := NewTemplateFormatter(text)
	if err != nil {
		panic(err)
	}
	return f
}

// Format implements the Formatter interface.
func (f *TemplateFormatter) Format(w io.Writer, p *Plan) error {
	return f.T.Execute(w, p)
}
