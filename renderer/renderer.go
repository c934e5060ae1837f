// Package renderer turns cashbook values into markdown reports.
//
// Reports are text/template files embedded in the binary. Each exported
// function prepares a view with every value already formatted, so templates
// only lay things out.
package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// reports holds every template, named after its file: a report can include
// any other one as a partial with {{template "name.md" .}}.
var reports = template.Must(template.ParseFS(templates, "templates/*.md"))

// renderTemplate executes the template of file name.md on data.
func renderTemplate(name string, data any) string {
	var b strings.Builder
	if err := reports.ExecuteTemplate(&b, name+".md", data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
