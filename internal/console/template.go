package console

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

const helpTemplate = `Commands:
{{- range . }}
  {{ .Usage | printf "%-16s" }} {{ .Help }}
{{- end }}`

const tasksTemplate = `{{ .Role }} tasks:
{{- range .Tasks }}
  {{ if .IsCompleted }}[x]{{ else if eq .ID $.Current }}[>]{{ else }}[ ]{{ end }} {{ add .Index 1 }}. {{ .Name }}
{{- end }}`

const progressTemplate = `Score: {{ .Score }}   Level: {{ .Level }}   Status: {{ .Status }}
Completed tasks: {{ .Completed }}
Badges: {{ if .Badges }}{{ join ", " .Badges }}{{ else }}none{{ end }}`

const resultTemplate = `Task result: {{ .Score }} points ({{ .Accuracy }}% accuracy)
{{ .Message }}`

const whereTemplate = `Position: ({{ printf "%.1f" .X }}, {{ printf "%.1f" .Z }})   Zone: {{ .Zone }}   Facing: {{ printf "%.0f" .Facing }} degrees`
