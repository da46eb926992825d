package fleet

import (
	"html/template"
	"io"

	"go-erp/internal/presentation"
)

var reportTemplate = template.Must(template.New("checklist_report").
	Funcs(presentation.FuncMap()).
	Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Checklist {{ .Checklist.Code }}</title></head>
<body>
<h1>Vehicle checklist {{ .Checklist.Code }}</h1>
<p>Vehicle: {{ .Checklist.VehicleID }} ({{ .Checklist.Kind }})</p>
<p>Driver: {{ .Checklist.Driver }}</p>
<p>Inspected at: {{ .Checklist.InspectedAt.Format "2006-01-02 15:04" }}{{ with .Checklist.Location }}, {{ . }}{{ end }}</p>
<p>Odometer: {{ .Checklist.Odometer }}</p>
<table>
<thead><tr><th>Group</th><th>Item</th><th>Result</th></tr></thead>
<tbody>
{{- range .Items }}
<tr>
<td>{{ .Group }}</td>
<td>{{ .Label }}{{ if .Mandatory }} *{{ end }}</td>
<td>{{ if checklist_value $.Checklist .Name }}OK{{ else }}FAIL{{ end }}</td>
</tr>
{{- end }}
</tbody>
</table>
<p>Passed: {{ .Passed }} of {{ .Total }} ({{ printf "%.1f" (percent .Passed .Total) }}%)</p>
<p>Final status: {{ .Checklist.FinalStatus }}</p>
{{- with .Checklist.Notes }}
<p>Notes: {{ . }}</p>
{{- end }}
{{- with .Checklist.Recommendations }}
<p>Recommendations: {{ . }}</p>
{{- end }}
</body>
</html>
`))

type reportItem struct {
	Name      string
	Label     string
	Group     string
	Mandatory bool
}

type reportData struct {
	Checklist *VehicleChecklist
	Items     []reportItem
	Passed    int
	Total     int
}

// RenderReport writes the HTML inspection sheet of c to w. Mandatory items
// are marked with an asterisk.
func RenderReport(w io.Writer, c *VehicleChecklist) error {
	mandatory := make(map[ChecklistField]bool, len(mandatoryFields))
	for _, f := range mandatoryFields {
		mandatory[f] = true
	}

	data := reportData{
		Checklist: c,
		Passed:    c.PassedCount(),
		Total:     len(fieldDefs),
	}
	for _, f := range Fields() {
		data.Items = append(data.Items, reportItem{
			Name:      string(f),
			Label:     f.Label(),
			Group:     f.Group(),
			Mandatory: mandatory[f],
		})
	}
	return reportTemplate.Execute(w, data)
}
