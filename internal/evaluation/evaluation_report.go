package evaluation

import (
	"html/template"
	"io"

	"go-erp/internal/presentation"
)

var reportTemplate = template.Must(template.New("evaluation_report").
	Funcs(presentation.FuncMap()).
	Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Evaluation {{ .Evaluation.ID }}</title></head>
<body>
<h1>Performance evaluation</h1>
<p>Employee: {{ .Evaluation.EmployeeID }}</p>
<p>Period: {{ .Evaluation.PeriodStart }} to {{ .Evaluation.PeriodEnd }} ({{ .Evaluation.Kind }})</p>
<p>Status: {{ .Evaluation.Status }}{{ with .Evaluation.EvaluatedOn }}, evaluated on {{ . }}{{ end }}</p>
<p>Progress: {{ printf "%.0f" (percent .Scored .Total) }}% ({{ .Scored }} of {{ .Total }} criteria scored)</p>
<table>
<thead><tr><th>Criterion</th><th>Weight</th><th>Score</th><th>Weighted</th><th>Notes</th></tr></thead>
<tbody>
{{- range .Evaluation.Criteria }}
<tr>
<td>{{ .Name }}</td>
<td>{{ .Weight }}</td>
<td>{{ criterion_score $.Scores .ID }}</td>
<td>{{ money (multiply (criterion_score $.Scores .ID) .Weight) }}</td>
<td>{{ criterion_notes $.Scores .ID }}</td>
</tr>
{{- end }}
</tbody>
</table>
<p>Overall score: {{ with .Evaluation.OverallScore }}{{ . }}{{ else }}-{{ end }}</p>
<p>Rating: {{ with .Evaluation.Rating }}{{ . }}{{ else }}-{{ end }}</p>
</body>
</html>
`))

type reportData struct {
	Evaluation EvaluationResponse
	Scores     map[string]any
	Scored     int
	Total      int
}

// RenderReport writes the HTML report of resp to w.
func RenderReport(w io.Writer, resp EvaluationResponse) error {
	data := reportData{
		Evaluation: resp,
		Scores:     make(map[string]any, len(resp.Criteria)),
		Total:      len(resp.Criteria),
	}
	for _, c := range resp.Criteria {
		entry := map[string]any{"notes": c.Notes}
		if c.Score != nil {
			entry["score"] = *c.Score
			data.Scored++
		}
		data.Scores[c.ID] = entry
	}
	return reportTemplate.Execute(w, data)
}
