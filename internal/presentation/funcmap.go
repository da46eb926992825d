package presentation

import (
	"html/template"

	"github.com/shopspring/decimal"
)

// FuncMap exposes the helpers under the names report templates use.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"divide":          Divide,
		"multiply":        Multiply,
		"add":             Add,
		"percent":         Percent,
		"get_item":        GetItem,
		"criterion_score": CriterionScore,
		"criterion_notes": CriterionNotes,
		"checklist_value": ChecklistValue,
		"money":           Money,
	}
}

// Money formats v with two decimals, "0.00" when v is not numeric.
func Money(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return "0.00"
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}
