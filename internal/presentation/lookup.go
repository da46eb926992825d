package presentation

const (
	scoreKey = "score"
	notesKey = "notes"
)

// GetItem returns m[key], or "" when m is not a supported map or the key is
// missing.
func GetItem(m any, key string) any {
	switch mm := m.(type) {
	case map[string]any:
		if v, ok := mm[key]; ok {
			return v
		}
	case map[string]string:
		if v, ok := mm[key]; ok {
			return v
		}
	case map[string]int:
		if v, ok := mm[key]; ok {
			return v
		}
	case map[string]float64:
		if v, ok := mm[key]; ok {
			return v
		}
	case map[string]bool:
		if v, ok := mm[key]; ok {
			return v
		}
	case map[string]map[string]any:
		if v, ok := mm[key]; ok {
			return v
		}
	}
	return ""
}

// CriterionScore reads m[criterionID]["score"].
func CriterionScore(m any, criterionID string) any {
	return criterionField(m, criterionID, scoreKey)
}

// CriterionNotes reads m[criterionID]["notes"].
func CriterionNotes(m any, criterionID string) any {
	return criterionField(m, criterionID, notesKey)
}

func criterionField(m any, criterionID, field string) any {
	switch inner := GetItem(m, criterionID).(type) {
	case map[string]any:
		if v, ok := inner[field]; ok {
			return v
		}
	case map[string]string:
		if v, ok := inner[field]; ok {
			return v
		}
	}
	return ""
}

// FieldLookup is implemented by records that expose named boolean fields
// through an explicit table.
type FieldLookup interface {
	Lookup(field string) (value bool, known bool)
}

// ChecklistValue returns the named boolean of c. Unknown fields and
// unsupported values yield false.
func ChecklistValue(c any, field string) (value bool) {
	// a nil pointer behind FieldLookup must not escape into a template
	defer func() {
		if recover() != nil {
			value = false
		}
	}()

	switch cc := c.(type) {
	case FieldLookup:
		v, ok := cc.Lookup(field)
		return ok && v
	case map[string]bool:
		return cc[field]
	default:
		return false
	}
}
