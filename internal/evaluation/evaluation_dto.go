package evaluation

import "github.com/shopspring/decimal"

type CriterionRequest struct {
	Name   string          `json:"name" binding:"required,max=200"`
	Weight decimal.Decimal `json:"weight"`
}

type CreateEvaluationRequest struct {
	EmployeeID  string             `json:"employee_id" binding:"required,uuid"`
	EvaluatorID string             `json:"evaluator_id" binding:"required,uuid"`
	Kind        string             `json:"kind" binding:"omitempty,oneof=annual semiannual quarterly monthly periodic special"`
	PeriodStart string             `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string             `json:"period_end" binding:"required,datetime=2006-01-02"`
	Notes       string             `json:"notes" binding:"max=2000"`
	Criteria    []CriterionRequest `json:"criteria" binding:"dive"`
}

type UpdateEvaluationRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=annual semiannual quarterly monthly periodic special"`
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" binding:"required,datetime=2006-01-02"`
	Notes       string `json:"notes" binding:"max=2000"`
}

// ScoreCriterionRequest sets or clears (null) the score of a criterion.
type ScoreCriterionRequest struct {
	Score decimal.NullDecimal `json:"score"`
	Notes string              `json:"notes" binding:"max=2000"`
}

type ListFilter struct {
	Status     string
	EmployeeID string
}

type CriterionResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight string  `json:"weight"`
	Score  *string `json:"score"`
	Notes  string  `json:"notes,omitempty"`
}

type EvaluationResponse struct {
	ID           string              `json:"id"`
	EmployeeID   string              `json:"employee_id"`
	EvaluatorID  string              `json:"evaluator_id"`
	Kind         string              `json:"kind"`
	Status       string              `json:"status"`
	PeriodStart  string              `json:"period_start"`
	PeriodEnd    string              `json:"period_end"`
	EvaluatedOn  *string             `json:"evaluated_on"`
	OverallScore *string             `json:"overall_score"`
	Rating       string              `json:"rating,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Criteria     []CriterionResponse `json:"criteria,omitempty"`
}

type RefreshSummary struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
	Failed  int `json:"failed"`
}
