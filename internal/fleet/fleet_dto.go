package fleet

import "time"

// CreateChecklistRequest carries the failed or passed items by name. Items
// left out count as passed.
type CreateChecklistRequest struct {
	VehicleID       string          `json:"vehicle_id" binding:"required,uuid"`
	Kind            string          `json:"kind" binding:"required,oneof=pre_trip post_trip maintenance inspection weekly monthly"`
	Driver          string          `json:"driver" binding:"required,max=200"`
	InspectedAt     *time.Time      `json:"inspected_at"`
	Location        string          `json:"location" binding:"max=200"`
	Odometer        int64           `json:"odometer"`
	Items           map[string]bool `json:"items"`
	Notes           string          `json:"notes" binding:"max=4000"`
	Recommendations string          `json:"recommendations" binding:"max=4000"`
}

type ChecklistFilter struct {
	VehicleID   string
	FinalStatus string
}

type ChecklistItemResponse struct {
	Field     string `json:"field"`
	Label     string `json:"label"`
	Group     string `json:"group"`
	Passed    bool   `json:"passed"`
	Mandatory bool   `json:"mandatory"`
}

type ChecklistResponse struct {
	ID              string                  `json:"id"`
	Code            string                  `json:"code"`
	VehicleID       string                  `json:"vehicle_id"`
	Kind            string                  `json:"kind"`
	InspectorID     *string                 `json:"inspector_id"`
	Driver          string                  `json:"driver"`
	InspectedAt     string                  `json:"inspected_at"`
	Location        string                  `json:"location"`
	Odometer        int64                   `json:"odometer"`
	Items           []ChecklistItemResponse `json:"items"`
	PassedCount     int                     `json:"passed_count"`
	TotalCount      int                     `json:"total_count"`
	Score           float64                 `json:"score"`
	FailedMandatory []string                `json:"failed_mandatory"`
	FinalStatus     string                  `json:"final_status"`
	Notes           string                  `json:"notes"`
	Recommendations string                  `json:"recommendations"`
}
