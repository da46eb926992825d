package notification

type ListFilter struct {
	UnreadOnly bool
}

type NotificationResponse struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	Message    string  `json:"message"`
	LineItemID string  `json:"line_item_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
	ReadAt     *string `json:"read_at"`
}
