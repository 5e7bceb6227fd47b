package dto

import "time"

// TodoRequest is the body of POST and PUT /api/todos.
type TodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Category    string     `json:"category"`
	IsCompleted bool       `json:"is_completed"`
}

// EventRequest is the body of POST and PUT /api/events.
type EventRequest struct {
	Title          string     `json:"title"`
	StartAt        *time.Time `json:"start_at"`
	EndAt          *time.Time `json:"end_at"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	IsRecurring    bool       `json:"is_recurring"`
	RecurrenceRule string     `json:"recurrence_rule"`
}

// CategoryRequest is the body of POST and PUT /api/categories.
type CategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TransactionRequest is the body of POST and PUT /api/transactions.
type TransactionRequest struct {
	Type            string     `json:"type"`
	Amount          float64    `json:"amount"`
	TransactionDate *time.Time `json:"transaction_date"`
	CategoryID      string     `json:"category_id"`
	Description     string     `json:"description"`
}

// MessageResponse reports the outcome of a delete.
type MessageResponse struct {
	Message string `json:"message"`
}
