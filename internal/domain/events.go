package domain

import "time"

// Event types
const (
	EventTypePostingRequested    = "gl.posting.requested"
	EventTypePostingSkipped      = "gl.posting.skipped"
	EventTypeSettlementCompleted = "settlement.completed"
	EventTypeFloatBelowThreshold = "float.below_threshold"
	EventTypeDriftDetected       = "reconciliation.drift_detected"
)

// Aggregate types
const (
	AggregateTypeGLTransaction = "gl_transaction"
	AggregateTypeFloatAccount  = "float_account"
	AggregateTypeSettlement    = "settlement"
)

// OutboxEvent represents an event to be dispatched. Posting requests ride the
// same outbox as notifications so the float balance mutation and the enqueue
// commit in one database transaction.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PostingRequestedEvent payload: everything the posting engine needs to build
// journal lines for a channel transaction.
type PostingRequestedEvent struct {
	SourceModule          string `json:"source_module"`
	SourceTransactionID   string `json:"source_transaction_id"`
	SourceTransactionType string `json:"source_transaction_type"`
	FloatAccountID        string `json:"float_account_id"`
	BranchID              string `json:"branch_id"`
	Amount                string `json:"amount"`
	Fee                   string `json:"fee"`
	CustomerRef           string `json:"customer_ref"`
	CreatedBy             string `json:"created_by"`
}

// SettlementCompletedEvent payload
type SettlementCompletedEvent struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Reference     string `json:"reference"`
	FromBalance   string `json:"from_balance"`
	ToBalance     string `json:"to_balance"`
}

// FloatBelowThresholdEvent payload
type FloatBelowThresholdEvent struct {
	FloatAccountID string `json:"float_account_id"`
	BranchID       string `json:"branch_id"`
	Balance        string `json:"balance"`
	MinThreshold   string `json:"min_threshold"`
}

// DriftDetectedEvent payload
type DriftDetectedEvent struct {
	FloatAccountID string `json:"float_account_id"`
	FloatBalance   string `json:"float_balance"`
	GLBalance      string `json:"gl_balance"`
	Drift          string `json:"drift"`
}
