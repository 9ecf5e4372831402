package revisions

import (
	"time"
)

const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

// ValidTransitions captures the approval workflow. Approval and rejection
// are terminal.
var ValidTransitions = map[string][]string{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
}

const (
	TargetOrder    = "order"
	TargetLineItem = "line_item"
)

// allowedFields whitelists which columns a revision may touch per target.
// Status fields and identifiers are deliberately absent.
var allowedFields = map[string]map[string]bool{
	TargetOrder: {
		"customer_name": true,
		"delivery_date": true,
		"notes":         true,
	},
	TargetLineItem: {
		"quantity": true,
		"color":    true,
		"material": true,
		"size":     true,
		"texture":  true,
		"notes":    true,
	},
}

type Ticket struct {
	ID            int        `json:"id,omitempty" db:"id"`
	TargetType    string     `json:"target_type" db:"target_type"`
	TargetID      int        `json:"target_id" db:"target_id"`
	Field         string     `json:"field" db:"field"`
	OldValue      *string    `json:"old_value,omitempty" db:"old_value"`
	NewValue      string     `json:"new_value" db:"new_value"`
	Reason        string     `json:"reason" db:"reason"`
	Status        string     `json:"status" db:"status"`
	RequestedBy   int        `json:"requested_by" db:"requested_by"`
	DecidedBy     *int       `json:"decided_by,omitempty" db:"decided_by"`
	DecidedAt     *time.Time `json:"decided_at,omitempty" db:"decided_at"`
	DecisionNotes *string    `json:"decision_notes,omitempty" db:"decision_notes"`
	CreatedAt     time.Time  `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

// markDecided records the outcome of a decision on the ticket view
// returned to the caller, mirroring what the repository writes.
func (t *Ticket) markDecided(status string, decidedBy int, notes *string, at time.Time) {
	t.Status = status
	t.DecidedBy = &decidedBy
	t.DecidedAt = &at
	t.DecisionNotes = notes
}

type CreateTicketRequest struct {
	TargetType string  `json:"target_type" binding:"required"`
	TargetID   int     `json:"target_id" binding:"required"`
	Field      string  `json:"field" binding:"required"`
	OldValue   *string `json:"old_value,omitempty"`
	NewValue   string  `json:"new_value" binding:"required"`
	Reason     string  `json:"reason" binding:"required"`
}

type DecisionRequest struct {
	Notes *string `json:"notes,omitempty"`
}
