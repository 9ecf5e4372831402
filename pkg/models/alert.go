package models

import (
	"time"
)

const (
	AlertStatusOpen         = "OPEN"
	AlertStatusAcknowledged = "ACKNOWLEDGED"
	AlertStatusResolved     = "RESOLVED"
)

const (
	AlertPriorityCritical      = "CRITICAL"
	AlertPriorityWarning       = "WARNING"
	AlertPriorityInformational = "INFORMATIONAL"
)

// Alert is a persisted discrepancy finding. Expected, actual and
// difference are frozen at creation time and never recomputed.
type Alert struct {
	ID              int        `json:"id" db:"id"`
	OrderID         int        `json:"order_id" db:"order_id"`
	LineItemID      int        `json:"line_item_id" db:"line_item_id"`
	Stage           string     `json:"stage" db:"stage"`
	Expected        int        `json:"expected" db:"expected"`
	Actual          int        `json:"actual" db:"actual"`
	Difference      int        `json:"difference" db:"difference"`
	Priority        string     `json:"priority" db:"priority"`
	Status          string     `json:"status" db:"status"`
	ReportedBy      int        `json:"reported_by" db:"reported_by"`
	AcknowledgedBy  *int       `json:"acknowledged_by,omitempty" db:"acknowledged_by"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty" db:"acknowledged_at"`
	ResolvedBy      *int       `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty" db:"resolution_notes"`
	CreatedAt       time.Time  `json:"created_at,omitempty" db:"created_at"`
}

func (a *Alert) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "alert",
	}
}
