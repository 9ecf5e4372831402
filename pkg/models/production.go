package models

import (
	"time"
)

// StageRecord is an append-only observation of quantity at a production
// stage. Rows are never updated or deleted; the current quantity at a
// stage is the sum over all records for the (line item, stage) pair.
type StageRecord struct {
	ID         int       `json:"id" db:"id"`
	LineItemID int       `json:"line_item_id" db:"line_item_id"`
	Stage      string    `json:"stage" db:"stage"`
	Quantity   int       `json:"quantity" db:"quantity"`
	RecordedBy int       `json:"recorded_by" db:"recorded_by"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at,omitempty" db:"created_at"`
}

func (sr *StageRecord) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   sr.ID,
		ResourceType: "stage_record",
	}
}

type TrackProductionRequest struct {
	Stage    string  `json:"stage" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Notes    *string `json:"notes,omitempty"`
}
