package logbook

import (
	"time"
)

type Entry struct {
	ID        int       `json:"id,omitempty" db:"id"`
	AuthorID  int       `json:"author_id" db:"author_id"`
	EntryDate time.Time `json:"entry_date" db:"entry_date"`
	Shift     string    `json:"shift" db:"shift"`
	Category  string    `json:"category" db:"category"`
	Content   string    `json:"content" db:"content"`
	OrderID   *int      `json:"order_id,omitempty" db:"order_id"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

type EntryResponse struct {
	ID        int       `json:"id,omitempty"`
	EntryDate time.Time `json:"entry_date"`
	Shift     string    `json:"shift"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	OrderID   *int      `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Author    *Author   `json:"author,omitempty"`
}

type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

type FlatEntry struct {
	ID             int       `db:"id"`
	EntryDate      time.Time `db:"entry_date"`
	Shift          string    `db:"shift"`
	Category       string    `db:"category"`
	Content        string    `db:"content"`
	OrderID        *int      `db:"order_id"`
	CreatedAt      time.Time `db:"created_at"`
	AuthorID       int       `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	AuthorFullname string    `db:"author_fullname"`
}

func (fe *FlatEntry) TransformToEntryResponse() *EntryResponse {
	return &EntryResponse{
		ID:        fe.ID,
		EntryDate: fe.EntryDate,
		Shift:     fe.Shift,
		Category:  fe.Category,
		Content:   fe.Content,
		OrderID:   fe.OrderID,
		CreatedAt: fe.CreatedAt,
		Author: &Author{
			ID:       fe.AuthorID,
			Username: fe.AuthorUsername,
			Fullname: fe.AuthorFullname,
		},
	}
}

type CreateEntryRequest struct {
	EntryDate time.Time `json:"entry_date" binding:"required"`
	Shift     string    `json:"shift" binding:"required"`
	Category  string    `json:"category" binding:"required"`
	Content   string    `json:"content" binding:"required"`
	OrderID   *int      `json:"order_id,omitempty"`
}

const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
)

const (
	CategoryProduction  = "production"
	CategoryMaintenance = "maintenance"
	CategoryIncident    = "incident"
	CategoryHandover    = "handover"
)
