package revisions

import (
	"fmt"
	"strconv"
	"time"

	"prodtrack/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type TicketRepository interface {
	CreateTicket(ticket *Ticket) error
	GetTicket(id int) (*Ticket, error)
	GetTickets(status string, limit, offset int) ([]Ticket, error)
	UpdateTicketStatus(tx *goqu.TxDatabase, ticketID int, status string, decidedBy *int, notes *string) error
	ApplyChange(tx *goqu.TxDatabase, ticket *Ticket) error
}

type ticketRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) TicketRepository {
	return &ticketRepository{Repo: r}
}

func (r *ticketRepository) CreateTicket(ticket *Ticket) error {
	row := goqu.Record{
		"target_type":  ticket.TargetType,
		"target_id":    ticket.TargetID,
		"field":        ticket.Field,
		"new_value":    ticket.NewValue,
		"reason":       ticket.Reason,
		"status":       ticket.Status,
		"requested_by": ticket.RequestedBy,
	}

	if ticket.OldValue != nil {
		row["old_value"] = ticket.OldValue
	}

	query := r.Repo.GoquDBWrapper.Insert("revision_tickets").Rows(row).Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(ticket); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

func (r *ticketRepository) GetTicket(id int) (*Ticket, error) {
	var ticket Ticket

	query := r.Repo.GoquDBWrapper.
		Select(
			"id", "target_type", "target_id", "field",
			"old_value", "new_value", "reason", "status",
			"requested_by", "decided_by", "decided_at", "decision_notes",
			"created_at", "updated_at",
		).
		From("revision_tickets").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&ticket)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, ErrTicketNotFound
	}

	return &ticket, nil
}

func (r *ticketRepository) GetTickets(status string, limit, offset int) ([]Ticket, error) {
	var tickets []Ticket

	query := r.Repo.GoquDBWrapper.
		Select(
			"id", "target_type", "target_id", "field",
			"old_value", "new_value", "reason", "status",
			"requested_by", "decided_by", "decided_at", "decision_notes",
			"created_at", "updated_at",
		).
		From("revision_tickets").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset))

	if status != "" {
		query = query.Where(goqu.Ex{"status": status})
	}

	if err := query.Executor().ScanStructs(&tickets); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return tickets, nil
}

func (r *ticketRepository) UpdateTicketStatus(tx *goqu.TxDatabase, ticketID int, status string, decidedBy *int, notes *string) error {
	changes := goqu.Record{
		"status":     status,
		"updated_at": time.Now(),
	}

	if decidedBy != nil {
		changes["decided_by"] = decidedBy
		changes["decided_at"] = time.Now()
	}
	if notes != nil {
		changes["decision_notes"] = notes
	}

	query := tx.Update("revision_tickets").
		Set(changes).
		Where(goqu.Ex{"id": ticketID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

// ApplyChange writes the approved value onto the target row. The field
// has already been validated against the whitelist by the service.
func (r *ticketRepository) ApplyChange(tx *goqu.TxDatabase, ticket *Ticket) error {
	table := "orders"
	if ticket.TargetType == TargetLineItem {
		table = "line_items"
	}

	var value interface{} = ticket.NewValue
	if ticket.Field == "quantity" {
		qty, err := strconv.Atoi(ticket.NewValue)
		if err != nil {
			return fmt.Errorf("new quantity is not an integer: %w", err)
		}
		value = qty
	}

	query := tx.Update(table).
		Set(goqu.Record{ticket.Field: value}).
		Where(goqu.Ex{"id": ticket.TargetID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("unable to apply revision: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("revision target %s/%d not found", ticket.TargetType, ticket.TargetID)
	}

	return nil
}
