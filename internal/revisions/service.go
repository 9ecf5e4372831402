package revisions

import (
	"errors"
	"time"

	"prodtrack/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrTicketNotFound    = errors.New("revision ticket not found")
	ErrInvalidTransition = errors.New("invalid ticket status transition")
	ErrInvalidTarget     = errors.New("invalid revision target")
	ErrFieldNotAllowed   = errors.New("field cannot be changed by revision")
	ErrNotTicketOwner    = errors.New("only the requester can submit a draft")
)

type Service struct {
	r          *repository.Repository
	repository TicketRepository
}

func NewService(r *repository.Repository, tr TicketRepository) *Service {
	return &Service{r: r, repository: tr}
}

func (s *Service) CreateTicket(req CreateTicketRequest, requestedBy int) (*Ticket, error) {
	fields, ok := allowedFields[req.TargetType]
	if !ok {
		return nil, ErrInvalidTarget
	}
	if !fields[req.Field] {
		return nil, ErrFieldNotAllowed
	}

	ticket := &Ticket{
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Field:       req.Field,
		OldValue:    req.OldValue,
		NewValue:    req.NewValue,
		Reason:      req.Reason,
		Status:      StatusDraft,
		RequestedBy: requestedBy,
	}

	if err := s.repository.CreateTicket(ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

func (s *Service) SubmitTicket(ticketID, userID int) (*Ticket, error) {
	ticket, err := s.repository.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.RequestedBy != userID {
		return nil, ErrNotTicketOwner
	}

	if !canTransition(ticket.Status, StatusSubmitted) {
		return nil, ErrInvalidTransition
	}

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return s.repository.UpdateTicketStatus(tx, ticketID, StatusSubmitted, nil, nil)
	})
	if err != nil {
		return nil, err
	}

	ticket.Status = StatusSubmitted
	return ticket, nil
}

// ApproveTicket applies the requested change and marks the ticket
// approved inside one transaction, so a failed apply never leaves an
// approved ticket whose change was lost.
func (s *Service) ApproveTicket(ticketID, decidedBy int, notes *string) (*Ticket, error) {
	ticket, err := s.repository.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}

	if !canTransition(ticket.Status, StatusApproved) {
		return nil, ErrInvalidTransition
	}

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if err := s.repository.ApplyChange(tx, ticket); err != nil {
			return err
		}
		return s.repository.UpdateTicketStatus(tx, ticketID, StatusApproved, &decidedBy, notes)
	})
	if err != nil {
		return nil, err
	}

	ticket.markDecided(StatusApproved, decidedBy, notes, time.Now())
	return ticket, nil
}

func (s *Service) RejectTicket(ticketID, decidedBy int, notes *string) (*Ticket, error) {
	ticket, err := s.repository.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}

	if !canTransition(ticket.Status, StatusRejected) {
		return nil, ErrInvalidTransition
	}

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return s.repository.UpdateTicketStatus(tx, ticketID, StatusRejected, &decidedBy, notes)
	})
	if err != nil {
		return nil, err
	}

	ticket.markDecided(StatusRejected, decidedBy, notes, time.Now())
	return ticket, nil
}

func canTransition(from, to string) bool {
	for _, allowed := range ValidTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
