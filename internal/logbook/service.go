package logbook

import (
	"errors"
)

var (
	ErrEntryNotFound   = errors.New("logbook entry not found")
	ErrInvalidShift    = errors.New("invalid shift")
	ErrInvalidCategory = errors.New("invalid entry category")
)

type Service struct {
	repository *LogbookRepository
}

func NewService(repository *LogbookRepository) *Service {
	return &Service{repository: repository}
}

func (s *Service) CreateEntry(req CreateEntryRequest, authorID int) (*Entry, error) {
	switch req.Shift {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
	default:
		return nil, ErrInvalidShift
	}

	switch req.Category {
	case CategoryProduction, CategoryMaintenance, CategoryIncident, CategoryHandover:
	default:
		return nil, ErrInvalidCategory
	}

	entry := &Entry{
		AuthorID:  authorID,
		EntryDate: req.EntryDate,
		Shift:     req.Shift,
		Category:  req.Category,
		Content:   req.Content,
		OrderID:   req.OrderID,
	}

	if err := s.repository.CreateEntry(entry); err != nil {
		return nil, err
	}

	return entry, nil
}
