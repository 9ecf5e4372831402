package alerts

import (
	"errors"
	"time"

	"prodtrack/pkg/models"
)

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidTransition = errors.New("invalid alert status transition")
)

type Service struct {
	repository AlertRepository
}

func NewService(repository AlertRepository) *Service {
	return &Service{repository: repository}
}

// Acknowledge moves an OPEN alert to ACKNOWLEDGED. Any other starting
// status is rejected.
func (s *Service) Acknowledge(alertID, userID int) (*models.Alert, error) {
	alert, err := s.repository.GetAlert(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status != models.AlertStatusOpen {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.repository.MarkAcknowledged(alertID, userID, now); err != nil {
		return nil, err
	}

	alert.Status = models.AlertStatusAcknowledged
	alert.AcknowledgedBy = &userID
	alert.AcknowledgedAt = &now

	return alert, nil
}

// Resolve closes an OPEN or ACKNOWLEDGED alert with mandatory resolution
// notes.
func (s *Service) Resolve(alertID, userID int, notes string) (*models.Alert, error) {
	alert, err := s.repository.GetAlert(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status == models.AlertStatusResolved {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.repository.MarkResolved(alertID, userID, now, notes); err != nil {
		return nil, err
	}

	alert.Status = models.AlertStatusResolved
	alert.ResolvedBy = &userID
	alert.ResolvedAt = &now
	alert.ResolutionNotes = &notes

	return alert, nil
}
