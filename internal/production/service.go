package production

import (
	"errors"
	"fmt"

	"prodtrack/internal/repository"
	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrLineItemNotFound = errors.New("line item not found")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
)

// AlertStore persists discrepancy alerts raised during tracking.
type AlertStore interface {
	InsertAlert(tx *goqu.TxDatabase, alert *models.Alert) error
}

// OrderStore is the slice of the order repository the tracking flow needs.
type OrderStore interface {
	GetOrderStatus(tx *goqu.TxDatabase, orderID int) (string, error)
	UpdateOrderStatus(tx *goqu.TxDatabase, orderID int, status string) error
}

type Service struct {
	r         *repository.Repository
	pr        ProductionRepository
	alerts    AlertStore
	orders    OrderStore
	evaluator *Evaluator
}

func NewService(r *repository.Repository, pr ProductionRepository, alerts AlertStore, orders OrderStore) *Service {
	return &Service{
		r:         r,
		pr:        pr,
		alerts:    alerts,
		orders:    orders,
		evaluator: NewEvaluator(pr),
	}
}

type TrackResult struct {
	Record      *models.StageRecord `json:"record"`
	Alert       *models.Alert       `json:"alert,omitempty"`
	OrderStatus string              `json:"order_status"`
}

// TrackProduction appends a stage record, raises a discrepancy alert when
// the reported quantity deviates from the prior stage beyond tolerance,
// and rederives the parent order's status. The read-sum-write-recompute
// sequence runs inside one transaction so concurrent tracking calls for
// the same line item cannot alert on a stale prior-stage total.
func (s *Service) TrackProduction(lineItemID int, stage Stage, quantity int, userID int, notes *string) (*TrackResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.pr.GetLineItem(lineItemID)
	if err != nil {
		return nil, err
	}

	var result TrackResult

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return s.track(tx, item, stage, quantity, userID, notes, &result)
	})

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) track(tx *goqu.TxDatabase, item *models.LineItem, stage Stage, quantity int, userID int, notes *string, result *TrackResult) error {
	finding, err := s.evaluator.Evaluate(tx, item.ID, stage, quantity)
	if err != nil {
		return fmt.Errorf("failed to evaluate discrepancy: %w", err)
	}

	record := &models.StageRecord{
		LineItemID: item.ID,
		Stage:      string(stage),
		Quantity:   quantity,
		RecordedBy: userID,
		Notes:      notes,
	}

	if err := s.pr.InsertStageRecord(tx, record); err != nil {
		return err
	}
	result.Record = record

	if finding != nil {
		alert := &models.Alert{
			OrderID:    item.OrderID,
			LineItemID: item.ID,
			Stage:      string(finding.Stage),
			Expected:   finding.Expected,
			Actual:     finding.Actual,
			Difference: finding.Difference,
			Priority:   finding.Priority(),
			Status:     models.AlertStatusOpen,
			ReportedBy: userID,
		}

		if err := s.alerts.InsertAlert(tx, alert); err != nil {
			return err
		}
		result.Alert = alert
	}

	status, err := s.recomputeOrderStatus(tx, item.OrderID)
	if err != nil {
		return err
	}
	result.OrderStatus = status

	return nil
}

// RecomputeOrderStatus rederives the order status outside of a tracking
// call. Calling it with no intervening writes is idempotent.
func (s *Service) RecomputeOrderStatus(orderID int) (string, error) {
	var status string

	err := repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		status, err = s.recomputeOrderStatus(tx, orderID)
		return err
	})

	if err != nil {
		return "", err
	}

	return status, nil
}

func (s *Service) recomputeOrderStatus(tx *goqu.TxDatabase, orderID int) (string, error) {
	current, err := s.orders.GetOrderStatus(tx, orderID)
	if err != nil {
		return "", err
	}

	// Cancellation is an explicit user override and is never reverted
	// by recomputation.
	if current == models.OrderStatusCancelled {
		return current, nil
	}

	coverage, err := s.pr.GetStageCoverage(tx, orderID)
	if err != nil {
		return "", err
	}

	status := deriveStatus(coverage)

	if status != current {
		if err := s.orders.UpdateOrderStatus(tx, orderID, status); err != nil {
			return "", err
		}
	}

	return status, nil
}

func deriveStatus(coverage map[int]map[Stage]bool) string {
	if len(coverage) == 0 {
		return models.OrderStatusPending
	}

	complete := true
	started := false
	for _, stages := range coverage {
		if len(stages) > 0 {
			started = true
		}
		if len(stages) < len(Pipeline) {
			complete = false
		}
	}

	if complete {
		return models.OrderStatusCompleted
	}
	if started {
		return models.OrderStatusInProgress
	}
	return models.OrderStatusPending
}
