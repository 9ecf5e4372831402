package alerts

import (
	"fmt"
	"time"

	"prodtrack/internal/repository"
	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AlertFilter struct {
	Status   string
	Priority string
	OrderID  int
	Limit    int
	Offset   int
}

type StatCount struct {
	Key   string `json:"key" db:"key"`
	Count int    `json:"count" db:"count"`
}

type AlertStats struct {
	Total      int         `json:"total"`
	ByStatus   []StatCount `json:"by_status"`
	ByPriority []StatCount `json:"by_priority"`
}

type AlertRepository interface {
	InsertAlert(tx *goqu.TxDatabase, alert *models.Alert) error
	GetAlert(alertID int) (*models.Alert, error)
	GetAlerts(filter AlertFilter) ([]models.Alert, error)
	MarkAcknowledged(alertID, userID int, at time.Time) error
	MarkResolved(alertID, userID int, at time.Time, notes string) error
	GetStats() (*AlertStats, error)
}

type alertRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) AlertRepository {
	return &alertRepository{Repo: r}
}

func (r *alertRepository) InsertAlert(tx *goqu.TxDatabase, alert *models.Alert) error {
	query := tx.Insert("discrepancy_alerts").
		Rows(goqu.Record{
			"order_id":     alert.OrderID,
			"line_item_id": alert.LineItemID,
			"stage":        alert.Stage,
			"expected":     alert.Expected,
			"actual":       alert.Actual,
			"difference":   alert.Difference,
			"priority":     alert.Priority,
			"status":       alert.Status,
			"reported_by":  alert.ReportedBy,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(alert); err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

func (r *alertRepository) GetAlert(alertID int) (*models.Alert, error) {
	var alert models.Alert

	query := r.Repo.GoquDBWrapper.
		Select(alertColumns()...).
		From("discrepancy_alerts").
		Where(goqu.Ex{"id": alertID})

	found, err := query.Executor().ScanStruct(&alert)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	if !found {
		return nil, ErrAlertNotFound
	}

	return &alert, nil
}

func (r *alertRepository) GetAlerts(filter AlertFilter) ([]models.Alert, error) {
	var alerts []models.Alert

	query := r.Repo.GoquDBWrapper.
		Select(alertColumns()...).
		From("discrepancy_alerts").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset))

	if filter.Status != "" {
		query = query.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.Priority != "" {
		query = query.Where(goqu.Ex{"priority": filter.Priority})
	}
	if filter.OrderID != 0 {
		query = query.Where(goqu.Ex{"order_id": filter.OrderID})
	}

	if err := query.Executor().ScanStructs(&alerts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return alerts, nil
}

func (r *alertRepository) MarkAcknowledged(alertID, userID int, at time.Time) error {
	query := r.Repo.GoquDBWrapper.Update("discrepancy_alerts").
		Set(goqu.Record{
			"status":          models.AlertStatusAcknowledged,
			"acknowledged_by": userID,
			"acknowledged_at": at,
		}).
		Where(goqu.Ex{"id": alertID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	return nil
}

func (r *alertRepository) MarkResolved(alertID, userID int, at time.Time, notes string) error {
	query := r.Repo.GoquDBWrapper.Update("discrepancy_alerts").
		Set(goqu.Record{
			"status":           models.AlertStatusResolved,
			"resolved_by":      userID,
			"resolved_at":      at,
			"resolution_notes": notes,
		}).
		Where(goqu.Ex{"id": alertID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	return nil
}

func (r *alertRepository) GetStats() (*AlertStats, error) {
	stats := AlertStats{}

	byStatus, err := r.countBy("status")
	if err != nil {
		return nil, err
	}
	stats.ByStatus = byStatus

	byPriority, err := r.countBy("priority")
	if err != nil {
		return nil, err
	}
	stats.ByPriority = byPriority

	for _, s := range byStatus {
		stats.Total += s.Count
	}

	return &stats, nil
}

func (r *alertRepository) countBy(column string) ([]StatCount, error) {
	var counts []StatCount

	query := r.Repo.GoquDBWrapper.
		From("discrepancy_alerts").
		Select(
			goqu.I(column).As("key"),
			goqu.COUNT("*").As("count"),
		).
		GroupBy(goqu.I(column))

	if err := query.Executor().ScanStructs(&counts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return counts, nil
}

func alertColumns() []interface{} {
	return []interface{}{
		"id", "order_id", "line_item_id", "stage",
		"expected", "actual", "difference",
		"priority", "status", "reported_by",
		"acknowledged_by", "acknowledged_at",
		"resolved_by", "resolved_at", "resolution_notes",
		"created_at",
	}
}
