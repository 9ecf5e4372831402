package reports

import (
	"fmt"
	"time"

	"prodtrack/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type ProductionSummaryRow struct {
	OrderID       int    `json:"order_id" db:"order_id"`
	OrderNumber   string `json:"order_number" db:"order_number"`
	LineItemID    int    `json:"line_item_id" db:"line_item_id"`
	ProductName   string `json:"product_name" db:"product_name"`
	Ordered       int    `json:"ordered" db:"ordered"`
	Stage         string `json:"stage" db:"stage"`
	TotalQuantity int    `json:"total_quantity" db:"total_quantity"`
}

type StageThroughputRow struct {
	Stage         string `json:"stage" db:"stage"`
	TotalQuantity int    `json:"total_quantity" db:"total_quantity"`
	RecordCount   int    `json:"record_count" db:"record_count"`
}

type DiscrepancySummaryRow struct {
	Stage             string  `json:"stage" db:"stage"`
	AlertCount        int     `json:"alert_count" db:"alert_count"`
	AvgAbsDifference  float64 `json:"avg_abs_difference" db:"avg_abs_difference"`
	CriticalCount     int     `json:"critical_count" db:"critical_count"`
}

type ReportRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) *ReportRepository {
	return &ReportRepository{Repo: r}
}

// GetProductionSummary returns per-stage recorded totals for every line
// item of an order.
func (r *ReportRepository) GetProductionSummary(orderID int) ([]ProductionSummaryRow, error) {
	var rows []ProductionSummaryRow

	query := r.Repo.GoquDBWrapper.
		From(goqu.T("stage_records").As("sr")).
		Join(
			goqu.T("line_items").As("li"),
			goqu.On(goqu.Ex{"sr.line_item_id": goqu.I("li.id")}),
		).
		Join(
			goqu.T("orders").As("o"),
			goqu.On(goqu.Ex{"li.order_id": goqu.I("o.id")}),
		).
		Select(
			goqu.I("o.id").As("order_id"),
			goqu.I("o.order_number").As("order_number"),
			goqu.I("li.id").As("line_item_id"),
			goqu.I("li.product_name").As("product_name"),
			goqu.I("li.quantity").As("ordered"),
			goqu.I("sr.stage").As("stage"),
			goqu.SUM(goqu.I("sr.quantity")).As("total_quantity"),
		).
		Where(goqu.Ex{"o.id": orderID}).
		GroupBy(
			goqu.I("o.id"), goqu.I("o.order_number"),
			goqu.I("li.id"), goqu.I("li.product_name"), goqu.I("li.quantity"),
			goqu.I("sr.stage"),
		).
		Order(goqu.I("li.id").Asc(), goqu.I("sr.stage").Asc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

// GetStageThroughput sums recorded quantities per stage over a date range.
func (r *ReportRepository) GetStageThroughput(from, to time.Time) ([]StageThroughputRow, error) {
	var rows []StageThroughputRow

	query := r.Repo.GoquDBWrapper.
		From("stage_records").
		Select(
			goqu.I("stage").As("stage"),
			goqu.SUM(goqu.I("quantity")).As("total_quantity"),
			goqu.COUNT("*").As("record_count"),
		).
		Where(
			goqu.I("created_at").Gte(from),
			goqu.I("created_at").Lt(to),
		).
		GroupBy(goqu.I("stage"))

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

// GetDiscrepancySummary aggregates alert counts and the mean absolute
// difference per stage.
func (r *ReportRepository) GetDiscrepancySummary() ([]DiscrepancySummaryRow, error) {
	var rows []DiscrepancySummaryRow

	query := r.Repo.GoquDBWrapper.
		From("discrepancy_alerts").
		Select(
			goqu.I("stage").As("stage"),
			goqu.COUNT("*").As("alert_count"),
			goqu.L("AVG(ABS(difference))").As("avg_abs_difference"),
			goqu.L("COUNT(*) FILTER (WHERE priority = 'CRITICAL')").As("critical_count"),
		).
		GroupBy(goqu.I("stage"))

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}
