package production

import (
	"database/sql"
	"fmt"

	"prodtrack/internal/repository"
	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ProductionRepository interface {
	InsertStageRecord(tx *goqu.TxDatabase, record *models.StageRecord) error
	SumStageQuantity(tx *goqu.TxDatabase, lineItemID int, stage Stage) (int, error)
	GetLineItem(lineItemID int) (*models.LineItem, error)
	GetStageRecords(lineItemID int) ([]models.StageRecord, error)
	GetStageCoverage(tx *goqu.TxDatabase, orderID int) (map[int]map[Stage]bool, error)
}

type productionRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) ProductionRepository {
	return &productionRepository{Repo: r}
}

func (r *productionRepository) InsertStageRecord(tx *goqu.TxDatabase, record *models.StageRecord) error {
	row := goqu.Record{
		"line_item_id": record.LineItemID,
		"stage":        record.Stage,
		"quantity":     record.Quantity,
		"recorded_by":  record.RecordedBy,
	}

	if record.Notes != nil {
		row["notes"] = record.Notes
	}

	query := tx.Insert("stage_records").Rows(row).Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(record); err != nil {
		return fmt.Errorf("failed to insert stage record: %w", err)
	}

	return nil
}

func (r *productionRepository) SumStageQuantity(tx *goqu.TxDatabase, lineItemID int, stage Stage) (int, error) {
	var total int

	query := tx.From("stage_records").
		Select(goqu.COALESCE(goqu.SUM("quantity"), 0)).
		Where(goqu.Ex{
			"line_item_id": lineItemID,
			"stage":        stage,
		})

	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to sum stage quantity: %w", err)
	}

	return total, nil
}

func (r *productionRepository) GetLineItem(lineItemID int) (*models.LineItem, error) {
	var item models.LineItem

	query := r.Repo.GoquDBWrapper.
		Select("id", "order_id", "product_code", "product_name", "quantity", "color", "material", "size", "texture", "notes").
		From("line_items").
		Where(goqu.Ex{"id": lineItemID})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	if !found {
		return nil, ErrLineItemNotFound
	}

	return &item, nil
}

func (r *productionRepository) GetStageRecords(lineItemID int) ([]models.StageRecord, error) {
	var records []models.StageRecord

	query := r.Repo.GoquDBWrapper.
		Select("id", "line_item_id", "stage", "quantity", "recorded_by", "notes", "created_at").
		From("stage_records").
		Where(goqu.Ex{"line_item_id": lineItemID}).
		Order(goqu.I("created_at").Asc())

	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return records, nil
}

// GetStageCoverage returns, for every line item of the order, the set of
// stages that have at least one stage record. Line items without records
// are present with an empty set.
func (r *productionRepository) GetStageCoverage(tx *goqu.TxDatabase, orderID int) (map[int]map[Stage]bool, error) {
	query := tx.
		From(goqu.T("line_items").As("li")).
		Select(
			goqu.I("li.id").As("line_item_id"),
			goqu.I("sr.stage").As("stage"),
		).
		LeftJoin(
			goqu.T("stage_records").As("sr"),
			goqu.On(goqu.Ex{"sr.line_item_id": goqu.I("li.id")}),
		).
		Where(goqu.Ex{"li.order_id": orderID}).
		Distinct()

	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	coverage := make(map[int]map[Stage]bool)
	for rows.Next() {
		var lineItemID int
		var stage sql.NullString

		if err := rows.Scan(&lineItemID, &stage); err != nil {
			return nil, fmt.Errorf("failed to scan coverage row: %w", err)
		}

		if _, ok := coverage[lineItemID]; !ok {
			coverage[lineItemID] = make(map[Stage]bool)
		}
		if stage.Valid {
			coverage[lineItemID][Stage(stage.String)] = true
		}
	}

	return coverage, nil
}
