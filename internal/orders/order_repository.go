package orders

import (
	"database/sql"
	"errors"
	"fmt"

	"prodtrack/internal/repository"
	custom_error "prodtrack/pkg/errors"
	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type OrderRepository interface {
	InsertOrder(tx *goqu.TxDatabase, req models.CreateOrderRequest) (int, error)
	InsertLineItem(tx *goqu.TxDatabase, orderID int, req models.CreateLineItemRequest) (int, error)
	GetOrder(orderID int) (*models.Order, error)
	GetOrders(status string, limit, offset int) ([]models.Order, error)
	UpdateOrderHeader(orderID int, req models.UpdateOrderRequest) error
	GetOrderStatus(tx *goqu.TxDatabase, orderID int) (string, error)
	UpdateOrderStatus(tx *goqu.TxDatabase, orderID int, status string) error
	OrderExists(orderID int) (bool, error)
}

type orderRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) OrderRepository {
	return &orderRepository{Repo: r}
}

func (r *orderRepository) InsertOrder(tx *goqu.TxDatabase, req models.CreateOrderRequest) (int, error) {
	row := goqu.Record{
		"order_number":  req.OrderNumber,
		"customer_name": req.CustomerName,
		"order_date":    req.OrderDate,
		"status":        models.OrderStatusPending,
	}

	if req.DeliveryDate != nil {
		row["delivery_date"] = req.DeliveryDate
	}
	if req.Notes != nil {
		row["notes"] = req.Notes
	}

	var orderID int
	query := tx.Insert("orders").Rows(row).Returning("id")

	if _, err := query.Executor().ScanVal(&orderID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("order number "+req.OrderNumber, string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) InsertLineItem(tx *goqu.TxDatabase, orderID int, req models.CreateLineItemRequest) (int, error) {
	row := goqu.Record{
		"order_id":     orderID,
		"product_code": req.ProductCode,
		"product_name": req.ProductName,
		"quantity":     req.Quantity,
	}

	if req.Color != nil {
		row["color"] = req.Color
	}
	if req.Material != nil {
		row["material"] = req.Material
	}
	if req.Size != nil {
		row["size"] = req.Size
	}
	if req.Texture != nil {
		row["texture"] = req.Texture
	}
	if req.Notes != nil {
		row["notes"] = req.Notes
	}

	var itemID int
	query := tx.Insert("line_items").Rows(row).Returning("id")

	if _, err := query.Executor().ScanVal(&itemID); err != nil {
		return 0, fmt.Errorf("failed to insert line item: %w", err)
	}

	return itemID, nil
}

func (r *orderRepository) GetOrder(orderID int) (*models.Order, error) {
	var order models.Order

	query := r.Repo.GoquDBWrapper.
		Select("id", "order_number", "customer_name", "order_date", "delivery_date", "status", "notes", "created_at", "updated_at").
		From("orders").
		Where(goqu.Ex{"id": orderID})

	found, err := query.Executor().ScanStruct(&order)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !found {
		return nil, ErrOrderNotFound
	}

	items, err := r.getLineItems(orderID)
	if err != nil {
		return nil, err
	}
	order.LineItems = items

	return &order, nil
}

func (r *orderRepository) getLineItems(orderID int) ([]models.LineItem, error) {
	var items []models.LineItem

	query := r.Repo.GoquDBWrapper.
		Select("id", "order_id", "product_code", "product_name", "quantity", "color", "material", "size", "texture", "notes").
		From("line_items").
		Where(goqu.Ex{"order_id": orderID}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range items {
		coverage, err := r.getStageCoverage(items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].StageCoverage = coverage
	}

	return items, nil
}

func (r *orderRepository) getStageCoverage(lineItemID int) ([]string, error) {
	query := r.Repo.GoquDBWrapper.
		From("stage_records").
		Select("stage").
		Where(goqu.Ex{"line_item_id": lineItemID}).
		Distinct()

	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	var stages []string
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		stages = append(stages, stage)
	}

	return stages, nil
}

func (r *orderRepository) GetOrders(status string, limit, offset int) ([]models.Order, error) {
	var orders []models.Order

	query := r.Repo.GoquDBWrapper.
		Select("id", "order_number", "customer_name", "order_date", "delivery_date", "status", "notes", "created_at", "updated_at").
		From("orders").
		Order(goqu.I("order_date").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset))

	if status != "" {
		query = query.Where(goqu.Ex{"status": status})
	}

	if err := query.Executor().ScanStructs(&orders); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderHeader(orderID int, req models.UpdateOrderRequest) error {
	changes := goqu.Record{"updated_at": goqu.L("NOW()")}

	if req.CustomerName != nil {
		changes["customer_name"] = req.CustomerName
	}
	if req.DeliveryDate != nil {
		changes["delivery_date"] = req.DeliveryDate
	}
	if req.Notes != nil {
		changes["notes"] = req.Notes
	}

	query := r.Repo.GoquDBWrapper.Update("orders").
		Set(changes).
		Where(goqu.Ex{"id": orderID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) GetOrderStatus(tx *goqu.TxDatabase, orderID int) (string, error) {
	var status string

	query := tx.From("orders").Select("status").Where(goqu.Ex{"id": orderID})

	found, err := query.Executor().ScanVal(&status)
	if err != nil {
		return "", fmt.Errorf("failed to get order status: %w", err)
	}
	if !found {
		return "", ErrOrderNotFound
	}

	return status, nil
}

func (r *orderRepository) UpdateOrderStatus(tx *goqu.TxDatabase, orderID int, status string) error {
	query := tx.Update("orders").
		Set(goqu.Record{
			"status":     status,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": orderID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

func (r *orderRepository) OrderExists(orderID int) (bool, error) {
	var id int

	query := r.Repo.GoquDBWrapper.Select("id").From("orders").Where(goqu.Ex{"id": orderID})

	found, err := query.Executor().ScanVal(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return found, nil
}
