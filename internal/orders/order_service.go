package orders

import (
	"errors"

	"prodtrack/internal/repository"
	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotCancelable = errors.New("order cannot be cancelled in its current status")
	ErrEmptyOrder         = errors.New("order must contain at least one line item")
)

type OrderService struct {
	r  *repository.Repository
	or OrderRepository
}

func NewService(r *repository.Repository, or OrderRepository) *OrderService {
	return &OrderService{r: r, or: or}
}

func (s *OrderService) CreateOrder(req models.CreateOrderRequest) (int, error) {
	if len(req.LineItems) == 0 {
		return 0, ErrEmptyOrder
	}

	var orderID int

	err := repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		if orderID, err = s.or.InsertOrder(tx, req); err != nil {
			return err
		}

		for _, item := range req.LineItems {
			if _, err := s.or.InsertLineItem(tx, orderID, item); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return orderID, nil
}

func (s *OrderService) AddLineItem(orderID int, req models.CreateLineItemRequest) (int, error) {
	exists, err := s.or.OrderExists(orderID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrOrderNotFound
	}

	var itemID int

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		itemID, err = s.or.InsertLineItem(tx, orderID, req)
		return err
	})

	if err != nil {
		return 0, err
	}

	return itemID, nil
}

// CancelOrder is the only path that sets CANCELLED; derivation never
// produces it and never reverts it.
func (s *OrderService) CancelOrder(orderID int) error {
	return repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		status, err := s.or.GetOrderStatus(tx, orderID)
		if err != nil {
			return err
		}

		if status == models.OrderStatusCancelled || status == models.OrderStatusCompleted {
			return ErrOrderNotCancelable
		}

		return s.or.UpdateOrderStatus(tx, orderID, models.OrderStatusCancelled)
	})
}
