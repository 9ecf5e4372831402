package orders

import (
	"testing"

	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) InsertOrder(tx *goqu.TxDatabase, req models.CreateOrderRequest) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) InsertLineItem(tx *goqu.TxDatabase, orderID int, req models.CreateLineItemRequest) (int, error) {
	args := m.Called(tx, orderID, req)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) GetOrder(orderID int) (*models.Order, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrders(status string, limit, offset int) ([]models.Order, error) {
	args := m.Called(status, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderHeader(orderID int, req models.UpdateOrderRequest) error {
	args := m.Called(orderID, req)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderStatus(tx *goqu.TxDatabase, orderID int) (string, error) {
	args := m.Called(tx, orderID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(tx *goqu.TxDatabase, orderID int, status string) error {
	args := m.Called(tx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepository) OrderExists(orderID int) (bool, error) {
	args := m.Called(orderID)
	return args.Bool(0), args.Error(1)
}

func TestCreateOrderRejectsEmptyOrder(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := &OrderService{or: mockRepo}

	_, err := service.CreateOrder(models.CreateOrderRequest{
		OrderNumber:  "POL-2026-001",
		CustomerName: "Ubud Crafts",
	})

	assert.ErrorIs(t, err, ErrEmptyOrder)
	mockRepo.AssertNotCalled(t, "InsertOrder", mock.Anything, mock.Anything)
}

func TestAddLineItemUnknownOrder(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := &OrderService{or: mockRepo}

	mockRepo.On("OrderExists", 42).Return(false, nil).Once()

	_, err := service.AddLineItem(42, models.CreateLineItemRequest{
		ProductCode: "VAS-20",
		ProductName: "Vase 20cm",
		Quantity:    50,
	})

	assert.ErrorIs(t, err, ErrOrderNotFound)
	mockRepo.AssertNotCalled(t, "InsertLineItem", mock.Anything, mock.Anything, mock.Anything)
}
