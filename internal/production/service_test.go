package production

import (
	"testing"

	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProductionRepository struct {
	mock.Mock
}

func (m *MockProductionRepository) InsertStageRecord(tx *goqu.TxDatabase, record *models.StageRecord) error {
	args := m.Called(tx, record)
	return args.Error(0)
}

func (m *MockProductionRepository) SumStageQuantity(tx *goqu.TxDatabase, lineItemID int, stage Stage) (int, error) {
	args := m.Called(tx, lineItemID, stage)
	return args.Int(0), args.Error(1)
}

func (m *MockProductionRepository) GetLineItem(lineItemID int) (*models.LineItem, error) {
	args := m.Called(lineItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LineItem), args.Error(1)
}

func (m *MockProductionRepository) GetStageRecords(lineItemID int) ([]models.StageRecord, error) {
	args := m.Called(lineItemID)
	return args.Get(0).([]models.StageRecord), args.Error(1)
}

func (m *MockProductionRepository) GetStageCoverage(tx *goqu.TxDatabase, orderID int) (map[int]map[Stage]bool, error) {
	args := m.Called(tx, orderID)
	return args.Get(0).(map[int]map[Stage]bool), args.Error(1)
}

type MockAlertStore struct {
	mock.Mock
}

func (m *MockAlertStore) InsertAlert(tx *goqu.TxDatabase, alert *models.Alert) error {
	args := m.Called(tx, alert)
	return args.Error(0)
}

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) GetOrderStatus(tx *goqu.TxDatabase, orderID int) (string, error) {
	args := m.Called(tx, orderID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderStore) UpdateOrderStatus(tx *goqu.TxDatabase, orderID int, status string) error {
	args := m.Called(tx, orderID, status)
	return args.Error(0)
}

func allStages() map[Stage]bool {
	stages := make(map[Stage]bool, len(Pipeline))
	for _, s := range Pipeline {
		stages[s] = true
	}
	return stages
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		coverage map[int]map[Stage]bool
		want     string
	}{
		{
			"no line items",
			map[int]map[Stage]bool{},
			models.OrderStatusPending,
		},
		{
			"items without any records",
			map[int]map[Stage]bool{1: {}, 2: {}},
			models.OrderStatusPending,
		},
		{
			"single item partway through",
			map[int]map[Stage]bool{1: {StageForming: true, StageFiring: true}},
			models.OrderStatusInProgress,
		},
		{
			"all items through every stage",
			map[int]map[Stage]bool{1: allStages(), 2: allStages()},
			models.OrderStatusCompleted,
		},
		{
			"one item complete, one untouched",
			map[int]map[Stage]bool{1: allStages(), 2: {}},
			models.OrderStatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveStatus(tt.coverage))
		})
	}
}

func TestRecomputeOrderStatusCancelledGuard(t *testing.T) {
	mockPR := new(MockProductionRepository)
	mockOrders := new(MockOrderStore)
	service := &Service{pr: mockPR, orders: mockOrders}
	tx := new(goqu.TxDatabase)

	mockOrders.On("GetOrderStatus", tx, 5).Return(models.OrderStatusCancelled, nil).Once()

	status, err := service.recomputeOrderStatus(tx, 5)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, status)
	mockPR.AssertNotCalled(t, "GetStageCoverage", mock.Anything, mock.Anything)
	mockOrders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecomputeOrderStatusTransition(t *testing.T) {
	mockPR := new(MockProductionRepository)
	mockOrders := new(MockOrderStore)
	service := &Service{pr: mockPR, orders: mockOrders}
	tx := new(goqu.TxDatabase)

	coverage := map[int]map[Stage]bool{1: {StageForming: true}}

	mockOrders.On("GetOrderStatus", tx, 5).Return(models.OrderStatusPending, nil).Once()
	mockPR.On("GetStageCoverage", tx, 5).Return(coverage, nil).Once()
	mockOrders.On("UpdateOrderStatus", tx, 5, models.OrderStatusInProgress).Return(nil).Once()

	status, err := service.recomputeOrderStatus(tx, 5)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, status)
	mockOrders.AssertExpectations(t)
	mockPR.AssertExpectations(t)
}

func TestRecomputeOrderStatusIdempotent(t *testing.T) {
	mockPR := new(MockProductionRepository)
	mockOrders := new(MockOrderStore)
	service := &Service{pr: mockPR, orders: mockOrders}
	tx := new(goqu.TxDatabase)

	coverage := map[int]map[Stage]bool{1: {StageForming: true}}

	mockOrders.On("GetOrderStatus", tx, 5).Return(models.OrderStatusInProgress, nil).Once()
	mockPR.On("GetStageCoverage", tx, 5).Return(coverage, nil).Once()

	status, err := service.recomputeOrderStatus(tx, 5)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, status)
	mockOrders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func trackingService() (*Service, *MockProductionRepository, *MockAlertStore, *MockOrderStore) {
	mockPR := new(MockProductionRepository)
	mockAlerts := new(MockAlertStore)
	mockOrders := new(MockOrderStore)
	service := &Service{
		pr:        mockPR,
		alerts:    mockAlerts,
		orders:    mockOrders,
		evaluator: NewEvaluator(mockPR),
	}
	return service, mockPR, mockAlerts, mockOrders
}

func expectRecompute(tx *goqu.TxDatabase, mockPR *MockProductionRepository, mockOrders *MockOrderStore, orderID int) {
	mockOrders.On("GetOrderStatus", tx, orderID).Return(models.OrderStatusInProgress, nil).Once()
	mockPR.On("GetStageCoverage", tx, orderID).
		Return(map[int]map[Stage]bool{20: {StageForming: true, StageFiring: true}}, nil).Once()
}

func TestTrackEmitsWarningAlert(t *testing.T) {
	service, mockPR, mockAlerts, mockOrders := trackingService()
	tx := new(goqu.TxDatabase)
	item := &models.LineItem{ID: 20, OrderID: 10, Quantity: 100}

	mockPR.On("SumStageQuantity", tx, 20, StageForming).Return(100, nil).Once()
	mockPR.On("InsertStageRecord", tx, mock.AnythingOfType("*models.StageRecord")).Return(nil).Once()
	mockAlerts.On("InsertAlert", tx, mock.AnythingOfType("*models.Alert")).Return(nil).Once()
	expectRecompute(tx, mockPR, mockOrders, 10)

	var result TrackResult
	err := service.track(tx, item, StageFiring, 90, 3, nil, &result)

	assert.NoError(t, err)
	assert.NotNil(t, result.Record)
	assert.Equal(t, 20, result.Record.LineItemID)
	assert.Equal(t, string(StageFiring), result.Record.Stage)

	assert.NotNil(t, result.Alert)
	assert.Equal(t, 10, result.Alert.OrderID)
	assert.Equal(t, 20, result.Alert.LineItemID)
	assert.Equal(t, models.AlertStatusOpen, result.Alert.Status)
	assert.Equal(t, models.AlertPriorityWarning, result.Alert.Priority)
	assert.Equal(t, 100, result.Alert.Expected)
	assert.Equal(t, 90, result.Alert.Actual)
	assert.Equal(t, -10, result.Alert.Difference)
	assert.Equal(t, 3, result.Alert.ReportedBy)

	assert.Equal(t, models.OrderStatusInProgress, result.OrderStatus)
	mockPR.AssertExpectations(t)
	mockAlerts.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
}

func TestTrackEmitsCriticalAlert(t *testing.T) {
	service, mockPR, mockAlerts, mockOrders := trackingService()
	tx := new(goqu.TxDatabase)
	item := &models.LineItem{ID: 20, OrderID: 10, Quantity: 100}

	mockPR.On("SumStageQuantity", tx, 20, StageForming).Return(100, nil).Once()
	mockPR.On("InsertStageRecord", tx, mock.AnythingOfType("*models.StageRecord")).Return(nil).Once()
	mockAlerts.On("InsertAlert", tx, mock.AnythingOfType("*models.Alert")).Return(nil).Once()
	expectRecompute(tx, mockPR, mockOrders, 10)

	var result TrackResult
	err := service.track(tx, item, StageFiring, 70, 3, nil, &result)

	assert.NoError(t, err)
	assert.NotNil(t, result.Alert)
	assert.Equal(t, models.AlertPriorityCritical, result.Alert.Priority)
	assert.Equal(t, models.AlertStatusOpen, result.Alert.Status)
	assert.Equal(t, -30, result.Alert.Difference)
	mockAlerts.AssertExpectations(t)
}

func TestTrackWithinToleranceRaisesNoAlert(t *testing.T) {
	service, mockPR, mockAlerts, mockOrders := trackingService()
	tx := new(goqu.TxDatabase)
	item := &models.LineItem{ID: 20, OrderID: 10, Quantity: 100}

	mockPR.On("SumStageQuantity", tx, 20, StageForming).Return(100, nil).Once()
	mockPR.On("InsertStageRecord", tx, mock.AnythingOfType("*models.StageRecord")).Return(nil).Once()
	expectRecompute(tx, mockPR, mockOrders, 10)

	var result TrackResult
	err := service.track(tx, item, StageFiring, 97, 3, nil, &result)

	assert.NoError(t, err)
	assert.NotNil(t, result.Record)
	assert.Nil(t, result.Alert)
	mockAlerts.AssertNotCalled(t, "InsertAlert", mock.Anything, mock.Anything)
}

func TestTrackProductionRejectsNonPositiveQuantity(t *testing.T) {
	mockPR := new(MockProductionRepository)
	service := &Service{pr: mockPR, evaluator: NewEvaluator(mockPR)}

	_, err := service.TrackProduction(1, StageForming, 0, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = service.TrackProduction(1, StageForming, -5, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	mockPR.AssertNotCalled(t, "GetLineItem", mock.Anything)
}

func TestTrackProductionUnknownLineItem(t *testing.T) {
	mockPR := new(MockProductionRepository)
	service := &Service{pr: mockPR, evaluator: NewEvaluator(mockPR)}

	mockPR.On("GetLineItem", 42).Return(nil, ErrLineItemNotFound).Once()

	_, err := service.TrackProduction(42, StageFiring, 10, 2, nil)

	assert.ErrorIs(t, err, ErrLineItemNotFound)
	mockPR.AssertExpectations(t)
}
