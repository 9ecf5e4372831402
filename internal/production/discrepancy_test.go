package production

import (
	"errors"
	"testing"

	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockQuantitySummer struct {
	mock.Mock
}

func (m *MockQuantitySummer) SumStageQuantity(tx *goqu.TxDatabase, lineItemID int, stage Stage) (int, error) {
	args := m.Called(tx, lineItemID, stage)
	return args.Int(0), args.Error(1)
}

func TestEvaluateFirstStage(t *testing.T) {
	summer := new(MockQuantitySummer)
	evaluator := NewEvaluator(summer)
	tx := new(goqu.TxDatabase)

	finding, err := evaluator.Evaluate(tx, 1, StageForming, 100)

	assert.NoError(t, err)
	assert.Nil(t, finding, "entry stage has nothing to compare against")
	summer.AssertNotCalled(t, "SumStageQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateNoPriorRecords(t *testing.T) {
	summer := new(MockQuantitySummer)
	evaluator := NewEvaluator(summer)
	tx := new(goqu.TxDatabase)

	summer.On("SumStageQuantity", tx, 1, StageForming).Return(0, nil).Once()

	finding, err := evaluator.Evaluate(tx, 1, StageFiring, 50)

	assert.NoError(t, err)
	assert.Nil(t, finding, "no prior-stage total means nothing to compare")
	summer.AssertExpectations(t)
}

func TestEvaluateTolerance(t *testing.T) {
	tests := []struct {
		name        string
		expected    int
		reported    int
		wantFinding bool
	}{
		{"within tolerance", 100, 96, false},
		{"exactly at tolerance boundary", 100, 95, false},
		{"just beyond tolerance", 100, 94, true},
		{"shortfall", 100, 90, true},
		{"surplus beyond tolerance", 100, 110, true},
		{"surplus within tolerance", 100, 104, false},
		{"exact match", 100, 100, false},
		{"small batch shortfall", 10, 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summer := new(MockQuantitySummer)
			evaluator := NewEvaluator(summer)
			tx := new(goqu.TxDatabase)

			summer.On("SumStageQuantity", tx, 7, StageGlazing).Return(tt.expected, nil).Once()

			finding, err := evaluator.Evaluate(tx, 7, StageQualityControl, tt.reported)

			assert.NoError(t, err)
			if tt.wantFinding {
				assert.NotNil(t, finding)
				assert.Equal(t, StageQualityControl, finding.Stage)
				assert.Equal(t, tt.expected, finding.Expected)
				assert.Equal(t, tt.reported, finding.Actual)
				assert.Equal(t, tt.reported-tt.expected, finding.Difference)
			} else {
				assert.Nil(t, finding)
			}
			summer.AssertExpectations(t)
		})
	}
}

func TestEvaluateSummerError(t *testing.T) {
	summer := new(MockQuantitySummer)
	evaluator := NewEvaluator(summer)
	tx := new(goqu.TxDatabase)

	summer.On("SumStageQuantity", tx, 1, StageForming).Return(0, errors.New("connection reset")).Once()

	finding, err := evaluator.Evaluate(tx, 1, StageFiring, 50)

	assert.Error(t, err)
	assert.Nil(t, finding)
}

func TestFindingPriority(t *testing.T) {
	tests := []struct {
		name       string
		expected   int
		difference int
		want       string
	}{
		{"moderate shortfall is a warning", 100, -10, models.AlertPriorityWarning},
		{"exactly 20 percent stays a warning", 100, -20, models.AlertPriorityWarning},
		{"beyond 20 percent is critical", 100, -21, models.AlertPriorityCritical},
		{"large shortfall is critical", 100, -30, models.AlertPriorityCritical},
		{"surplus escalates too", 100, 25, models.AlertPriorityCritical},
		{"small batch critical", 10, -3, models.AlertPriorityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Finding{Expected: tt.expected, Difference: tt.difference}
			assert.Equal(t, tt.want, f.Priority())
		})
	}
}
