package production

import (
	"prodtrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

// Tolerance is relative, not absolute: larger batches have larger normal
// attrition (breakage, trimming loss), so a fixed count would over-alert
// on large orders and under-alert on small ones.
var (
	toleranceRatio = decimal.New(5, -2) // 5% of the prior-stage total
	criticalRatio  = decimal.New(2, -1) // 20% deviation escalates priority
)

// Finding is a detected quantity mismatch between a stage and the stage
// preceding it in the pipeline.
type Finding struct {
	Stage      Stage
	Expected   int
	Actual     int
	Difference int
}

// Priority maps the finding onto the alert priority vocabulary.
func (f *Finding) Priority() string {
	threshold := decimal.NewFromInt(int64(f.Expected)).Mul(criticalRatio)
	if decimal.NewFromInt(int64(f.Difference)).Abs().GreaterThan(threshold) {
		return models.AlertPriorityCritical
	}
	return models.AlertPriorityWarning
}

// QuantitySummer yields the total quantity recorded for a line item at a
// stage, summed over all of its stage records.
type QuantitySummer interface {
	SumStageQuantity(tx *goqu.TxDatabase, lineItemID int, stage Stage) (int, error)
}

type Evaluator struct {
	sums QuantitySummer
}

func NewEvaluator(sums QuantitySummer) *Evaluator {
	return &Evaluator{sums: sums}
}

// Evaluate compares a reported quantity against the total recorded at the
// preceding pipeline stage. A nil finding means no discrepancy. The
// caller guarantees reported > 0.
func (e *Evaluator) Evaluate(tx *goqu.TxDatabase, lineItemID int, stage Stage, reported int) (*Finding, error) {
	prev, ok := stage.Previous()
	if !ok {
		// Nothing precedes the pipeline entry stage.
		return nil, nil
	}

	expected, err := e.sums.SumStageQuantity(tx, lineItemID, prev)
	if err != nil {
		return nil, err
	}

	if expected == 0 {
		// No prior-stage records at all, e.g. entry recorded out of
		// order. There is nothing meaningful to compare against.
		return nil, nil
	}

	difference := reported - expected
	tolerance := decimal.NewFromInt(int64(expected)).Mul(toleranceRatio)

	if decimal.NewFromInt(int64(difference)).Abs().GreaterThan(tolerance) {
		return &Finding{
			Stage:      stage,
			Expected:   expected,
			Actual:     reported,
			Difference: difference,
		}, nil
	}

	return nil, nil
}
