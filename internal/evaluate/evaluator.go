package evaluate

import (
	"time"

	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

// Evaluator checks a prior run's classified predictions against the
// next-observed actual price changes
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator creates new outcome evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{now: time.Now}
}

// Evaluate compares prior classifications with actual movements and
// produces confusion counts plus derived metrics.
//
// A ticker absent from actualMovements is treated as a zero move, so a
// positive prediction for an untracked ticker counts as a false
// positive. True negatives are not counted.
func (e *Evaluator) Evaluate(
	prior models.RoutedMovements,
	actualMovements map[string]float64,
) models.EvaluationRecord {
	record := models.EvaluationRecord{
		Timestamp: e.now().UTC(),
		Details:   []models.EvalDetail{},
	}

	for _, category := range models.AllCategories {
		for _, item := range prior[category] {
			actualMove := actualMovements[item.Ticker]

			predictedPositive := item.PctChange > 0
			actualPositive := actualMove > 0

			record.Details = append(record.Details, models.EvalDetail{
				Ticker:           item.Ticker,
				PredictedMove:    item.PctChange,
				ActualMove:       actualMove,
				Category:         category,
				CorrectDirection: predictedPositive == actualPositive,
				Reasons:          item.Reasons,
			})

			switch {
			case predictedPositive && actualPositive:
				record.TruePositives++
			case predictedPositive && !actualPositive:
				record.FalsePositives++
			case !predictedPositive && actualPositive:
				record.FalseNegatives++
			}
		}
	}

	record.Precision, record.Recall, record.F1Score, record.Accuracy = deriveMetrics(
		record.TruePositives,
		record.FalsePositives,
		record.FalseNegatives,
	)

	logger.Info("evaluation complete",
		zap.Int("items", len(record.Details)),
		zap.Int("true_positives", record.TruePositives),
		zap.Int("false_positives", record.FalsePositives),
		zap.Int("false_negatives", record.FalseNegatives),
		zap.Float64("accuracy", record.Accuracy),
	)

	return record
}

// deriveMetrics computes precision, recall, f1 and accuracy from
// confusion counts. Zero denominators yield zero. Accuracy excludes
// true negatives since untracked non-moves are not counted.
func deriveMetrics(tp, fp, fn int) (precision, recall, f1, accuracy float64) {
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	if tp+fp+fn > 0 {
		accuracy = float64(tp) / float64(tp+fp+fn)
	}
	return precision, recall, f1, accuracy
}
