package evaluate

import (
	"os"
	"testing"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func routedWith(items ...models.MovementClassification) models.RoutedMovements {
	routed := models.NewRoutedMovements()
	for _, item := range items {
		routed[item.Category] = append(routed[item.Category], item)
	}
	return routed
}

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator()

	t.Run("correct positive prediction", func(t *testing.T) {
		prior := routedWith(models.MovementClassification{
			Ticker:    "AAPL",
			Category:  models.CategoryEarnings,
			PctChange: 5.2,
		})

		rec := e.Evaluate(prior, map[string]float64{"AAPL": 4.8})

		if rec.TruePositives != 1 || rec.FalsePositives != 0 || rec.FalseNegatives != 0 {
			t.Errorf("expected TP=1 FP=0 FN=0, got TP=%d FP=%d FN=%d",
				rec.TruePositives, rec.FalsePositives, rec.FalseNegatives)
		}
		if rec.Accuracy != 1.0 {
			t.Errorf("expected accuracy 1.0, got %.3f", rec.Accuracy)
		}
		if len(rec.Details) != 1 || !rec.Details[0].CorrectDirection {
			t.Errorf("expected one correct detail, got %+v", rec.Details)
		}
	})

	t.Run("wrong direction is false positive", func(t *testing.T) {
		prior := routedWith(models.MovementClassification{
			Ticker:    "JPM",
			Category:  models.CategoryMacro,
			PctChange: 2.1,
		})

		rec := e.Evaluate(prior, map[string]float64{"JPM": -1.2})

		if rec.FalsePositives != 1 {
			t.Errorf("expected FP=1, got %d", rec.FalsePositives)
		}
		if rec.Accuracy != 0.0 {
			t.Errorf("expected accuracy 0.0, got %.3f", rec.Accuracy)
		}
	})

	t.Run("absent ticker treated as zero move", func(t *testing.T) {
		prior := routedWith(models.MovementClassification{
			Ticker:    "XYZ",
			Category:  models.CategoryNews,
			PctChange: 3.0,
		})

		rec := e.Evaluate(prior, map[string]float64{})

		if rec.FalsePositives != 1 {
			t.Errorf("expected untracked ticker to count as FP, got FP=%d", rec.FalsePositives)
		}
		if rec.Details[0].ActualMove != 0.0 {
			t.Errorf("expected actual move 0.0, got %.2f", rec.Details[0].ActualMove)
		}
	})

	t.Run("negative prediction with positive actual is false negative", func(t *testing.T) {
		prior := routedWith(models.MovementClassification{
			Ticker:    "INTC",
			Category:  models.CategoryUnknown,
			PctChange: -5.6,
		})

		rec := e.Evaluate(prior, map[string]float64{"INTC": 2.0})

		if rec.FalseNegatives != 1 {
			t.Errorf("expected FN=1, got %d", rec.FalseNegatives)
		}
	})

	t.Run("true negative not counted", func(t *testing.T) {
		prior := routedWith(models.MovementClassification{
			Ticker:    "INTC",
			Category:  models.CategoryUnknown,
			PctChange: -5.6,
		})

		rec := e.Evaluate(prior, map[string]float64{"INTC": -3.1})

		if rec.TruePositives+rec.FalsePositives+rec.FalseNegatives != 0 {
			t.Errorf("true negative must not be counted, got TP=%d FP=%d FN=%d",
				rec.TruePositives, rec.FalsePositives, rec.FalseNegatives)
		}
		if rec.Accuracy != 0 || rec.Precision != 0 || rec.Recall != 0 || rec.F1Score != 0 {
			t.Errorf("all metrics must be zero with empty confusion counts")
		}
		if len(rec.Details) != 1 || !rec.Details[0].CorrectDirection {
			t.Errorf("direction was correct, detail should record that")
		}
	})

	t.Run("mixed outcomes", func(t *testing.T) {
		prior := routedWith(
			models.MovementClassification{Ticker: "AAPL", Category: models.CategoryEarnings, PctChange: 5.2},
			models.MovementClassification{Ticker: "JPM", Category: models.CategoryMacro, PctChange: 2.1},
			models.MovementClassification{Ticker: "TSLA", Category: models.CategoryNews, PctChange: 7.8},
		)

		rec := e.Evaluate(prior, map[string]float64{
			"AAPL": 4.8,
			"JPM":  -1.2,
			"TSLA": 1.5,
		})

		if rec.TruePositives != 2 || rec.FalsePositives != 1 {
			t.Errorf("expected TP=2 FP=1, got TP=%d FP=%d", rec.TruePositives, rec.FalsePositives)
		}

		counted := rec.TruePositives + rec.FalsePositives + rec.FalseNegatives
		if counted > len(rec.Details) {
			t.Errorf("TP+FP+FN (%d) must not exceed item count (%d)", counted, len(rec.Details))
		}

		for name, v := range map[string]float64{
			"accuracy":  rec.Accuracy,
			"precision": rec.Precision,
			"recall":    rec.Recall,
			"f1":        rec.F1Score,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%s out of [0,1]: %.3f", name, v)
			}
		}

		// precision = 2/3, recall = 1, f1 = 2*(2/3)/(5/3) = 0.8
		if abs(rec.Precision-2.0/3.0) > 1e-9 {
			t.Errorf("expected precision 0.667, got %.3f", rec.Precision)
		}
		if abs(rec.Recall-1.0) > 1e-9 {
			t.Errorf("expected recall 1.0, got %.3f", rec.Recall)
		}
		if abs(rec.F1Score-0.8) > 1e-9 {
			t.Errorf("expected f1 0.8, got %.3f", rec.F1Score)
		}
		if abs(rec.Accuracy-2.0/3.0) > 1e-9 {
			t.Errorf("expected accuracy 0.667, got %.3f", rec.Accuracy)
		}
	})

	t.Run("empty prior", func(t *testing.T) {
		rec := e.Evaluate(models.NewRoutedMovements(), map[string]float64{"AAPL": 1.0})

		if len(rec.Details) != 0 {
			t.Errorf("expected no details, got %d", len(rec.Details))
		}
		if rec.Accuracy != 0 {
			t.Errorf("expected zero accuracy, got %.3f", rec.Accuracy)
		}
	})
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
