package evaluate

import (
	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

// reweighted lists the categories whose weights are learned from history.
// The unknown bucket is never reweighted upward.
var reweighted = []models.Category{
	models.CategoryEarnings,
	models.CategoryMacro,
	models.CategoryNews,
}

// Optimize rescales per-category weights from historical directional
// accuracy. The best-performing category maps to weight 1.5 and the
// rest land in [0.5, 1.5] relative to it. Categories without
// observations keep their prior weight. Deterministic and idempotent
// for identical history.
func Optimize(history []models.EvaluationRecord, prior models.WeightState) models.WeightState {
	weights := prior.Clone()
	if len(history) == 0 {
		return weights
	}

	scores := make(map[models.Category]float64)
	for _, category := range reweighted {
		correct := 0
		total := 0
		for i := range history {
			for _, detail := range history[i].Details {
				if detail.Category != category {
					continue
				}
				total++
				if detail.CorrectDirection {
					correct++
				}
			}
		}
		if total > 0 {
			scores[category] = float64(correct) / float64(total)
		}
	}

	if len(scores) == 0 {
		return weights
	}

	maxScore := 0.0
	for _, score := range scores {
		if score > maxScore {
			maxScore = score
		}
	}
	if maxScore == 0 {
		return weights
	}

	for category, score := range scores {
		weights[category] = 0.5 + score/maxScore
	}

	logger.Info("analysis weights updated",
		zap.Float64("earnings", weights.Get(models.CategoryEarnings)),
		zap.Float64("macro", weights.Get(models.CategoryMacro)),
		zap.Float64("news", weights.Get(models.CategoryNews)),
		zap.Float64("unknown", weights.Get(models.CategoryUnknown)),
	)

	return weights
}
