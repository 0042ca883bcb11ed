package metrics

import "time"

// ClassificationMetric records one classified movement for analysis
type ClassificationMetric struct {
	Timestamp  time.Time
	Ticker     string
	Direction  string
	Category   string
	PctChange  float64
	Confidence float64
	Reasons    int
}

func (m *ClassificationMetric) TableName() string {
	return "classification_metrics"
}

func (m *ClassificationMetric) Values() []interface{} {
	return []interface{}{
		m.Timestamp,
		m.Ticker,
		m.Direction,
		m.Category,
		m.PctChange,
		m.Confidence,
		m.Reasons,
	}
}

// EvaluationMetric records one evaluation cycle's derived metrics
type EvaluationMetric struct {
	Timestamp      time.Time
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Accuracy       float64
	Precision      float64
	Recall         float64
	F1Score        float64
}

func (m *EvaluationMetric) TableName() string {
	return "evaluation_metrics"
}

func (m *EvaluationMetric) Values() []interface{} {
	return []interface{}{
		m.Timestamp,
		m.TruePositives,
		m.FalsePositives,
		m.FalseNegatives,
		m.Accuracy,
		m.Precision,
		m.Recall,
		m.F1Score,
	}
}
