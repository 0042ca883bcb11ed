package models

import "time"

// EvalDetail represents the outcome check for a single classified mover
type EvalDetail struct {
	Ticker           string   `json:"ticker"`
	PredictedMove    float64  `json:"predicted_move"`
	ActualMove       float64  `json:"actual_move"`
	Category         Category `json:"category"`
	CorrectDirection bool     `json:"correct_direction"`
	Reasons          []Reason `json:"reasons,omitempty"`
}

// EvaluationRecord represents one evaluation cycle: prior predictions
// checked against next-observed actual moves.
// True negatives are excluded from the counting scheme, so
// TruePositives+FalsePositives+FalseNegatives equals the number of
// evaluated items that had a directional outcome tracked.
type EvaluationRecord struct {
	Timestamp      time.Time    `json:"timestamp"`
	TruePositives  int          `json:"true_positives"`
	FalsePositives int          `json:"false_positives"`
	FalseNegatives int          `json:"false_negatives"`
	Details        []EvalDetail `json:"details"`
	Accuracy       float64      `json:"accuracy"`
	Precision      float64      `json:"precision"`
	Recall         float64      `json:"recall"`
	F1Score        float64      `json:"f1_score"`
}

// RunningMetric represents an incrementally updated average
type RunningMetric struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Observe folds a new observation into the running average
func (m *RunningMetric) Observe(v float64) {
	n := float64(m.Count)
	m.Value = (m.Value*n + v) / (n + 1)
	m.Count++
}

// RunningMetrics holds the running averages tracked across evaluation cycles
type RunningMetrics struct {
	Accuracy  RunningMetric `json:"accuracy"`
	Precision RunningMetric `json:"precision"`
	Recall    RunningMetric `json:"recall"`
	F1Score   RunningMetric `json:"f1_score"`
}

// Observe folds one evaluation's derived metrics into the running averages
func (rm *RunningMetrics) Observe(rec *EvaluationRecord) {
	rm.Accuracy.Observe(rec.Accuracy)
	rm.Precision.Observe(rec.Precision)
	rm.Recall.Observe(rec.Recall)
	rm.F1Score.Observe(rec.F1Score)
}
