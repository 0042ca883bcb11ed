package perf

import (
	"context"

	"github.com/akarpov/market-brief/pkg/models"
)

// Snapshot is the persisted performance state carried across runs
type Snapshot struct {
	History []models.EvaluationRecord `json:"history"`
	Metrics models.RunningMetrics     `json:"metrics"`
	Weights models.WeightState        `json:"weights"`
	// Pending holds the latest routed classifications awaiting
	// evaluation against the next observed actual movements
	Pending models.RoutedMovements `json:"pending,omitempty"`
}

// NewSnapshot returns an empty snapshot with default weights
func NewSnapshot() *Snapshot {
	return &Snapshot{
		History: []models.EvaluationRecord{},
		Weights: models.DefaultWeights(),
	}
}

// AppendHistory appends a record, evicting the oldest entries beyond cap
func (s *Snapshot) AppendHistory(rec models.EvaluationRecord, cap int) {
	s.History = append(s.History, rec)
	if cap > 0 && len(s.History) > cap {
		s.History = s.History[len(s.History)-cap:]
	}
}

// Store persists performance state across runs.
// Implementations must tolerate missing or corrupt state on Load by
// returning an empty snapshot rather than failing the run.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}
