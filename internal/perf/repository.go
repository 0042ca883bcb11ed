package perf

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

// Repository persists performance state in PostgreSQL
type Repository struct {
	db         *sqlx.DB
	historyCap int
}

// NewRepository creates new Postgres-backed performance store
func NewRepository(db *sqlx.DB, historyCap int) *Repository {
	return &Repository{
		db:         db,
		historyCap: historyCap,
	}
}

// Load reads persisted state, degrading to defaults on partial failures
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	snap := NewSnapshot()

	if history, err := r.loadHistory(ctx); err != nil {
		logger.Warn("failed to load evaluation history", zap.Error(err))
	} else {
		snap.History = history
	}

	if metrics, err := r.loadMetrics(ctx); err != nil {
		logger.Warn("failed to load performance metrics", zap.Error(err))
	} else {
		snap.Metrics = metrics
	}

	if weights, err := r.loadWeights(ctx); err != nil {
		logger.Warn("failed to load category weights", zap.Error(err))
	} else if len(weights) > 0 {
		snap.Weights = weights
	}

	if pending, err := r.loadPending(ctx); err != nil {
		logger.Warn("failed to load pending classifications", zap.Error(err))
	} else if len(pending) > 0 {
		snap.Pending = pending
	}

	return snap, nil
}

// Save persists the snapshot in a single transaction
func (r *Repository) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	history := snap.History
	if r.historyCap > 0 && len(history) > r.historyCap {
		history = history[len(history)-r.historyCap:]
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM evaluation_history`); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	for i := range history {
		payload, err := json.Marshal(&history[i])
		if err != nil {
			return fmt.Errorf("failed to marshal history record: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO evaluation_history (recorded_at, record)
			VALUES ($1, $2)
		`, history[i].Timestamp, payload)
		if err != nil {
			return fmt.Errorf("failed to insert history record: %w", err)
		}
	}

	metricRows := map[string]models.RunningMetric{
		"accuracy":  snap.Metrics.Accuracy,
		"precision": snap.Metrics.Precision,
		"recall":    snap.Metrics.Recall,
		"f1_score":  snap.Metrics.F1Score,
	}
	for name, metric := range metricRows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO performance_metrics (metric, value, count, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (metric) DO UPDATE SET
				value = EXCLUDED.value,
				count = EXCLUDED.count,
				updated_at = now()
		`, name, metric.Value, metric.Count)
		if err != nil {
			return fmt.Errorf("failed to upsert metric %s: %w", name, err)
		}
	}

	for category, weight := range snap.Weights {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO category_weights (category, weight, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (category) DO UPDATE SET
				weight = EXCLUDED.weight,
				updated_at = now()
		`, string(category), weight)
		if err != nil {
			return fmt.Errorf("failed to upsert weight %s: %w", category, err)
		}
	}

	if snap.Pending != nil {
		payload, err := json.Marshal(snap.Pending)
		if err != nil {
			return fmt.Errorf("failed to marshal pending classifications: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pending_classifications (id, payload, updated_at)
			VALUES (1, $1, now())
			ON CONFLICT (id) DO UPDATE SET
				payload = EXCLUDED.payload,
				updated_at = now()
		`, payload)
		if err != nil {
			return fmt.Errorf("failed to upsert pending classifications: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logger.Debug("performance state saved",
		zap.Int("history", len(history)),
	)

	return nil
}

func (r *Repository) loadHistory(ctx context.Context) ([]models.EvaluationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT record FROM evaluation_history
		ORDER BY recorded_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	history := make([]models.EvaluationRecord, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var rec models.EvaluationRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			logger.Warn("skipping corrupt history record", zap.Error(err))
			continue
		}
		history = append(history, rec)
	}

	if r.historyCap > 0 && len(history) > r.historyCap {
		history = history[len(history)-r.historyCap:]
	}

	return history, rows.Err()
}

func (r *Repository) loadMetrics(ctx context.Context) (models.RunningMetrics, error) {
	var metrics models.RunningMetrics

	rows, err := r.db.QueryContext(ctx, `
		SELECT metric, value, count FROM performance_metrics
	`)
	if err != nil {
		return metrics, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var metric models.RunningMetric
		if err := rows.Scan(&name, &metric.Value, &metric.Count); err != nil {
			return metrics, fmt.Errorf("failed to scan metric row: %w", err)
		}
		switch name {
		case "accuracy":
			metrics.Accuracy = metric
		case "precision":
			metrics.Precision = metric
		case "recall":
			metrics.Recall = metric
		case "f1_score":
			metrics.F1Score = metric
		}
	}

	return metrics, rows.Err()
}

func (r *Repository) loadWeights(ctx context.Context) (models.WeightState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, weight FROM category_weights
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weights: %w", err)
	}
	defer rows.Close()

	weights := make(models.WeightState)
	for rows.Next() {
		var category string
		var weight float64
		if err := rows.Scan(&category, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan weight row: %w", err)
		}
		weights[models.ParseCategory(category)] = weight
	}

	return weights, rows.Err()
}

func (r *Repository) loadPending(ctx context.Context) (models.RoutedMovements, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM pending_classifications WHERE id = 1
	`).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query pending classifications: %w", err)
	}

	var pending models.RoutedMovements
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending classifications: %w", err)
	}

	return pending, nil
}
