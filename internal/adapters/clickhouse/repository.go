package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/metrics"
)

// Repository writes metric batches to ClickHouse
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new ClickHouse metrics repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Write inserts a batch of metrics into the named table
func (r *Repository) Write(ctx context.Context, tableName string, batch []metrics.Metric) error {
	if len(batch) == 0 {
		return nil
	}

	columnCount := len(batch[0].Values())
	if columnCount == 0 {
		return fmt.Errorf("metric has no columns")
	}

	placeholders := make([]string, 0, len(batch))
	args := make([]interface{}, 0, len(batch)*columnCount)

	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", columnCount), ", ") + ")"

	for i, metric := range batch {
		values := metric.Values()
		if len(values) != columnCount {
			return fmt.Errorf("row %d has wrong column count: expected %d, got %d", i, columnCount, len(values))
		}
		placeholders = append(placeholders, rowPlaceholder)
		args = append(args, values...)
	}

	query := fmt.Sprintf("INSERT INTO %s VALUES %s", tableName, strings.Join(placeholders, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ClickHouse insert failed: %w", err)
	}

	logger.Debug("ClickHouse batch insert successful",
		zap.String("table", tableName),
		zap.Int("rows", len(batch)),
	)

	return nil
}

// Close closes the repository; the connection is managed externally
func (r *Repository) Close() error {
	return nil
}
