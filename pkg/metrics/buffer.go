package metrics

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
)

// Buffer collects metrics per table and flushes them in batches.
// Safe for concurrent Add; Flush is called explicitly at the end of a
// run (the run is batch-style, there is no background flusher).
type Buffer struct {
	writer Writer
	buffer map[string][]Metric
	mu     sync.Mutex
}

// NewBuffer creates new metrics buffer backed by the given writer
func NewBuffer(writer Writer) *Buffer {
	return &Buffer{
		writer: writer,
		buffer: make(map[string][]Metric),
	}
}

// Add adds a metric to the buffer
func (b *Buffer) Add(metric Metric) error {
	if metric == nil {
		return fmt.Errorf("metric is nil")
	}
	table := metric.TableName()
	if table == "" {
		return fmt.Errorf("metric table name is empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer[table] = append(b.buffer[table], metric)
	return nil
}

// Size returns the buffered metric count across all tables
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for _, metrics := range b.buffer {
		total += len(metrics)
	}
	return total
}

// Flush writes all buffered metrics and clears the buffer
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	toFlush := b.buffer
	b.buffer = make(map[string][]Metric)
	b.mu.Unlock()

	var failed int
	for table, batch := range toFlush {
		if len(batch) == 0 {
			continue
		}
		if err := b.writer.Write(ctx, table, batch); err != nil {
			logger.Error("failed to flush metrics",
				zap.String("table", table),
				zap.Int("count", len(batch)),
				zap.Error(err),
			)
			failed++
			continue
		}
		logger.Debug("metrics flushed",
			zap.String("table", table),
			zap.Int("count", len(batch)),
		)
	}

	if failed > 0 {
		return fmt.Errorf("flush failed for %d tables", failed)
	}
	return nil
}

// Close flushes remaining metrics and closes the writer
func (b *Buffer) Close(ctx context.Context) error {
	if err := b.Flush(ctx); err != nil {
		return err
	}
	return b.writer.Close()
}
