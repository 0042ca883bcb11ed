package metrics

import "context"

// Metric is a generic interface for any metric record
type Metric interface {
	// TableName returns the storage table name for this metric
	TableName() string
	// Values returns metric values in the same order as columns
	Values() []interface{}
}

// Writer writes metric batches to storage
type Writer interface {
	Write(ctx context.Context, tableName string, metrics []Metric) error
	Close() error
}
