package perf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

const (
	historyFile = "evaluation_history.json"
	metricsFile = "performance_metrics.json"
	weightsFile = "category_weights.json"
	pendingFile = "pending_classifications.json"
)

// FileStore persists performance state as JSON files in a data directory
type FileStore struct {
	dataDir    string
	historyCap int
}

// NewFileStore creates new file-backed performance store
func NewFileStore(dataDir string, historyCap int) *FileStore {
	return &FileStore{
		dataDir:    dataDir,
		historyCap: historyCap,
	}
}

// Load reads persisted state: missing or corrupt files degrade to
// empty history and default weights, never an error that stops the run
func (fs *FileStore) Load(_ context.Context) (*Snapshot, error) {
	snap := NewSnapshot()

	var history []models.EvaluationRecord
	if ok := fs.readJSON(historyFile, &history); ok && history != nil {
		snap.History = history
	}

	var metrics models.RunningMetrics
	if ok := fs.readJSON(metricsFile, &metrics); ok {
		snap.Metrics = metrics
	}

	var weights models.WeightState
	if ok := fs.readJSON(weightsFile, &weights); ok && len(weights) > 0 {
		snap.Weights = weights
	}

	var pending models.RoutedMovements
	if ok := fs.readJSON(pendingFile, &pending); ok && len(pending) > 0 {
		snap.Pending = pending
	}

	logger.Info("performance state loaded",
		zap.String("data_dir", fs.dataDir),
		zap.Int("history", len(snap.History)),
		zap.Bool("has_pending", snap.Pending != nil),
	)

	return snap, nil
}

// Save writes the snapshot, truncating history to the configured cap
func (fs *FileStore) Save(_ context.Context, snap *Snapshot) error {
	if err := os.MkdirAll(fs.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	history := snap.History
	if fs.historyCap > 0 && len(history) > fs.historyCap {
		history = history[len(history)-fs.historyCap:]
	}

	if err := fs.writeJSON(historyFile, history); err != nil {
		return err
	}
	if err := fs.writeJSON(metricsFile, snap.Metrics); err != nil {
		return err
	}
	if err := fs.writeJSON(weightsFile, snap.Weights); err != nil {
		return err
	}
	if snap.Pending != nil {
		if err := fs.writeJSON(pendingFile, snap.Pending); err != nil {
			return err
		}
	}

	return nil
}

// readJSON loads a single state file, reporting whether usable data was read
func (fs *FileStore) readJSON(name string, v interface{}) bool {
	path := filepath.Join(fs.dataDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read state file",
				zap.String("file", path),
				zap.Error(err),
			)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("state file corrupt, falling back to defaults",
			zap.String("file", path),
			zap.Error(err),
		)
		return false
	}

	return true
}

func (fs *FileStore) writeJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(fs.dataDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return nil
}
