package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/akarpov/market-brief/internal/adapters/clickhouse"
	"github.com/akarpov/market-brief/internal/adapters/config"
	"github.com/akarpov/market-brief/internal/adapters/database"
	"github.com/akarpov/market-brief/internal/adapters/feed"
	"github.com/akarpov/market-brief/internal/adapters/telegram"
	"github.com/akarpov/market-brief/internal/brief"
	"github.com/akarpov/market-brief/internal/classify"
	"github.com/akarpov/market-brief/internal/movers"
	"github.com/akarpov/market-brief/internal/perf"
	"github.com/akarpov/market-brief/internal/pipeline"
	"github.com/akarpov/market-brief/internal/signal"
	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/metrics"
	"github.com/akarpov/market-brief/pkg/models"
	"github.com/akarpov/market-brief/pkg/worker"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	ossignal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("market brief agent starting",
		zap.String("store_backend", cfg.Store.Backend),
		zap.Bool("daemon", cfg.Brief.Daemon),
	)

	store, cleanup, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	buffer, bufferCleanup := initMetricsBuffer(cfg)
	defer bufferCleanup(ctx)

	vocabs := loadVocabularies(cfg)

	classifier := classify.NewClassifier(vocabs, &cfg.Classifier)
	localFeed := feed.NewLocalFeed(cfg.Feed.Dir)

	pipe := pipeline.New(pipeline.Config{
		Market:     localFeed,
		News:       localFeed,
		Analyzer:   movers.NewAnalyzer(cfg.Movers.ThresholdPercent),
		Router:     classify.NewRouter(classifier),
		Store:      store,
		Buffer:     buffer,
		HistoryCap: cfg.Store.HistoryCap,
	})

	notifier := initNotifier(cfg)

	runCycle := func(ctx context.Context) error {
		dailyBrief, err := pipe.RunOnce(ctx)
		if err != nil {
			return err
		}

		logBrief(dailyBrief)

		if notifier != nil {
			if err := notifier.SendBrief(dailyBrief); err != nil {
				logger.Warn("failed to send telegram brief", zap.Error(err))
			}
		}

		if buffer != nil {
			flushCtx, flushCancel := context.WithTimeout(ctx, 10*time.Second)
			defer flushCancel()
			if err := buffer.Flush(flushCtx); err != nil {
				logger.Warn("failed to flush metrics", zap.Error(err))
			}
		}

		return nil
	}

	if !cfg.Brief.Daemon {
		return runCycle(ctx)
	}

	pw := worker.NewPeriodicWorker(&briefWorker{run: runCycle}, cfg.Brief.Interval)
	pw.Start(ctx)

	<-ctx.Done()
	pw.Stop(30 * time.Second)

	return nil
}

// briefWorker adapts the daily cycle to the worker interface
type briefWorker struct {
	run func(ctx context.Context) error
}

func (w *briefWorker) Name() string { return "daily_brief" }

func (w *briefWorker) Run(ctx context.Context) error {
	return w.run(ctx)
}

// initStore selects the persistence backend
func initStore(cfg *config.Config) (perf.Store, func(), error) {
	if cfg.Store.Backend == "postgres" {
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := database.RunMigrations(db.Conn(), "./migrations"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return perf.NewRepository(db.DB(), cfg.Store.HistoryCap), func() { db.Close() }, nil
	}

	return perf.NewFileStore(cfg.Store.DataDir, cfg.Store.HistoryCap), func() {}, nil
}

// initMetricsBuffer sets up the optional ClickHouse metrics sink
func initMetricsBuffer(cfg *config.Config) (*metrics.Buffer, func(context.Context)) {
	noop := func(context.Context) {}

	if !cfg.ClickHouse.Enabled {
		return nil, noop
	}

	ch, err := database.NewClickHouse(cfg.ClickHouse.GetDSN())
	if err != nil {
		logger.Warn("ClickHouse unavailable, metrics disabled", zap.Error(err))
		return nil, noop
	}

	logger.Info("ClickHouse metrics sink enabled",
		zap.String("host", cfg.ClickHouse.Host),
		zap.String("database", cfg.ClickHouse.Database),
	)

	buffer := metrics.NewBuffer(clickhouse.NewRepository(ch.DB()))

	return buffer, func(ctx context.Context) {
		closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := buffer.Close(closeCtx); err != nil {
			logger.Warn("failed to close metrics buffer", zap.Error(err))
		}
		ch.Close()
	}
}

// loadVocabularies loads keyword vocabularies, falling back to built-ins
func loadVocabularies(cfg *config.Config) signal.Vocabularies {
	if cfg.Classifier.VocabFile == "" {
		return signal.DefaultVocabularies()
	}

	vocabs, err := signal.LoadVocabularies(cfg.Classifier.VocabFile)
	if err != nil {
		logger.Warn("failed to load vocabulary file, using defaults",
			zap.String("file", cfg.Classifier.VocabFile),
			zap.Error(err),
		)
	}
	return vocabs
}

// initNotifier sets up the optional Telegram channel
func initNotifier(cfg *config.Config) *telegram.Notifier {
	if cfg.Telegram.BotToken == "" {
		return nil
	}

	notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		logger.Warn("telegram notifier unavailable", zap.Error(err))
		return nil
	}
	return notifier
}

func logBrief(b *brief.DailyBrief) {
	fields := []zap.Field{
		zap.String("date", b.Date.Format("2006-01-02")),
		zap.String("market_health", string(b.MarketHealth)),
		zap.Int("gainers", len(b.Gainers)),
		zap.Int("losers", len(b.Losers)),
		zap.Int("earnings_moves", len(b.Categorized[models.CategoryEarnings])),
		zap.Int("macro_moves", len(b.Categorized[models.CategoryMacro])),
		zap.Int("news_moves", len(b.Categorized[models.CategoryNews])),
		zap.Int("unknown_moves", len(b.Categorized[models.CategoryUnknown])),
	}
	if b.Evaluation != nil {
		fields = append(fields,
			zap.Float64("eval_accuracy", b.Evaluation.Accuracy),
			zap.Float64("eval_f1", b.Evaluation.F1Score),
		)
	}

	logger.Info("daily brief generated", fields...)
}
