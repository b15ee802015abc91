package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"textmill/internal/config"
	hhttp "textmill/internal/handler/http/respond"
	pgRepo "textmill/internal/infra/adapter/persistence/postgres"
	"textmill/internal/infra/classifier"
	"textmill/internal/infra/db"
	"textmill/internal/infra/embedding"
	"textmill/internal/infra/loader"
	"textmill/internal/infra/notifier"
	"textmill/internal/infra/scraper"
	workerPkg "textmill/internal/infra/worker"
	"textmill/internal/repository"
	"textmill/internal/textproc"
	aiUC "textmill/internal/usecase/ai"
	classifyUC "textmill/internal/usecase/classify"
	ingestUC "textmill/internal/usecase/ingest"
	"textmill/internal/usecase/notify"
)

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM corpora LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("notify_max_concurrent", workerConfig.NotifyMaxConcurrent),
		slog.Duration("ingest_timeout", workerConfig.IngestTimeout),
		slog.String("manifest_path", workerConfig.ManifestPath),
		slog.Int("health_port", workerConfig.HealthPort))

	// Initialize Discord notification channel
	discordConfig := loadDiscordConfig(logger)
	var discordChannel notify.Channel
	if discordConfig.Enabled {
		discordChannel = notify.NewDiscordChannel(discordConfig)
		logger.Info("Discord channel initialized", slog.String("status", "enabled"))
	} else {
		logger.Info("Discord channel disabled")
	}

	// Initialize Slack notification channel
	slackConfig := loadSlackConfig(logger)
	var slackChannel notify.Channel
	if slackConfig.Enabled {
		slackChannel = notify.NewSlackChannel(slackConfig)
		logger.Info("Slack channel initialized", slog.String("status", "enabled"))
	} else {
		logger.Info("Slack channel disabled")
	}

	// Initialize notification service (use workerConfig)
	var channels []notify.Channel
	if discordChannel != nil {
		channels = append(channels, discordChannel)
	}
	if slackChannel != nil {
		channels = append(channels, slackChannel)
	}

	notifyService := notify.NewService(channels, workerConfig.NotifyMaxConcurrent)
	logger.Info("Notification service initialized",
		slog.Int("channels", len(channels)),
		slog.Int("max_concurrent", workerConfig.NotifyMaxConcurrent))

	// Start metrics HTTP server
	startMetricsServer(ctx, logger, notifyService)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	svc, corpusRepo, aiCleanup := setupIngestService(logger, database, notifyService)
	defer aiCleanup()

	startCronWorker(logger, svc, corpusRepo, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// setupIngestService creates and configures the ingest service with all dependencies.
// Returns the service, the corpus repository (for manifest syncing) and a cleanup
// function for graceful shutdown.
func setupIngestService(logger *slog.Logger, database *sql.DB, notifyService notify.Service) (*ingestUC.Service, repository.CorpusRepository, func()) {
	corpusRepo := pgRepo.NewCorpusRepo(database)
	documentRepo := pgRepo.NewDocumentRepo(database)
	termCountRepo := pgRepo.NewTermCountRepo(database)
	labelRepo := pgRepo.NewLabelRepo(database)

	// Source loading configuration (fail-open to defaults)
	loaderCfg, err := loader.LoadConfigFromEnv()
	if err != nil {
		logger.Error("Failed to load source loader configuration",
			slog.Any("error", err))
		logger.Warn("Using default source loader configuration")
		loaderCfg = loader.DefaultConfig()
	}
	httpLoader := loader.NewHTTPLoader(loaderCfg)

	// Create scraper registry for the supported corpus kinds
	scrapers := scraper.NewScraperFactory().CreateScrapers()
	logger.Info("Scrapers initialized", slog.Int("count", len(scrapers)))

	// Classification backend plus the classify service that persists labels
	classifySvc := &classifyUC.Service{
		Backend:      createClassifier(logger),
		DocumentRepo: documentRepo,
		LabelRepo:    labelRepo,
	}

	// Setup AI embedding hook
	embeddingHook, aiCleanup := setupEmbeddingHook(logger, database)

	pipelineCfg := loadPipelineConfig(logger)

	service := ingestUC.NewService(
		corpusRepo,
		documentRepo,
		termCountRepo,
		httpLoader,
		scrapers,
		textproc.NewCleaner(textproc.DefaultCleanerConfig()),
		textproc.NewTokenizer(textproc.DefaultTokenizerConfig()),
		classifySvc,
		notifyService,
		embeddingHook,
		pipelineCfg,
	)

	return &service, corpusRepo, aiCleanup
}

// loadPipelineConfig reads the ingest pipeline tuning knobs from the
// environment. Out-of-range values fall back to the pipeline defaults.
func loadPipelineConfig(logger *slog.Logger) ingestUC.PipelineConfig {
	cfg := ingestUC.PipelineConfig{}
	if v := os.Getenv("CLASSIFY_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			logger.Warn("Invalid CLASSIFY_PARALLELISM, using default", slog.String("value", v))
		} else {
			cfg.ClassifyParallelism = n
		}
	}
	if v := os.Getenv("SUMMARY_TOP_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			logger.Warn("Invalid SUMMARY_TOP_TOKENS, using default", slog.String("value", v))
		} else {
			cfg.SummaryTopTokens = n
		}
	}
	return cfg
}

// setupEmbeddingHook creates an AI embedding hook and returns a cleanup function.
// The cleanup function should be called during shutdown to close the provider.
func setupEmbeddingHook(logger *slog.Logger, database *sql.DB) (ingestUC.EmbeddingHook, func()) {
	// Load AI configuration
	aiConfig, err := config.LoadAIConfig()
	if err != nil {
		logger.Warn("Failed to load AI configuration, AI features disabled", slog.Any("error", err))
		return nil, func() {}
	}

	// Validate configuration
	if err := aiConfig.Validate(); err != nil {
		logger.Warn("Invalid AI configuration, AI features disabled", slog.Any("error", err))
		return nil, func() {}
	}

	// Check if AI is enabled
	if !aiConfig.Enabled || aiConfig.Provider == "noop" {
		logger.Info("AI features disabled via configuration")
		return nil, func() {}
	}

	// Create embedding provider
	provider, err := embedding.NewOpenAIProvider(aiConfig)
	if err != nil {
		logger.Warn("Failed to create embedding provider, AI features disabled", slog.Any("error", err))
		return nil, func() {}
	}

	logger.Info("AI embedding hook initialized",
		slog.String("provider", aiConfig.Provider),
		slog.String("model", aiConfig.EmbeddingModel))

	// Return cleanup function to close the provider's connections
	cleanup := func() {
		if err := provider.Close(); err != nil {
			logger.Error("failed to close embedding provider", slog.Any("error", err))
		} else {
			logger.Info("embedding provider closed")
		}
	}

	embeddingRepo := pgRepo.NewDocumentEmbeddingRepo(database)
	aiService := aiUC.NewService(provider, embeddingRepo, true)
	return aiUC.NewEmbeddingHook(aiService, true), cleanup
}

// createClassifier creates a classification backend based on the CLASSIFIER_BACKEND
// environment variable. An unset value selects the no-op backend.
func createClassifier(logger *slog.Logger) classifyUC.Classifier {
	backend := os.Getenv("CLASSIFIER_BACKEND")
	if backend == "" {
		backend = "noop"
	}

	switch backend {
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when CLASSIFIER_BACKEND=anthropic")
			os.Exit(1)
		}
		logger.Info("Using Anthropic API for classification", slog.String("backend", "anthropic"))
		return classifier.NewAnthropic(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when CLASSIFIER_BACKEND=openai")
			os.Exit(1)
		}
		cfg, err := classifier.LoadOpenAIConfig()
		if err != nil {
			logger.Error("Failed to load OpenAI classifier configuration", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Using OpenAI API for classification",
			slog.String("backend", "openai"),
			slog.Int("max_text_chars", cfg.GetMaxTextChars()))
		return classifier.NewOpenAI(apiKey, cfg)
	case "noop":
		logger.Info("Classification disabled, using no-op backend")
		return classifier.NewNoOp()
	default:
		logger.Error("Invalid CLASSIFIER_BACKEND",
			slog.String("backend", backend),
			slog.String("expected", "anthropic, openai or noop"))
		os.Exit(1)
		return nil
	}
}

// syncManifest registers manifest corpora that do not exist yet, matching by
// source URL. Individual entry failures are logged and skipped so one bad
// entry never blocks the rest of the run.
func syncManifest(ctx context.Context, logger *slog.Logger, repo repository.CorpusRepository, path string) {
	if path == "" {
		return
	}

	manifest, err := workerPkg.LoadManifest(path)
	if err != nil {
		logger.Error("failed to load source manifest",
			slog.String("path", path),
			slog.Any("error", hhttp.SanitizeError(err)))
		return
	}

	var created, existing int
	for _, entry := range manifest.Corpora {
		exists, err := repo.ExistsByURL(ctx, entry.URL)
		if err != nil {
			logger.Error("manifest sync: existence check failed",
				slog.String("title", entry.Title),
				slog.Any("error", hhttp.SanitizeError(err)))
			continue
		}
		if exists {
			existing++
			continue
		}

		corpus := entry.Corpus()
		if err := corpus.Validate(); err != nil {
			logger.Error("manifest sync: invalid entry",
				slog.String("title", entry.Title),
				slog.Any("error", err))
			continue
		}
		if err := repo.Create(ctx, corpus); err != nil {
			logger.Error("manifest sync: create failed",
				slog.String("title", entry.Title),
				slog.Any("error", hhttp.SanitizeError(err)))
			continue
		}
		created++
		logger.Info("manifest sync: corpus registered",
			slog.String("title", entry.Title),
			slog.String("kind", corpus.Kind))
	}

	logger.Info("manifest sync completed",
		slog.Int("created", created),
		slog.Int("existing", existing),
		slog.Int("total", len(manifest.Corpora)))
}

// startCronWorker starts the cron scheduler and runs the ingest job periodically.
func startCronWorker(logger *slog.Logger, svc *ingestUC.Service, corpusRepo repository.CorpusRepository, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	// Load timezone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runIngestJob(logger, svc, corpusRepo, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runIngestJob executes a single ingest job with timeout and error handling.
func runIngestJob(logger *slog.Logger, svc *ingestUC.Service, corpusRepo repository.CorpusRepository, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("ingest started")

	// インジェスト処理のタイムアウト（設定から取得）
	ctx, cancel := context.WithTimeout(context.Background(), cfg.IngestTimeout)
	defer cancel()

	// Register any new manifest corpora before ingesting
	syncManifest(ctx, logger, corpusRepo, cfg.ManifestPath)

	stats, err := svc.IngestAll(ctx)
	if err != nil {
		// 機密情報をマスクしてログ出力
		logger.Error("ingest failed", slog.Any("error", hhttp.SanitizeError(err)))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	// Record metrics
	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordCorporaProcessed(stats.Corpora)
	metrics.RecordLastSuccess()

	logger.Info("ingest completed",
		slog.Int("corpora", stats.Corpora),
		slog.Int64("documents_found", stats.DocumentsFound),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("skipped", stats.Skipped),
		slog.Int64("classify_errors", stats.ClassifyErrors),
		slog.Int64("tokens", stats.Tokens),
		slog.Duration("duration", stats.Duration),
	)
}

// loadDiscordConfig loads Discord configuration from environment variables.
//
// Environment variables:
//   - DISCORD_ENABLED: Boolean flag to enable Discord notifications (default: false)
//   - DISCORD_WEBHOOK_URL: Discord webhook URL (required if enabled)
//
// Returns:
//   - notifier.DiscordConfig: Configuration with validation applied
func loadDiscordConfig(logger *slog.Logger) notifier.DiscordConfig {
	enabled := os.Getenv("DISCORD_ENABLED") == "true"
	webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")

	if !enabled {
		return notifier.DiscordConfig{Enabled: false}
	}

	// Validate webhook URL format
	if webhookURL == "" {
		logger.Warn("Discord webhook URL is empty, disabling notifications")
		return notifier.DiscordConfig{Enabled: false}
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("Invalid Discord webhook URL format, disabling notifications", slog.Any("error", err))
		return notifier.DiscordConfig{Enabled: false}
	}

	if u.Scheme != "https" {
		logger.Warn("Discord webhook URL must use HTTPS, disabling notifications")
		return notifier.DiscordConfig{Enabled: false}
	}

	if u.Host != "discord.com" {
		logger.Warn("Invalid Discord webhook host, disabling notifications", slog.String("host", u.Host))
		return notifier.DiscordConfig{Enabled: false}
	}

	if !strings.HasPrefix(u.Path, "/api/webhooks/") {
		logger.Warn("Invalid Discord webhook path, disabling notifications", slog.String("path", u.Path))
		return notifier.DiscordConfig{Enabled: false}
	}

	return notifier.DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    30 * time.Second,
	}
}

// loadSlackConfig loads Slack configuration from environment variables.
//
// Environment variables:
//   - SLACK_ENABLED: Boolean flag to enable Slack notifications (default: false)
//   - SLACK_WEBHOOK_URL: Slack webhook URL (required if enabled)
//
// Returns:
//   - notifier.SlackConfig: Configuration with validation applied
func loadSlackConfig(logger *slog.Logger) notifier.SlackConfig {
	enabled := os.Getenv("SLACK_ENABLED") == "true"
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")

	if !enabled {
		return notifier.SlackConfig{Enabled: false}
	}

	// Validate webhook URL format
	if webhookURL == "" {
		logger.Warn("Slack webhook URL is empty, disabling notifications")
		return notifier.SlackConfig{Enabled: false}
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("Invalid Slack webhook URL format, disabling notifications", slog.Any("error", err))
		return notifier.SlackConfig{Enabled: false}
	}

	if u.Scheme != "https" {
		logger.Warn("Slack webhook URL must use HTTPS, disabling notifications")
		return notifier.SlackConfig{Enabled: false}
	}

	if u.Host != "hooks.slack.com" {
		logger.Warn("Invalid Slack webhook host, disabling notifications", slog.String("host", u.Host))
		return notifier.SlackConfig{Enabled: false}
	}

	if !strings.HasPrefix(u.Path, "/services/") {
		logger.Warn("Invalid Slack webhook path, disabling notifications", slog.String("path", u.Path))
		return notifier.SlackConfig{Enabled: false}
	}

	return notifier.SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    30 * time.Second,
	}
}
