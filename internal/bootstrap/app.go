package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"chatpdf/internal/ai"
	"chatpdf/internal/app"
	"chatpdf/internal/cache"
	"chatpdf/internal/config"
	"chatpdf/internal/pkg/pdfextract"
	"chatpdf/internal/platform/disk"
	"chatpdf/internal/platform/logger"
	redisClient "chatpdf/internal/platform/redis"
)

type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Redis     *redis.Client
	Store     cache.DocumentStore
	Uploads   *disk.UploadDir
	Documents *app.DocumentService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.IsDevelopment(), cfg.Log.Level)

	uploads, err := disk.NewUploadDir(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    log,
		Uploads:   uploads,
		StartedAt: time.Now(),
	}

	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = redisCli
		a.Store = cache.NewRedisDocumentStore(redisCli, cfg.Store.KeyPrefix)
	default:
		a.Store = cache.NewMemoryDocumentStore()
	}

	if cfg.LLM.APIKey == "" {
		log.Warn().Msg("no llm api key configured; questions will fail until LLM_API_KEY is set")
	}
	llmClient := ai.NewOpenAICompatibleClient(ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}, cfg.LLM.Timeout())

	a.Documents = app.NewDocumentService(
		a.Store,
		uploads,
		pdfextract.NewExtractor(),
		llmClient,
		cfg.Upload.ExtractTimeout(),
	)

	log.Info().
		Str("store", cfg.Store.Backend).
		Str("upload_dir", cfg.Upload.Dir).
		Str("model", llmClient.Model()).
		Str("llm_base_url", cfg.LLM.BaseURL).
		Str("llm_api_key", cfg.LLM.MaskedAPIKey()).
		Msg("application initialized")
	return a, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			return fmt.Errorf("close redis failed: %w", err)
		}
	}
	return nil
}
