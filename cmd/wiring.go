package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/sourcer/internal/ai"
	"github.com/spigell/sourcer/internal/ai/gemini"
	"github.com/spigell/sourcer/internal/artifact"
	"github.com/spigell/sourcer/internal/cache"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/logger"
	"github.com/spigell/sourcer/internal/outreach"
	"github.com/spigell/sourcer/internal/scoring"
	"github.com/spigell/sourcer/internal/search"
	"github.com/spigell/sourcer/internal/secrets"
	"github.com/spigell/sourcer/internal/sourcing"
)

// buildService wires the collaborators described by config. The returned
// cleanup func releases connections and must be called once.
func buildService(ctx context.Context, config *Config, log *zap.Logger) (*sourcing.Service, func(), error) {
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn("closing resource", zap.Error(err))
			}
		}
	}

	scorer, err := newScorer(config.Scoring)
	if err != nil {
		return nil, cleanup, err
	}

	client, closeSearch, err := newSearchClient(ctx, config, log)
	if err != nil {
		return nil, cleanup, err
	}
	if closeSearch != nil {
		closers = append(closers, closeSearch)
	}

	drafter, err := newDrafter(ctx, config.AI, log)
	if err != nil {
		log.Warn("outreach drafting disabled, fallback messages only", zap.Error(err))
		drafter = nil
	}

	store, err := newArtifactStore(ctx, config.Artifacts, log)
	if err != nil {
		return nil, cleanup, err
	}

	svc := sourcing.New(sourcing.Options{
		Search:   client,
		Scorer:   scorer,
		Composer: outreach.New(drafter, config.Outreach, logger.WithComponent(log, "outreach")),
		Pipeline: config.Pipeline,
		Store:    store,
		Artifact: config.Batch.Artifact,
	}, log)

	return svc, cleanup, nil
}

func newScorer(cfg ScoringConfig) (*scoring.Scorer, error) {
	if cfg.Weights == nil {
		return scoring.Default(), nil
	}

	scorer, err := scoring.New(*cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("scoring.weights: %w", err)
	}
	return scorer, nil
}

func newSearchClient(ctx context.Context, config *Config, log *zap.Logger) (search.Client, func() error, error) {
	var (
		client search.Client
		closer func() error
	)

	switch provider := strings.ToLower(strings.TrimSpace(config.Search.Provider)); provider {
	case "file", "":
		if config.Search.File == "" {
			return nil, nil, errors.New("search.file is required for the file provider")
		}
		client = search.NewFile(config.Search.File)
	case "http":
		if config.Search.HTTP.URL == "" {
			return nil, nil, errors.New("search.http.url is required for the http provider")
		}
		token, err := secrets.Optional(secrets.Source{
			Name: "search token",
			File: config.Search.HTTP.TokenFile,
			Env:  "SEARCH_TOKEN",
		})
		if err != nil {
			return nil, nil, err
		}
		client = search.NewHTTP(config.Search.HTTP, token, logger.WithComponent(log, "search"))
	default:
		return nil, nil, fmt.Errorf("unsupported search provider: %s", config.Search.Provider)
	}

	profileCache, closer, err := newProfileCache(ctx, config.Cache, log)
	if err != nil {
		return nil, nil, err
	}
	if profileCache != nil {
		client = search.WithCache(client, profileCache, log)
	}

	if config.Search.Fallback {
		client = search.WithFallback(client, logger.WithComponent(log, "search"))
	}

	return client, closer, nil
}

// newProfileCache picks the cache backend. An empty backend selects redis when
// a redis url is configured and the in-process memory cache otherwise.
func newProfileCache(ctx context.Context, cfg CacheConfig, log *zap.Logger) (cache.ProfileCache, func() error, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "memory"
		if cfg.RedisURL != "" {
			backend = "redis"
		}
	}

	switch backend {
	case "none", "off":
		return nil, nil, nil
	case "memory":
		log.Warn("profile cache is in-process only and will not survive a restart; set cache.redis-url for a durable cache",
			zap.String("backend", backend),
			zap.Duration("ttl", cfg.TTL),
		)
		return cache.NewMemory(cfg.TTL, cfg.MaxEntries), nil, nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, nil, errors.New("cache.redis-url is required for the redis backend")
		}
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis profile cache", zap.String("backend", backend), zap.String("prefix", cfg.Prefix))
		return cache.NewRedis(rdb, cfg.TTL, cfg.Prefix), rdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

// newDrafter returns a nil drafter when AI drafting is disabled.
func newDrafter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Drafter, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(log, "gemini", cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}
	if cfg.Gemini.Temperature != nil {
		generator = generator.WithTemperature(*cfg.Gemini.Temperature)
	}

	drafter := gemini.NewDrafter(generator, cfg.Gemini.MaxLogLength, logger.WithCommonFields(log, "gemini", generator.Model()))
	drafter.SetPromptOverrides(gemini.PromptOverrides{
		Sender:           cfg.Prompt.Sender,
		Company:          cfg.Prompt.Company,
		Tone:             cfg.Prompt.Tone,
		Keywords:         cfg.Prompt.Keywords,
		UserInstructions: cfg.Prompt.Instructions,
	})

	return drafter, nil
}

func newArtifactStore(ctx context.Context, cfg ArtifactsConfig, log *zap.Logger) (artifact.Store, error) {
	switch backend := strings.ToLower(strings.TrimSpace(cfg.Backend)); backend {
	case "file", "":
		return artifact.NewFile(cfg.Dir), nil
	case "minio":
		return artifact.NewMinio(ctx, cfg.Minio, logger.WithComponent(log, "artifacts"))
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported artifacts backend: %s", cfg.Backend)
	}
}

// loadRequests reads a YAML or JSON list of job requests. Omitted limits get
// the request defaults.
func loadRequests(path string) ([]jobs.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading requests: %w", err)
	}

	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	reqs := make([]jobs.Request, 0, len(nodes))
	for i := range nodes {
		req := jobs.NewRequest("")
		if err := nodes[i].Decode(&req); err != nil {
			return nil, fmt.Errorf("request #%d: %w", i+1, err)
		}
		reqs = append(reqs, req)
	}

	return reqs, nil
}
