package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/lifelink/report-analyzer/internal/domain/report"
	"github.com/lifelink/report-analyzer/internal/infra/archive"
	"github.com/lifelink/report-analyzer/internal/infra/config"
	"github.com/lifelink/report-analyzer/internal/infra/extract"
	"github.com/lifelink/report-analyzer/internal/infra/history"
	"github.com/lifelink/report-analyzer/internal/infra/llm/gemini"
	"github.com/lifelink/report-analyzer/internal/infra/render"
	"github.com/lifelink/report-analyzer/internal/infra/session"
	"github.com/lifelink/report-analyzer/internal/infra/speech/gtranslate"
	"github.com/lifelink/report-analyzer/internal/infra/tokens"
)

func providePipelineConfig(cfg *config.Config) report.Config {
	return report.Config{
		MinTextChars:    cfg.Pipeline.MinTextChars,
		MaxFileBytes:    cfg.Pipeline.MaxFileBytes,
		MaxPromptTokens: cfg.Pipeline.MaxPromptTokens,
		DefaultLanguage: cfg.Pipeline.DefaultLanguage,
	}
}

func provideExtractor(logger *slog.Logger) report.Extractor {
	return extract.NewPDFExtractor(logger)
}

func provideTextGenerator(cfg *config.Config, logger *slog.Logger) (report.TextGenerator, error) {
	return gemini.NewClient(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Timeout:     cfg.Gemini.Timeout,
		MaxAttempts: cfg.Gemini.MaxAttempts,
	}, logger)
}

func provideRenderer(cfg *config.Config) report.DocumentRenderer {
	return render.NewPDFWriter(render.Config{
		Title:       cfg.Render.Title,
		SourceLabel: cfg.Render.SourceLabel,
	})
}

func provideSpeechSynthesizer(cfg *config.Config) report.SpeechSynthesizer {
	return gtranslate.NewClient(cfg.Speech.BaseURL, cfg.Speech.Timeout)
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) report.SessionStore {
	if cfg.Session.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory sessions", "error", err)
			return session.NewMemoryStore(cfg.Session.TTL)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory sessions", "error", err)
			return session.NewMemoryStore(cfg.Session.TTL)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory sessions", "error", err)
		} else {
			logger.Info("valkey session store enabled", "addr", cfg.Session.Valkey.Addr)
			return session.NewValkeyStore(client, "report", cfg.Session.TTL)
		}
	}
	return session.NewMemoryStore(cfg.Session.TTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Session.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Session.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Session.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideSummaryHistory(cfg *config.Config, logger *slog.Logger) report.SummaryHistory {
	fallback := history.NewMemoryHistory()
	dsn := strings.TrimSpace(cfg.History.DSN)
	if dsn == "" {
		logger.Info("history dsn not set, using memory history")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory history", "error", err)
		return fallback
	}
	if cfg.History.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.MaxConns
	}
	if cfg.History.MinConns > 0 {
		poolConfig.MinConns = cfg.History.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory history", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory history", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("postgres summary history enabled")
	return history.NewPostgresHistory(pool)
}

func provideArtifactArchive(cfg *config.Config, logger *slog.Logger) report.ArtifactArchive {
	if !cfg.Archive.Enabled {
		return nil
	}
	store, err := archive.NewObjectArchive(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.Bucket, cfg.Archive.Region, logger)
	if err != nil {
		logger.Error("failed to initialize object archive, using memory archive", "error", err)
		return archive.NewMemoryArchive()
	}
	logger.Info("object artifact archive enabled", "bucket", cfg.Archive.Bucket)
	return store
}

func provideTokenBudget(logger *slog.Logger) report.TokenBudget {
	counter, err := tokens.NewCounter()
	if err != nil {
		logger.Warn("token counter unavailable, prompts will not be clamped", "error", err)
		return nil
	}
	return counter
}
