// cmd/keywordgen/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"keywordgen/internal/adapters/autocomplete"
	"keywordgen/internal/adapters/gaps"
	"keywordgen/internal/adapters/research"
	"keywordgen/internal/adapters/serp"
	"keywordgen/internal/adapters/trends"
	"keywordgen/internal/adapters/volume"
	"keywordgen/internal/common/cache"
	"keywordgen/internal/common/config"
	"keywordgen/internal/common/logger"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
	"keywordgen/internal/pipeline"
)

func main() {
	profilePath := flag.String("profile", "profile.json", "path to the company profile JSON file")
	configPath := flag.String("config", "", "config file path (defaults to configs/config.yaml)")
	outPath := flag.String("out", "", "write the result JSON to this file instead of stdout")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	profile, err := readProfile(*profilePath)
	if err != nil {
		zapLog.Fatal("profile load failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmClient := llm.NewHTTPClient(llm.Config{
		BaseURL:    cfg.APIs.GenAI.BaseURL,
		APIKey:     cfg.APIs.GenAI.APIKey,
		Model:      cfg.APIs.GenAI.Model,
		Timeout:    config.GetDuration(cfg.APIs.GenAI.Timeout),
		MaxRetries: cfg.APIs.GenAI.MaxRetries,
		RetryDelay: config.GetDuration(cfg.APIs.GenAI.RetryDelay),
	}, log)

	var store cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedis(cfg.Cache)
		if err != nil {
			zapLog.Fatal("cache init failed", zap.Error(err))
		}
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("cache unreachable, continuing without memoization", nil)
		} else {
			store = redisCache
			defer redisCache.Close()
		}
	}

	deps := pipeline.Dependencies{
		LLM:      llmClient,
		Research: research.NewEngine(llmClient, log),
		SERP:     serp.NewAnalyzer(llmClient, store, log),
		Logger:   log,
	}
	if cfg.APIs.GapAnalysis.BaseURL != "" && cfg.APIs.GapAnalysis.APIKey != "" {
		deps.Gaps = gaps.NewAnalyzer(gaps.Config{
			BaseURL: cfg.APIs.GapAnalysis.BaseURL,
			APIKey:  cfg.APIs.GapAnalysis.APIKey,
			Timeout: config.GetDuration(cfg.APIs.GapAnalysis.Timeout),
		}, log)
	}
	if cfg.APIs.Autocomplete.BaseURL != "" {
		deps.Autocomplete = autocomplete.NewClient(autocomplete.Config{
			BaseURL: cfg.APIs.Autocomplete.BaseURL,
			Timeout: config.GetDuration(cfg.APIs.Autocomplete.Timeout),
		}, store, log)
	}
	if cfg.APIs.KeywordData.BaseURL != "" && cfg.APIs.KeywordData.Login != "" {
		deps.Volume = volume.NewClient(volume.Config{
			BaseURL: cfg.APIs.KeywordData.BaseURL,
			Login:   cfg.APIs.KeywordData.Login,
			APIKey:  cfg.APIs.KeywordData.APIKey,
			Timeout: config.GetDuration(cfg.APIs.KeywordData.Timeout),
		}, log)
		deps.Trends = trends.NewClient(trends.Config{
			BaseURL: cfg.APIs.KeywordData.BaseURL,
			Timeout: config.GetDuration(cfg.APIs.KeywordData.Timeout),
		}, log)
	}

	engine, err := pipeline.NewEngine(deps)
	if err != nil {
		zapLog.Fatal("engine init failed", zap.Error(err))
	}

	result, err := engine.Generate(ctx, profile, cfg.Generation)
	if err != nil {
		zapLog.Fatal("generation failed", zap.Error(err))
	}

	if err := writeResult(*outPath, result); err != nil {
		zapLog.Fatal("result write failed", zap.Error(err))
	}
}

func readProfile(path string) (models.CompanyProfile, error) {
	var profile models.CompanyProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse %s: %w", path, err)
	}
	return profile, nil
}

func writeResult(path string, result *models.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
