package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Vovarama1992/assistant-bridge/internal/ai"
	"github.com/Vovarama1992/assistant-bridge/internal/assistant"
	"github.com/Vovarama1992/assistant-bridge/internal/config"
	"github.com/Vovarama1992/assistant-bridge/internal/journal"
	"github.com/Vovarama1992/assistant-bridge/internal/ratelimit"
)

type app struct {
	cfg          *config.Config
	instructions *config.InstructionSource
	factory      *assistant.Factory
	limiter      ratelimit.Limiter
	closers      []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("[app] close error: %v", err)
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config, withLimiter bool) (*app, error) {
	a := &app{cfg: cfg}

	// --- Instruction ---
	a.instructions = config.NewInstructionSource(config.NewInstructionLoader(cfg.ConfigFile))

	// --- Providers ---
	router := ai.NewRouter(cfg.DefaultProvider)

	if cfg.OpenAIAPIKey != "" {
		router.Register("openai", ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			a.Close()
			return nil, err
		}
		router.Register("gemini", gemini)
		a.closers = append(a.closers, gemini.Close)
	}
	if cfg.OllamaEndpoint != "" {
		ollama, err := ai.NewOllamaClient(cfg.OllamaEndpoint)
		if err != nil {
			a.Close()
			return nil, err
		}
		router.Register("ollama", ollama)
	}

	if len(router.Providers()) == 0 {
		log.Println("[app] no providers configured, every turn will degrade to the fallback reply")
	} else {
		log.Printf("[app] providers=%v models=%v", router.Providers(), cfg.Models)
	}

	// --- Journal ---
	var repo journal.Repo = journal.Nop{}
	if cfg.DatabaseURL != "" {
		db, err := journal.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		repo = journal.NewRepo(db, journal.DriverFor(cfg.DatabaseURL))
		if err := repo.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	// --- Rate limit ---
	if withLimiter && cfg.RateLimitPerMinute > 0 {
		if cfg.RedisURL != "" {
			client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				a.Close()
				return nil, err
			}
			a.closers = append(a.closers, client.Close)
			a.limiter = ratelimit.NewRedis(client, cfg.RateLimitPerMinute)
		} else {
			a.limiter = ratelimit.NewMemory(cfg.RateLimitPerMinute)
		}
	}

	if len(cfg.Models) == 0 {
		a.Close()
		return nil, fmt.Errorf("MODELS is empty")
	}

	a.factory = &assistant.Factory{
		Instructions: a.instructions,
		Models:       cfg.Models,
		MaxHistory:   cfg.MaxHistory,
		Completer:    router,
		Journal:      repo,
	}

	return a, nil
}
