package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"contactuse/internal/agent"
	"contactuse/internal/config"
	"contactuse/internal/core/search"
	"contactuse/internal/health"
	"contactuse/internal/logger"
	"contactuse/internal/platform/browser"
	"contactuse/internal/platform/eino"
	rds "contactuse/internal/platform/redis"
	"contactuse/internal/server"
)

func main() {
	cfg := config.Load()
	logr := logger.New("main")
	logr.LogInfof("starting at %s (env=%s)", cfg.HTTPAddr, cfg.AppEnv)

	// Optional redis publisher for job updates
	var regOpts []search.RegistryOption
	checks := map[string]health.Check{}
	if cfg.RedisAddr != "" {
		redisSvc, err := rds.New(rds.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err != nil {
			logr.LogFatal("failed to connect to redis", err)
		}
		defer redisSvc.Close()
		regOpts = append(regOpts, search.WithPublisher(redisSvc))
		checks["redis"] = redisSvc.HealthCheck
	}

	// LLM planner for the browsing agent. Setup errors surface on each job.
	if cfg.GeminiAPIKey == "" {
		logr.LogWarnf("GEMINI_API_KEY is not set; searches will fail until it is configured")
	}
	planner := eino.NewLazyService(eino.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.DefaultLLMModel,
	})

	browserAgent := agent.New(
		agent.Config{MaxSteps: cfg.AgentMaxSteps, SearchEngineURL: cfg.SearchEngineURL},
		agent.PlaywrightLauncher(browser.Options{ProfileDir: cfg.BrowserProfileDir, Headless: cfg.BrowserHeadless}),
		planner,
	)

	registry := search.NewRegistry(regOpts...)
	searchSvc := search.NewService(registry, browserAgent)

	app := server.New(server.Dependencies{
		Search: searchSvc,
		Health: health.NewHealthHandler(checks),
	})

	// In-flight searches are not drained: they have no cancellation and die
	// with the process.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfof("Shutting down with %d jobs in memory...", registry.Len())
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		logr.LogFatal("server listen", err)
	}
}
