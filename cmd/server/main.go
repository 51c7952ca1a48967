package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/hireloop/devscout/internal/adapter/ai"
	"github.com/hireloop/devscout/internal/adapter/github"
	"github.com/hireloop/devscout/internal/adapter/sandbox"
	"github.com/hireloop/devscout/internal/adapter/store"
	"github.com/hireloop/devscout/internal/adapter/websearch"
	"github.com/hireloop/devscout/internal/handler"
	"github.com/hireloop/devscout/internal/middleware"
	"github.com/hireloop/devscout/internal/service"
	"github.com/hireloop/devscout/pkg/config"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting DevScout AI",
		"port", cfg.Port,
		"gemini_model", cfg.GeminiModel,
		"rank_concurrency", cfg.RankConcurrency,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	githubClient := github.NewClient(cfg.GitHubAPIBase, cfg.GitHubToken)
	searchClient := websearch.NewClient(cfg.SearchAPIBase, cfg.SearchAPIKey)
	sandboxClient := sandbox.NewClient(cfg.SandboxAPIBase, cfg.SandboxAPIKey)

	geminiAI, err := ai.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("failed to create gemini provider", "error", err)
		os.Exit(1)
	}

	// ── Services ─────────────────────────────────────────────────────────
	rankingService := service.NewRankingService(githubClient, pgStore, cfg.TopCandidates, cfg.RankConcurrency)
	analysisService := service.NewAnalysisService(sandboxClient, geminiAI, cfg.AnalysisTimeout, cfg.AnalysisStepLimit)
	researchService := service.NewResearchService(searchClient, geminiAI, cfg.ResearchMaxResults)
	chatService := service.NewChatService(geminiAI, rankingService, analysisService, researchService)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // SSE streams outlive normal responses
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(pgStore))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	handler.NewRankHandler(rankingService).Register(api)
	handler.NewHistoryHandler(pgStore).Register(api)
	handler.NewAnalysisHandler(analysisService).Register(api)
	handler.NewResearchHandler(researchService).Register(api)
	handler.NewChatHandler(chatService).Register(api)
	handler.NewCollabHandler(githubClient).Register(api)

	// ── Graceful shutdown ────────────────────────────────────────────────
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down")
		_ = app.Shutdown()
	}()

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
