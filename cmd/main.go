package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/PiyushChall/CogniSynapseRank/internal/handlers"
  "github.com/PiyushChall/CogniSynapseRank/internal/logger"
  "github.com/PiyushChall/CogniSynapseRank/internal/server"
  "github.com/PiyushChall/CogniSynapseRank/internal/services"
  "github.com/PiyushChall/CogniSynapseRank/internal/tasks"
  "github.com/PiyushChall/CogniSynapseRank/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  retentionSec := utils.GetEnvAsInt("TASK_RETENTION_SECONDS", 0, log)

  // Task registry
  log.Info("Setting up task registry from main...")
  registry := tasks.NewRegistry(log, tasks.RegistryConfig{
    Retention: time.Duration(retentionSec) * time.Second,
  })
  registry.StartSweeper(context.Background())

  // Services
  log.Info("Setting up services from main...")
  geminiClient, err := services.NewGeminiClient(log)
  if err != nil {
    log.Error("Could not init GeminiClient", "error", err)
    os.Exit(1)
  }
  pageFetcher := services.NewPageFetcher(log)
  analysisService := services.NewAnalysisService(log, registry, pageFetcher, geminiClient)

  // Handlers
  log.Info("Setting up handlers from main...")
  analysisHandler := handlers.NewAnalysisHandler(log, analysisService, registry)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AnalysisHandler: analysisHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
