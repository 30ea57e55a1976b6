package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/PiyushChall/CogniSynapseRank/internal/handlers"
)

type RouterConfig struct {
  AnalysisHandler   *handlers.AnalysisHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  router.POST("/analyze", cfg.AnalysisHandler.Analyze)
  router.GET("/results/:task_id", cfg.AnalysisHandler.GetResults)

  return router
}
