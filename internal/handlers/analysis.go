package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/PiyushChall/CogniSynapseRank/internal/logger"
  "github.com/PiyushChall/CogniSynapseRank/internal/services"
  "github.com/PiyushChall/CogniSynapseRank/internal/tasks"
  "github.com/PiyushChall/CogniSynapseRank/internal/types"
)

type AnalysisHandler struct {
  log      *logger.Logger
  svc      services.AnalysisService
  registry *tasks.Registry
}

func NewAnalysisHandler(log *logger.Logger, svc services.AnalysisService, registry *tasks.Registry) *AnalysisHandler {
  return &AnalysisHandler{
    log:      log.With("handler", "AnalysisHandler"),
    svc:      svc,
    registry: registry,
  }
}

// POST /analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
  var req types.AnalysisRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  taskID, err := h.svc.Submit(c.Request.Context(), &req)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  RespondOK(c, gin.H{
    "message": "Analysis started. Check /results for updates.",
    "task_id": taskID,
  })
}

// GET /results/:task_id
//
// Unknown and malformed identifiers both report "Task not found" as a
// status rather than an error: the poller always gets a status string.
func (h *AnalysisHandler) GetResults(c *gin.Context) {
  taskID, err := uuid.Parse(c.Param("task_id"))
  if err != nil {
    RespondOK(c, gin.H{"status": tasks.StatusNotFound})
    return
  }

  task, err := h.registry.Lookup(taskID)
  if err != nil {
    RespondOK(c, gin.H{"status": tasks.StatusNotFound})
    return
  }

  RespondOK(c, gin.H{"status": task.Poll()})
}
