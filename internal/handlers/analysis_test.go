package handlers

import (
  "context"
  "encoding/json"
  "fmt"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/PiyushChall/CogniSynapseRank/internal/logger"
  "github.com/PiyushChall/CogniSynapseRank/internal/services"
  "github.com/PiyushChall/CogniSynapseRank/internal/tasks"
  "github.com/PiyushChall/CogniSynapseRank/internal/types"
)

type fakeAnalysisService struct {
  registry *tasks.Registry
  lastReq  *types.AnalysisRequest
}

func (s *fakeAnalysisService) Submit(ctx context.Context, req *types.AnalysisRequest) (uuid.UUID, error) {
  if req == nil || strings.TrimSpace(req.MainURL) == "" {
    return uuid.Nil, fmt.Errorf("missing main_url")
  }
  s.lastReq = req
  task := tasks.NewTask(req)
  s.registry.Register(task)
  return task.ID, nil
}

var _ services.AnalysisService = (*fakeAnalysisService)(nil)

func newTestRouter(t *testing.T) (*gin.Engine, *tasks.Registry, *fakeAnalysisService) {
  t.Helper()
  gin.SetMode(gin.TestMode)
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  registry := tasks.NewRegistry(log, tasks.RegistryConfig{})
  svc := &fakeAnalysisService{registry: registry}
  handler := NewAnalysisHandler(log, svc, registry)

  router := gin.New()
  router.POST("/analyze", handler.Analyze)
  router.GET("/results/:task_id", handler.GetResults)
  return router, registry, svc
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
  t.Helper()
  req := httptest.NewRequest(method, path, strings.NewReader(body))
  req.Header.Set("Content-Type", "application/json")
  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, req)

  var payload map[string]any
  if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
    t.Fatalf("response %q is not JSON: %v", rec.Body.String(), err)
  }
  return rec, payload
}

func TestAnalyzeReturnsTaskID(t *testing.T) {
  router, registry, svc := newTestRouter(t)

  rec, payload := doJSON(t, router, http.MethodPost, "/analyze",
    `{"main_url": "http://example.com", "comparison_urls": ["http://other.example"]}`)

  if rec.Code != http.StatusOK {
    t.Fatalf("status = %d, want 200", rec.Code)
  }
  if payload["message"] != "Analysis started. Check /results for updates." {
    t.Fatalf("message = %v", payload["message"])
  }
  idStr, _ := payload["task_id"].(string)
  taskID, err := uuid.Parse(idStr)
  if err != nil {
    t.Fatalf("task_id %q is not a uuid: %v", idStr, err)
  }
  if _, err := registry.Lookup(taskID); err != nil {
    t.Fatalf("returned task_id does not resolve: %v", err)
  }
  if len(svc.lastReq.ComparisonURLs) != 1 {
    t.Fatalf("comparison_urls not carried: %+v", svc.lastReq)
  }
}

func TestAnalyzeRejectsMalformedRequests(t *testing.T) {
  cases := []struct {
    name string
    body string
  }{
    {name: "missing main_url", body: `{"comparison_urls": []}`},
    {name: "empty body", body: ``},
    {name: "invalid json", body: `{`},
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      router, _, _ := newTestRouter(t)
      rec, payload := doJSON(t, router, http.MethodPost, "/analyze", tc.body)
      if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d, want 400", rec.Code)
      }
      if _, ok := payload["error"]; !ok {
        t.Fatalf("expected error envelope, got %v", payload)
      }
    })
  }
}

func TestGetResultsStatusTransitions(t *testing.T) {
  router, registry, _ := newTestRouter(t)

  task := tasks.NewTask(&types.AnalysisRequest{MainURL: "http://example.com"})
  registry.Register(task)
  path := "/results/" + task.ID.String()

  // nothing pushed yet
  _, payload := doJSON(t, router, http.MethodGet, path, "")
  if payload["status"] != tasks.StatusProcessing {
    t.Fatalf("status = %v, want %q", payload["status"], tasks.StatusProcessing)
  }

  task.Push("Keyword Analysis Started")
  _, payload = doJSON(t, router, http.MethodGet, path, "")
  if payload["status"] != "Keyword Analysis Started" {
    t.Fatalf("status = %v, want pending event", payload["status"])
  }

  task.Finish("Analysis Completed", &types.AnalysisResults{})
  _, payload = doJSON(t, router, http.MethodGet, path, "")
  if payload["status"] != "Analysis Completed" {
    t.Fatalf("status = %v, want terminal", payload["status"])
  }
  // stable after drain
  _, payload = doJSON(t, router, http.MethodGet, path, "")
  if payload["status"] != "Analysis Completed" {
    t.Fatalf("drained status = %v, want stable terminal", payload["status"])
  }
}

func TestGetResultsUnknownTask(t *testing.T) {
  router, _, _ := newTestRouter(t)

  cases := []struct {
    name string
    path string
  }{
    {name: "never issued", path: "/results/" + uuid.NewString()},
    {name: "not a uuid", path: "/results/12345"},
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      rec, payload := doJSON(t, router, http.MethodGet, tc.path, "")
      if rec.Code != http.StatusOK {
        t.Fatalf("status code = %d, want 200", rec.Code)
      }
      if payload["status"] != tasks.StatusNotFound {
        t.Fatalf("status = %v, want %q", payload["status"], tasks.StatusNotFound)
      }
    })
  }
}
