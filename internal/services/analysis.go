package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"

  "github.com/PiyushChall/CogniSynapseRank/internal/logger"
  "github.com/PiyushChall/CogniSynapseRank/internal/tasks"
  "github.com/PiyushChall/CogniSynapseRank/internal/types"
)

// AnalysisService runs the SEO analysis pipeline. Submit registers a task
// and returns its identifier immediately; the run itself proceeds in its
// own goroutine and reports through the task's progress queue.
type AnalysisService interface {
  Submit(ctx context.Context, req *types.AnalysisRequest) (uuid.UUID, error)
}

type analysisService struct {
  log      *logger.Logger
  registry *tasks.Registry
  fetcher  PageFetcher
  ai       TextGenerator
}

func NewAnalysisService(log *logger.Logger, registry *tasks.Registry, fetcher PageFetcher, ai TextGenerator) AnalysisService {
  return &analysisService{
    log:      log.With("service", "AnalysisService"),
    registry: registry,
    fetcher:  fetcher,
    ai:       ai,
  }
}

func (s *analysisService) Submit(ctx context.Context, req *types.AnalysisRequest) (uuid.UUID, error) {
  if req == nil || strings.TrimSpace(req.MainURL) == "" {
    return uuid.Nil, fmt.Errorf("missing main_url")
  }

  task := tasks.NewTask(req)
  s.registry.Register(task)

  // The run outlives the submitting request, so it gets its own context.
  go s.runAnalysis(context.Background(), task)

  s.log.Info("analysis submitted", "task_id", task.ID, "main_url", req.MainURL)
  return task.ID, nil
}

// runAnalysis executes the stages in their fixed dependency order.
// Stages 2-5 are independent of each other but visualizer and manager
// consume their plain-text outputs, so the whole chain stays sequential.
func (s *analysisService) runAnalysis(ctx context.Context, task *tasks.Task) {
  log := s.log.With("task_id", task.ID)

  fail := func(stage string, err error) {
    log.Warn("analysis run failed", "stage", stage, "error", err)
    task.Finish(fmt.Sprintf("Analysis Failed: %v", err), nil)
  }

  mainURL := task.Request.MainURL

  content, err := s.fetcher.Fetch(ctx, mainURL)
  if err != nil {
    fail("fetch", err)
    return
  }

  task.Push("Keyword Analysis Started")
  keywordResults, err := s.keywordAnalysis(ctx, mainURL, content)
  if err != nil {
    fail("keyword", err)
    return
  }
  task.Push("Keyword Analysis Completed")

  task.Push("Content Analysis Started")
  contentResults, err := s.contentAnalysis(ctx, mainURL, content)
  if err != nil {
    fail("content", err)
    return
  }
  task.Push("Content Analysis Completed")

  task.Push("On Page Analysis Started")
  onpageResults, err := s.onpageAnalysis(ctx, mainURL, content)
  if err != nil {
    fail("onpage", err)
    return
  }
  task.Push("On Page Analysis Completed")

  task.Push("Link Building Analysis Started")
  linkbuildingResults, err := s.linkbuilding(ctx, mainURL)
  if err != nil {
    fail("linkbuilding", err)
    return
  }
  task.Push("Link Building Analysis Completed")

  task.Push("Visualization Started")
  visualizerResults, err := s.visualizer(ctx, keywordResults, contentResults, linkbuildingResults)
  if err != nil {
    fail("visualizer", err)
    return
  }
  task.Push("Visualization Completed")

  allResults := fmt.Sprintf(
    "Keyword Results:\n%s\nContent Results:\n%s\nVisualizer Results:\n%s\nOnpage Results:\n%s\nLinkBuilding Results:\n%s",
    keywordResults, contentResults, visualizerResults, onpageResults, linkbuildingResults,
  )

  task.Push("Manager AI Started")
  managerResults, err := s.managerCheck(ctx, allResults)
  if err != nil {
    fail("manager", err)
    return
  }
  task.Push("Manager AI Completed")

  task.Finish("Analysis Completed", &types.AnalysisResults{
    KeywordResults:      keywordResults,
    ContentResults:      contentResults,
    VisualizerResults:   visualizerResults,
    ManagerResults:      managerResults,
    OnpageResults:       onpageResults,
    LinkbuildingResults: linkbuildingResults,
  })
  log.Info("analysis completed", "main_url", mainURL)
}

func (s *analysisService) keywordAnalysis(ctx context.Context, pageURL, content string) (string, error) {
  prompt := fmt.Sprintf("Analyze keywords from this page: %s\nContent: %s\nProvide keywords, search volume, traffic potential, business potential, search intent matching, and keyword modifiers.", pageURL, content)
  return s.ai.Generate(ctx, prompt)
}

func (s *analysisService) contentAnalysis(ctx context.Context, pageURL, content string) (string, error) {
  prompt := fmt.Sprintf("Analyze content, elements, and metadata of this page: %s\nContent: %s\nProvide recommendations.", pageURL, content)
  return s.ai.Generate(ctx, prompt)
}

func (s *analysisService) onpageAnalysis(ctx context.Context, pageURL, content string) (string, error) {
  prompt := fmt.Sprintf("Analyze on-page SEO for this page: %s\nContent: %s\nProvide recommendations for titles, subheadings, internal linking, readability, and content optimization.", pageURL, content)
  return s.ai.Generate(ctx, prompt)
}

func (s *analysisService) linkbuilding(ctx context.Context, pageURL string) (string, error) {
  prompt := fmt.Sprintf("Analyze link building potential for this page: %s\nProvide recommendations for creating backlinks and earning backlinks.", pageURL)
  return s.ai.Generate(ctx, prompt)
}

func (s *analysisService) visualizer(ctx context.Context, keywordResults, contentResults, linkbuildingResults string) (string, error) {
  prompt := fmt.Sprintf("Keyword Analysis Results: %s\nContent Analysis Results: %s\nLinkBuilding Results: %s\nGenerate tables/graphs for keywords, content, and linkbuilding recommendations.", keywordResults, contentResults, linkbuildingResults)
  return s.ai.Generate(ctx, prompt)
}

func (s *analysisService) managerCheck(ctx context.Context, results string) (string, error) {
  prompt := fmt.Sprintf("Proofread and validate the following results:\n%s\nProvide feedback on accuracy and consistency.", results)
  return s.ai.Generate(ctx, prompt)
}
