package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "math/rand"
  "net"
  "net/http"
  "strconv"
  "strings"
  "time"

  "github.com/PiyushChall/CogniSynapseRank/internal/logger"
  "github.com/PiyushChall/CogniSynapseRank/internal/utils"
)

// TextGenerator is the text-generation collaborator behind every AI stage.
type TextGenerator interface {
  Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationError wraps any failure of the text-generation collaborator.
type GenerationError struct {
  Err error
}

func (e *GenerationError) Error() string {
  return fmt.Sprintf("text generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type geminiClient struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  model      string
  httpClient *http.Client

  maxRetries int
}

func NewGeminiClient(log *logger.Logger) (TextGenerator, error) {
  apiKey := utils.GetEnv("GOOGLE_API_KEY", "", log)
  if apiKey == "" {
    return nil, fmt.Errorf("missing GOOGLE_API_KEY")
  }

  baseURL := utils.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com", log)
  model := utils.GetEnv("GEMINI_MODEL", "gemini-pro", log)
  timeoutSec := utils.GetEnvAsInt("GEMINI_TIMEOUT_SECONDS", 120, log)
  maxRetries := utils.GetEnvAsInt("GEMINI_MAX_RETRIES", 3, log)

  return &geminiClient{
    log:        log.With("service", "GeminiClient"),
    baseURL:    strings.TrimRight(baseURL, "/"),
    apiKey:     apiKey,
    model:      model,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    maxRetries: maxRetries,
  }, nil
}

type geminiHTTPError struct {
  StatusCode int
  Body       string
}

func (e *geminiHTTPError) Error() string {
  return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
  if code == 408 || code == 429 {
    return true
  }
  if code >= 500 && code <= 599 {
    return true
  }
  return false
}

func isRetryableErr(err error) bool {
  if err == nil {
    return false
  }
  if errors.Is(err, context.DeadlineExceeded) {
    return true
  }
  var netErr net.Error
  if errors.As(err, &netErr) && netErr.Timeout() {
    return true
  }
  var httpErr *geminiHTTPError
  if errors.As(err, &httpErr) {
    return isRetryableHTTP(httpErr.StatusCode)
  }
  return false
}

func jitterSleep(base time.Duration) time.Duration {
  // +/- 20%
  if base <= 0 {
    return 0
  }
  j := 0.2
  delta := base.Seconds() * j
  low := base.Seconds() - delta
  high := base.Seconds() + delta
  if low < 0 {
    low = 0
  }
  v := low + rand.Float64()*(high-low)
  return time.Duration(v * float64(time.Second))
}

type geminiPart struct {
  Text string `json:"text"`
}

type geminiContent struct {
  Parts []geminiPart `json:"parts"`
  Role  string       `json:"role,omitempty"`
}

type generateContentRequest struct {
  Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
  Candidates []struct {
    Content      geminiContent `json:"content"`
    FinishReason string        `json:"finishReason"`
  } `json:"candidates"`
}

func (c *geminiClient) doOnce(ctx context.Context, body any) (*http.Response, []byte, error) {
  var buf bytes.Buffer
  if err := json.NewEncoder(&buf).Encode(body); err != nil {
    return nil, nil, err
  }

  path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
  if err != nil {
    return nil, nil, err
  }
  req.Header.Set("Content-Type", "application/json")
  req.Header.Set("x-goog-api-key", c.apiKey)

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, nil, err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return resp, nil, readErr
  }

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return resp, raw, &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }
  return resp, raw, nil
}

func (c *geminiClient) do(ctx context.Context, body any, out any) error {
  backoff := 1 * time.Second

  for attempt := 0; attempt <= c.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return ctx.Err()
    }

    resp, raw, err := c.doOnce(ctx, body)
    if err == nil {
      if uErr := json.Unmarshal(raw, out); uErr != nil {
        return fmt.Errorf("gemini decode error: %w; raw=%s", uErr, string(raw))
      }
      return nil
    }

    if !isRetryableErr(err) {
      return err
    }
    if attempt == c.maxRetries {
      return err
    }

    sleepFor := backoff
    if resp != nil {
      ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
      if ra != "" {
        if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
          sleepFor = time.Duration(secs) * time.Second
        }
      }
    }
    if sleepFor > 10*time.Second {
      sleepFor = 10 * time.Second
    }
    sleepFor = jitterSleep(sleepFor)

    c.log.Warn("Gemini request retrying",
      "attempt", attempt+1,
      "max_retries", c.maxRetries,
      "sleep", sleepFor.String(),
      "error", err.Error(),
    )

    time.Sleep(sleepFor)
    backoff *= 2
  }

  return fmt.Errorf("unreachable retry loop")
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
  req := generateContentRequest{
    Contents: []geminiContent{
      {Parts: []geminiPart{{Text: prompt}}},
    },
  }
  var resp generateContentResponse
  if err := c.do(ctx, req, &resp); err != nil {
    return "", &GenerationError{Err: err}
  }
  if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
    return "", &GenerationError{Err: fmt.Errorf("empty candidate response")}
  }

  var sb strings.Builder
  for _, part := range resp.Candidates[0].Content.Parts {
    sb.WriteString(part.Text)
  }
  return sb.String(), nil
}
