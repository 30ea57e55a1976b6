package services

import (
  "bytes"
  "context"
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/PuerkitoBio/goquery"

  "github.com/PiyushChall/CogniSynapseRank/internal/logger"
  "github.com/PiyushChall/CogniSynapseRank/internal/utils"
)

// PageFetcher retrieves a page and reduces it to plain text for the
// analysis prompts.
type PageFetcher interface {
  Fetch(ctx context.Context, pageURL string) (string, error)
}

// FetchError reports an unreachable target, a timeout, or a non-success
// status during the fetch stage.
type FetchError struct {
  URL string
  Err error
}

func (e *FetchError) Error() string {
  return fmt.Sprintf("error fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

const maxPageBytes = 5 * 1024 * 1024

type pageFetcher struct {
  log        *logger.Logger
  httpClient *http.Client
}

func NewPageFetcher(log *logger.Logger) PageFetcher {
  timeoutSec := utils.GetEnvAsInt("FETCH_TIMEOUT_SECONDS", 10, log)
  return &pageFetcher{
    log:        log.With("service", "PageFetcher"),
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
  }
}

func (f *pageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
  if err != nil {
    return "", &FetchError{URL: pageURL, Err: err}
  }
  req.Header.Set("User-Agent", "CogniSynapseRank/1.0")

  resp, err := f.httpClient.Do(req)
  if err != nil {
    return "", &FetchError{URL: pageURL, Err: err}
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return "", &FetchError{URL: pageURL, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
  }

  body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
  if err != nil {
    return "", &FetchError{URL: pageURL, Err: fmt.Errorf("read body: %w", err)}
  }

  f.log.Debug("page fetched", "url", pageURL, "bytes", len(body))
  return extractText(body), nil
}

// extractText strips markup and boilerplate elements and collapses the
// remaining text to single-space separated words.
func extractText(html []byte) string {
  doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
  if err != nil {
    return ""
  }

  doc.Find("script, style, noscript, iframe").Remove()

  text := strings.TrimSpace(doc.Find("body").Text())
  return strings.Join(strings.Fields(text), " ")
}
