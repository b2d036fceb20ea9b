package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"millex/internal"
	"millex/internal/config"
)

// ExportConnector downloads a public Google Sheet through its xlsx export
// endpoint. No credentials are involved; the sheet must be shared publicly.
type ExportConnector struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewExportConnector(cfg config.Config) *ExportConnector {
	return &ExportConnector{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.FetchRateLimitRPS),
	}
}

func (c *ExportConnector) Download(ctx context.Context, sourceID string) ([]byte, error) {
	if strings.TrimSpace(sourceID) == "" {
		return nil, &internal.FetchError{SourceID: sourceID, Err: fmt.Errorf("empty source id")}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &internal.FetchError{SourceID: sourceID, Err: err}
	}

	url := fmt.Sprintf(c.cfg.ExportURLTemplate, sourceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &internal.FetchError{SourceID: sourceID, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &internal.FetchError{SourceID: sourceID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &internal.FetchError{SourceID: sourceID, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &internal.FetchError{SourceID: sourceID, Err: err}
	}
	return body, nil
}
