package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"millex/internal"
	"millex/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConnector(t *testing.T, rt roundTripFunc) *ExportConnector {
	t.Helper()
	cfg, _ := config.Load()
	cfg.FetchRateLimitRPS = 1000

	conn := NewExportConnector(cfg)
	conn.httpClient = &http.Client{Transport: rt}
	return conn
}

func TestExportDownload(t *testing.T) {
	conn := testConnector(t, func(r *http.Request) (*http.Response, error) {
		if !strings.Contains(r.URL.String(), "sheet-1/export") {
			t.Fatalf("unexpected url %s", r.URL)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("workbook-bytes")),
			Header:     make(http.Header),
		}, nil
	})

	blob, err := conn.Download(context.Background(), "sheet-1")
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "workbook-bytes" {
		t.Fatalf("blob=%q", blob)
	}
}

func TestExportDownloadNonSuccess(t *testing.T) {
	conn := testConnector(t, func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("missing")),
			Header:     make(http.Header),
		}, nil
	})

	_, err := conn.Download(context.Background(), "sheet-1")
	var fetchErr *internal.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Status != http.StatusNotFound {
		t.Fatalf("status=%d", fetchErr.Status)
	}
}

func TestExportDownloadEmptySourceID(t *testing.T) {
	conn := testConnector(t, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	if _, err := conn.Download(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty source id")
	}
}
