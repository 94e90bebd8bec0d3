package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-bridge/internal/config"
	"github.com/telhawk-systems/telhawk-bridge/internal/hec"
	"github.com/telhawk-systems/telhawk-bridge/internal/logging"
)

// fakeCollector is an in-process stand-in for the collection endpoint.
// It records every delivered event line so tests can assert on batch
// size, ordering, and metadata.
type fakeCollector struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests int
	lines    []string
	status   int // non-zero forces that HTTP status with no body
}

func newFakeCollector(t *testing.T) *fakeCollector {
	t.Helper()

	fc := &fakeCollector{}
	fc.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}

		fc.mu.Lock()
		fc.requests++
		for _, line := range strings.Split(string(body), "\n") {
			if line != "" {
				fc.lines = append(fc.lines, line)
			}
		}
		status := fc.status
		fc.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(hec.Response{Text: "Success", Code: 0})
	}))
	t.Cleanup(fc.srv.Close)

	return fc
}

func (fc *fakeCollector) relay() *hec.Client {
	return hec.NewClient(hec.Config{
		URL:     fc.srv.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	})
}

func (fc *fakeCollector) requestCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.requests
}

// sentEvent is the collector-side view of one delivered event.
type sentEvent struct {
	Time       *float64               `json:"time"`
	Host       string                 `json:"host"`
	Source     string                 `json:"source"`
	SourceType string                 `json:"sourcetype"`
	Index      string                 `json:"index"`
	Event      map[string]interface{} `json:"event"`
}

func (fc *fakeCollector) sentEvents(t *testing.T) []sentEvent {
	t.Helper()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	events := make([]sentEvent, 0, len(fc.lines))
	for i, line := range fc.lines {
		var ev sentEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev), "line %d is not valid event JSON", i)
		events = append(events, ev)
	}
	return events
}

// mockFetcher is a function-field mock of objectstore.Fetcher.
type mockFetcher struct {
	fetchFunc func(ctx context.Context, bucket, key string) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, bucket, key)
	}
	return nil, errors.New("not implemented")
}

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func testLogger() *logging.Logger {
	return logging.New(slog.LevelError, "text")
}

func testForwarderConfig() config.ForwarderConfig {
	return config.ForwarderConfig{
		Host:   "serverless",
		Source: "test-source",
	}
}
