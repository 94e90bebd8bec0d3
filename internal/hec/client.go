package hec

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/telhawk-systems/telhawk-bridge/internal/metrics"
)

// Config holds the collection endpoint settings. It is read once at
// process start and never mutated afterwards.
type Config struct {
	// URL is the full collector endpoint, e.g.
	// https://hec.example.com:8088/services/collector/event
	URL   string
	Token string

	// RetryMax is the number of retries for transient transport
	// failures on a single flush.
	RetryMax int

	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Client sends batched events to an HEC-compatible collection endpoint.
// It holds no buffered state and is safe to construct once per process;
// per-invocation buffering lives in Batch.
type Client struct {
	url        string
	token      string
	httpClient *retryablehttp.Client
}

// NewClient creates a Client for the configured endpoint.
func NewClient(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.Logger = nil
	// Invocations run against a short external deadline; keep backoff tight.
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second

	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	if cfg.InsecureSkipVerify {
		rc.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		url:        cfg.URL,
		token:      cfg.Token,
		httpClient: rc,
	}
}

// URL returns the configured collector endpoint.
func (c *Client) URL() string {
	return c.url
}

// NewBatch returns an empty buffer bound to this client. A Batch is
// scoped to one invocation and must not be shared across goroutines.
func (c *Client) NewBatch() *Batch {
	return &Batch{client: c}
}

// Batch accumulates events for a single flush.
type Batch struct {
	client *Client
	events []Event
}

// Add appends an event to the buffer in arrival order. It performs no
// network I/O and never fails.
func (b *Batch) Add(ev Event) {
	b.events = append(b.events, ev)
}

// Len returns the number of buffered events.
func (b *Batch) Len() int {
	return len(b.events)
}

// Flush transmits all buffered events to the collection endpoint in a
// single request and returns the number of events sent. An empty batch
// flushes without a network call. On error the buffer contents are
// undefined; the whole invocation is the unit of retry.
func (b *Batch) Flush(ctx context.Context) (int, error) {
	n := len(b.events)
	if n == 0 {
		return 0, nil
	}

	payload, err := b.encode()
	if err != nil {
		return 0, fmt.Errorf("encode batch: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, b.client.url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Splunk "+b.client.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.client.httpClient.Do(req)
	metrics.FlushDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var status Response
	if err := json.Unmarshal(body, &status); err != nil {
		return 0, &TransportError{Err: fmt.Errorf("malformed response: %w", err)}
	}

	// A response that decodes but reports failure is a failure, even
	// when the HTTP layer looks healthy.
	if resp.StatusCode < 200 || resp.StatusCode > 299 || status.Code != 0 {
		return 0, &StatusError{
			HTTPStatus: resp.StatusCode,
			Code:       status.Code,
			Text:       status.Text,
		}
	}

	metrics.PayloadBytes.Add(float64(len(payload)))
	b.events = nil
	return n, nil
}

// encode serializes the buffer as newline-delimited event JSON, the
// batched submission format the collector accepts.
func (b *Batch) encode() ([]byte, error) {
	var buf bytes.Buffer
	for i, ev := range b.events {
		data, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("marshal event %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
