package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jo-hoe/ambitions/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PlaceholderURL is the value shipped in sample configs; it counts as unset.
const PlaceholderURL = "YOUR_GOOGLE_APPS_SCRIPT_WEB_APP_URL_HERE"

type Status string

const (
	StatusIdle         Status = "idle"
	StatusSubmitting   Status = "submitting"
	StatusSuccess      Status = "success"
	StatusError        Status = "error"
	StatusUnconfigured Status = "unconfigured"
)

var submissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ambitions_archive_submissions_total",
	Help: "Archive submissions by final status",
}, []string{"status"})

// Submission is the per-record archive state.
type Submission struct {
	mu     sync.Mutex
	status Status
}

func (s *Submission) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

// start moves idle to submitting. It reports false in any other state.
func (s *Submission) start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != "" && s.status != StatusIdle {
		return false
	}
	s.status = StatusSubmitting
	return true
}

func (s *Submission) finish(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	submissions.WithLabelValues(string(status)).Inc()
}

// Retry returns an errored or unconfigured submission to idle. Other states
// are left alone.
func (s *Submission) Retry() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusError || s.status == StatusUnconfigured {
		s.status = StatusIdle
	}
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

type payload struct {
	core.Ambition
	Status string `json:"status"`
}

type response struct {
	Result string `json:"result"`
}

// Client posts tickets to the spreadsheet-backed archive endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return NewClientWithHTTP(url, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(url string, httpClient *http.Client) *Client {
	return &Client{url: strings.TrimSpace(url), httpClient: httpClient}
}

// Configured reports whether a real endpoint is set.
func (c *Client) Configured() bool {
	return c.url != "" && c.url != PlaceholderURL
}

// Submit runs one archive attempt for ambition and returns the resulting
// status. A submission that is not idle is returned unchanged.
func (c *Client) Submit(ctx context.Context, submission *Submission, ambition core.Ambition) Status {
	if !submission.start() {
		return submission.Status()
	}
	if !c.Configured() {
		slog.Warn("archive endpoint not configured", "id", ambition.ID)
		submission.finish(StatusUnconfigured)
		return StatusUnconfigured
	}
	if err := c.post(ctx, ambition); err != nil {
		slog.Error("failed to archive ambition", "id", ambition.ID, "error", err)
		submission.finish(StatusError)
		return StatusError
	}
	slog.Info("ambition archived", "id", ambition.ID)
	submission.finish(StatusSuccess)
	return StatusSuccess
}

func (c *Client) post(ctx context.Context, ambition core.Ambition) error {
	body, err := json.Marshal(payload{Ambition: ambition, Status: "pending"})
	if err != nil {
		return fmt.Errorf("failed to encode archive payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build archive request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("archive request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("archive endpoint returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read archive response: %w", err)
	}
	var result response
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("unexpected archive response: %w", err)
	}
	if result.Result != "success" {
		return fmt.Errorf("archive endpoint reported %q", result.Result)
	}
	return nil
}

// Tracker holds the archive state of each record for the process lifetime.
type Tracker struct {
	mu          sync.Mutex
	submissions map[int64]*Submission
}

func NewTracker() *Tracker {
	return &Tracker{submissions: map[int64]*Submission{}}
}

// For returns the submission for id, creating an idle one on first use.
func (t *Tracker) For(id int64) *Submission {
	t.mu.Lock()
	defer t.mu.Unlock()
	submission, ok := t.submissions[id]
	if !ok {
		submission = &Submission{}
		t.submissions[id] = submission
	}
	return submission
}
