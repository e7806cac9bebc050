package core

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

//go:embed seed/ambitions.json
var seedFS embed.FS

const embeddedSeedPath = "seed/ambitions.json"

// SeedSource loads the static fallback dataset.
type SeedSource interface {
	LoadSeed(ctx context.Context) ([]Ambition, error)
}

// NewSeedSource picks the configured source: URL first, then file path,
// then the dataset compiled into the binary.
func NewSeedSource(seed Seed, client *http.Client) SeedSource {
	switch {
	case seed.URL != "":
		if client == nil {
			client = &http.Client{Timeout: seed.Timeout}
		}
		return &httpSeed{url: seed.URL, client: client}
	case seed.Path != "":
		return fileSeed(seed.Path)
	}
	return embeddedSeed{}
}

type httpSeed struct {
	url    string
	client *http.Client
}

func (s *httpSeed) LoadSeed(ctx context.Context) ([]Ambition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed from %s: %w", s.url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch seed from %s: status %d", s.url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed body: %w", err)
	}
	return decodeRecords(data)
}

type fileSeed string

func (s fileSeed) LoadSeed(context.Context) ([]Ambition, error) {
	data, err := os.ReadFile(string(s))
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", string(s), err)
	}
	return decodeRecords(data)
}

type embeddedSeed struct{}

func (embeddedSeed) LoadSeed(context.Context) ([]Ambition, error) {
	data, err := seedFS.ReadFile(embeddedSeedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded seed: %w", err)
	}
	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]Ambition, error) {
	var records []Ambition
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse ambitions: %w", err)
	}
	return records, nil
}
