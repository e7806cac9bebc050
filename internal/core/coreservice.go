package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jo-hoe/ambitions/internal/backend/database"
)

// StorageKey is the key the whole collection is stored under.
const StorageKey = "ambitions"

const persistTimeout = 10 * time.Second

// CoreService owns the session collection. Every change replaces the whole
// slice and writes it back to storage.
type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	seed            SeedSource
	now             func() time.Time
	pickStory       func(int) int

	mu        sync.RWMutex
	ambitions []Ambition
}

type Option func(*CoreService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *CoreService) { s.now = now }
}

// WithStoryPicker fixes which story template is chosen.
func WithStoryPicker(pick func(int) int) Option {
	return func(s *CoreService) { s.pickStory = pick }
}

func WithSeedSource(seed SeedSource) Option {
	return func(s *CoreService) { s.seed = seed }
}

func WithDatabase(db database.DatabaseService) Option {
	return func(s *CoreService) { s.databaseService = db }
}

func NewCoreService(ctx context.Context, config *ServiceConfig, opts ...Option) (*CoreService, error) {
	service := &CoreService{
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	if service.seed == nil {
		service.seed = NewSeedSource(config.Seed, nil)
	}
	if service.databaseService == nil {
		databaseService, err := getDatabaseService(ctx, config)
		if err != nil {
			return nil, err
		}
		service.databaseService = databaseService
	}
	return service, nil
}

func getDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx, config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

// Now returns the current time in the configured timezone.
func (service *CoreService) Now() time.Time {
	return service.now().In(service.config.Location())
}

// Load restores the collection from storage. An absent or empty stored
// collection is replaced by the seed, which is then persisted. Decode and
// fetch failures leave an empty collection; they are logged, never returned.
func (service *CoreService) Load(ctx context.Context) {
	records, ok := service.loadStored(ctx)
	if ok && len(records) > 0 {
		service.replace(records)
		slog.Info("loaded ambitions from storage", "count", len(records))
		return
	}
	if !ok {
		service.replace(nil)
		return
	}

	seeded, err := service.seed.LoadSeed(ctx)
	if err != nil {
		storageFailures.WithLabelValues("seed").Inc()
		slog.Error("failed to load seed ambitions", "error", err)
		service.replace(nil)
		return
	}
	service.replace(seeded)
	slog.Info("loaded ambitions from seed", "count", len(seeded))
	service.persist(ctx, seeded)
}

// loadStored returns ok=false only when stored data exists but is unusable.
func (service *CoreService) loadStored(ctx context.Context) ([]Ambition, bool) {
	data, found, err := service.databaseService.GetValue(ctx, StorageKey)
	if err != nil {
		storageFailures.WithLabelValues("read").Inc()
		slog.Error("failed to read ambitions from storage", "error", err)
		return nil, false
	}
	if !found {
		return nil, true
	}
	records, err := decodeRecords(data)
	if err != nil {
		storageFailures.WithLabelValues("decode").Inc()
		slog.Error("failed to parse ambitions from storage", "error", err)
		return nil, false
	}
	return records, true
}

func (service *CoreService) replace(records []Ambition) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.ambitions = slices.Clone(records)
	collectionSize.Set(float64(len(service.ambitions)))
}

// persist writes records even when ctx is already cancelled, so a client
// that disconnects after an add cannot leave storage behind memory.
func (service *CoreService) persist(ctx context.Context, records []Ambition) {
	data, err := json.Marshal(records)
	if err != nil {
		slog.Error("failed to serialize ambitions", "error", err)
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := service.databaseService.SetValue(writeCtx, StorageKey, data); err != nil {
		storageFailures.WithLabelValues("write").Inc()
		slog.Error("failed to save ambitions to storage", "error", err, "count", len(records))
	}
}

// Ambitions returns a copy of the collection in insertion order.
func (service *CoreService) Ambitions() []Ambition {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return slices.Clone(service.ambitions)
}

func (service *CoreService) GetAmbition(id int64) (Ambition, bool) {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return FindByID(service.ambitions, id)
}

// AddAmbition appends one record built from submission and persists the
// collection. imageURL may be empty, in which case a placeholder is used.
func (service *CoreService) AddAmbition(ctx context.Context, submission Submission, imageURL string) Ambition {
	service.mu.Lock()
	defer service.mu.Unlock()

	timestamp := nextTimestamp(service.ambitions, service.now().UnixMilli())
	record := NewAmbition(submission, timestamp, imageURL, service.pickStory)
	updated := append(slices.Clone(service.ambitions), record)
	service.ambitions = updated
	collectionSize.Set(float64(len(updated)))
	ambitionsAdded.Inc()
	slog.Info("ambition added", "id", record.ID, "name", record.Name)

	// Written under the lock so snapshots reach storage in order.
	service.persist(ctx, updated)
	return record
}

// Import appends records whose ids are not yet present, keeping their
// original order, and persists the result. It returns how many were added.
func (service *CoreService) Import(ctx context.Context, records []Ambition) int {
	service.mu.Lock()
	defer service.mu.Unlock()

	known := make(map[int64]bool, len(service.ambitions))
	for _, record := range service.ambitions {
		known[record.ID] = true
	}
	updated := slices.Clone(service.ambitions)
	for _, record := range records {
		if known[record.ID] {
			continue
		}
		known[record.ID] = true
		updated = append(updated, record)
	}
	added := len(updated) - len(service.ambitions)
	if added == 0 {
		return 0
	}
	service.ambitions = updated
	collectionSize.Set(float64(len(updated)))
	slog.Info("ambitions imported", "added", added, "skipped", len(records)-added)
	service.persist(ctx, updated)
	return added
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}
