package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jo-hoe/ambitions/internal/backend/database"
)

type stubSeed struct {
	records []Ambition
	err     error
	calls   int
}

func (s *stubSeed) LoadSeed(context.Context) ([]Ambition, error) {
	s.calls++
	return s.records, s.err
}

func newTestDatabase(t *testing.T) database.DatabaseService {
	t.Helper()
	db, err := database.NewDatabase(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	return db
}

func newTestCoreService(t *testing.T, db database.DatabaseService, seed SeedSource, now time.Time) *CoreService {
	t.Helper()
	cfg := &ServiceConfig{}
	cfg.ApplyDefaults()
	svc, err := NewCoreService(context.Background(), cfg,
		WithDatabase(db),
		WithSeedSource(seed),
		WithClock(func() time.Time { return now }),
		WithStoryPicker(func(int) int { return 0 }),
	)
	if err != nil {
		t.Fatalf("NewCoreService error: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func storedRecords(t *testing.T, db database.DatabaseService) []Ambition {
	t.Helper()
	data, found, err := db.GetValue(context.Background(), StorageKey)
	if err != nil || !found {
		t.Fatalf("expected stored collection, found=%v err=%v", found, err)
	}
	var records []Ambition
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("stored collection is not JSON: %v", err)
	}
	return records
}

func TestLoad_SeedsEmptyStorage(t *testing.T) {
	db := newTestDatabase(t)
	seed := &stubSeed{records: []Ambition{{ID: 1, Name: "Amy"}, {ID: 2, Name: "Leo"}}}
	svc := newTestCoreService(t, db, seed, fixedNow)

	svc.Load(context.Background())

	if got := len(svc.Ambitions()); got != 2 {
		t.Fatalf("expected 2 seeded ambitions, got %d", got)
	}
	if got := len(storedRecords(t, db)); got != 2 {
		t.Fatalf("expected seed to be persisted, got %d stored", got)
	}
}

func TestLoad_EmptyArrayFallsBackToSeed(t *testing.T) {
	db := newTestDatabase(t)
	if err := db.SetValue(context.Background(), StorageKey, []byte("[]")); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	seed := &stubSeed{records: []Ambition{{ID: 1}}}
	svc := newTestCoreService(t, db, seed, fixedNow)

	svc.Load(context.Background())

	if seed.calls != 1 || len(svc.Ambitions()) != 1 {
		t.Fatalf("expected seed fallback, calls=%d len=%d", seed.calls, len(svc.Ambitions()))
	}
}

func TestLoad_PrefersStorage(t *testing.T) {
	db := newTestDatabase(t)
	if err := db.SetValue(context.Background(), StorageKey, []byte(`[{"id":5,"name":"Stored"}]`)); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	seed := &stubSeed{records: []Ambition{{ID: 1}}}
	svc := newTestCoreService(t, db, seed, fixedNow)

	svc.Load(context.Background())

	got := svc.Ambitions()
	if seed.calls != 0 {
		t.Fatalf("seed must not be fetched when storage has records")
	}
	if len(got) != 1 || got[0].Name != "Stored" {
		t.Fatalf("unexpected collection: %+v", got)
	}
}

func TestLoad_CorruptStorageYieldsEmpty(t *testing.T) {
	db := newTestDatabase(t)
	if err := db.SetValue(context.Background(), StorageKey, []byte("{not json")); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	seed := &stubSeed{records: []Ambition{{ID: 1}}}
	svc := newTestCoreService(t, db, seed, fixedNow)

	svc.Load(context.Background())

	if len(svc.Ambitions()) != 0 {
		t.Fatalf("expected empty collection after parse failure")
	}
}

func TestLoad_SeedFailureYieldsEmpty(t *testing.T) {
	db := newTestDatabase(t)
	svc := newTestCoreService(t, db, &stubSeed{err: errors.New("offline")}, fixedNow)

	svc.Load(context.Background())

	if len(svc.Ambitions()) != 0 {
		t.Fatalf("expected empty collection after seed failure")
	}
}

func TestAddAmbition_AppendsExactlyOneWithDistinctIDs(t *testing.T) {
	db := newTestDatabase(t)
	nowMillis := fixedNow.UnixMilli()
	existing := []Ambition{
		{ID: nowMillis, Name: "Same ms", CreatedAt: nowMillis - 10},
		{ID: 3, Name: "Future clock", CreatedAt: nowMillis + 5},
	}
	svc := newTestCoreService(t, db, &stubSeed{records: existing}, fixedNow)
	svc.Load(context.Background())

	sub, err := ParseSubmission(validRaw(), fixedNow)
	if err != nil {
		t.Fatalf("ParseSubmission error: %v", err)
	}
	record := svc.AddAmbition(context.Background(), sub, "")

	all := svc.Ambitions()
	if len(all) != len(existing)+1 {
		t.Fatalf("expected %d records, got %d", len(existing)+1, len(all))
	}
	for _, prior := range existing {
		for _, value := range []int64{prior.ID, prior.CreatedAt} {
			if record.ID == value || record.CreatedAt == value {
				t.Fatalf("new record id/createdAt %d/%d collides with %d", record.ID, record.CreatedAt, value)
			}
		}
	}
	if all[len(all)-1].ID != record.ID {
		t.Fatalf("new record must be appended last")
	}
	if !strings.Contains(record.Story, "Jane Doe") {
		t.Errorf("expected templated story, got %q", record.Story)
	}
	if got := len(storedRecords(t, db)); got != len(all) {
		t.Fatalf("expected %d stored records, got %d", len(all), got)
	}
	if found, ok := svc.GetAmbition(record.ID); !ok || found.Name != "Jane Doe" {
		t.Fatalf("GetAmbition(%d) = %+v, %v", record.ID, found, ok)
	}
}

func TestAddAmbition_ConcurrentIDsUnique(t *testing.T) {
	svc := newTestCoreService(t, newTestDatabase(t), &stubSeed{}, fixedNow)
	sub := Submission{Name: "A", Age: 5, Ambition: "B", TargetYear: 2040}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.AddAmbition(context.Background(), sub, "")
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, record := range svc.Ambitions() {
		if seen[record.ID] {
			t.Fatalf("duplicate id %d", record.ID)
		}
		seen[record.ID] = true
	}
	if len(seen) != 20 {
		t.Fatalf("expected 20 records, got %d", len(seen))
	}
}

func TestAddAmbition_PersistsAfterRequestCancelled(t *testing.T) {
	db := newTestDatabase(t)
	svc := newTestCoreService(t, db, &stubSeed{records: []Ambition{{ID: 1, Name: "Seed"}}}, fixedNow)
	svc.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	record := svc.AddAmbition(ctx, Submission{Name: "Late", Age: 7, Ambition: "Pilot", TargetYear: 2040}, "")

	stored := storedRecords(t, db)
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored records, got %d", len(stored))
	}
	if stored[1].ID != record.ID {
		t.Errorf("stored id = %d, want %d", stored[1].ID, record.ID)
	}
}

func TestNewSeedSource(t *testing.T) {
	ctx := context.Background()

	embedded, err := NewSeedSource(Seed{}, nil).LoadSeed(ctx)
	if err != nil || len(embedded) == 0 {
		t.Fatalf("embedded seed = %d records, err=%v", len(embedded), err)
	}

	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`[{"id":9,"name":"File"}]`), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	fromFile, err := NewSeedSource(Seed{Path: path}, nil).LoadSeed(ctx)
	if err != nil || len(fromFile) != 1 || fromFile[0].Name != "File" {
		t.Fatalf("file seed = %+v, err=%v", fromFile, err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Remote"},{"id":2,"name":"Remote 2"}]`))
	}))
	defer server.Close()
	remote, err := NewSeedSource(Seed{URL: server.URL, Path: path}, server.Client()).LoadSeed(ctx)
	if err != nil || len(remote) != 2 {
		t.Fatalf("remote seed = %+v, err=%v", remote, err)
	}
}

func TestNewSeedSource_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()
	if _, err := NewSeedSource(Seed{URL: server.URL}, server.Client()).LoadSeed(context.Background()); err == nil {
		t.Fatal("expected error for 404 seed")
	}
}

func TestImport_SkipsKnownIDs(t *testing.T) {
	db := newTestDatabase(t)
	svc := newTestCoreService(t, db, &stubSeed{records: []Ambition{{ID: 1, Name: "Seed"}}}, fixedNow)
	svc.Load(context.Background())

	added := svc.Import(context.Background(), []Ambition{
		{ID: 1, Name: "Duplicate"},
		{ID: 7, Name: "New"},
		{ID: 7, Name: "Repeated in file"},
	})
	if added != 1 {
		t.Fatalf("expected 1 imported record, got %d", added)
	}
	all := svc.Ambitions()
	if len(all) != 2 || all[0].Name != "Seed" || all[1].Name != "New" {
		t.Fatalf("unexpected collection %+v", all)
	}
	if got := len(storedRecords(t, db)); got != 2 {
		t.Fatalf("expected import to be persisted, got %d stored", got)
	}
	if svc.Import(context.Background(), []Ambition{{ID: 7}}) != 0 {
		t.Fatal("re-import must be a no-op")
	}
}
