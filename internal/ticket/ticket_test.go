package ticket

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/jo-hoe/ambitions/internal/core"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func testAmbition() core.Ambition {
	return core.Ambition{
		ID:         1760659200000,
		Name:       "Amy Chen",
		Age:        9,
		Ambition:   "Astronaut",
		TargetYear: 2045,
		CreatedAt:  1760659200000,
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(450, 600, time.UTC)
	if err != nil {
		t.Fatalf("NewRenderer error: %v", err)
	}
	return renderer
}

func TestSlugAndFileName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Amy Chen", "amy-chen"},
		{"Mary  Ann\tLee", "mary--ann-lee"},
		{"LEO", "leo"},
	}
	for _, tt := range tests {
		if got := Slug(tt.name); got != tt.expected {
			t.Errorf("Slug(%q) = %q, expected %q", tt.name, got, tt.expected)
		}
	}
	if got := FileName(testAmbition()); got != "ambition-ticket-amy-chen.png" {
		t.Errorf("FileName = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	renderer := newTestRenderer(t)
	createdAt := time.Date(2025, time.October, 17, 12, 0, 0, 0, time.UTC).UnixMilli()
	if got := renderer.FormatDate(createdAt); got != "October 17, 2025" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestRender_ProducesSizedPNG(t *testing.T) {
	renderer := newTestRenderer(t)
	data, err := renderer.Render(testAmbition())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ticket is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 450 || b.Dy() != 600 {
		t.Fatalf("expected 450x600, got %dx%d", b.Dx(), b.Dy())
	}
	// Card body is opaque slate.
	_, _, _, a := img.At(225, 480).RGBA()
	if a == 0 {
		t.Error("expected opaque card body")
	}
}

func TestRender_LongValues(t *testing.T) {
	renderer := newTestRenderer(t)
	record := testAmbition()
	record.Name = strings.Repeat("Bartholomew ", 12)
	record.Ambition = strings.Repeat("Intergalactic Diplomat ", 10)
	if _, err := renderer.Render(record); err != nil {
		t.Fatalf("Render error: %v", err)
	}
}

func TestFitText_Truncates(t *testing.T) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	face, fitted, err := fitText(f, strings.Repeat("wide ", 50), 20, 10, 100)
	if err != nil {
		t.Fatalf("fitText error: %v", err)
	}
	defer func() { _ = face.Close() }()
	if !strings.HasSuffix(fitted, ellipsis) {
		t.Errorf("expected ellipsis, got %q", fitted)
	}

	face2, short, err := fitText(f, "ok", 20, 10, 100)
	if err != nil {
		t.Fatalf("fitText error: %v", err)
	}
	defer func() { _ = face2.Close() }()
	if short != "ok" {
		t.Errorf("short text must be kept, got %q", short)
	}
}

type memoryCache struct {
	entries map[int64][]byte
	getErr  error
	sets    int
}

func (c *memoryCache) Get(_ context.Context, id int64) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	data, ok := c.entries[id]
	return data, ok, nil
}

func (c *memoryCache) Set(_ context.Context, id int64, data []byte) error {
	c.sets++
	c.entries[id] = data
	return nil
}

func TestService_CachesRenderedTicket(t *testing.T) {
	cache := &memoryCache{entries: map[int64][]byte{}}
	service := NewService(newTestRenderer(t), cache)
	record := testAmbition()

	first, err := service.Ticket(context.Background(), record)
	if err != nil {
		t.Fatalf("Ticket error: %v", err)
	}
	second, err := service.Ticket(context.Background(), record)
	if err != nil {
		t.Fatalf("Ticket error: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("expected one render to be cached, got %d sets", cache.sets)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected cached ticket to be returned")
	}
}

func TestService_CacheErrorStillRenders(t *testing.T) {
	cache := &memoryCache{entries: map[int64][]byte{}, getErr: errors.New("down")}
	service := NewService(newTestRenderer(t), cache)
	if _, err := service.Ticket(context.Background(), testAmbition()); err != nil {
		t.Fatalf("Ticket error: %v", err)
	}
}

func TestService_NoCache(t *testing.T) {
	service := NewService(newTestRenderer(t), nil)
	if _, err := service.Ticket(context.Background(), testAmbition()); err != nil {
		t.Fatalf("Ticket error: %v", err)
	}
}
