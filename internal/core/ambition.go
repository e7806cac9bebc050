package core

import (
	"fmt"
	"strings"
)

// Ambition is the single persisted record: one person's aspiration story.
type Ambition struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Ambition   string `json:"ambition"`
	TargetYear int    `json:"targetYear"`
	ImageURL   string `json:"imageUrl"`
	Story      string `json:"story,omitempty"`
	Instagram  string `json:"instagram,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

// FindByID returns the record with the given id, or false if none matches.
func FindByID(records []Ambition, id int64) (Ambition, bool) {
	for _, record := range records {
		if record.ID == id {
			return record, true
		}
	}
	return Ambition{}, false
}

// nextTimestamp returns now (Unix ms) unless it collides with or precedes an
// existing id or createdAt, in which case it returns the largest of those plus one.
func nextTimestamp(records []Ambition, nowMillis int64) int64 {
	var highest int64
	for _, record := range records {
		highest = max(highest, record.ID, record.CreatedAt)
	}
	if nowMillis <= highest {
		return highest + 1
	}
	return nowMillis
}

// PlaceholderImageURL is used for records submitted without an upload.
func PlaceholderImageURL(id int64) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/800/600", id)
}

// ShareURL builds the link that opens a record's detail view.
func ShareURL(origin string, id int64) string {
	return fmt.Sprintf("%s/?id=%d", strings.TrimRight(origin, "/"), id)
}

// NormalizeInstagram strips surrounding whitespace and any leading "@".
func NormalizeInstagram(handle string) string {
	return strings.TrimLeft(strings.TrimSpace(handle), "@")
}
