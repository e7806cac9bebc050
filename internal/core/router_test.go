package core

import (
	"net/url"
	"strings"
	"testing"
)

func TestResolveRoute(t *testing.T) {
	records := []Ambition{
		{ID: 1, Name: "Amy", Ambition: "Chef"},
		{ID: 2, Name: "Leo", Ambition: "Pilot", Age: 9, ImageURL: "https://img/2"},
	}
	tests := []struct {
		query     string
		wantView  View
		wantFound bool
		wantID    int64
	}{
		{"id=2", ViewDetail, true, 2},
		{"id=999", ViewDetail, false, 0},
		{"id=two", ViewDetail, false, 0},
		{"id=2abc", ViewDetail, true, 2},
		{"id=+2", ViewDetail, true, 2},
		{"id=%202%20", ViewDetail, true, 2},
		{"id=-", ViewDetail, false, 0},
		{"id=2&view=list", ViewDetail, true, 2},
		{"view=list", ViewList, false, 0},
		{"view=about", ViewAbout, false, 0},
		{"view=unknown", ViewGallery, false, 0},
		{"", ViewGallery, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			route := ResolveRoute(query, records)
			if route.View != tt.wantView {
				t.Errorf("view = %s, want %s", route.View, tt.wantView)
			}
			if route.Found != tt.wantFound {
				t.Errorf("found = %v, want %v", route.Found, tt.wantFound)
			}
			if route.Record.ID != tt.wantID {
				t.Errorf("record id = %d, want %d", route.Record.ID, tt.wantID)
			}
		})
	}
}

func TestPageMetaFor(t *testing.T) {
	const base = "https://ambitions.test/"
	const img = "https://img/default"

	detail := PageMetaFor(Route{View: ViewDetail, Found: true, Record: Ambition{ID: 2, Name: "Leo", Age: 9, Ambition: "Pilot", ImageURL: "https://img/2"}}, base, img)
	if detail.Title != "Leo - Ambition: Pilot | Ambitious" {
		t.Errorf("detail title = %q", detail.Title)
	}
	if detail.URL != "https://ambitions.test/?id=2" {
		t.Errorf("detail url = %q", detail.URL)
	}
	if detail.Image != "https://img/2" {
		t.Errorf("detail image = %q", detail.Image)
	}
	if !strings.Contains(detail.Description, "at age 9") {
		t.Errorf("detail description = %q", detail.Description)
	}

	notFound := PageMetaFor(Route{View: ViewDetail}, base, img)
	gallery := PageMetaFor(Route{View: ViewGallery}, base, img)
	if notFound != gallery {
		t.Errorf("not-found detail should use gallery defaults, got %+v", notFound)
	}
	if gallery.URL != "https://ambitions.test" {
		t.Errorf("gallery url = %q", gallery.URL)
	}

	list := PageMetaFor(Route{View: ViewList}, base, img)
	if list.URL != "https://ambitions.test/?view=list" || list.Image != img {
		t.Errorf("list meta = %+v", list)
	}
	about := PageMetaFor(Route{View: ViewAbout}, base, img)
	if about.Title != "About | Ambitious" {
		t.Errorf("about title = %q", about.Title)
	}
}

func TestPageMetaTags(t *testing.T) {
	tags := PageMeta{Title: "T", Description: "D", URL: "U", Image: "I"}.Tags()
	if len(tags) != 8 {
		t.Fatalf("expected 8 tags, got %d", len(tags))
	}
	want := map[string]string{
		"description": "D", "og:title": "T", "og:description": "D", "og:url": "U",
		"og:image": "I", "twitter:title": "T", "twitter:description": "D", "twitter:image": "I",
	}
	for _, tag := range tags {
		if want[tag.Key] != tag.Content {
			t.Errorf("tag %s = %q, want %q", tag.Key, tag.Content, want[tag.Key])
		}
		if tag.Key == "description" && tag.Attr != "name" {
			t.Errorf("description must be a name tag")
		}
	}
}
