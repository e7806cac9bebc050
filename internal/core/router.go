package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type View string

const (
	ViewGallery View = "gallery"
	ViewList    View = "list"
	ViewDetail  View = "detail"
	ViewAbout   View = "about"
)

// Route is the view selected by the query string. Record is only set when
// View is ViewDetail and Found is true.
type Route struct {
	View       View
	SelectedID string
	Record     Ambition
	Found      bool
}

// ResolveRoute derives the view from the query parameters and the current records.
func ResolveRoute(query url.Values, records []Ambition) Route {
	if rawID := query.Get("id"); rawID != "" {
		route := Route{View: ViewDetail, SelectedID: rawID}
		id, err := leadingInt(rawID)
		if err != nil {
			return route
		}
		route.Record, route.Found = FindByID(records, id)
		return route
	}
	switch query.Get("view") {
	case string(ViewList):
		return Route{View: ViewList}
	case string(ViewAbout):
		return Route{View: ViewAbout}
	}
	return Route{View: ViewGallery}
}

// leadingInt parses the optional sign and digits at the start of s, ignoring
// surrounding space and anything after the digits, so "2abc" is 2.
func leadingInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return strconv.ParseInt(s[:end], 10, 64)
}

// MetaTag is one <meta> element; Attr is either "name" or "property".
type MetaTag struct {
	Attr    string
	Key     string
	Content string
}

type PageMeta struct {
	Title       string
	Description string
	URL         string
	Image       string
}

const (
	galleryTitle       = "Ambitious | Share & Discover Inspiring Dreams"
	galleryDescription = "Explore a gallery of dreams and ambitions from people around the world. Get inspired, share your own goals, and see what others aspire to achieve."
	listTitle          = "All Ambitions | A Collection of Dreams"
	listDescription    = "Browse a complete collection of ambitions shared by our community. A blog of dreams, from aspiring astronauts to visionary artists."
	aboutTitle         = "About | Ambitious"
	aboutDescription   = "Learn about our mission. Ambitious is a digital record of dreams, a place to archive the goals of kids and people everywhere for inspiration and reflection."
)

// PageMetaFor returns the document title and social preview values for route.
func PageMetaFor(route Route, baseURL, defaultImage string) PageMeta {
	baseURL = strings.TrimRight(baseURL, "/")
	switch route.View {
	case ViewDetail:
		if route.Found {
			r := route.Record
			title := fmt.Sprintf("%s - Ambition: %s | Ambitious", r.Name, r.Ambition)
			return PageMeta{
				Title: title,
				Description: fmt.Sprintf("Discover the story of %s, who at age %d dreamt of becoming a pioneering %s. Explore inspiring ambitions from around the world on Ambitious.",
					r.Name, r.Age, r.Ambition),
				URL:   ShareURL(baseURL, r.ID),
				Image: r.ImageURL,
			}
		}
	case ViewList:
		return PageMeta{Title: listTitle, Description: listDescription, URL: baseURL + "/?view=list", Image: defaultImage}
	case ViewAbout:
		return PageMeta{Title: aboutTitle, Description: aboutDescription, URL: baseURL + "/?view=about", Image: defaultImage}
	}
	return PageMeta{Title: galleryTitle, Description: galleryDescription, URL: baseURL, Image: defaultImage}
}

// Tags expands the metadata into the fixed set of name/property tags.
func (m PageMeta) Tags() []MetaTag {
	return []MetaTag{
		{"name", "description", m.Description},
		{"property", "og:title", m.Title},
		{"property", "og:description", m.Description},
		{"property", "og:url", m.URL},
		{"property", "og:image", m.Image},
		{"property", "twitter:title", m.Title},
		{"property", "twitter:description", m.Description},
		{"property", "twitter:image", m.Image},
	}
}
