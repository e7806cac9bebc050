package core

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortNameAZ     SortKey = "name_az"
	SortNameZA     SortKey = "name_za"
	SortAgeAsc     SortKey = "age_asc"
	SortAgeDesc    SortKey = "age_desc"
	SortTargetAsc  SortKey = "target_asc"
	SortTargetDesc SortKey = "target_desc"
)

// SortOption is a sort key together with its label in the list view.
type SortOption struct {
	Key   SortKey
	Label string
}

var sortOptions = []SortOption{
	{SortNewest, "Newest First"},
	{SortOldest, "Oldest First"},
	{SortNameAZ, "Name (A-Z)"},
	{SortNameZA, "Name (Z-A)"},
	{SortAgeAsc, "Age (Youngest)"},
	{SortAgeDesc, "Age (Oldest)"},
	{SortTargetAsc, "Target Year (Soonest)"},
	{SortTargetDesc, "Target Year (Latest)"},
}

func SortOptions() []SortOption {
	return slices.Clone(sortOptions)
}

// ParseSortKey maps a query value to a known key, defaulting to newest.
func ParseSortKey(value string) SortKey {
	key := SortKey(strings.TrimSpace(value))
	for _, option := range sortOptions {
		if option.Key == key {
			return key
		}
	}
	return SortNewest
}

type DisplayMode string

const (
	DisplayGrid DisplayMode = "grid"
	DisplayList DisplayMode = "list"
)

func ParseDisplayMode(value string) DisplayMode {
	if DisplayMode(strings.TrimSpace(value)) == DisplayList {
		return DisplayList
	}
	return DisplayGrid
}

// ListQuery is the list view's local state.
type ListQuery struct {
	Search string
	Sort   SortKey
	Mode   DisplayMode
}

// Matches reports whether the record's name or ambition contains term, ignoring case.
func Matches(record Ambition, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(record.Name), term) ||
		strings.Contains(strings.ToLower(record.Ambition), term)
}

// FilterAndSort returns a new slice; records is left untouched.
func FilterAndSort(records []Ambition, search string, key SortKey) []Ambition {
	filtered := make([]Ambition, 0, len(records))
	for _, record := range records {
		if Matches(record, search) {
			filtered = append(filtered, record)
		}
	}
	slices.SortStableFunc(filtered, comparator(key))
	return filtered
}

func comparator(key SortKey) func(a, b Ambition) int {
	switch key {
	case SortOldest:
		return func(a, b Ambition) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) }
	case SortNameAZ:
		c := collate.New(language.English)
		return func(a, b Ambition) int { return c.CompareString(a.Name, b.Name) }
	case SortNameZA:
		c := collate.New(language.English)
		return func(a, b Ambition) int { return c.CompareString(b.Name, a.Name) }
	case SortAgeAsc:
		return func(a, b Ambition) int { return cmp.Compare(a.Age, b.Age) }
	case SortAgeDesc:
		return func(a, b Ambition) int { return cmp.Compare(b.Age, a.Age) }
	case SortTargetAsc:
		return func(a, b Ambition) int { return cmp.Compare(a.TargetYear, b.TargetYear) }
	case SortTargetDesc:
		return func(a, b Ambition) int { return cmp.Compare(b.TargetYear, a.TargetYear) }
	default:
		return func(a, b Ambition) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) }
	}
}
