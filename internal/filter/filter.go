// Package filter derives the visible survey list from the canonical
// collection: status tab, text search, modification-date filter, sorting and
// pagination. Everything here is pure; inputs are never modified.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/jask/surveyboard/internal/survey"
)

// TabAll is the wildcard tab.
const TabAll = "All"

// DefaultPageSize matches the list screen's default.
const DefaultPageSize = 8

// Tabs in display order.
var Tabs = []string{
	TabAll,
	string(survey.StatusPublished),
	string(survey.StatusDraft),
	string(survey.StatusArchived),
	string(survey.StatusScheduled),
}

// State is the user-controlled part of the pipeline.
type State struct {
	ActiveTab   string
	SearchTerm  string
	DateFilter  *time.Time
	CurrentPage int
}

// NewState starts on the given tab, page 1.
func NewState(tab string) State {
	if tab == "" {
		tab = TabAll
	}
	return State{ActiveTab: tab, CurrentPage: 1}
}

// WithTab switches tabs and resets to page 1.
func (s State) WithTab(tab string) State {
	if tab == "" {
		tab = TabAll
	}
	s.ActiveTab = tab
	s.CurrentPage = 1
	return s
}

// WithSearch sets the search text and resets to page 1.
func (s State) WithSearch(term string) State {
	s.SearchTerm = term
	s.CurrentPage = 1
	return s
}

// WithDate sets or clears the date filter and resets to page 1.
func (s State) WithDate(d *time.Time) State {
	s.DateFilter = d
	s.CurrentPage = 1
	return s
}

// WithPage moves to page n. The pipeline clamps out-of-range pages.
func (s State) WithPage(n int) State {
	s.CurrentPage = n
	return s
}

// SortKey orders the filtered list.
type SortKey int

const (
	SortNone SortKey = iota
	SortModifiedDesc
	SortTitleAsc
	SortResponsesDesc
)

// Options are the fixed parameters of the pipeline.
type Options struct {
	PageSize int
	Location *time.Location
	Sort     SortKey
}

// Result is everything the list screen renders.
type Result struct {
	Filtered   []survey.Record
	Counts     map[string]int
	Page       []survey.Record
	PageNumber int
	TotalPages int
	TotalItems int
	PageSize   int
	// From and To are the 1-based display range of Page; both 0 when empty.
	From int
	To   int
}

// Apply runs the pipeline.
func Apply(records []survey.Record, st State, opts Options) Result {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	res := Result{Counts: Counts(records), PageSize: size}

	needle := strings.ToLower(strings.TrimSpace(st.SearchTerm))
	filtered := make([]survey.Record, 0, len(records))
	for _, r := range records {
		if !matchesTab(r, st.ActiveTab) {
			continue
		}
		if !matchesSearch(r, needle) {
			continue
		}
		if !matchesDate(r, st.DateFilter, loc) {
			continue
		}
		filtered = append(filtered, r)
	}
	sortRecords(filtered, opts.Sort)

	res.Filtered = filtered
	res.TotalItems = len(filtered)
	res.TotalPages = TotalPages(len(filtered), size)
	res.PageNumber = ClampPage(st.CurrentPage, res.TotalPages)

	start := (res.PageNumber - 1) * size
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Page = filtered[start:end]
	if len(res.Page) > 0 {
		res.From = start + 1
		res.To = end
	}
	return res
}

// Counts returns per-tab totals over the full collection.
func Counts(records []survey.Record) map[string]int {
	counts := make(map[string]int, len(Tabs))
	for _, tab := range Tabs {
		counts[tab] = 0
	}
	counts[TabAll] = len(records)
	for _, r := range records {
		counts[string(statusOf(r))]++
	}
	return counts
}

// TotalPages is at least 1.
func TotalPages(items, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if items <= 0 {
		return 1
	}
	return (items + size - 1) / size
}

// ClampPage keeps page within [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

func statusOf(r survey.Record) survey.Status {
	if r.Status == "" {
		return survey.StatusDraft
	}
	return r.Status
}

func matchesTab(r survey.Record, tab string) bool {
	if tab == "" || tab == TabAll {
		return true
	}
	return strings.EqualFold(string(statusOf(r)), tab)
}

func matchesSearch(r survey.Record, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{r.Title, r.CreatedByName, r.ModifiedByName, r.Type, r.Language} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesDate(r survey.Record, day *time.Time, loc *time.Location) bool {
	if day == nil {
		return true
	}
	if r.ModifiedAt == nil {
		return false
	}
	return SameDay(*r.ModifiedAt, *day, loc)
}

// SameDay compares calendar dates in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func sortRecords(rs []survey.Record, key SortKey) {
	switch key {
	case SortModifiedDesc:
		sort.SliceStable(rs, func(i, j int) bool {
			a, b := rs[i].ModifiedAt, rs[j].ModifiedAt
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return a.After(*b)
		})
	case SortTitleAsc:
		sort.SliceStable(rs, func(i, j int) bool {
			return strings.ToLower(rs[i].Title) < strings.ToLower(rs[j].Title)
		})
	case SortResponsesDesc:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Responses > rs[j].Responses })
	}
}
