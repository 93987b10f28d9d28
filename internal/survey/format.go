package survey

import (
	"strconv"
	"time"
)

// Placeholders shown when a field is missing or cannot be parsed.
const (
	NotSet        = "Not set"
	NotAvailable  = "N/A"
	Unknown       = "Unknown"
	UntitledTitle = "Untitled Survey"
)

// FormatDate renders t in loc using layout, or NotSet when t is nil.
func FormatDate(t *time.Time, layout string, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return NotSet
	}
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = "02/01/2006"
	}
	return t.In(loc).Format(layout)
}

// Display is a Record with every field rendered for presentation.
type Display struct {
	ID         string
	Title      string
	Status     Status
	Type       string
	Language   string
	Responses  int
	CreatedAt  string
	ModifiedAt string
	CreatedBy  string
	ModifiedBy string
}

// Describe renders r with placeholders for anything absent.
func Describe(r Record, layout string, loc *time.Location) Display {
	d := Display{
		ID:         NotAvailable,
		Title:      orDefault(r.Title, UntitledTitle),
		Status:     r.Status,
		Type:       orDefault(r.Type, NotAvailable),
		Language:   orDefault(r.Language, NotAvailable),
		Responses:  r.Responses,
		CreatedAt:  FormatDate(r.CreatedAt, layout, loc),
		ModifiedAt: FormatDate(r.ModifiedAt, layout, loc),
		CreatedBy:  orDefault(r.CreatedByName, Unknown),
		ModifiedBy: orDefault(r.ModifiedByName, Unknown),
	}
	if r.ID != 0 {
		d.ID = strconv.FormatInt(r.ID, 10)
	}
	if d.Status == "" {
		d.Status = StatusDraft
	}
	return d
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
