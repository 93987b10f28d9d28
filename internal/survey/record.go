package survey

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a survey.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
	StatusScheduled Status = "Scheduled"
)

// Statuses lists every status in tab order.
var Statuses = []Status{StatusPublished, StatusDraft, StatusArchived, StatusScheduled}

// ParseStatus maps a free-form status string onto a Status.
// Empty or unknown input yields Draft.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "published":
		return StatusPublished
	case "archived":
		return StatusArchived
	case "scheduled":
		return StatusScheduled
	default:
		return StatusDraft
	}
}

// Types and Languages are the selectable options offered by the create form.
var (
	Types     = []string{"Web", "Email", "SMS", "Kiosk"}
	Languages = []string{"English", "Arabic", "French", "Spanish"}
)

// Record is the canonical survey shape used everywhere past the API boundary.
type Record struct {
	ID             int64
	Title          string
	Status         Status
	Type           string
	Language       string
	Responses      int
	CreatedAt      *time.Time
	ModifiedAt     *time.Time
	CreatedByName  string
	ModifiedByName string
}

// Input is what the create form submits. CreatedBy and ModifiedBy are user IDs.
type Input struct {
	Title      string
	Status     Status
	Type       string
	Language   string
	CreatedBy  int64
	ModifiedBy int64
	ModifiedAt time.Time
	Responses  int
}
