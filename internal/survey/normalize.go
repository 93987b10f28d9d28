package survey

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// field aliases accepted from the wire, most specific first.
var (
	idKeys         = []string{"ID", "Id", "id"}
	titleKeys      = []string{"Title", "title"}
	statusKeys     = []string{"Status", "status"}
	typeKeys       = []string{"Type", "type"}
	languageKeys   = []string{"Language", "language"}
	responsesKeys  = []string{"Responses", "ResponseCount", "responses", "responseCount"}
	createdAtKeys  = []string{"CreatedAt", "createdAt"}
	modifiedAtKeys = []string{"ModifiedAt", "modifiedAt"}
	createdByKeys  = []string{"CreatedByUserName", "CreatedByName", "createdByName", "createdBy"}
	modifiedByKeys = []string{"ModifiedByUserName", "ModifiedByName", "modifiedByName", "modifiedBy"}
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"02/01/2006",
}

// Normalize converts one decoded wire object into a Record. It never fails:
// missing fields become zero values, unparsable timestamps become nil and
// negative response counts are clamped to zero. Timestamps without a zone
// are read as UTC; use NormalizeIn when the API reports local time.
func Normalize(raw map[string]any) Record {
	return NormalizeIn(raw, time.UTC)
}

// NormalizeIn is Normalize with zone-less timestamps read in loc.
func NormalizeIn(raw map[string]any, loc *time.Location) Record {
	r := Record{
		ID:             int64Field(raw, idKeys),
		Title:          stringField(raw, titleKeys),
		Status:         ParseStatus(stringField(raw, statusKeys)),
		Type:           stringField(raw, typeKeys),
		Language:       stringField(raw, languageKeys),
		Responses:      int(int64Field(raw, responsesKeys)),
		CreatedAt:      timeField(raw, createdAtKeys, loc),
		ModifiedAt:     timeField(raw, modifiedAtKeys, loc),
		CreatedByName:  stringField(raw, createdByKeys),
		ModifiedByName: stringField(raw, modifiedByKeys),
	}
	if r.Responses < 0 {
		r.Responses = 0
	}
	return r
}

// NormalizeAll normalizes a decoded list, dropping duplicate IDs (first wins).
func NormalizeAll(raws []map[string]any) []Record {
	return NormalizeAllIn(raws, time.UTC)
}

// NormalizeAllIn is NormalizeAll with zone-less timestamps read in loc.
func NormalizeAllIn(raws []map[string]any, loc *time.Location) []Record {
	out := make([]Record, 0, len(raws))
	seen := make(map[int64]struct{}, len(raws))
	for _, raw := range raws {
		r := NormalizeIn(raw, loc)
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ParseTime parses the timestamp formats seen on the wire. Values without
// a zone are taken as UTC.
func ParseTime(s string) (time.Time, bool) {
	return ParseTimeIn(s, time.UTC)
}

// ParseTimeIn parses like ParseTime but reads zone-less values in loc.
// Values carrying an offset keep it.
func ParseTimeIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func stringField(raw map[string]any, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func int64Field(raw map[string]any, keys []string) int64 {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func timeField(raw map[string]any, keys []string, loc *time.Location) *time.Time {
	s := stringField(raw, keys)
	t, ok := ParseTimeIn(s, loc)
	if !ok {
		return nil
	}
	return &t
}
