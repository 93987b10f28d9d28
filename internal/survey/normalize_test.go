package survey

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizePascalCase(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"ID":                 float64(7),
		"Title":              "IST Survey - Email",
		"Status":             "Published",
		"Type":               "Email",
		"Language":           "English",
		"Responses":          float64(153),
		"CreatedAt":          "2022-10-06T09:30:00",
		"ModifiedAt":         "2022-10-08T11:00:00Z",
		"CreatedByUserName":  "Basem Shawaly",
		"ModifiedByUserName": "Nermien Emad",
	}
	r := Normalize(raw)
	require.Equal(t, int64(7), r.ID)
	require.Equal(t, "IST Survey - Email", r.Title)
	require.Equal(t, StatusPublished, r.Status)
	require.Equal(t, 153, r.Responses)
	require.NotNil(t, r.CreatedAt)
	require.NotNil(t, r.ModifiedAt)
	require.Equal(t, 8, r.ModifiedAt.Day())
	require.Equal(t, "Basem Shawaly", r.CreatedByName)
	require.Equal(t, "Nermien Emad", r.ModifiedByName)
}

func TestNormalizeCamelCaseFallback(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"id":         float64(3),
		"title":      "Local",
		"status":     "scheduled",
		"createdBy":  "Someone",
		"modifiedAt": "06/10/2022",
	}
	r := Normalize(raw)
	require.Equal(t, int64(3), r.ID)
	require.Equal(t, StatusScheduled, r.Status)
	require.Equal(t, "Someone", r.CreatedByName)
	require.NotNil(t, r.ModifiedAt)
	require.Equal(t, time.October, r.ModifiedAt.Month())
}

func TestNormalizePrefersPascalCase(t *testing.T) {
	t.Parallel()

	r := Normalize(map[string]any{"Title": "upper", "title": "lower", "Status": "", "status": "Archived"})
	require.Equal(t, "upper", r.Title)
	require.Equal(t, StatusArchived, r.Status)
}

func TestNormalizeDegradesOnBadInput(t *testing.T) {
	t.Parallel()

	r := Normalize(map[string]any{
		"ID":         "not-a-number",
		"Responses":  float64(-4),
		"ModifiedAt": "yesterday-ish",
		"Title":      42.0,
	})
	require.Zero(t, r.ID)
	require.Zero(t, r.Responses)
	require.Nil(t, r.ModifiedAt)
	require.Equal(t, StatusDraft, r.Status)
	require.Equal(t, "42", r.Title)
}

func TestNormalizeJSONNumber(t *testing.T) {
	t.Parallel()

	r := Normalize(map[string]any{"ID": json.Number("12"), "Responses": json.Number("5")})
	require.Equal(t, int64(12), r.ID)
	require.Equal(t, 5, r.Responses)
}

func TestNormalizeAllDropsDuplicateIDs(t *testing.T) {
	t.Parallel()

	out := NormalizeAll([]map[string]any{
		{"ID": float64(1), "Title": "first"},
		{"ID": float64(2), "Title": "second"},
		{"ID": float64(1), "Title": "again"},
	})
	require.Len(t, out, 2)
	require.Equal(t, "first", out[0].Title)
}

func TestDescribePlaceholders(t *testing.T) {
	t.Parallel()

	d := Describe(Record{}, "", time.UTC)
	require.Equal(t, NotAvailable, d.ID)
	require.Equal(t, UntitledTitle, d.Title)
	require.Equal(t, StatusDraft, d.Status)
	require.Equal(t, NotAvailable, d.Type)
	require.Equal(t, NotSet, d.CreatedAt)
	require.Equal(t, Unknown, d.ModifiedBy)
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2022, time.October, 6, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "06/10/2022", FormatDate(&ts, "02/01/2006", time.UTC))
	require.Equal(t, NotSet, FormatDate(nil, "02/01/2006", time.UTC))
}

func TestZonelessTimestampsUseLocation(t *testing.T) {
	t.Parallel()

	riyadh := time.FixedZone("AST", 3*60*60)
	raw := map[string]any{
		"ID":         float64(1),
		"ModifiedAt": "2026-05-10T23:30:00",
		"CreatedAt":  "2026-05-10T23:30:00Z",
	}

	r := NormalizeIn(raw, riyadh)
	require.NotNil(t, r.ModifiedAt)
	require.Equal(t, "10/05/2026", FormatDate(r.ModifiedAt, "02/01/2006", riyadh), "late evening stays on the same day")
	require.True(t, r.ModifiedAt.Equal(time.Date(2026, 5, 10, 20, 30, 0, 0, time.UTC)))
	require.True(t, r.CreatedAt.Equal(time.Date(2026, 5, 10, 23, 30, 0, 0, time.UTC)), "explicit offsets win")

	utc := Normalize(raw)
	require.Equal(t, "11/05/2026", FormatDate(utc.ModifiedAt, "02/01/2006", riyadh))

	fraction, ok := ParseTimeIn("2026-05-10T23:30:00.1234567", riyadh)
	require.True(t, ok)
	require.Equal(t, riyadh, fraction.Location())
}
