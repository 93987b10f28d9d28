package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jask/surveyboard/internal/database/repository"
)

// DefaultUsers are the authors referenced by the sample surveys.
var DefaultUsers = []repository.User{
	{ID: 1, Name: "Basem Shawaly"},
	{ID: 2, Name: "Nermien Shawky"},
	{ID: 3, Name: "Omar Haddad"},
}

type seedSurvey struct {
	title     string
	status    string
	kind      string
	language  string
	responses int
	author    int64
	editor    int64
	ageDays   int
}

var sampleSurveys = []seedSurvey{
	{"Customer Satisfaction Survey", "Scheduled", "Web", "English", 0, 1, 1, 1},
	{"Employee Engagement Survey", "Published", "Email", "English", 148, 2, 1, 3},
	{"Product Feedback Form", "Published", "Web", "Arabic", 62, 1, 3, 5},
	{"Website Usability survey", "Draft", "Kiosk", "French", 0, 3, 3, 8},
	{"Event Follow-up Questionnaire", "Archived", "SMS", "Spanish", 311, 2, 2, 20},
	{"Annual SURVEY of Members", "Scheduled", "Email", "Arabic", 0, 1, 2, 2},
}

// SeedDefaults fills an empty database with sample authors and surveys.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, now time.Time) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		return seed(ctx, tx, now)
	})
}

func seed(ctx context.Context, db repository.DBTX, now time.Time) error {
	users := repository.NewUserRepo(db)
	for _, u := range DefaultUsers {
		if err := users.Upsert(ctx, u); err != nil {
			return err
		}
	}
	surveys := repository.NewSurveyRepo(db)
	n, err := surveys.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, s := range sampleSurveys {
		at := now.Add(-time.Duration(s.ageDays) * 24 * time.Hour)
		row := repository.Survey{
			Title:      s.title,
			Status:     s.status,
			Type:       s.kind,
			Language:   s.language,
			Responses:  s.responses,
			CreatedBy:  s.author,
			ModifiedBy: s.editor,
			CreatedAt:  at.Add(-48 * time.Hour),
			ModifiedAt: at,
		}
		if _, err := surveys.Insert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
