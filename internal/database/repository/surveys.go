package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is how timestamps are stored in TEXT columns.
const timeLayout = time.RFC3339Nano

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SurveyRepo handles surveys.
type SurveyRepo struct {
	db DBTX
}

func NewSurveyRepo(db DBTX) *SurveyRepo { return &SurveyRepo{db: db} }

const surveyColumns = `
	s.id, s.title, s.status, s.type, s.language, s.responses,
	COALESCE(s.created_by, 0), COALESCE(s.modified_by, 0),
	COALESCE(cu.name, ''), COALESCE(mu.name, ''),
	s.created_at, s.modified_at
	FROM surveys s
	LEFT JOIN users cu ON cu.id = s.created_by
	LEFT JOIN users mu ON mu.id = s.modified_by`

type scanner interface {
	Scan(dest ...any) error
}

func scanSurvey(sc scanner) (Survey, error) {
	var s Survey
	var created, modified string
	if err := sc.Scan(&s.ID, &s.Title, &s.Status, &s.Type, &s.Language, &s.Responses,
		&s.CreatedBy, &s.ModifiedBy, &s.CreatedByName, &s.ModifiedByName, &created, &modified); err != nil {
		return Survey{}, err
	}
	var err error
	if s.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Survey{}, fmt.Errorf("survey %d created_at: %w", s.ID, err)
	}
	if s.ModifiedAt, err = time.Parse(timeLayout, modified); err != nil {
		return Survey{}, fmt.Errorf("survey %d modified_at: %w", s.ID, err)
	}
	return s, nil
}

// List returns every survey, most recently modified first.
func (r *SurveyRepo) List(ctx context.Context) ([]Survey, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+surveyColumns+` ORDER BY s.modified_at DESC, s.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns nil when no survey has id.
func (r *SurveyRepo) Get(ctx context.Context, id int64) (*Survey, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+surveyColumns+` WHERE s.id = ?`, id)
	s, err := scanSurvey(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Insert stores s and returns the new ID. CreatedAt defaults to ModifiedAt.
func (r *SurveyRepo) Insert(ctx context.Context, s Survey) (int64, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.ModifiedAt
	}
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO surveys(title, status, type, language, responses, created_by, modified_by, created_at, modified_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.Title, s.Status, s.Type, s.Language, s.Responses, nullID(s.CreatedBy), nullID(s.ModifiedBy),
		s.CreatedAt.UTC().Format(timeLayout), s.ModifiedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Delete reports whether a row was removed.
func (r *SurveyRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Titles lists every survey title for duplicate detection.
func (r *SurveyRepo) Titles(ctx context.Context) ([]TitleRef, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM surveys`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TitleRef
	for rows.Next() {
		var t TitleRef
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SurveyRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM surveys`).Scan(&n)
	return n, err
}

// UserRepo handles survey authors.
type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Upsert(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO users(id, name) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, u.ID, u.Name)
	return err
}

func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
