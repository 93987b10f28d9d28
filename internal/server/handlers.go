package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/surveyboard/internal/api"
	"github.com/jask/surveyboard/internal/database/repository"
	"github.com/jask/surveyboard/internal/survey"
)

// getAll handles GET /API/Survey/GetAll
func (s *Server) getAll(w http.ResponseWriter, r *http.Request) {
	rows, err := s.surveys.List(r.Context())
	if err != nil {
		s.log.Error("failed to list surveys", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, api.CodeUnexpectedError, "")
		return
	}
	out := make([]api.SurveyDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	s.writeResult(w, out)
}

// getByID handles GET /API/Survey/GetById?id=N
func (s *Server) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, api.CodeUnexpectedError, "A numeric id is required.")
		return
	}
	row, err := s.surveys.Get(r.Context(), id)
	if err != nil {
		s.log.Error("failed to get survey", zap.Int64("id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, api.CodeUnexpectedError, "")
		return
	}
	if row == nil {
		s.writeError(w, http.StatusNotFound, api.CodeNoItemsFound, "")
		return
	}
	s.writeResult(w, toDTO(*row))
}

// add handles POST /API/Survey/Add
func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req api.AddRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, api.CodeAPIPostFailed, "Invalid JSON")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Status) == "" || strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Language) == "" {
		s.writeError(w, http.StatusBadRequest, api.CodeAPIPostFailed, "Please fill in all required fields.")
		return
	}

	existing, err := s.surveys.Titles(r.Context())
	if err != nil {
		s.log.Error("failed to load titles", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, api.CodeUnexpectedError, "")
		return
	}
	if dup, ok := s.findDuplicate(title, existing); ok {
		s.log.Info("duplicate survey rejected", zap.String("title", title), zap.Int64("existing_id", dup.ID))
		s.writeError(w, http.StatusConflict, api.CodeDuplicateData, "")
		return
	}

	modified, ok := survey.ParseTime(req.ModifiedAt)
	if !ok {
		modified = s.now()
	}
	now := s.now()
	id, err := s.surveys.Insert(r.Context(), repository.Survey{
		Title:      title,
		Status:     string(survey.ParseStatus(req.Status)),
		Type:       req.Type,
		Language:   req.Language,
		Responses:  max(req.Responses, 0),
		CreatedBy:  req.CreatedBy,
		ModifiedBy: req.ModifiedBy,
		CreatedAt:  now,
		ModifiedAt: modified,
	})
	if err != nil {
		s.log.Error("failed to insert survey", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, api.CodeAPIPostFailed, "")
		return
	}
	row, err := s.surveys.Get(r.Context(), id)
	if err != nil || row == nil {
		s.log.Warn("created survey not readable", zap.Int64("id", id), zap.Error(err))
		s.writeResult(w, id)
		return
	}
	s.log.Info("survey created", zap.Int64("id", id), zap.String("title", title))
	s.writeResult(w, toDTO(*row))
}

// remove handles POST /API/Survey/Delete
func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	var req api.DeleteRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, api.CodeAPIPostFailed, "Invalid JSON")
		return
	}
	if req.ID <= 0 {
		s.writeError(w, http.StatusBadRequest, api.CodeAPIPostFailed, "A survey ID is required.")
		return
	}
	removed, err := s.surveys.Delete(r.Context(), req.ID)
	if err != nil {
		s.log.Error("failed to delete survey", zap.Int64("id", req.ID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, api.CodeUnexpectedError, "")
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, api.CodeNoItemsFound, "")
		return
	}
	s.log.Info("survey deleted", zap.Int64("id", req.ID))
	s.writeResult(w, true)
}

// minFuzzyLen is the shortest normalized title compared by edit distance;
// shorter titles must match exactly.
const minFuzzyLen = 10

var errNoTitle = errors.New("empty title")

func normalizeTitle(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}

// similarity is 1 minus the edit distance over the longer length.
func similarity(a, b string) (float64, error) {
	a, b = normalizeTitle(a), normalizeTitle(b)
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 0, errNoTitle
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest), nil
}

func (s *Server) findDuplicate(title string, existing []repository.TitleRef) (repository.TitleRef, bool) {
	norm := normalizeTitle(title)
	for _, ref := range existing {
		other := normalizeTitle(ref.Title)
		if other == norm {
			return ref, true
		}
		if len([]rune(norm)) < minFuzzyLen || len([]rune(other)) < minFuzzyLen {
			continue
		}
		if sim, err := similarity(norm, other); err == nil && sim >= s.threshold {
			return ref, true
		}
	}
	return repository.TitleRef{}, false
}

func toDTO(row repository.Survey) api.SurveyDTO {
	created, modified := row.CreatedAt, row.ModifiedAt
	dto := api.SurveyDTO{
		ID:                 row.ID,
		Title:              row.Title,
		Status:             row.Status,
		Type:               row.Type,
		Language:           row.Language,
		Responses:          row.Responses,
		CreatedByUserName:  row.CreatedByName,
		ModifiedByUserName: row.ModifiedByName,
	}
	if !created.IsZero() {
		dto.CreatedAt = ptrUTC(created)
	}
	if !modified.IsZero() {
		dto.ModifiedAt = ptrUTC(modified)
	}
	return dto
}

func ptrUTC(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
