package api

import (
	"encoding/json"
	"time"

	"github.com/jask/surveyboard/internal/survey"
)

// ResultCode is the numeric code carried by an envelope error.
type ResultCode int

const (
	CodeSuccess            ResultCode = 0
	CodeNoItemsFound       ResultCode = 1
	CodeAPIPostFailed      ResultCode = 2
	CodeUnexpectedError    ResultCode = 3
	CodeDuplicateData      ResultCode = 4
	CodeInvalidCredentials ResultCode = 5
)

// Description is the default human text for a code.
func (c ResultCode) Description() string {
	switch c {
	case CodeSuccess:
		return "Success"
	case CodeNoItemsFound:
		return "No items found."
	case CodeAPIPostFailed:
		return "API Post Failed."
	case CodeDuplicateData:
		return "Duplicate data found."
	case CodeInvalidCredentials:
		return "Invalid Credentials."
	default:
		return "An unexpected error occurred."
	}
}

// Envelope wraps every response body.
type Envelope struct {
	Result json.RawMessage `json:"Result"`
	Error  *ErrorBody      `json:"Error,omitempty"`
}

// ErrorBody is the Error member of an envelope.
type ErrorBody struct {
	Code    ResultCode `json:"Code"`
	Message string     `json:"Message"`
}

// SurveyDTO is the wire form of a survey. Readers go through
// survey.Normalize instead of this type so that casing differences in
// upstream payloads are absorbed in one place.
type SurveyDTO struct {
	ID                 int64      `json:"ID"`
	Title              string     `json:"Title"`
	Status             string     `json:"Status"`
	Type               string     `json:"Type"`
	Language           string     `json:"Language"`
	Responses          int        `json:"Responses"`
	CreatedAt          *time.Time `json:"CreatedAt,omitempty"`
	ModifiedAt         *time.Time `json:"ModifiedAt,omitempty"`
	CreatedByUserName  string     `json:"CreatedByUserName,omitempty"`
	ModifiedByUserName string     `json:"ModifiedByUserName,omitempty"`
}

// AddRequest is the body of POST /API/Survey/Add.
type AddRequest struct {
	Title      string `json:"Title"`
	Status     string `json:"Status"`
	CreatedBy  int64  `json:"CreatedBy"`
	ModifiedAt string `json:"ModifiedAt"`
	ModifiedBy int64  `json:"ModifiedBy"`
	Type       string `json:"Type"`
	Language   string `json:"Language"`
	Responses  int    `json:"Responses"`
}

// DeleteRequest is the body of POST /API/Survey/Delete.
type DeleteRequest struct {
	ID int64 `json:"ID"`
}

// NewAddRequest converts form input to its wire form.
func NewAddRequest(in survey.Input) AddRequest {
	modified := in.ModifiedAt
	if modified.IsZero() {
		modified = time.Now()
	}
	return AddRequest{
		Title:      in.Title,
		Status:     string(in.Status),
		CreatedBy:  in.CreatedBy,
		ModifiedAt: modified.UTC().Format(time.RFC3339Nano),
		ModifiedBy: in.ModifiedBy,
		Type:       in.Type,
		Language:   in.Language,
		Responses:  in.Responses,
	}
}
