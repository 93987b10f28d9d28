package repository

import "time"

// User is a survey author.
type User struct {
	ID   int64
	Name string
}

// Survey represents a surveys row joined with its author names.
type Survey struct {
	ID             int64
	Title          string
	Status         string
	Type           string
	Language       string
	Responses      int
	CreatedBy      int64
	ModifiedBy     int64
	CreatedByName  string
	ModifiedByName string
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// TitleRef is the slice of a survey needed for duplicate checks.
type TitleRef struct {
	ID    int64
	Title string
}
