package domain

import "time"

// FailureRecord captures one repository that failed classification
// terminally. Records are append-only: a later retry pass produces a fresh
// record rather than mutating an existing one. RetryCount is the number of
// records already on file for the repository when this one was persisted.
type FailureRecord struct {
	ID         string    `json:"id"`
	Repository string    `json:"repository"`
	URL        string    `json:"url"`
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
	RetryCount int       `json:"retry_count"`
}
