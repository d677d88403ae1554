package domain

import "time"

// Job is created once per analysis run and never mutated afterwards.
type Job struct {
	ID          string
	Title       string
	Description string
	Company     string
	Location    string
	CreatedAt   time.Time
}
