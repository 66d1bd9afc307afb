package db

import (
	"time"

	"github.com/japaniel/animedeck/pkg/deck"
)

// Show is a processed series.
type Show struct {
	ID        int64
	Name      string
	UpdatedAt time.Time
	Words     int
}

// ShowVocabulary is one show's stored table, in export order.
type ShowVocabulary struct {
	Show string
	Rows []deck.VocabRow
}

// Run status values.
const (
	RunRunning = "running"
	RunOK      = "ok"
	RunFailed  = "failed"
)

// Run records one invocation of the pipeline.
type Run struct {
	ID         string
	Command    string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	Detail     string
}
