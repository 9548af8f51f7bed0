package entity

import "time"

const (
	RunRunning   = "RUNNING"
	RunCompleted = "COMPLETED"
	RunFailed    = "FAILED"
)

// IngestRun records one invocation of the pipeline.
type IngestRun struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        *time.Time
	Status            string // RUNNING, COMPLETED, FAILED
	Source            string
	Enrich            bool
	RowsRead          int
	MonumentsInserted int
	MonumentsExisting int
	MonumentsUpdated  int
	LicensesInserted  int
	PicturesInserted  int
	PicturesExisting  int
	// Truncation describes the parse error that cut the feed short. The
	// run still completes with the rows read before it.
	Truncation        string
	Error             string
}
