// internal/ingest/outcome.go
package ingest

import "github.com/samhanlabs/gmvboard/internal/domain"

// Batch is the validated output of one pipeline run: the rows that
// survived row-level validation plus everything worth telling the caller.
type Batch struct {
	Records  []domain.CampaignRecord
	Errors   []string
	Warnings []string
}

// Rejection aborts a whole batch before any write. Exactly one of
// Batch/Rejection comes back from Process.
type Rejection struct {
	Reason    string
	Errors    []string
	Conflicts []string
}

// Result is the final accounting after the batch has been persisted.
type Result struct {
	Processed int
	Inserted  int
	Updated   int
	Errors    []string
	Warnings  []string
}
