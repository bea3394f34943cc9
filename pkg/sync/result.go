package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/m365ops/contactsync/pkg/differ"
)

// Outcome is the terminal state assigned to one record in a run.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeDeleted Outcome = "deleted"
	OutcomeErrored Outcome = "errored"
)

// RecordError describes a single contact that could not be written.
type RecordError struct {
	ID        string `json:"id" yaml:"id"`               // Contact key or mailbox ID
	Operation string `json:"operation" yaml:"operation"` // create, update or delete
	Message   string `json:"message" yaml:"message"`
}

// Result represents the complete result of a sync run.
type Result struct {
	// Run metadata
	RunID         string   `json:"run_id" yaml:"run_id"`
	Mailbox       string   `json:"mailbox" yaml:"mailbox"`
	DryRun        bool     `json:"dry_run" yaml:"dry_run"`
	DeleteEnabled bool     `json:"delete_enabled" yaml:"delete_enabled"`
	StartedAt     utc.Time `json:"started_at" yaml:"started_at"`
	FinishedAt    utc.Time `json:"finished_at" yaml:"finished_at"`

	// Counts
	Total   int `json:"total" yaml:"total"` // Directory records considered
	Created int `json:"created" yaml:"created"`
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Deleted int `json:"deleted" yaml:"deleted"`
	Errored int `json:"errored" yaml:"errored"`

	// Per-category identifiers
	CreatedIDs []string `json:"created_ids,omitempty" yaml:"created_ids,omitempty"`
	UpdatedIDs []string `json:"updated_ids,omitempty" yaml:"updated_ids,omitempty"`
	SkippedIDs []string `json:"skipped_ids,omitempty" yaml:"skipped_ids,omitempty"`
	DeletedIDs []string `json:"deleted_ids,omitempty" yaml:"deleted_ids,omitempty"`
	ErroredIDs []string `json:"errored_ids,omitempty" yaml:"errored_ids,omitempty"`

	// Details
	Errors     []RecordError          `json:"errors,omitempty" yaml:"errors,omitempty"`
	Updates    []differ.ContactUpdate `json:"updates,omitempty" yaml:"updates,omitempty"`
	Duplicates []string               `json:"duplicates,omitempty" yaml:"duplicates,omitempty"` // Mailbox contact IDs sharing a key with an earlier contact
}

// NewResult starts a result for the given run.
func NewResult(runID string, opts *Options) *Result {
	return &Result{
		RunID:         runID,
		Mailbox:       opts.Mailbox,
		DryRun:        opts.DryRun,
		DeleteEnabled: opts.Delete,
		StartedAt:     utc.Now(),
	}
}

// Record assigns an outcome to the identified record.
func (sr *Result) Record(outcome Outcome, id string) {
	switch outcome {
	case OutcomeCreated:
		sr.Created++
		sr.CreatedIDs = append(sr.CreatedIDs, id)
	case OutcomeUpdated:
		sr.Updated++
		sr.UpdatedIDs = append(sr.UpdatedIDs, id)
	case OutcomeSkipped:
		sr.Skipped++
		sr.SkippedIDs = append(sr.SkippedIDs, id)
	case OutcomeDeleted:
		sr.Deleted++
		sr.DeletedIDs = append(sr.DeletedIDs, id)
	case OutcomeErrored:
		sr.Errored++
		sr.ErroredIDs = append(sr.ErroredIDs, id)
	}
}

// RecordError counts a failed write and keeps its cause.
func (sr *Result) RecordError(id, operation string, err error) {
	sr.Record(OutcomeErrored, id)
	sr.Errors = append(sr.Errors, RecordError{ID: id, Operation: operation, Message: err.Error()})
}

// Finish stamps the completion time.
func (sr *Result) Finish() {
	sr.FinishedAt = utc.Now()
}

// Duration returns how long the run took.
func (sr *Result) Duration() time.Duration {
	if sr.FinishedAt.Time.IsZero() {
		return 0
	}
	return sr.FinishedAt.Time.Sub(sr.StartedAt.Time)
}

// HasChanges returns true if the run wrote, or in a dry run would write, anything.
func (sr *Result) HasChanges() bool {
	return sr.Created > 0 || sr.Updated > 0 || sr.Deleted > 0
}

// HasErrors returns true if any record failed.
func (sr *Result) HasErrors() bool {
	return sr.Errored > 0
}

// IDs returns the identifiers recorded for an outcome.
func (sr *Result) IDs(outcome Outcome) []string {
	switch outcome {
	case OutcomeCreated:
		return sr.CreatedIDs
	case OutcomeUpdated:
		return sr.UpdatedIDs
	case OutcomeSkipped:
		return sr.SkippedIDs
	case OutcomeDeleted:
		return sr.DeletedIDs
	case OutcomeErrored:
		return sr.ErroredIDs
	}
	return nil
}

// Count returns the number of records with outcome.
func (sr *Result) Count(outcome Outcome) int {
	switch outcome {
	case OutcomeCreated:
		return sr.Created
	case OutcomeUpdated:
		return sr.Updated
	case OutcomeSkipped:
		return sr.Skipped
	case OutcomeDeleted:
		return sr.Deleted
	case OutcomeErrored:
		return sr.Errored
	}
	return 0
}

// Summary returns a one line summary of the run.
func (sr *Result) Summary() string {
	summary := fmt.Sprintf("%s: %d total, %d created, %d updated, %d skipped, %d deleted, %d errored",
		sr.Mailbox, sr.Total, sr.Created, sr.Updated, sr.Skipped, sr.Deleted, sr.Errored)

	var flags []string
	if sr.DryRun {
		flags = append(flags, "(Dry run)")
	}
	if !sr.DeleteEnabled {
		flags = append(flags, "(Deletion disabled)")
	}
	if len(flags) > 0 {
		summary += " " + strings.Join(flags, " ")
	}
	return summary
}

// Outcomes lists every outcome in report order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeCreated, OutcomeUpdated, OutcomeDeleted, OutcomeSkipped, OutcomeErrored}
}
