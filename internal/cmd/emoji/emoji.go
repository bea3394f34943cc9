// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols printed in front of run summaries.
const (
	// Success marks a run in which every contact was written.
	Success = "✓"

	// Error marks a run with at least one failed contact.
	Error = "✗"

	// Warning marks duplicates and other conditions worth a look.
	Warning = "!"

	// DryRun marks a run that wrote nothing.
	DryRun = "~"

	// Unchanged marks a mailbox that is already up to date.
	Unchanged = "="
)
