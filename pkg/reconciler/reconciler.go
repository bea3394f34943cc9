// Package reconciler keeps a mailbox contact folder in step with the
// organization directory. It indexes mailbox contacts by e-mail, classifies
// every directory record as create, update or skip, optionally removes
// contacts that left the directory, and applies the writes one at a time.
package reconciler

import (
	"context"

	"github.com/m365ops/contactsync/internal/matcher"
	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/differ"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/logging"
	"github.com/m365ops/contactsync/pkg/sync"
)

// DirectorySource lists the organization contacts that act as the source of truth.
type DirectorySource interface {
	List(ctx context.Context) ([]contacts.DirectoryRecord, error)
}

// ContactStore reads and writes the personal contacts of a mailbox.
type ContactStore interface {
	List(ctx context.Context, mailbox string) ([]contacts.MailboxContact, error)
	Create(ctx context.Context, mailbox string, body contacts.Body) (string, error)
	Update(ctx context.Context, mailbox, id string, patch contacts.Body) error
	Delete(ctx context.Context, mailbox, id string) error
}

// Reconciler is the main interface for synchronizing a mailbox.
type Reconciler interface {
	// Plan classifies records without writing anything.
	Plan(directory []contacts.DirectoryRecord, mailbox []contacts.MailboxContact, deleteEnabled bool) *Plan

	// Reconcile lists both sides, plans, and applies the plan to the mailbox.
	// An error is returned only when a listing fails; per-contact failures
	// are reported in the result.
	Reconcile(ctx context.Context, opts *sync.Options) (*sync.Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	source  DirectorySource
	store   ContactStore
	differ  differ.Differ
	exclude *matcher.Set
	runID   func() string
}

// New creates a new Reconciler with options.
func New(source DirectorySource, store ContactStore, opts ...Option) (Reconciler, error) {
	if source == nil {
		return nil, &errors.ValidationError{Field: "source", Message: "cannot be nil"}
	}
	if store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "cannot be nil"}
	}

	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &reconciler{
		source:  source,
		store:   store,
		differ:  options.differ,
		exclude: options.exclude,
		runID:   options.runID,
	}, nil
}

// Plan classifies records without writing anything.
func (r *reconciler) Plan(directory []contacts.DirectoryRecord, mailbox []contacts.MailboxContact, deleteEnabled bool) *Plan {
	return plan(r.differ, r.exclude, directory, mailbox, deleteEnabled)
}

// Reconcile performs one sync run.
func (r *reconciler) Reconcile(ctx context.Context, opts *sync.Options) (*sync.Result, error) {
	if opts == nil {
		opts = sync.Defaults()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := sync.NewResult(r.runID(), opts)
	ctx = logging.WithRunID(ctx, result.RunID)
	ctx = logging.WithMailbox(ctx, opts.Mailbox)
	logger := logging.FromContext(ctx)

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// Step 1: Read both sides in full before any write
	directory, err := r.source.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list directory contacts")
		return nil, errors.NewSyncError("list-directory", opts.Mailbox, err)
	}

	mailbox, err := r.store.List(ctx, opts.Mailbox)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list mailbox contacts")
		return nil, errors.NewSyncError("list-mailbox", opts.Mailbox, err)
	}

	logger.Info().
		Int("directory_count", len(directory)).
		Int("mailbox_count", len(mailbox)).
		Bool("delete", opts.Delete).
		Bool("dry_run", opts.DryRun).
		Msg("Loaded contacts")

	// Step 2: Classify
	p := r.Plan(directory, mailbox, opts.Delete)
	result.Total = p.Total
	for _, dup := range p.Duplicates {
		logger.Warn().
			Str("contact_id", dup.ID).
			Str("contact", dup.Key()).
			Msg("Ignoring mailbox contact with duplicate e-mail")
		result.Duplicates = append(result.Duplicates, dup.ID)
	}

	// Step 3: Apply
	for _, step := range p.Steps {
		r.apply(ctx, opts, step, result)
	}

	result.Finish()
	logger.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("deleted", result.Deleted).
		Int("errored", result.Errored).
		Dur("duration", result.Duration()).
		Msg("Sync completed")

	return result, nil
}

// apply executes one step and records its outcome. Failures are logged and
// counted; they never stop the run.
func (r *reconciler) apply(ctx context.Context, opts *sync.Options, step Step, result *sync.Result) {
	ctx = logging.WithContact(ctx, step.ID)
	logger := logging.FromContext(ctx)

	switch step.Action {
	case ActionSkip:
		logger.Debug().Str("reason", step.Reason).Msg("Skipping contact")
		result.Record(sync.OutcomeSkipped, step.ID)

	case ActionCreate:
		if opts.DryRun {
			logger.Info().Strs("fields", step.Body.Fields()).Msg("Would create contact")
			result.Record(sync.OutcomeCreated, step.ID)
			return
		}
		id, err := r.store.Create(ctx, opts.Mailbox, step.Body)
		if err != nil {
			r.fail(ctx, result, step, "create", err)
			return
		}
		logger.Info().Str("contact_id", id).Msg("Created contact")
		result.Record(sync.OutcomeCreated, step.ID)

	case ActionUpdate:
		if !opts.DryRun {
			if err := r.store.Update(ctx, opts.Mailbox, step.ContactID, step.Update.Patch); err != nil {
				r.fail(ctx, result, step, "update", err)
				return
			}
		}
		logger.Info().
			Str("contact_id", step.ContactID).
			Strs("fields", step.Update.Fields()).
			Bool("dry_run", opts.DryRun).
			Msg("Updated contact")
		result.Record(sync.OutcomeUpdated, step.ID)
		result.Updates = append(result.Updates, *step.Update)

	case ActionDelete:
		if !opts.DryRun {
			if err := r.store.Delete(ctx, opts.Mailbox, step.ContactID); err != nil {
				r.fail(ctx, result, step, "delete", err)
				return
			}
		}
		logger.Info().
			Str("contact_id", step.ContactID).
			Bool("dry_run", opts.DryRun).
			Msg("Deleted contact")
		result.Record(sync.OutcomeDeleted, step.ID)
	}
}

func (r *reconciler) fail(ctx context.Context, result *sync.Result, step Step, operation string, err error) {
	err = errors.WrapResource(operation, "contact", step.ID, err)
	logging.FromContext(ctx).Error().
		Err(err).
		Str("contact_id", step.ContactID).
		Msg("Failed to " + operation + " contact")
	result.RecordError(step.ID, operation, err)
}
