// Package reconcile provides the sync and plan commands.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m365ops/contactsync/cmd/application"
	"github.com/m365ops/contactsync/internal/cmd/emoji"
	"github.com/m365ops/contactsync/internal/cmd/output"
	"github.com/m365ops/contactsync/internal/notify"
	"github.com/m365ops/contactsync/pkg/differ"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/logging"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "sync [mailbox]",
		GroupID: "core",
		Short:   "Mirror directory contacts into a mailbox",
		Args:    cobra.MaximumNArgs(1),
		Long: `Sync reads every organization contact and every personal contact of the
target mailbox, then brings the mailbox in line with the directory:

• Directory contacts missing from the mailbox are created
• Contacts that differ are patched with only the changed fields
• Contacts that match are left alone
• Mailbox contacts that left the directory are deleted (unless --no-delete)

Contacts are matched by lowercased e-mail address. Directory records without
an address are skipped. A failure on one contact is reported and the run
moves on to the next.`,
		Example: `  contactsync sync shared@contoso.com                 # Sync one mailbox
  contactsync sync shared@contoso.com --dry-run       # Preview changes
  contactsync sync shared@contoso.com --no-delete     # Never remove contacts
  contactsync sync -m shared@contoso.com --notify ops@contoso.com
  contactsync sync shared@contoso.com --report sync.md -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Positional mailbox takes precedence over --mailbox
			if len(args) == 1 {
				flags.Mailbox = args[0]
			}

			app.Logger().Debug().Strs("flags", changedFlags(cmd)).Msg("Overriding configured sync options")

			opts := buildOptions(cmd, app.SyncOptions(), flags)
			return ExecuteSync(cmd.Context(), app, opts, cmd.OutOrStdout())
		},
	}

	flags = addSyncFlags(cmd)

	return cmd
}

// ExecuteSync runs one reconciliation and reports the result.
func ExecuteSync(ctx context.Context, app application.Application, opts *sync.Options, w io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	r, err := newReconciler(app, opts)
	if err != nil {
		return err
	}

	result, err := r.Reconcile(ctx, opts)
	if err != nil {
		return err
	}

	// Reporting failures never fail the run; the writes already happened.
	if opts.ReportPath != "" {
		if path, err := notify.WriteReport(opts.ReportPath, result); err != nil {
			logger.Warn().Err(err).Str("path", opts.ReportPath).Msg("Failed to write report")
		} else {
			logger.Info().Str("path", path).Msg("Wrote report")
		}
	}

	if len(opts.NotifyTo) > 0 {
		if err := deliver(ctx, app, opts, result); err != nil {
			logger.Warn().Err(err).Strs("to", opts.NotifyTo).Msg("Failed to send summary")
		}
	}

	if err := printResult(w, format, result); err != nil {
		return err
	}

	if opts.FailOnError && result.HasErrors() {
		return errors.NewSyncError("apply", opts.Mailbox,
			fmt.Errorf("%d contact(s) could not be written", result.Errored))
	}

	return nil
}

func newReconciler(app application.Application, opts *sync.Options) (reconciler.Reconciler, error) {
	d, err := differ.New(differ.WithIgnoredFields(opts.IgnoreFields...))
	if err != nil {
		return nil, err
	}

	source, err := app.Directory()
	if err != nil {
		return nil, err
	}
	store, err := app.Contacts()
	if err != nil {
		return nil, err
	}

	return reconciler.New(source, store,
		reconciler.WithDiffer(d),
		reconciler.WithExclude(opts.Exclude...),
	)
}

func deliver(ctx context.Context, app application.Application, opts *sync.Options, result *sync.Result) error {
	mailer, err := app.Mailer(opts.Sender())
	if err != nil {
		return err
	}
	return notify.Deliver(ctx, mailer, opts, result)
}

// printResult writes the outcome table, or the full result for structured
// formats.
func printResult(w io.Writer, format output.Format, result *sync.Result) error {
	if err := output.Write(w, format, result, output.ResultToTableData(result)); err != nil {
		return err
	}
	if !format.IsTable() {
		return nil
	}

	fmt.Fprintf(w, "\n%s %s\n", statusSymbol(result), result.Summary())
	if len(result.Duplicates) > 0 {
		fmt.Fprintf(w, "%s %d mailbox contact(s) share an e-mail with an earlier contact and were left alone: %s\n",
			emoji.Warning, len(result.Duplicates), strings.Join(result.Duplicates, ", "))
	}
	if len(result.Updates) > 0 {
		fmt.Fprintln(w, "\nUpdated fields:")
		for i := range result.Updates {
			result.Updates[i].Print(w)
		}
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  • %s (%s): %s\n", e.ID, e.Operation, e.Message)
		}
	}
	return nil
}

func statusSymbol(result *sync.Result) string {
	switch {
	case result.HasErrors():
		return emoji.Error
	case result.DryRun:
		return emoji.DryRun
	case !result.HasChanges():
		return emoji.Unchanged
	}
	return emoji.Success
}
