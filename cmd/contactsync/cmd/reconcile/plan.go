package reconcile

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/m365ops/contactsync/cmd/application"
	"github.com/m365ops/contactsync/internal/cmd/emoji"
	"github.com/m365ops/contactsync/internal/cmd/output"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "plan [mailbox]",
		GroupID: "core",
		Short:   "Show what a sync would change",
		Args:    cobra.MaximumNArgs(1),
		Long: `Plan lists both sides and prints the action a sync would take for every
contact, without writing anything.`,
		Example: `  contactsync plan shared@contoso.com
  contactsync plan shared@contoso.com --no-delete -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.Mailbox = args[0]
			}

			app.Logger().Debug().Strs("flags", changedFlags(cmd)).Msg("Overriding configured sync options")

			opts := buildOptions(cmd, app.SyncOptions(), flags)
			return ExecutePlan(cmd.Context(), app, opts, cmd.OutOrStdout())
		},
	}

	addTargetFlags(cmd, flags)

	return cmd
}

// ExecutePlan lists both sides and prints the classification.
func ExecutePlan(ctx context.Context, app application.Application, opts *sync.Options, w io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	r, err := newReconciler(app, opts)
	if err != nil {
		return err
	}
	source, err := app.Directory()
	if err != nil {
		return err
	}
	store, err := app.Contacts()
	if err != nil {
		return err
	}

	directory, err := source.List(ctx)
	if err != nil {
		return errors.NewSyncError("list-directory", opts.Mailbox, err)
	}
	mailbox, err := store.List(ctx, opts.Mailbox)
	if err != nil {
		return errors.NewSyncError("list-mailbox", opts.Mailbox, err)
	}

	plan := r.Plan(directory, mailbox, opts.Delete)

	app.Logger().Debug().
		Int("steps", len(plan.Steps)).
		Int("duplicates", len(plan.Duplicates)).
		Msg("Planned sync")

	if err := output.Write(w, format, plan, output.PlanToTableData(plan)); err != nil {
		return err
	}
	if !format.IsTable() {
		return nil
	}

	fmt.Fprintf(w, "\n%d to create, %d to update, %d to delete, %d unchanged or skipped\n",
		plan.Count(reconciler.ActionCreate),
		plan.Count(reconciler.ActionUpdate),
		plan.Count(reconciler.ActionDelete),
		plan.Count(reconciler.ActionSkip))
	for _, dup := range plan.Duplicates {
		fmt.Fprintf(w, "%s %s (%s) duplicates an earlier contact and will be left alone\n",
			emoji.Warning, dup.ID, dup.Key())
	}
	if !plan.HasChanges() {
		fmt.Fprintf(w, "%s Mailbox is up to date.\n", emoji.Unchanged)
	}
	return nil
}
