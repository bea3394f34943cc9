// Package export provides commands that print one side of a sync.
package export

import (
	"github.com/spf13/cobra"

	"github.com/m365ops/contactsync/cmd/application"
	"github.com/m365ops/contactsync/internal/cmd/output"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/sync"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Print directory or mailbox contacts",
		Long: `Export lists the contacts on one side of a sync and prints them as a
table, JSON, or YAML. Use it to inspect what a sync will read.`,
		Example: `  contactsync export directory -o json
  contactsync export mailbox shared@contoso.com -o yaml`,
	}

	cmd.AddCommand(newDirectoryCommand(app))
	cmd.AddCommand(newMailboxCommand(app))

	return cmd
}

func newDirectoryCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "directory",
		Aliases: []string{"dir", "org"},
		Short:   "Print organization contacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			source, err := app.Directory()
			if err != nil {
				return err
			}
			records, err := source.List(cmd.Context())
			if err != nil {
				return errors.WrapResource("list", "directory", "", err)
			}

			app.Logger().Debug().Int("count", len(records)).Msg("Listed directory contacts")
			return output.Write(cmd.OutOrStdout(), format, records, output.DirectoryToTableData(records))
		},
	}
}

func newMailboxCommand(app application.Application) *cobra.Command {
	var mailbox string

	cmd := &cobra.Command{
		Use:   "mailbox [mailbox]",
		Short: "Print the personal contacts of a mailbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				mailbox = args[0]
			}
			opts := app.SyncOptions()
			if mailbox != "" {
				opts.Apply(sync.WithMailbox(mailbox))
			}
			if opts.Mailbox == "" {
				return &errors.ValidationError{Field: "mailbox", Message: "target mailbox is required"}
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			store, err := app.Contacts()
			if err != nil {
				return err
			}
			existing, err := store.List(cmd.Context(), opts.Mailbox)
			if err != nil {
				return errors.WrapResource("list", "mailbox", opts.Mailbox, err)
			}

			app.Logger().Debug().
				Str("mailbox", opts.Mailbox).
				Int("count", len(existing)).
				Msg("Listed mailbox contacts")
			return output.Write(cmd.OutOrStdout(), format, existing, output.MailboxToTableData(existing))
		},
	}

	cmd.Flags().StringVarP(&mailbox, "mailbox", "m", "", "Target mailbox (user ID or UPN)")

	return cmd
}
