package reconcile

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/m365ops/contactsync/pkg/sync"
)

// Flags holds the flags of the sync and plan commands.
type Flags struct {
	Mailbox      string
	Delete       bool
	NoDelete     bool
	DryRun       bool
	FailOnError  bool
	Timeout      time.Duration
	Exclude      []string
	IgnoreFields []string
	NotifyTo     []string
	NotifyFrom   string
	ReportPath   string
}

// addSyncFlags adds sync-specific flags to the command.
func addSyncFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	addTargetFlags(cmd, flags)

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Classify and report without writing to the mailbox")
	cmd.Flags().BoolVar(&flags.FailOnError, "fail-on-error", false,
		"Exit non-zero when any contact could not be written")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0,
		"Deadline for the whole run; contacts left when it passes are reported as errors (default none)")
	cmd.Flags().StringSliceVar(&flags.NotifyTo, "notify", nil,
		"E-mail the run summary to these recipients (repeatable)")
	cmd.Flags().StringVar(&flags.NotifyFrom, "notify-from", "",
		"Mailbox that sends the summary (default is the target mailbox)")
	cmd.Flags().StringVar(&flags.ReportPath, "report", "",
		"Write a Markdown report of the run to this file, or a timestamped file in this directory")

	return flags
}

// addTargetFlags adds the flags shared by sync and plan.
func addTargetFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.Mailbox, "mailbox", "m", "",
		"Target mailbox (user ID or UPN)")
	cmd.Flags().BoolVar(&flags.Delete, "delete", true,
		"Remove mailbox contacts that no longer exist in the directory")
	cmd.Flags().BoolVar(&flags.NoDelete, "no-delete", false,
		"Keep mailbox contacts that left the directory")
	cmd.MarkFlagsMutuallyExclusive("delete", "no-delete")
	cmd.Flags().StringArrayVar(&flags.Exclude, "exclude", nil,
		"Leave addresses matching this glob, or regex with a re: prefix, alone (repeatable)")
	cmd.Flags().StringSliceVar(&flags.IgnoreFields, "ignore-field", nil,
		"Never update this contact field, e.g. mobilePhone (repeatable)")
}

// buildOptions overlays the flags that were set on the configured options.
func buildOptions(cmd *cobra.Command, base *sync.Options, flags *Flags) *sync.Options {
	var opts []sync.Option

	if flags.Mailbox != "" {
		opts = append(opts, sync.WithMailbox(flags.Mailbox))
	}
	if cmd.Flags().Changed("delete") {
		opts = append(opts, sync.WithDelete(flags.Delete))
	}
	if flags.NoDelete {
		opts = append(opts, sync.WithDelete(false))
	}
	if flags.DryRun {
		opts = append(opts, sync.WithDryRun(true))
	}
	if flags.FailOnError {
		opts = append(opts, sync.WithFailOnError(true))
	}
	if flags.Timeout > 0 {
		opts = append(opts, sync.WithTimeout(flags.Timeout))
	}
	if len(flags.NotifyTo) > 0 {
		from := flags.NotifyFrom
		if from == "" {
			from = base.NotifyFrom
		}
		opts = append(opts, sync.WithNotify(from, flags.NotifyTo...))
	} else if flags.NotifyFrom != "" {
		base.NotifyFrom = flags.NotifyFrom
	}
	if flags.ReportPath != "" {
		opts = append(opts, sync.WithReportPath(flags.ReportPath))
	}
	if len(flags.Exclude) > 0 {
		opts = append(opts, sync.WithExclude(append(base.Exclude, flags.Exclude...)...))
	}
	if len(flags.IgnoreFields) > 0 {
		opts = append(opts, sync.WithIgnoredFields(append(base.IgnoreFields, flags.IgnoreFields...)...))
	}

	return base.Apply(opts...)
}

// changedFlags lists the flags given on the command line, sorted by name.
func changedFlags(cmd *cobra.Command) []string {
	var names []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	return names
}
