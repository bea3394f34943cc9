package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m365ops/contactsync/internal/cmd/application"
	"github.com/m365ops/contactsync/internal/cmd/emoji"
	"github.com/m365ops/contactsync/internal/notify"
	"github.com/m365ops/contactsync/pkg/contacts"
	pkgerrors "github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

const mailbox = "shared@contoso.com"

type recordingMailer struct {
	to      []string
	subject string
	body    string
	err     error
}

func (m *recordingMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func newMock(store *reconciler.MemoryStore, format string, records ...contacts.DirectoryRecord) *application.Mock {
	return &application.Mock{
		DirectoryFunc: func() (reconciler.DirectorySource, error) {
			return reconciler.NewMemorySource(records...), nil
		},
		ContactsFunc: func() (reconciler.ContactStore, error) {
			return store, nil
		},
		OutputFormatFunc: func() string { return format },
	}
}

func staleContact() contacts.MailboxContact {
	return contacts.MailboxContact{
		ID:             "old-1",
		DisplayName:    "Gone",
		EmailAddresses: []contacts.EmailAddress{{Address: "gone@contoso.com"}},
	}
}

func runSync(t *testing.T, app *application.Mock, args ...string) (string, error) {
	t.Helper()
	cmd := NewSyncCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCommandCreatesAndDeletes(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox, staleContact())
	app := newMock(store, "table", contacts.DirectoryRecord{DisplayName: "Ada", Mail: "ada@contoso.com"})

	out, err := runSync(t, app, mailbox)
	require.NoError(t, err)

	assert.Len(t, store.CallsFor("create"), 1)
	assert.Len(t, store.CallsFor("delete"), 1)
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "1 created")

	remaining := store.Contacts(mailbox)
	require.Len(t, remaining, 1)
	assert.Equal(t, "ada@contoso.com", remaining[0].Key())
}

func TestSyncCommandNoDeleteKeepsStaleContacts(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox, staleContact())
	app := newMock(store, "table")

	_, err := runSync(t, app, mailbox, "--no-delete")
	require.NoError(t, err)

	assert.Empty(t, store.CallsFor("delete"))
	assert.Len(t, store.Contacts(mailbox), 1)
}

func TestSyncCommandDryRunWritesNothing(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox, staleContact())
	app := newMock(store, "json", contacts.DirectoryRecord{Mail: "ada@contoso.com"})

	out, err := runSync(t, app, mailbox, "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, store.Calls)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["dry_run"])
	assert.EqualValues(t, 1, result["created"])
	assert.EqualValues(t, 1, result["deleted"])
}

func TestSyncCommandRequiresMailbox(t *testing.T) {
	app := newMock(reconciler.NewMemoryStore(mailbox), "table")

	_, err := runSync(t, app)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestSyncCommandFailOnError(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox)
	store.FailOn["ada@contoso.com"] = errors.New("boom")
	app := newMock(store, "table", contacts.DirectoryRecord{Mail: "ada@contoso.com"})

	out, err := runSync(t, app, mailbox)
	require.NoError(t, err, "per-contact failures do not fail the run by default")
	assert.Contains(t, out, "boom")

	_, err = runSync(t, app, mailbox, "--fail-on-error")
	require.Error(t, err)
	var syncErr *pkgerrors.SyncError
	assert.ErrorAs(t, err, &syncErr)
}

func TestSyncCommandWritesReportAndNotifies(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox)
	app := newMock(store, "table", contacts.DirectoryRecord{Mail: "ada@contoso.com"})
	mailer := &recordingMailer{}
	var sender string
	app.MailerFunc = func(from string) (notify.Mailer, error) {
		sender = from
		return mailer, nil
	}
	report := filepath.Join(t.TempDir(), "sync.md")

	_, err := runSync(t, app, mailbox, "--report", report, "--notify", "ops@contoso.com")
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), mailbox)

	assert.Equal(t, mailbox, sender)
	assert.Equal(t, []string{"ops@contoso.com"}, mailer.to)
	assert.Contains(t, mailer.body, "ada@contoso.com")
}

func TestSyncCommandNotifyFailureIsNotFatal(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox)
	app := newMock(store, "table", contacts.DirectoryRecord{Mail: "ada@contoso.com"})
	app.MailerFunc = func(string) (notify.Mailer, error) {
		return &recordingMailer{err: errors.New("smtp down")}, nil
	}

	_, err := runSync(t, app, mailbox, "--notify", "ops@contoso.com", "--notify-from", "noreply@contoso.com")
	require.NoError(t, err)
	assert.Len(t, store.CallsFor("create"), 1)
}

func TestSyncCommandListingFailure(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox)
	app := newMock(store, "table")
	app.DirectoryFunc = func() (reconciler.DirectorySource, error) {
		return reconciler.NewFailingSource(errors.New("directory unavailable")), nil
	}

	_, err := runSync(t, app, mailbox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory unavailable")
	assert.Empty(t, store.Calls)
}

func TestBuildOptions(t *testing.T) {
	base := func() *sync.Options {
		return sync.Defaults().Apply(
			sync.WithMailbox("config@contoso.com"),
			sync.WithNotify("config-sender@contoso.com", "config@contoso.com"),
		)
	}

	t.Run("config values survive without flags", func(t *testing.T) {
		cmd := NewSyncCommand(&application.Mock{})
		require.NoError(t, cmd.ParseFlags(nil))
		opts := buildOptions(cmd, base(), &Flags{})
		assert.Equal(t, "config@contoso.com", opts.Mailbox)
		assert.True(t, opts.Delete)
		assert.Equal(t, "config-sender@contoso.com", opts.Sender())
	})

	t.Run("flags override config", func(t *testing.T) {
		cmd := NewSyncCommand(&application.Mock{})
		require.NoError(t, cmd.ParseFlags([]string{"--delete=false"}))
		opts := buildOptions(cmd, base(), &Flags{
			Mailbox:  " other@contoso.com ",
			Delete:   false,
			NotifyTo: []string{"ops@contoso.com"},
		})
		assert.Equal(t, "other@contoso.com", opts.Mailbox)
		assert.False(t, opts.Delete)
		assert.Equal(t, []string{"ops@contoso.com"}, opts.NotifyTo)
		assert.Equal(t, "config-sender@contoso.com", opts.NotifyFrom)
	})
}

func TestExcludeFlagKeepsCommas(t *testing.T) {
	cmd := NewSyncCommand(&application.Mock{})
	flags := &Flags{}
	require.NoError(t, cmd.ParseFlags([]string{"--exclude", `re:^svc-\d{1,3}@`, "--exclude", "*@partner.com"}))
	flags.Exclude, _ = cmd.Flags().GetStringArray("exclude")

	opts := buildOptions(cmd, sync.Defaults(), flags)
	assert.Equal(t, []string{`re:^svc-\d{1,3}@`, "*@partner.com"}, opts.Exclude)
}

func TestChangedFlags(t *testing.T) {
	cmd := NewSyncCommand(&application.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{"--no-delete", "--dry-run", "-m", "shared@contoso.com"}))
	assert.Equal(t, []string{"dry-run", "mailbox", "no-delete"}, changedFlags(cmd))

	untouched := NewPlanCommand(&application.Mock{})
	require.NoError(t, untouched.ParseFlags(nil))
	assert.Empty(t, changedFlags(untouched))
}

func TestPlanCommand(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox, staleContact())
	app := newMock(store, "table",
		contacts.DirectoryRecord{Mail: "ada@contoso.com"},
		contacts.DirectoryRecord{DisplayName: "No Mail"},
	)

	cmd := NewPlanCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{mailbox})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Empty(t, store.Calls)
	text := out.String()
	assert.Contains(t, text, "ada@contoso.com")
	assert.Contains(t, text, "old-1")
	assert.Contains(t, text, reconciler.ReasonNoEmail)
	assert.Contains(t, text, "1 to create, 0 to update, 1 to delete, 1 unchanged or skipped")
}

func TestPlanCommandNoDelete(t *testing.T) {
	store := reconciler.NewMemoryStore(mailbox, staleContact())
	app := newMock(store, "json")

	cmd := NewPlanCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{mailbox, "--no-delete"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var plan reconciler.Plan
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	assert.Empty(t, plan.Steps)
}

func TestStatusSymbol(t *testing.T) {
	tests := []struct {
		name   string
		result *sync.Result
		want   string
	}{
		{name: "errors win", result: &sync.Result{Errored: 1, Created: 1, DryRun: true}, want: emoji.Error},
		{name: "dry run", result: &sync.Result{DryRun: true, Created: 1}, want: emoji.DryRun},
		{name: "nothing to do", result: &sync.Result{Skipped: 3}, want: emoji.Unchanged},
		{name: "changes applied", result: &sync.Result{Updated: 2}, want: emoji.Success},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusSymbol(tt.result))
		})
	}
}

func TestSyncCommandExclude(t *testing.T) {
	guest := contacts.MailboxContact{
		ID:             "guest-1",
		EmailAddresses: []contacts.EmailAddress{{Address: "guest@partner.com"}},
	}
	store := reconciler.NewMemoryStore(mailbox, guest)
	app := newMock(store, "table", contacts.DirectoryRecord{Mail: "vendor@partner.com"})

	_, err := runSync(t, app, mailbox, "--exclude", "*@partner.com")
	require.NoError(t, err)
	assert.Empty(t, store.Calls)
}

func TestSyncCommandRejectsUnknownIgnoredField(t *testing.T) {
	app := newMock(reconciler.NewMemoryStore(mailbox), "table")

	_, err := runSync(t, app, mailbox, "--ignore-field", "shoeSize")
	require.Error(t, err)
	var configErr *pkgerrors.ConfigError
	assert.ErrorAs(t, err, &configErr)
}
