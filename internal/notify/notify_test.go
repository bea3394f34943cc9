package notify_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m365ops/contactsync/internal/notify"
	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/differ"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/sync"
)

func sampleResult() *sync.Result {
	opts := sync.Defaults().Apply(sync.WithMailbox("shared@contoso.com"))
	r := sync.NewResult("run-1", opts)
	r.Total = 3
	r.Record(sync.OutcomeCreated, "ann@contoso.com")
	r.Record(sync.OutcomeUpdated, "bob@contoso.com")
	r.Updates = append(r.Updates, differ.ContactUpdate{
		ID:    "c2",
		Key:   "bob@contoso.com",
		Patch: contacts.Body{JobTitle: ptr.To("Manager")},
		Changes: []differ.FieldChange{
			{Path: "jobTitle", OldValue: "Engineer", NewValue: "Manager", Type: differ.ChangeTypeUpdate},
		},
	})
	r.RecordError("eve@contoso.com", "create", errors.New("quota exceeded"))
	r.Duplicates = []string{"c9"}
	r.Finish()
	return r
}

func TestRenderMarkdown(t *testing.T) {
	out, err := notify.RenderMarkdown(sampleResult())
	require.NoError(t, err)

	assert.Contains(t, out, "# Contact sync for shared@contoso.com")
	assert.Contains(t, strings.ToLower(out), "outcome")
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "`ann@contoso.com`")
	assert.Contains(t, out, "## Changes")
	assert.Contains(t, out, "bob@contoso.com: jobTitle")
	assert.Contains(t, out, "## Errors")
	assert.Contains(t, out, "quota exceeded")
	assert.Contains(t, out, "## Duplicate mailbox contacts")
	assert.Contains(t, out, "`run-1`")
	assert.NotContains(t, out, "## Deleted")
}

func TestRenderMarkdownNil(t *testing.T) {
	_, err := notify.RenderMarkdown(nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestSubject(t *testing.T) {
	r := sampleResult()
	assert.Equal(t, "Contact sync for shared@contoso.com: 1 created, 1 updated, 0 deleted, 1 errored", notify.Subject(r))

	r.DryRun = true
	assert.True(t, strings.HasPrefix(notify.Subject(r), "[dry run] "))
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "sync.md")
	written, err := notify.WriteReport(path, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Contact sync for shared@contoso.com")
}

func TestWriteReportIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()

	written, err := notify.WriteReport(dir, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, notify.ReportFilename(result)), written)
	assert.FileExists(t, written)

	nested := filepath.Join(dir, "runs") + string(filepath.Separator)
	written, err = notify.WriteReport(nested, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "runs", notify.ReportFilename(result)), written)
	assert.FileExists(t, written)
}

func TestReportFilename(t *testing.T) {
	name := notify.ReportFilename(sampleResult())
	assert.True(t, strings.HasPrefix(name, "contactsync-"))
	assert.True(t, strings.HasSuffix(name, ".md"))
	assert.Len(t, name, len("contactsync-20060102-150405.md"))
}

type recordingSender struct {
	from    string
	to      []string
	subject string
	text    string
	err     error
}

func (s *recordingSender) SendMail(_ context.Context, from string, to []string, subject, text string) error {
	s.from, s.to, s.subject, s.text = from, to, subject, text
	return s.err
}

func TestDeliver(t *testing.T) {
	sender := &recordingSender{}
	opts := sync.Defaults().Apply(
		sync.WithMailbox("shared@contoso.com"),
		sync.WithNotify("ops@contoso.com", "admin@contoso.com"),
	)
	mailer := notify.NewGraphMailer(sender, opts.Sender())

	require.NoError(t, notify.Deliver(context.Background(), mailer, opts, sampleResult()))
	assert.Equal(t, "ops@contoso.com", sender.from)
	assert.Equal(t, []string{"admin@contoso.com"}, sender.to)
	assert.Contains(t, sender.subject, "shared@contoso.com")
	assert.Contains(t, sender.text, "## Errors")
}

func TestDeliverWithoutRecipients(t *testing.T) {
	sender := &recordingSender{}
	opts := sync.Defaults().Apply(sync.WithMailbox("shared@contoso.com"))

	require.NoError(t, notify.Deliver(context.Background(), notify.NewGraphMailer(sender, "x@contoso.com"), opts, sampleResult()))
	assert.Empty(t, sender.from)
}

func TestDeliverFailure(t *testing.T) {
	sender := &recordingSender{err: errors.NewAPIError("graph", 403, "Access is denied.")}
	opts := sync.Defaults().Apply(
		sync.WithMailbox("shared@contoso.com"),
		sync.WithNotify("", "admin@contoso.com"),
	)

	err := notify.Deliver(context.Background(), notify.NewGraphMailer(sender, opts.Sender()), opts, sampleResult())
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
	assert.Equal(t, "shared@contoso.com", sender.from)
}
