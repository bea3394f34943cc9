package sync_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/sync"
)

func TestDefaults(t *testing.T) {
	opts := sync.Defaults()
	assert.True(t, opts.Delete)
	assert.False(t, opts.DryRun)
	assert.Zero(t, opts.Timeout, "runs have no deadline unless one is asked for")
}

func TestApply(t *testing.T) {
	opts := sync.Defaults().Apply(
		sync.WithMailbox("  ops@contoso.com "),
		sync.WithDelete(false),
		sync.WithDryRun(true),
		sync.WithFailOnError(true),
		sync.WithTimeout(time.Minute),
		sync.WithNotify("", "admin@contoso.com"),
		sync.WithReportPath("report.md"),
	)

	assert.Equal(t, "ops@contoso.com", opts.Mailbox)
	assert.False(t, opts.Delete)
	assert.True(t, opts.DryRun)
	assert.True(t, opts.FailOnError)
	assert.Equal(t, time.Minute, opts.Timeout)
	assert.Equal(t, []string{"admin@contoso.com"}, opts.NotifyTo)
	assert.Equal(t, "ops@contoso.com", opts.Sender())
	assert.Equal(t, "report.md", opts.ReportPath)

	opts.Apply(sync.WithNotify("noreply@contoso.com", "admin@contoso.com"))
	assert.Equal(t, "noreply@contoso.com", opts.Sender())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  []sync.Option
		field string
	}{
		{"missing mailbox", nil, "Mailbox"},
		{"negative timeout", []sync.Option{sync.WithMailbox("m@x.com"), sync.WithTimeout(-time.Second)}, "Timeout"},
		{"bad recipient", []sync.Option{sync.WithMailbox("m@x.com"), sync.WithNotify("", "not-an-address")}, "NotifyTo"},
		{"missing report dir", []sync.Option{sync.WithMailbox("m@x.com"), sync.WithReportPath(filepath.Join(t.TempDir(), "nope", "r.md"))}, "ReportPath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sync.Defaults().Apply(tt.opts...).Validate()
			require.Error(t, err)
			var vErr *pkgerrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		opts := sync.Defaults().Apply(
			sync.WithMailbox("m@x.com"),
			sync.WithNotify("", "Ops Team <ops@x.com>"),
			sync.WithReportPath(filepath.Join(t.TempDir(), "r.md")),
		)
		assert.NoError(t, opts.Validate())
	})
}

func TestResult(t *testing.T) {
	opts := sync.Defaults().Apply(sync.WithMailbox("ops@contoso.com"))
	r := sync.NewResult("run-1", opts)
	assert.False(t, r.StartedAt.Time.IsZero())
	assert.Equal(t, time.Duration(0), r.Duration())

	r.Total = 4
	r.Record(sync.OutcomeCreated, "a@x.com")
	r.Record(sync.OutcomeUpdated, "b@x.com")
	r.Record(sync.OutcomeSkipped, "c@x.com")
	r.Record(sync.OutcomeDeleted, "old@x.com")
	r.RecordError("d@x.com", "create", errors.New("boom"))
	r.Finish()

	assert.True(t, r.HasChanges())
	assert.True(t, r.HasErrors())
	assert.Equal(t, []string{"a@x.com"}, r.IDs(sync.OutcomeCreated))
	assert.Equal(t, []string{"d@x.com"}, r.IDs(sync.OutcomeErrored))
	assert.Equal(t, []sync.RecordError{{ID: "d@x.com", Operation: "create", Message: "boom"}}, r.Errors)
	assert.GreaterOrEqual(t, r.Duration(), time.Duration(0))
	assert.Equal(t, "ops@contoso.com: 4 total, 1 created, 1 updated, 1 skipped, 1 deleted, 1 errored", r.Summary())
}

func TestResultSummaryFlags(t *testing.T) {
	opts := sync.Defaults().Apply(sync.WithMailbox("m@x.com"), sync.WithDryRun(true), sync.WithDelete(false))
	r := sync.NewResult("run-2", opts)

	assert.False(t, r.HasChanges())
	assert.False(t, r.HasErrors())
	assert.Equal(t, "m@x.com: 0 total, 0 created, 0 updated, 0 skipped, 0 deleted, 0 errored (Dry run) (Deletion disabled)", r.Summary())
	assert.Len(t, sync.Outcomes(), 5)
}
