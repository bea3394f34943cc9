package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/differ"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "table", want: FormatTable},
		{in: " JSON ", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "wide", want: FormatWide},
		{in: "", want: ""},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestFormatIsTable(t *testing.T) {
	assert.True(t, FormatTable.IsTable())
	assert.True(t, FormatWide.IsTable())
	assert.True(t, Format("").IsTable())
	assert.False(t, FormatJSON.IsTable())
	assert.False(t, FormatYAML.IsTable())
}

func TestWriteUsesTableViewOnlyForTables(t *testing.T) {
	records := []contacts.DirectoryRecord{{DisplayName: "Ada Lovelace", Mail: "ada@contoso.com"}}

	var table bytes.Buffer
	require.NoError(t, Write(&table, FormatTable, records, DirectoryToTableData(records)))
	assert.Contains(t, table.String(), "Ada Lovelace")
	assert.Contains(t, table.String(), "ada@contoso.com")

	var js bytes.Buffer
	require.NoError(t, Write(&js, FormatJSON, records, DirectoryToTableData(records)))
	var decoded []contacts.DirectoryRecord
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, records[0].Mail, decoded[0].Mail)

	var ym bytes.Buffer
	require.NoError(t, Write(&ym, FormatYAML, records, nil))
	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Equal(t, "ada@contoso.com", fromYAML[0]["mail"])
}

func TestTableTruncatesUnlessWide(t *testing.T) {
	long := strings.Repeat("x", 80)
	data := Data{Headers: []string{"Value"}, Rows: [][]string{{long}}}

	var narrow bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&narrow, data))
	assert.NotContains(t, narrow.String(), long)
	assert.Contains(t, narrow.String(), "...")

	var wide bytes.Buffer
	require.NoError(t, NewFormatter(FormatWide).Format(&wide, data))
	assert.Contains(t, wide.String(), long)
}

func TestTableFallsBackToPropertyTable(t *testing.T) {
	type summary struct {
		Mailbox string   `json:"mailbox"`
		DryRun  bool     `json:"dry_run"`
		IDs     []string `json:"ids"`
		Secret  string   `json:"-"`
	}

	var buf bytes.Buffer
	err := NewFormatter(FormatTable).Format(&buf, summary{
		Mailbox: "shared@contoso.com",
		DryRun:  true,
		IDs:     []string{"a", "b"},
		Secret:  "hidden",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "shared@contoso.com")
	assert.Contains(t, out, "Dry Run")
	assert.Contains(t, out, "a, b")
	assert.NotContains(t, out, "hidden")
}

func TestResultToTableData(t *testing.T) {
	result := &sync.Result{Total: 4, Created: 1, Updated: 1, Skipped: 1, Deleted: 1}

	data := ResultToTableData(result)
	require.Len(t, data.Rows, len(sync.Outcomes())+1)
	assert.Equal(t, []string{"created", "1"}, data.Rows[0])
	assert.Equal(t, []string{"errored", "0"}, data.Rows[len(data.Rows)-2])
	assert.Equal(t, []string{"total", "4"}, data.Rows[len(data.Rows)-1])
}

func TestPlanToTableData(t *testing.T) {
	plan := &reconciler.Plan{
		Steps: []reconciler.Step{
			{
				Action: reconciler.ActionCreate,
				ID:     "ada@contoso.com",
				Body:   contacts.Body{DisplayName: ptr.To("Ada"), JobTitle: ptr.To("Engineer")},
			},
			{
				Action: reconciler.ActionUpdate,
				ID:     "bob@contoso.com",
				Update: &differ.ContactUpdate{
					Key:   "bob@contoso.com",
					Patch: contacts.Body{JobTitle: ptr.To("Manager")},
					Changes: []differ.FieldChange{
						{Path: contacts.FieldJobTitle, OldValue: "Engineer", NewValue: "Manager", Type: differ.ChangeTypeUpdate},
					},
				},
			},
			{Action: reconciler.ActionSkip, ID: "No Mail", Reason: reconciler.ReasonNoEmail},
			{Action: reconciler.ActionDelete, ID: "gone@contoso.com", ContactID: "old-1"},
		},
	}

	data := PlanToTableData(plan)
	require.Len(t, data.Rows, 4)
	assert.Equal(t, "create", data.Rows[0][0])
	assert.Contains(t, data.Rows[0][2], "jobTitle")
	assert.Contains(t, data.Rows[1][2], "Manager")
	assert.Equal(t, reconciler.ReasonNoEmail, data.Rows[2][2])
	assert.Equal(t, "old-1", data.Rows[3][2])
}

func TestMailboxToTableData(t *testing.T) {
	data := MailboxToTableData([]contacts.MailboxContact{{
		ID:             "c-1",
		DisplayName:    "Ada",
		EmailAddresses: []contacts.EmailAddress{{Address: "Ada@Contoso.com"}},
	}})
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{"c-1", "Ada", "Ada@Contoso.com", "", ""}, data.Rows[0])
}
