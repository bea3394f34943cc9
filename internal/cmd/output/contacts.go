package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

// Write formats data to w. Table formats use the table view when one is
// given; the structured formats always encode data itself.
func Write(w io.Writer, format Format, data any, table *Data) error {
	if format.IsTable() && table != nil {
		return NewFormatter(format).Format(w, *table)
	}
	return NewFormatter(format).Format(w, data)
}

// DirectoryToTableData converts directory records to table form.
func DirectoryToTableData(records []contacts.DirectoryRecord) *Data {
	data := &Data{
		Headers: []string{"Name", "E-mail", "Company", "Job Title", "Phones"},
	}
	for _, rec := range records {
		numbers := make([]string, 0, len(rec.Phones))
		for _, p := range rec.Phones {
			numbers = append(numbers, p.Number)
		}
		data.Rows = append(data.Rows, []string{
			rec.DisplayName,
			rec.Mail,
			rec.CompanyName,
			rec.JobTitle,
			strings.Join(numbers, ", "),
		})
	}
	return data
}

// MailboxToTableData converts mailbox contacts to table form.
func MailboxToTableData(existing []contacts.MailboxContact) *Data {
	data := &Data{
		Headers: []string{"ID", "Name", "E-mail", "Company", "Job Title"},
	}
	for _, c := range existing {
		data.Rows = append(data.Rows, []string{
			c.ID,
			c.DisplayName,
			c.PrimaryEmail(),
			c.CompanyName,
			c.JobTitle,
		})
	}
	return data
}

// ResultToTableData converts a sync result to an outcome/count table.
func ResultToTableData(result *sync.Result) *Data {
	data := &Data{
		Headers:         []string{"Outcome", "Count"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	for _, outcome := range sync.Outcomes() {
		data.Rows = append(data.Rows, []string{string(outcome), strconv.Itoa(result.Count(outcome))})
	}
	data.Rows = append(data.Rows, []string{"total", strconv.Itoa(result.Total)})
	return data
}

// PlanToTableData converts a plan to one row per step.
func PlanToTableData(plan *reconciler.Plan) *Data {
	data := &Data{
		Headers: []string{"Action", "Contact", "Detail"},
	}
	for _, step := range plan.Steps {
		detail := step.Reason
		switch step.Action {
		case reconciler.ActionCreate:
			detail = strings.Join(step.Body.Fields(), ", ")
		case reconciler.ActionUpdate:
			changes := make([]string, 0, len(step.Update.Changes))
			for _, c := range step.Update.Changes {
				changes = append(changes, c.String())
			}
			detail = strings.Join(changes, "; ")
		case reconciler.ActionDelete:
			detail = step.ContactID
		}
		data.Rows = append(data.Rows, []string{string(step.Action), step.ID, detail})
	}
	return data
}
