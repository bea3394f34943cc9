// Package notify delivers the summary of a sync run: rendered as Markdown,
// written to a report file, or mailed to the operators.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	md "github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/m365ops/contactsync/pkg/constants"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/sync"
)

// RenderMarkdown renders result as a Markdown document.
func RenderMarkdown(result *sync.Result) (string, error) {
	if result == nil {
		return "", &errors.ValidationError{Field: "result", Message: "cannot be nil"}
	}

	var buf strings.Builder
	doc := md.NewMarkdown(&buf)
	title := cases.Title(language.English)

	doc.H1(fmt.Sprintf("Contact sync for %s", result.Mailbox))
	doc.PlainText(md.Bold("Summary:") + " " + result.Summary()).LF()
	doc.BulletList(runDetails(result)...)
	doc.LF()

	rows := make([][]string, 0, len(sync.Outcomes())+1)
	for _, outcome := range sync.Outcomes() {
		rows = append(rows, []string{title.String(string(outcome)), strconv.Itoa(result.Count(outcome))})
	}
	rows = append(rows, []string{md.Bold("Total"), strconv.Itoa(result.Total)})
	doc.Table(md.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows:   rows,
	})

	for _, outcome := range []sync.Outcome{sync.OutcomeCreated, sync.OutcomeUpdated, sync.OutcomeDeleted} {
		ids := result.IDs(outcome)
		if len(ids) == 0 {
			continue
		}
		doc.H2(title.String(string(outcome)))
		doc.BulletList(codeAll(ids)...)
	}

	if len(result.Updates) > 0 {
		doc.H2("Changes")
		items := make([]string, 0, len(result.Updates))
		for i := range result.Updates {
			items = append(items, result.Updates[i].String())
		}
		doc.BulletList(items...)
	}

	if len(result.Errors) > 0 {
		doc.H2("Errors")
		errRows := make([][]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			errRows = append(errRows, []string{md.Code(e.ID), e.Operation, e.Message})
		}
		doc.Table(md.TableSet{
			Header: []string{"Contact", "Operation", "Message"},
			Rows:   errRows,
		})
	}

	if len(result.Duplicates) > 0 {
		doc.H2("Duplicate mailbox contacts")
		doc.PlainText("These contacts share an e-mail address with an earlier contact and were left untouched.").LF()
		doc.BulletList(codeAll(result.Duplicates)...)
	}

	if err := doc.Build(); err != nil {
		return "", errors.WrapResource("render", "report", result.RunID, err)
	}
	return buf.String(), nil
}

// Subject returns the e-mail subject for result.
func Subject(result *sync.Result) string {
	subject := fmt.Sprintf("Contact sync for %s: %d created, %d updated, %d deleted",
		result.Mailbox, result.Created, result.Updated, result.Deleted)
	if result.HasErrors() {
		subject += fmt.Sprintf(", %d errored", result.Errored)
	}
	if result.DryRun {
		subject = "[dry run] " + subject
	}
	return subject
}

// ReportFilename names the report of result inside a report directory.
func ReportFilename(result *sync.Result) string {
	return fmt.Sprintf("contactsync-%s.md", result.StartedAt.Time.Format(constants.TimeFormatFilename))
}

// WriteReport renders result and writes it to path, returning the file
// written. A path that ends in a separator or names an existing directory
// receives a timestamped file.
func WriteReport(path string, result *sync.Result) (string, error) {
	report, err := RenderMarkdown(result)
	if err != nil {
		return "", err
	}

	if strings.HasSuffix(path, string(filepath.Separator)) {
		path = filepath.Join(path, ReportFilename(result))
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ReportFilename(result))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return "", errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(report), constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}

func runDetails(result *sync.Result) []string {
	details := []string{
		"Run: " + md.Code(result.RunID),
		"Started: " + result.StartedAt.Time.Format(constants.TimeFormatHuman),
	}
	if d := result.Duration(); d > 0 {
		details = append(details, "Duration: "+d.Round(time.Millisecond).String())
	}
	if result.DryRun {
		details = append(details, "Dry run: no changes were written")
	}
	if !result.DeleteEnabled {
		details = append(details, "Deletion disabled")
	}
	return details
}

func codeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = md.Code(v)
	}
	return out
}
