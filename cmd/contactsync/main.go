// Command contactsync mirrors the organization contacts of a Microsoft 365
// tenant into the personal contacts of a mailbox.
package main

import (
	"context"
	"os"

	"github.com/m365ops/contactsync/cmd/contactsync/app"
)

// Set by the release build with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	a, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// SIGINT and SIGTERM cancel the run; pending writes become per-contact errors.
	ctx, stop := app.ContextWithSignals(context.Background())
	err = a.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		app.ExitOnError(err)
	}
}
