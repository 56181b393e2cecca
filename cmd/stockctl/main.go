// Command stockctl runs inventory operations and migrations against the
// PostgreSQL ledger from a terminal. Every command prints JSON.
package main

import (
	"os"
)

func main() {
	cmd := newRootCommand(openPostgres)
	if err := cmd.Execute(); err != nil {
		writeError(cmd.ErrOrStderr(), err)
		os.Exit(exitCode(err))
	}
}
