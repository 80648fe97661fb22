// Package cli is the fintrack command-line surface.
//
// Every invocation runs exactly one command against the shared ledger
// database: it resolves the logged-in user from the session store, calls
// the services, and prints one human-readable outcome. The shell command
// starts a read-eval-print loop that dispatches the same commands until
// exit or EOF.
//
// Budget remediation (raising or deleting a budget after a rejected
// transaction) lives here, not in the services: see the --on-exceed flag
// of transact.
package cli
