// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// Failure indicates a store, backend or I/O error.
	Failure = 1

	// Usage indicates bad arguments or an unknown subcommand.
	Usage = 2
)
