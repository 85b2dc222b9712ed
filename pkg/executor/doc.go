// Package executor applies split SQL scripts to a database session.
//
// The executor submits statements one at a time, strictly in the order they
// appear in their script, and discards any rows a statement returns. It never
// batches, retries or skips statements.
//
// # Durability Modes
//
// The CommitAfterEach option controls when work becomes durable:
//
//   - true: auto-commit stays enabled and each statement takes effect as it runs
//   - false: auto-commit is disabled before the first statement and a single
//     Commit is issued after the last one
//
// In both modes the first failing statement stops execution. No commit is issued
// after a failure and the executor does not roll back explicitly; uncommitted
// work is discarded when the session is closed.
//
// # Sessions
//
// Sessions come from an explicit OpenFunc passed in Config, so there is no
// process-wide driver state shared between runs. Run opens exactly one session,
// uses it for every script and closes it on every exit path, including panics.
//
// # Errors
//
// A failing statement is reported as a *StatementError carrying the script
// source and the statement's starting line:
//
//	SQL statement execution failed (file: db/seed.sql, line: 12): duplicate key
//
// The underlying driver error is available through errors.Unwrap, errors.Is
// and errors.As.
//
// # Integrity Hashes
//
// Every ExecutionResult carries an h1 hash (base64 SHA256) computed over the
// script's statement text. ComputeHashes also returns one partial hash per
// statement, which is handy for spotting which statement changed between two
// versions of a script.
package executor
