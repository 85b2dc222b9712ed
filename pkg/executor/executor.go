package executor

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/script"
	"go.uber.org/zap"
)

type (
	// Session is the connection capability the executor drives.
	//
	// Implementations submit one statement at a time and discard any rows the
	// statement produces. Turning auto-commit off defers durability until Commit
	// is called; closing a session with uncommitted work is expected to roll it
	// back.
	Session interface {
		SetAutoCommit(context.Context, bool) error
		Exec(context.Context, string) error
		Commit(context.Context) error
		Close() error
	}

	// OpenFunc opens a new Session. The executor owns the returned session and
	// closes it when Run returns.
	OpenFunc func(context.Context) (Session, error)

	// Executor applies scripts to a database one statement at a time.
	//
	// Two durability modes are supported. When CommitAfterEach is true every
	// statement runs with auto-commit enabled and takes effect as soon as it
	// executes. When false, auto-commit is disabled before the first statement
	// and a single commit is issued once every statement in the script has run.
	// Execution is fail-fast: the first failing statement stops the run and no
	// commit is issued.
	//
	// Example usage:
	//
	//	exec := executor.New(executor.Config{
	//		Open: func(ctx context.Context) (executor.Session, error) {
	//			return connector.Open(ctx)
	//		},
	//		CommitAfterEach: false,
	//		Logger:          logger,
	//	})
	//
	//	results, err := exec.Run(ctx, scripts...)
	//	if err != nil {
	//		var stmtErr *executor.StatementError
	//		if errors.As(err, &stmtErr) {
	//			fmt.Printf("failed at line %d\n", stmtErr.Line)
	//		}
	//	}
	//
	//	for _, result := range results {
	//		fmt.Printf("%s: %s\n", result.Source, result.Status)
	//	}
	Executor struct {
		open            OpenFunc
		commitAfterEach bool
		logger          *zap.Logger
	}

	// Config contains configuration options for creating a new Executor.
	Config struct {
		// Open creates the session used by Run
		Open OpenFunc

		// CommitAfterEach selects per-statement durability when true and a single
		// commit per script when false
		CommitAfterEach bool

		// Logger receives execution progress. Defaults to a no-op logger.
		Logger *zap.Logger
	}

	// ExecutionResult contains the result of executing a single script.
	ExecutionResult struct {
		// Source identifies the script ("n/a" for inline scripts)
		Source string

		// Status indicates the outcome of the script execution
		Status ExecutionStatus

		// Error contains any error that occurred during execution
		Error error

		// ExecutionTime records how long the script took to execute
		ExecutionTime time.Duration

		// StatementsApplied indicates how many statements executed successfully
		StatementsApplied int

		// TotalStatements is the total number of statements in the script
		TotalStatements int

		// Hash is the h1 hash of the script's statements
		Hash string
	}

	// ExecutionStatus represents the outcome of a script execution.
	ExecutionStatus string

	// StatementError reports a statement that failed during execution. It
	// carries the statement's line number and the script source so callers can
	// point at the offending SQL.
	StatementError struct {
		Source    string
		Line      int
		Statement string
		Err       error
	}
)

const (
	// StatusSuccess indicates every statement in the script was executed
	StatusSuccess ExecutionStatus = "success"

	// StatusFailed indicates the script stopped at a failing statement or commit
	StatusFailed ExecutionStatus = "failed"

	// StatusSkipped indicates the script never ran because an earlier one failed
	StatusSkipped ExecutionStatus = "skipped"

	noSource = "n/a"
)

func (e *StatementError) Error() string {
	source := e.Source
	if source == "" {
		source = noSource
	}

	return fmt.Sprintf("SQL statement execution failed (file: %s, line: %d): %v", source, e.Line, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// New creates a new script executor with the provided configuration.
func New(config Config) *Executor {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Executor{
		open:            config.Open,
		commitAfterEach: config.CommitAfterEach,
		logger:          logger,
	}
}

// Run opens a single session and executes the scripts against it in order.
//
// The session is closed on every exit path. Execution stops at the first
// failing script; scripts after it are reported with StatusSkipped. Errors
// from opening the session are returned unchanged so callers can match them
// with errors.As.
//
// Example usage:
//
//	results, err := exec.Run(ctx, scripts...)
//	for _, result := range results {
//		switch result.Status {
//		case executor.StatusSuccess:
//			fmt.Printf("✓ %s (%d statements)\n", result.Source, result.StatementsApplied)
//		case executor.StatusFailed:
//			fmt.Printf("✗ %s: %v\n", result.Source, result.Error)
//		case executor.StatusSkipped:
//			fmt.Printf("- %s skipped\n", result.Source)
//		}
//	}
func (e *Executor) Run(ctx context.Context, scripts ...*script.Script) (results []*ExecutionResult, err error) {
	if e.open == nil {
		return nil, errors.New("executor has no session opener")
	}

	logger := e.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.Bool("commit_after_each", e.commitAfterEach),
	)

	sess, err := e.open(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Warn("Failed to close session", zap.Error(cerr))
			if err == nil {
				err = errors.Wrap(cerr, "failed to close session")
			}
		}
	}()

	logger.Info("Starting run", zap.Int("scripts", len(scripts)))

	results = make([]*ExecutionResult, 0, len(scripts))
	exec := &Executor{open: e.open, commitAfterEach: e.commitAfterEach, logger: logger}

	for i, s := range scripts {
		result, execErr := exec.Execute(ctx, sess, s)
		results = append(results, result)

		if execErr != nil {
			for _, rest := range scripts[i+1:] {
				results = append(results, &ExecutionResult{
					Source:          rest.Name(),
					Status:          StatusSkipped,
					TotalStatements: len(rest.Statements),
					Hash:            Hash(rest),
				})
			}

			return results, execErr
		}
	}

	logger.Info("Run complete", zap.Int("scripts", len(scripts)))
	return results, nil
}

// Execute applies a single script using an already open session.
//
// Auto-commit is set to match CommitAfterEach before any statement runs.
// Statements execute strictly in order. The first failure returns a
// *StatementError and leaves any uncommitted work to the session; no commit or
// rollback is issued. When CommitAfterEach is false, exactly one Commit is
// issued after the final statement.
//
// The returned result is always non-nil and mirrors the returned error.
func (e *Executor) Execute(ctx context.Context, sess Session, s *script.Script) (*ExecutionResult, error) {
	start := time.Now()
	result := &ExecutionResult{
		Source:          s.Name(),
		TotalStatements: len(s.Statements),
		Hash:            Hash(s),
	}

	logger := e.logger.With(zap.String("source", result.Source))

	fail := func(err error) (*ExecutionResult, error) {
		result.Status = StatusFailed
		result.Error = err
		result.ExecutionTime = time.Since(start)

		logger.Error("Script failed",
			zap.Int("applied", result.StatementsApplied),
			zap.Int("total", result.TotalStatements),
			zap.Error(err),
		)

		return result, err
	}

	if err := sess.SetAutoCommit(ctx, e.commitAfterEach); err != nil {
		return fail(errors.Wrapf(err, "failed to set auto-commit to %t", e.commitAfterEach))
	}

	for _, stmt := range s.Statements {
		logger.Debug("Executing statement", zap.Int("line", stmt.Line))

		if err := sess.Exec(ctx, stmt.Text); err != nil {
			return fail(&StatementError{
				Source:    s.Source,
				Line:      stmt.Line,
				Statement: stmt.Text,
				Err:       err,
			})
		}

		result.StatementsApplied++
	}

	if !e.commitAfterEach {
		if err := sess.Commit(ctx); err != nil {
			return fail(errors.Wrap(err, "failed to commit"))
		}
	}

	result.Status = StatusSuccess
	result.ExecutionTime = time.Since(start)

	logger.Info("Script applied",
		zap.Int("statements", result.StatementsApplied),
		zap.Duration("duration", result.ExecutionTime),
		zap.String("hash", result.Hash),
	)

	return result, nil
}

// Hash returns the h1 hash of a script's statements.
func Hash(s *script.Script) string {
	hash, _ := ComputeHashes(s)
	return hash
}

// ComputeHashes computes the script hash and one partial hash per statement.
//
// Hashes cover statement text only, so reformatting comments or blank lines
// leaves them unchanged.
func ComputeHashes(s *script.Script) (string, []string) {
	partialHashes := make([]string, 0, len(s.Statements))
	var allContent strings.Builder

	for _, stmt := range s.Statements {
		partialHashes = append(partialHashes, computeHash(stmt.Text))

		allContent.WriteString(stmt.Text)
		allContent.WriteString("\n")
	}

	return computeHash(allContent.String()), partialHashes
}

// computeHash computes a SHA256 hash in h1 format for the given content.
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "h1:" + base64.StdEncoding.EncodeToString(hash[:])
}
