package script

import "fmt"

type (
	// Statement is a single executable unit of SQL text along with the 1-based
	// line number of the first source line that contributed characters to it.
	//
	// Statements are plain values: two statements are equal when both their line
	// and text are equal, which makes them safe to compare with == and to use as
	// map keys.
	Statement struct {
		// Line is the source line on which the statement begins
		Line int

		// Text is the statement payload, including the terminating ';' when present
		Text string
	}

	// Script is an ordered sequence of statements read from a single source.
	//
	// Statement order always matches the order of appearance in the source. Line
	// numbers never decrease across the sequence but may contain gaps where blank
	// or comment-only lines were skipped.
	Script struct {
		// Source identifies where the script came from (file path or URL). It is
		// empty for inline scripts and is only used for diagnostics.
		Source string

		// Lines holds the raw physical lines the script was split from
		Lines []string

		// Statements holds the statements extracted from Lines
		Statements []Statement
	}
)

// String renders the statement for log and error output.
func (s Statement) String() string {
	return fmt.Sprintf("line %d: %s", s.Line, s.Text)
}

// New builds a Script from raw lines by splitting them into statements.
//
// Example:
//
//	s := script.New("db/init.sql", []string{
//		"CREATE TABLE users (id INT);",
//		"INSERT INTO users VALUES (1);",
//	}, true)
//
//	fmt.Println(len(s.Statements)) // 2
func New(source string, lines []string, keepNewlines bool) *Script {
	return &Script{
		Source:     source,
		Lines:      lines,
		Statements: Split(lines, keepNewlines),
	}
}

// Name returns the script's source, or "n/a" for inline scripts.
func (s *Script) Name() string {
	if s.Source == "" {
		return "n/a"
	}

	return s.Source
}
