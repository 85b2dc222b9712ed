// Package script turns raw SQL script text into an ordered list of statements.
//
// The package has two halves. Split is a single-pass, line-oriented lexer that
// separates statements on ';' while tolerating quoted literals, inline and
// full-line "--" comments, statements spanning several lines and several
// statements on one line. Loader is the script source provider: it reads script
// text from inline values, local files, HTTP(S) URLs or S3 objects and hands
// the lines to Split.
//
// The lexer knows nothing about SQL dialects. Statements are opaque text and
// are never checked for correctness.
//
// # Line numbers
//
// Every Statement records the 1-based line on which it starts, so that a
// failure during execution can be reported with exact positional context:
//
//	s := script.New("db/init.sql", lines, true)
//	for _, stmt := range s.Statements {
//		fmt.Printf("%s:%d %s\n", s.Name(), stmt.Line, stmt.Text)
//	}
//
// # Limitations
//
// Quote characters cannot be escaped. A backslash before a quote is ordinary
// text, so the quote still closes the literal. A doubled quote happens to work
// because it closes the literal and immediately opens a new one.
//
// Whitespace follows Go's unicode.IsSpace and strings.TrimSpace. Besides ASCII
// blanks this includes U+0085 (NEL), U+00A0 (no-break space) and the other
// Unicode space separators, so a line holding only those characters is blank
// and they are dropped after a ';'. ASCII control characters other than
// \t, \n, \v, \f and \r are never whitespace.
//
// Script text is handled as bytes. Every marker the lexer looks for is ASCII,
// so content that is not valid UTF-8 passes through to the database unchanged.
package script
