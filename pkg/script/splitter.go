package script

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Terminator ends a statement when it appears outside of a quoted region.
	Terminator = ';'

	// CommentMarker starts a comment that runs to the end of the line.
	CommentMarker = "--"
)

// Split converts an ordered sequence of physical lines into statements.
//
// Each element of lines must be exactly one source line without embedded
// newline characters. Split never fails: input it cannot make sense of simply
// ends up in a single statement.
//
// The splitter understands only a minimal convention:
//   - Lines that are blank or whose trimmed content starts with "--" are skipped
//     entirely and never contribute to a statement.
//   - Outside of a quoted region, "--" discards the rest of the line.
//   - ' and " open a quoted region closed only by the same character. The other
//     quote character is literal inside it. Quotes cannot be escaped, and a
//     quoted region never continues onto the next line.
//   - Outside of a quoted region, ';' completes the current statement (the ';'
//     is kept) and any whitespace following it on the same line is dropped.
//
// A statement spanning several lines is joined with "\n" when keepNewlines is
// true and with a single space otherwise. Whatever remains after the last line
// is flushed as a final, unterminated statement. Statement text is copied
// byte for byte from the input.
//
// Example:
//
//	stmts := script.Split([]string{
//		"-- seed data",
//		"INSERT INTO users (name)",
//		"VALUES ('a;b'); SELECT 1;",
//	}, false)
//
//	// stmts[0] = {Line: 2, Text: "INSERT INTO users (name) VALUES ('a;b');"}
//	// stmts[1] = {Line: 3, Text: "SELECT 1;"}
func Split(lines []string, keepNewlines bool) []Statement {
	var (
		statements []Statement
		buf        strings.Builder
		startLine  int
	)

	separator := " "
	if keepNewlines {
		separator = "\n"
	}

	for i, line := range lines {
		lineNumber := i + 1

		if isSkippable(line) {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteString(separator)
		}

		var quote byte
		for idx := 0; idx < len(line); idx++ {
			ch := line[idx]

			if quote == 0 && ch == '-' && idx+1 < len(line) && line[idx+1] == '-' {
				break
			}

			if buf.Len() == 0 {
				startLine = lineNumber
			}
			buf.WriteByte(ch)

			if ch == '\'' || ch == '"' {
				switch quote {
				case 0:
					quote = ch
				case ch:
					quote = 0
				}
			}

			if quote == 0 && ch == Terminator {
				statements = append(statements, Statement{Line: startLine, Text: buf.String()})
				buf.Reset()
				idx += leadingSpace(line[idx+1:])
			}
		}
	}

	if buf.Len() > 0 {
		statements = append(statements, Statement{Line: startLine, Text: buf.String()})
	}

	return statements
}

// leadingSpace returns the number of bytes of whitespace at the start of s.
func leadingSpace(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsSpace(r) {
			break
		}
		n += size
	}

	return n
}

// isSkippable reports whether a line is blank or a full-line comment.
func isSkippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, CommentMarker)
}
