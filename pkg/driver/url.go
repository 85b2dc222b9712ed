package driver

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	// urlMarker is the literal first segment of every connection URL.
	urlMarker = "jdbc"

	redacted = "xxxxx"
)

var (
	// //user:secret@host
	userinfoSecret = regexp.MustCompile(`(//[^/?#;@:]*:)[^/?#;@]*@`)

	// ?password=secret, &pwd=secret, ;password=secret, ?authToken=secret
	propertySecret = regexp.MustCompile(`(?i)([?&;](?:password|pwd|auth_?token)=)[^&;]*`)
)

// URL is a parsed connection URL of the form jdbc:<subprotocol>:<rest>.
//
// Only the first two separators are significant. Everything after the
// subprotocol is kept verbatim in Rest and interpreted by the driver that
// handles the subprotocol.
type URL struct {
	// Raw is the URL exactly as configured (trimmed)
	Raw string

	// Subprotocol selects the driver during auto-detection, e.g. postgresql
	Subprotocol string

	// Rest is the driver-specific remainder, e.g. //localhost:5432/app
	Rest string
}

// ParseURL splits a connection URL into its parts. The URL must have at least
// three ':' separated segments, the first of which is literally "jdbc".
//
// Example:
//
//	u, err := driver.ParseURL("jdbc:sqlite::memory:")
//	if err != nil {
//		return err
//	}
//
//	fmt.Println(u.Subprotocol, u.Rest) // sqlite :memory:
func ParseURL(raw string) (*URL, error) {
	raw = strings.TrimSpace(raw)

	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 3 || parts[0] != urlMarker || strings.Trim(parts[2], ":") == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "Invalid/non-JDBC url: %s", RedactURL(raw))
	}

	return &URL{Raw: raw, Subprotocol: parts[1], Rest: parts[2]}, nil
}

// String returns the raw URL.
func (u *URL) String() string {
	return u.Raw
}

// Redacted returns the URL with any embedded password replaced by "xxxxx".
func (u *URL) Redacted() string {
	return RedactURL(u.Raw)
}

// RedactURL masks the passwords in a connection URL so it can be logged or
// shown in errors. Userinfo passwords (//user:secret@host) and password,
// pwd and authToken properties, whether introduced by '?', '&' or ';', are
// replaced by "xxxxx". The rest of the URL is left untouched.
//
// Example:
//
//	driver.RedactURL("jdbc:sqlserver://db:1433;user=sa;password=s3cret")
//	// jdbc:sqlserver://db:1433;user=sa;password=xxxxx
func RedactURL(raw string) string {
	masked := userinfoSecret.ReplaceAllString(raw, "${1}"+redacted+"@")
	return propertySecret.ReplaceAllString(masked, "${1}"+redacted)
}

// network parses a hierarchical remainder (//host:port/path?query) under the
// given scheme and attaches the credentials when a username is set.
func (u *URL) network(scheme, username, password string) (*url.URL, error) {
	if !strings.HasPrefix(u.Rest, "//") {
		return nil, errors.Wrapf(ErrInvalidURL, "expected //host in %s", u.Redacted())
	}

	parsed, err := url.Parse(scheme + ":" + u.Rest)
	if err != nil {
		// *url.Error repeats the input, credentials included.
		if uerr, ok := err.(*url.Error); ok {
			err = uerr.Err
		}

		return nil, errors.Wrapf(ErrInvalidURL, "%s: %v", u.Redacted(), err)
	}

	if parsed.Host == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "missing host in %s", u.Redacted())
	}

	if username != "" {
		parsed.User = url.UserPassword(username, password)
	}

	return parsed, nil
}
