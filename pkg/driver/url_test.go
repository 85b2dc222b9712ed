package driver_test

import (
	"testing"

	. "github.com/pseudomuto/runsql/pkg/driver"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *URL
	}{
		{
			name:     "network url",
			raw:      "jdbc:mysql://localhost:3306/",
			expected: &URL{Raw: "jdbc:mysql://localhost:3306/", Subprotocol: "mysql", Rest: "//localhost:3306/"},
		},
		{
			name:     "colons in the remainder",
			raw:      "  jdbc:sqlite::memory:  ",
			expected: &URL{Raw: "jdbc:sqlite::memory:", Subprotocol: "sqlite", Rest: ":memory:"},
		},
		{
			name:     "empty subprotocol parses",
			raw:      "jdbc::foo",
			expected: &URL{Raw: "jdbc::foo", Subprotocol: "", Rest: "foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURL(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.expected, u)
			require.Equal(t, tt.expected.Raw, u.String())
		})
	}
}

func TestParseURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"xxx:mysql://localhost:3306/",
		"jdbc:mysql",
		"jdbc:mysql:",
		"jdbc:mysql:::",
		"JDBC:mysql://localhost/",
	} {
		t.Run(raw, func(t *testing.T) {
			u, err := ParseURL(raw)
			require.Nil(t, u)
			require.ErrorIs(t, err, ErrInvalidURL)
			require.Contains(t, err.Error(), "Invalid/non-JDBC url")
		})
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "no credentials",
			raw:      "jdbc:postgresql://localhost:5432/app?sslmode=disable",
			expected: "jdbc:postgresql://localhost:5432/app?sslmode=disable",
		},
		{
			name:     "userinfo password",
			raw:      "jdbc:postgresql://app:s3cret@db:5432/app",
			expected: "jdbc:postgresql://app:xxxxx@db:5432/app",
		},
		{
			name:     "userinfo without password",
			raw:      "jdbc:clickhouse://default@db:9000/default",
			expected: "jdbc:clickhouse://default@db:9000/default",
		},
		{
			name:     "query parameter",
			raw:      "jdbc:mysql://db:3306/app?user=root&password=s3cret&tls=true",
			expected: "jdbc:mysql://db:3306/app?user=root&password=xxxxx&tls=true",
		},
		{
			name:     "sqlserver property",
			raw:      "jdbc:sqlserver://db:1433;databaseName=app;user=sa;Password=Sup3rSecret",
			expected: "jdbc:sqlserver://db:1433;databaseName=app;user=sa;Password=xxxxx",
		},
		{
			name:     "pwd and auth token",
			raw:      "jdbc:libsql://db.turso.io?authToken=tok;pwd=p",
			expected: "jdbc:libsql://db.turso.io?authToken=xxxxx;pwd=xxxxx",
		},
		{
			name:     "file url",
			raw:      "jdbc:sqlite:/var/lib/app.db",
			expected: "jdbc:sqlite:/var/lib/app.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, RedactURL(tt.raw))
		})
	}

	u, err := ParseURL("jdbc:postgresql://app:s3cret@db/app")
	require.NoError(t, err)
	require.Equal(t, "jdbc:postgresql://app:xxxxx@db/app", u.Redacted())
	require.Equal(t, "jdbc:postgresql://app:s3cret@db/app", u.String())
}
