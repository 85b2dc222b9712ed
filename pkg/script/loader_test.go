package script_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/config"
	. "github.com/pseudomuto/runsql/pkg/script"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockS3 struct {
	objects map[string]string
	calls   []string
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	m.calls = append(m.calls, key)

	body, ok := m.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLoader_Inline(t *testing.T) {
	loader := NewLoader(LoaderOptions{KeepNewlines: true})

	s := loader.Inline("CREATE TABLE t (id INT);\nINSERT INTO t\nVALUES (1);")
	require.Empty(t, s.Source)
	require.Equal(t, "n/a", s.Name())
	require.Len(t, s.Lines, 3)
	require.Equal(t, []Statement{
		{Line: 1, Text: "CREATE TABLE t (id INT);"},
		{Line: 2, Text: "INSERT INTO t\nVALUES (1);"},
	}, s.Statements)
}

func TestLoader_InlineLongLine(t *testing.T) {
	value := strings.Repeat("x", 65*1024*1024)
	s := NewLoader(LoaderOptions{}).Inline("INSERT INTO t VALUES ('" + value + "');\nSELECT 1;")

	require.Len(t, s.Statements, 2)
	require.Len(t, s.Statements[0].Text, len(value)+len("INSERT INTO t VALUES ('');"))
	require.Equal(t, Statement{Line: 2, Text: "SELECT 1;"}, s.Statements[1])
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "empty", text: "", expected: nil},
		{name: "single line", text: "SELECT 1;", expected: []string{"SELECT 1;"}},
		{name: "trailing newline", text: "a\nb\n", expected: []string{"a", "b"}},
		{name: "crlf", text: "a\r\nb\r\n", expected: []string{"a", "b"}},
		{name: "blank lines kept", text: "a\n\nb", expected: []string{"a", "", "b"}},
		{name: "only a newline", text: "\n", expected: []string{""}},
		{name: "invalid utf-8", text: "'caf\xe9'\n", expected: []string{"'caf\xe9'"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, SplitLines(tt.text))

			lines, err := ReadLines(strings.NewReader(tt.text))
			require.NoError(t, err)
			require.Equal(t, tt.expected, lines)
		})
	}
}

func TestLoader_LoadLocalFile(t *testing.T) {
	path := writeScript(t, "init.sql", "-- header\r\nSELECT 1;\r\nSELECT 2;\r\n")

	core, logs := observer.New(zap.InfoLevel)
	loader := NewLoader(LoaderOptions{Logger: zap.New(core)})

	for _, location := range []string{path, "file://" + path} {
		s, err := loader.Load(context.Background(), location)
		require.NoError(t, err)
		require.Equal(t, location, s.Source)
		require.Equal(t, []string{"-- header", "SELECT 1;", "SELECT 2;"}, s.Lines)
		require.Equal(t, []Statement{
			{Line: 2, Text: "SELECT 1;"},
			{Line: 3, Text: "SELECT 2;"},
		}, s.Statements)
	}

	entries := logs.FilterMessage("Read SQL script").All()
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[0].ContextMap()["statements"])
}

func TestLoader_LoadMissingFile(t *testing.T) {
	loader := NewLoader(LoaderOptions{})
	path := filepath.Join(t.TempDir(), "nope.sql")

	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing SQL file -- "+path)
	require.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestLoader_LoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed.sql" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write([]byte("INSERT INTO t VALUES (1);\nINSERT INTO t VALUES (2);\n"))
	}))
	defer srv.Close()

	loader := NewLoader(LoaderOptions{HTTPClient: srv.Client()})

	s, err := loader.Load(context.Background(), srv.URL+"/seed.sql")
	require.NoError(t, err)
	require.Len(t, s.Statements, 2)
	require.Equal(t, 2, s.Statements[1].Line)

	_, err = loader.Load(context.Background(), srv.URL+"/missing.sql")
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP status 404")
}

func TestLoader_LoadS3(t *testing.T) {
	client := &mockS3{objects: map[string]string{
		"scripts/db/schema.sql": "CREATE TABLE a (id INT); CREATE TABLE b (id INT);",
	}}
	loader := NewLoader(LoaderOptions{S3Client: client})

	s, err := loader.Load(context.Background(), "s3://scripts/db/schema.sql")
	require.NoError(t, err)
	require.Equal(t, []Statement{
		{Line: 1, Text: "CREATE TABLE a (id INT);"},
		{Line: 1, Text: "CREATE TABLE b (id INT);"},
	}, s.Statements)
	require.Equal(t, []string{"scripts/db/schema.sql"}, client.calls)

	_, err = loader.Load(context.Background(), "s3://scripts/other.sql")
	require.ErrorContains(t, err, "failed to get S3 object s3://scripts/other.sql")

	for _, invalid := range []string{"s3://bucket-only", "s3:///key.sql", "s3://bucket/"} {
		_, err = loader.Load(context.Background(), invalid)
		require.ErrorContains(t, err, "invalid S3 URL")
	}
}

func TestLoader_LoadAll(t *testing.T) {
	first := writeScript(t, "01.sql", "SELECT 1;")
	second := writeScript(t, "02.sql", "SELECT 2;\nSELECT 3;")
	loader := NewLoader(LoaderOptions{})

	t.Run("files in order", func(t *testing.T) {
		scripts, err := loader.LoadAll(context.Background(), "", []string{first, second})
		require.NoError(t, err)
		require.Len(t, scripts, 2)
		require.Equal(t, first, scripts[0].Source)
		require.Equal(t, second, scripts[1].Source)
		require.Len(t, scripts[1].Statements, 2)
	})

	t.Run("inline", func(t *testing.T) {
		scripts, err := loader.LoadAll(context.Background(), "SELECT 1; SELECT 2", nil)
		require.NoError(t, err)
		require.Len(t, scripts, 1)
		require.Len(t, scripts[0].Statements, 2)
	})

	t.Run("both", func(t *testing.T) {
		_, err := loader.LoadAll(context.Background(), "SELECT 1;", []string{first})
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		require.Contains(t, err.Error(), "cannot specify both")
	})

	t.Run("neither", func(t *testing.T) {
		_, err := loader.LoadAll(context.Background(), "", nil)
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		require.Contains(t, err.Error(), "must specify either")
	})

	t.Run("missing file stops loading", func(t *testing.T) {
		_, err := loader.LoadAll(context.Background(), "", []string{first, "does-not-exist.sql", second})
		require.ErrorContains(t, err, "missing SQL file -- does-not-exist.sql")
	})
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "unix endings", input: "a\nb\n", expected: []string{"a", "b"}},
		{name: "windows endings", input: "a\r\nb\r\n", expected: []string{"a", "b"}},
		{name: "no trailing newline", input: "a\n\nb", expected: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ReadLines(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.expected, lines)
		})
	}
}

func writeScript(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}
