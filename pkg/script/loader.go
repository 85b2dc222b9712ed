package script

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/config"
	"go.uber.org/zap"
)

const (
	schemeFile  = "file://"
	schemeS3    = "s3://"
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

type (
	// S3API is the subset of the S3 client used to fetch scripts.
	S3API interface {
		GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	}

	// LoaderOptions configures a Loader.
	LoaderOptions struct {
		// S3 holds the settings used to build an S3 client for s3:// locations
		S3 config.S3

		// S3Client overrides the client built from S3 when set
		S3Client S3API

		// HTTPClient is used for http:// and https:// locations (defaults to a
		// client with a five minute timeout)
		HTTPClient *http.Client

		// KeepNewlines is passed to Split for every loaded script
		KeepNewlines bool

		// Logger receives progress messages (defaults to a no-op logger)
		Logger *zap.Logger
	}

	// Loader reads raw script text from inline values, local files, HTTP(S)
	// URLs or S3 objects and splits it into statements.
	Loader struct {
		opts LoaderOptions
	}
)

// NewLoader creates a Loader with the given options.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Loader{opts: opts}
}

// Inline builds a script from literal text. The resulting script has no source.
func (l *Loader) Inline(text string) *Script {
	return New("", SplitLines(text), l.opts.KeepNewlines)
}

// Load reads the script at location and splits it into statements.
//
// Supported locations:
//   - a local path (relative paths resolve against the working directory)
//   - file:///absolute/path.sql
//   - http://host/path.sql and https://host/path.sql
//   - s3://bucket/key.sql
func (l *Loader) Load(ctx context.Context, location string) (*Script, error) {
	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	lines, err := ReadLines(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read SQL script %s", location)
	}

	s := New(location, lines, l.opts.KeepNewlines)
	l.opts.Logger.Info("Read SQL script",
		zap.String("source", location),
		zap.Int("lines", len(lines)),
		zap.Int("statements", len(s.Statements)),
	)

	return s, nil
}

// LoadAll resolves the script sources of a run. Exactly one of inline and
// files must be provided. Files are loaded in order.
//
// Example:
//
//	scripts, err := loader.LoadAll(ctx, "", []string{"db/schema.sql", "s3://seeds/users.sql"})
//	if err != nil {
//		return err
//	}
func (l *Loader) LoadAll(ctx context.Context, inline string, files []string) ([]*Script, error) {
	switch {
	case inline != "" && len(files) > 0:
		return nil, errors.Wrap(config.ErrInvalidConfig, "you cannot specify both 'script' and 'script_files'")
	case inline == "" && len(files) == 0:
		return nil, errors.Wrap(config.ErrInvalidConfig, "you must specify either 'script' or 'script_files'")
	case inline != "":
		return []*Script{l.Inline(inline)}, nil
	}

	scripts := make([]*Script, 0, len(files))
	for _, file := range files {
		s, err := l.Load(ctx, file)
		if err != nil {
			return nil, err
		}

		scripts = append(scripts, s)
	}

	return scripts, nil
}

// ReadLines splits r into physical lines. Both "\n" and "\r\n" line endings
// are accepted and a trailing newline does not produce an extra empty line.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// SplitLines splits literal script text into physical lines using the same
// rules as ReadLines. Lines have no length limit.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	lower := strings.ToLower(location)

	switch {
	case strings.HasPrefix(lower, schemeS3):
		return l.openS3(ctx, location)
	case strings.HasPrefix(lower, schemeHTTP), strings.HasPrefix(lower, schemeHTTPS):
		return l.openHTTP(ctx, location)
	case strings.HasPrefix(lower, schemeFile):
		return openLocal(location[len(schemeFile):])
	default:
		return openLocal(location)
	}
}

func openLocal(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "missing SQL file -- %s", path)
		}

		return nil, errors.Wrapf(err, "failed to open SQL file %s", path)
	}

	return f, nil
}

func (l *Loader) openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid script URL %s", url)
	}

	resp, err := l.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch SQL script %s", url)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.Errorf("failed to fetch SQL script %s: HTTP status %d", url, resp.StatusCode)
	}

	return resp.Body, nil
}

func (l *Loader) openS3(ctx context.Context, url string) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get S3 object %s", url)
	}

	return resp.Body, nil
}

func (l *Loader) s3Client(ctx context.Context) (S3API, error) {
	if l.opts.S3Client != nil {
		return l.opts.S3Client, nil
	}

	cfg := l.opts.S3

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)
	l.opts.S3Client = client

	return client, nil
}

// parseS3URL splits s3://bucket/key into its bucket and key.
func parseS3URL(url string) (string, string, error) {
	path := url[len(schemeS3):]

	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid S3 URL: %s", url)
	}

	return parts[0], parts[1], nil
}
