package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// FormatYAML selects the YAML decoder (.yaml, .yml)
	FormatYAML Format = "yaml"

	// FormatTOML selects the TOML decoder (.toml)
	FormatTOML Format = "toml"
)

type (
	// Format identifies the encoding of a configuration document.
	Format string

	// S3 holds the settings used to read scripts from s3:// locations.
	//
	// Empty values fall back to the default AWS credential chain and region
	// resolution.
	S3 struct {
		Region    string `yaml:"region,omitempty" toml:"region,omitempty"`
		Endpoint  string `yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
		AccessKey string `yaml:"access_key,omitempty" toml:"access_key,omitempty"`
		SecretKey string `yaml:"secret_key,omitempty" toml:"secret_key,omitempty"`
	}

	// TLS holds the certificate files for mutual TLS connections.
	TLS struct {
		CAFile   string `yaml:"ca_file,omitempty" toml:"ca_file,omitempty"`
		CertFile string `yaml:"cert_file,omitempty" toml:"cert_file,omitempty"`
		KeyFile  string `yaml:"key_file,omitempty" toml:"key_file,omitempty"`
	}

	// ClickHouse represents ClickHouse-specific connection settings.
	ClickHouse struct {
		// TLS enables mTLS for ClickHouse connections when all files are set
		TLS TLS `yaml:"tls,omitempty" toml:"tls,omitempty"`
	}

	// Environment is a named overlay of connection settings. Any field that is
	// set replaces the corresponding top-level value when the environment is
	// selected.
	Environment struct {
		URL      string  `yaml:"url,omitempty" toml:"url,omitempty"`
		Username *string `yaml:"username,omitempty" toml:"username,omitempty"`
		Password *string `yaml:"password,omitempty" toml:"password,omitempty"`
		Driver   string  `yaml:"driver,omitempty" toml:"driver,omitempty"`
	}

	// Config represents everything needed to run one or more SQL scripts
	// against a database.
	Config struct {
		// URL is the JDBC-style connection URL, e.g. jdbc:postgresql://localhost:5432/app
		URL string `yaml:"url,omitempty" toml:"url,omitempty"`

		// Username is required, although it may be empty
		Username *string `yaml:"username,omitempty" toml:"username,omitempty"`

		// Password is required, although it may be empty
		Password *string `yaml:"password,omitempty" toml:"password,omitempty"`

		// Driver names a registered driver. When empty it is detected from the
		// URL subprotocol.
		Driver string `yaml:"driver,omitempty" toml:"driver,omitempty"`

		// Script is inline SQL text. Mutually exclusive with ScriptFiles.
		Script string `yaml:"script,omitempty" toml:"script,omitempty"`

		// ScriptFiles lists script locations executed in order. Mutually exclusive
		// with Script.
		ScriptFiles []string `yaml:"script_files,omitempty" toml:"script_files,omitempty"`

		// CommitAfterEach selects the durability mode. When true every statement
		// is committed as it executes, otherwise each script is committed once
		// after all of its statements succeed.
		CommitAfterEach bool `yaml:"commit_after_each" toml:"commit_after_each"`

		// KeepNewlines joins multi-line statements with "\n" instead of a space
		KeepNewlines bool `yaml:"keep_newlines" toml:"keep_newlines"`

		// S3 configures access to s3:// script locations
		S3 S3 `yaml:"s3,omitempty" toml:"s3,omitempty"`

		// ClickHouse contains ClickHouse-specific connection settings
		ClickHouse ClickHouse `yaml:"clickhouse,omitempty" toml:"clickhouse,omitempty"`

		// Environments holds named connection overlays selected with --env
		Environments map[string]Environment `yaml:"environments,omitempty" toml:"environments,omitempty"`
	}
)

// Default returns a configuration with every default applied and no
// connection settings.
func Default() *Config {
	return &Config{
		CommitAfterEach: true,
		KeepNewlines:    true,
	}
}

// FormatFromPath picks the document format from a file extension. Anything
// other than .toml is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}

	return FormatYAML
}

// LoadConfig parses a configuration document from the provided io.Reader.
//
// The document is first checked against the embedded JSON schema so that
// unknown keys and mistyped values are reported before decoding. Fields that
// are not present keep the values from Default.
//
// Example:
//
//	yamlData := `
//	url: jdbc:postgresql://localhost:5432/app
//	username: app
//	password: secret
//	script_files:
//	  - db/schema.sql
//	  - db/seed.sql
//	commit_after_each: false
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData), config.FormatYAML)
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Running %d scripts\n", len(cfg.ScriptFiles))
func LoadConfig(r io.Reader, format Format) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Wrap(io.EOF, "failed to unmarshal config")
	}

	var doc map[string]any
	if err := unmarshal(data, format, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := unmarshal(data, format, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path. The
// format is chosen from the file extension.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("runsql.toml")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f, FormatFromPath(path))
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML, "":
		return yaml.Unmarshal(data, v)
	default:
		return errors.Errorf("unsupported config format: %s", format)
	}
}
