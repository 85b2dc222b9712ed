package docker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/consts"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// ClickHouse runs clickhouse/clickhouse-server
	ClickHouse Engine = "clickhouse"

	// Postgres runs the official postgres image
	Postgres Engine = "postgres"

	// DefaultClickHousePort is the default port for ClickHouse server
	DefaultClickHousePort = 9000

	// DefaultClickHouseHTTPPort is the default HTTP port for ClickHouse server
	DefaultClickHouseHTTPPort = 8123

	// DefaultPostgresPort is the default port for Postgres server
	DefaultPostgresPort = 5432

	startupTimeout = 5 * time.Minute
)

type (
	// Engine selects the database a sandbox container runs.
	Engine string

	// DockerOptions represents options for running a sandbox database
	DockerOptions struct {
		// Engine is the database to run (default: ClickHouse)
		Engine Engine

		// Version is the image tag to run (defaults per engine)
		Version string

		// Database is the database created in the container (defaults per engine)
		Database string

		// Username and Password are the credentials created in the container
		Username string
		Password string

		// ConfigDir is the optional ClickHouse config directory path to mount (relative paths will be converted to absolute)
		ConfigDir string
	}

	// Container manages a sandbox database container that scripts can be run
	// against
	Container struct {
		options   DockerOptions
		container testcontainers.Container
		port      nat.Port
		scheme    string
	}
)

// Engines returns the supported sandbox engines.
func Engines() []Engine {
	return []Engine{ClickHouse, Postgres}
}

// New creates a new ClickHouse sandbox with default options
//
// Example:
//
//	container := docker.New()
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New() *Container {
	return NewWithOptions(DockerOptions{})
}

// NewWithOptions creates a new sandbox with custom options. Unset options
// receive the defaults of the selected engine.
//
// Example:
//
//	container := docker.NewWithOptions(docker.DockerOptions{
//		Engine:  docker.Postgres,
//		Version: "16-alpine",
//	})
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
//
//	url, _ := container.URL(ctx) // jdbc:postgresql://localhost:49153/runsql?sslmode=disable
func NewWithOptions(opts DockerOptions) *Container {
	if opts.Engine == "" {
		opts.Engine = ClickHouse
	}

	switch opts.Engine {
	case Postgres:
		opts.Version = orDefault(opts.Version, consts.DefaultPostgresVersion)
		opts.Database = orDefault(opts.Database, "runsql")
		opts.Username = orDefault(opts.Username, "runsql")
		opts.Password = orDefault(opts.Password, "runsql")
	default:
		opts.Version = orDefault(opts.Version, consts.DefaultClickHouseVersion)
		opts.Database = orDefault(opts.Database, "default")
		opts.Username = orDefault(opts.Username, "default")
	}

	return &Container{options: opts}
}

// Options returns the effective options of the container.
func (c *Container) Options() DockerOptions {
	return c.options
}

// Start starts the sandbox container and waits until the database accepts
// connections
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	switch c.options.Engine {
	case ClickHouse:
		return c.startClickHouse(ctx)
	case Postgres:
		return c.startPostgres(ctx)
	default:
		return errors.Errorf("unsupported sandbox engine: %s", c.options.Engine)
	}
}

func (c *Container) startClickHouse(ctx context.Context) error {
	customizers := []testcontainers.ContainerCustomizer{
		clickhouse.WithUsername(c.options.Username),
		clickhouse.WithPassword(c.options.Password),
		clickhouse.WithDatabase(c.options.Database),
		testcontainers.WithEnv(map[string]string{"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1"}),
		testcontainers.WithWaitStrategyAndDeadline(
			startupTimeout,
			wait.
				NewHTTPStrategy("/").
				WithPort(nat.Port(fmt.Sprintf("%d/tcp", DefaultClickHouseHTTPPort))).
				WithStatusCodeMatcher(func(status int) bool {
					return status == 200
				}),
		),
	}

	// Add config directory mount if specified
	if c.options.ConfigDir != "" {
		absConfigDir, err := filepath.Abs(c.options.ConfigDir)
		if err != nil {
			return errors.Wrapf(err, "failed to get absolute path for ConfigDir: %s", c.options.ConfigDir)
		}

		customizers = append(
			customizers,
			testcontainers.WithHostConfigModifier(func(hostConfig *container.HostConfig) {
				hostConfig.Mounts = []mount.Mount{
					{
						Type:   mount.TypeBind,
						Source: absConfigDir,
						Target: "/etc/clickhouse-server/config.d",
					},
				}
			}),
		)
	}

	ctr, err := clickhouse.Run(ctx,
		fmt.Sprintf("clickhouse/clickhouse-server:%s-alpine", c.options.Version),
		customizers...,
	)
	if err != nil {
		return errors.Wrap(err, "failed to start ClickHouse container")
	}

	c.container = ctr
	c.port = nat.Port(fmt.Sprintf("%d/tcp", DefaultClickHousePort))
	c.scheme = "clickhouse"
	return nil
}

func (c *Container) startPostgres(ctx context.Context) error {
	port := nat.Port(fmt.Sprintf("%d/tcp", DefaultPostgresPort))

	req := testcontainers.ContainerRequest{
		Image:        "postgres:" + c.options.Version,
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"POSTGRES_DB":       c.options.Database,
			"POSTGRES_USER":     c.options.Username,
			"POSTGRES_PASSWORD": c.options.Password,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(port),
		).WithDeadline(startupTimeout),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to start Postgres container")
	}

	c.container = ctr
	c.port = port
	c.scheme = "postgresql"
	return nil
}

// Stop stops and removes the sandbox container
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil // Already stopped
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	if err != nil {
		return errors.Wrapf(err, "failed to stop %s container", c.options.Engine)
	}

	return nil
}

// URL returns the connection URL for the running sandbox, e.g.
// jdbc:clickhouse://localhost:49153/default
func (c *Container) URL(ctx context.Context) (string, error) {
	if c.container == nil {
		return "", errors.New("container is not running")
	}

	host, err := c.container.Host(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get container host")
	}

	port, err := c.container.MappedPort(ctx, c.port)
	if err != nil {
		return "", errors.Wrap(err, "failed to get container port")
	}

	url := fmt.Sprintf("jdbc:%s://%s:%s/%s", c.scheme, host, port.Port(), c.options.Database)
	if c.options.Engine == Postgres {
		url += "?sslmode=disable"
	}

	return url, nil
}

// Username returns the user created in the container.
func (c *Container) Username() string {
	return c.options.Username
}

// Password returns the password of the user created in the container.
func (c *Container) Password() string {
	return c.options.Password
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.container != nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
