// Package docker provides throwaway database containers that SQL scripts can
// be run against before they are pointed at a real server.
//
// Containers are managed with testcontainers and come in two flavours:
// ClickHouse (using the testcontainers ClickHouse module, optionally mounting a
// config.d directory) and Postgres (a generic container on the official
// image). Once started, a container reports a connection URL and credentials
// that can be handed straight to the driver registry.
//
// # Usage Example
//
//	container := docker.NewWithOptions(docker.DockerOptions{
//		Engine:  docker.ClickHouse,
//		Version: "25.7",
//	})
//
//	ctx := context.Background()
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
//
//	url, _ := container.URL(ctx)
//	conn, _ := driver.Builtin().Connector(driver.ConnectParams{
//		URL:      url,
//		Username: container.Username(),
//		Password: container.Password(),
//	})
package docker
