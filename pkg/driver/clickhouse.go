package driver

import (
	"context"

	"github.com/pseudomuto/runsql/pkg/clickhouse"
)

// clickhouseSession adapts the native ClickHouse client to Session.
type clickhouseSession struct {
	*clickhouse.Client
}

func openClickHouse(ctx context.Context, dsn string, p ConnectParams) (Session, error) {
	client, err := clickhouse.NewClientWithOptions(ctx, dsn, clickhouse.ClientOptions{TLS: p.TLS})
	if err != nil {
		return nil, err
	}

	return &clickhouseSession{Client: client}, nil
}

func (s *clickhouseSession) Info(ctx context.Context) (Info, error) {
	info := Info{Driver: "clickhouse", Product: "ClickHouse"}

	version, err := s.ServerVersion(ctx)
	if err != nil {
		return info, err
	}

	info.Version = version
	return info, nil
}
