// Package clickhouse provides a native ClickHouse client that can execute SQL
// script statements.
//
// The client speaks the native protocol through clickhouse-go and accepts
// either a plain host:port or a full clickhouse:// DSN. mTLS is supported via
// GetTLSConfig.
//
// ClickHouse has no multi-statement transactions. The client therefore only
// runs in auto-commit mode: SetAutoCommit(false) fails with
// ErrTransactionsUnsupported and Commit is a no-op.
//
// Example usage:
//
//	client, err := clickhouse.NewClientWithOptions(ctx, "clickhouse://default:@localhost:9000/default",
//		clickhouse.ClientOptions{
//			TLSSettings: clickhouse.TLSSettings{
//				CAFile:   "certs/ca.pem",
//				CertFile: "certs/client.pem",
//				KeyFile:  "certs/client-key.pem",
//			},
//		},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	version, err := client.ServerVersion(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Connected to ClickHouse %s\n", version)
package clickhouse
