package driver

import (
	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Builtin returns a new registry holding every driver shipped with runsql.
//
//	| subprotocol     | driver     |
//	|-----------------|------------|
//	| postgresql      | pgx        |
//	| (explicit only) | postgres   |
//	| mysql, mariadb  | mysql      |
//	| sqlserver       | sqlserver  |
//	| sqlite          | sqlite     |
//	| libsql          | libsql     |
//	| duckdb          | duckdb     |
//	| clickhouse, ch  | clickhouse |
func Builtin() *Registry {
	return NewRegistry(
		&Driver{
			Name:         "pgx",
			Description:  "PostgreSQL",
			Subprotocols: []string{"postgresql"},
			DSN:          postgresDSN,
			Open:         openSQL("pgx", "PostgreSQL", "SELECT version()"),
		},
		&Driver{
			Name:        "postgres",
			Description: "PostgreSQL (lib/pq)",
			DSN:         postgresDSN,
			Open:        openSQL("postgres", "PostgreSQL", "SELECT version()"),
		},
		&Driver{
			Name:         "mysql",
			Description:  "MySQL / MariaDB",
			Subprotocols: []string{"mysql", "mariadb"},
			DSN:          mysqlDSN,
			Open:         openSQL("mysql", "MySQL", "SELECT VERSION()"),
		},
		&Driver{
			Name:         "sqlserver",
			Description:  "Microsoft SQL Server",
			Subprotocols: []string{"sqlserver"},
			DSN:          sqlServerDSN,
			Open:         openSQL("sqlserver", "Microsoft SQL Server", "SELECT CAST(SERVERPROPERTY('ProductVersion') AS NVARCHAR(128))"),
		},
		&Driver{
			Name:         "sqlite",
			Description:  "SQLite",
			Subprotocols: []string{"sqlite"},
			DSN:          fileDSN,
			Open:         openSQL("sqlite", "SQLite", "SELECT sqlite_version()"),
		},
		&Driver{
			Name:         "libsql",
			Description:  "libSQL / Turso",
			Subprotocols: []string{"libsql"},
			DSN:          libsqlDSN,
			Open:         openSQL("libsql", "libSQL", "SELECT sqlite_version()"),
		},
		&Driver{
			Name:         "duckdb",
			Description:  "DuckDB",
			Subprotocols: []string{"duckdb"},
			DSN:          duckDBDSN,
			Open:         openSQL("duckdb", "DuckDB", "SELECT version()"),
		},
		&Driver{
			Name:         "clickhouse",
			Description:  "ClickHouse",
			Subprotocols: []string{"clickhouse", "ch"},
			DSN:          clickhouseDSN,
			Open:         openClickHouse,
		},
	)
}
