package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/tordrt/relnorm/internal/relation"
)

// MySQLImporter reads table structure from MySQL.
type MySQLImporter struct {
	db     *sql.DB
	schema string
}

// NewMySQLImporter connects to MySQL. The connection string uses the Go
// MySQL driver DSN format (user:pass@tcp(host:port)/dbname). When
// schemaName is empty the database name is taken from the DSN.
func NewMySQLImporter(ctx context.Context, connString, schemaName string) (*MySQLImporter, error) {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if schemaName == "" {
		schemaName, err = ParseDatabaseName(connString)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to determine database name: %w", err)
		}
	}

	return &MySQLImporter{db: db, schema: schemaName}, nil
}

// Close closes the database connection.
func (im *MySQLImporter) Close() error {
	return im.db.Close()
}

// ParseDatabaseName extracts the database name from a MySQL DSN.
func ParseDatabaseName(connString string) (string, error) {
	slash := strings.LastIndex(connString, "/")
	if slash < 0 || slash == len(connString)-1 {
		return "", fmt.Errorf("no database name in connection string")
	}
	name := connString[slash+1:]
	if q := strings.Index(name, "?"); q >= 0 {
		name = name[:q]
	}
	if name == "" {
		return "", fmt.Errorf("no database name in connection string")
	}
	return name, nil
}

// ImportTable builds a relation skeleton from the table's columns, using
// MySQL's column_key marker for primary-key and unique flags.
func (im *MySQLImporter) ImportTable(ctx context.Context, table string) (*relation.Relation, error) {
	query := `
		SELECT column_name, data_type, column_key
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := im.db.QueryContext(ctx, query, im.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var col columnInfo
		var columnKey string
		if err := rows.Scan(&col.Name, &col.Type, &columnKey); err != nil {
			return nil, err
		}
		switch columnKey {
		case "PRI":
			col.InPrimaryKey = true
		case "UNI":
			col.Unique = true
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return relationFromTable(table, cols)
}
