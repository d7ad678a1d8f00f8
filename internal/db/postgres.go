package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/relnorm/internal/relation"
)

// PostgresImporter reads table structure from PostgreSQL.
type PostgresImporter struct {
	conn   *pgx.Conn
	schema string
}

// NewPostgresImporter connects to PostgreSQL. schemaName defaults to
// "public" when empty.
func NewPostgresImporter(ctx context.Context, connString, schemaName string) (*PostgresImporter, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if schemaName == "" {
		schemaName = "public"
	}
	return &PostgresImporter{conn: conn, schema: schemaName}, nil
}

// Close closes the database connection.
func (im *PostgresImporter) Close(ctx context.Context) error {
	return im.conn.Close(ctx)
}

// ImportTable builds a relation skeleton from the table's columns, primary
// key, and single-column unique constraints.
func (im *PostgresImporter) ImportTable(ctx context.Context, table string) (*relation.Relation, error) {
	cols, err := im.columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	pk, err := im.primaryKey(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read primary key of %s: %w", table, err)
	}
	markPrimaryKey(cols, pk)

	return relationFromTable(table, cols)
}

func (im *PostgresImporter) columns(ctx context.Context, table string) ([]columnInfo, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			CASE WHEN EXISTS (
				SELECT 1 FROM information_schema.table_constraints tc
				JOIN information_schema.constraint_column_usage ccu
					ON tc.constraint_name = ccu.constraint_name
					AND tc.table_schema = ccu.table_schema
				WHERE tc.table_schema = $1
					AND tc.table_name = $2
					AND tc.constraint_type = 'UNIQUE'
					AND ccu.column_name = c.column_name
			) THEN true ELSE false END AS is_unique
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := im.conn.Query(ctx, query, im.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var col columnInfo
		if err := rows.Scan(&col.Name, &col.Type, &col.Unique); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (im *PostgresImporter) primaryKey(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = $1
			AND table_name = $2
			AND constraint_name IN (
				SELECT constraint_name
				FROM information_schema.table_constraints
				WHERE table_schema = $1
					AND table_name = $2
					AND constraint_type = 'PRIMARY KEY'
			)
		ORDER BY ordinal_position
	`

	rows, err := im.conn.Query(ctx, query, im.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		pk = append(pk, name)
	}
	return pk, rows.Err()
}
