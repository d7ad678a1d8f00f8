package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/relnorm/internal/relation"
)

// SQLiteImporter reads table structure from a SQLite database file.
type SQLiteImporter struct {
	db *sql.DB
}

// NewSQLiteImporter opens the SQLite database at the given path.
func NewSQLiteImporter(ctx context.Context, path string) (*SQLiteImporter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLiteImporter{db: db}, nil
}

// Close closes the database connection.
func (im *SQLiteImporter) Close() error {
	return im.db.Close()
}

// ImportTable builds a relation skeleton from PRAGMA table_info plus the
// table's single-column unique indexes.
func (im *SQLiteImporter) ImportTable(ctx context.Context, table string) (*relation.Relation, error) {
	rows, err := im.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	var cols []columnInfo
	for rows.Next() {
		var (
			cid, notNull, pkOrder int
			name, colType         string
			defaultValue          sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pkOrder); err != nil {
			rows.Close()
			return nil, err
		}
		cols = append(cols, columnInfo{
			Name:         name,
			Type:         colType,
			InPrimaryKey: pkOrder > 0,
		})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	unique, err := im.uniqueColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read unique indexes of %s: %w", table, err)
	}
	for i := range cols {
		if unique[cols[i].Name] && !cols[i].InPrimaryKey {
			cols[i].Unique = true
		}
	}

	return relationFromTable(table, cols)
}

// uniqueColumns returns the names covered by single-column unique indexes.
func (im *SQLiteImporter) uniqueColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := im.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%q)", table))
	if err != nil {
		return nil, err
	}

	var uniqueIndexes []string
	for rows.Next() {
		var (
			seq, unique, partial int
			name, origin         string
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if unique == 1 {
			uniqueIndexes = append(uniqueIndexes, name)
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	result := make(map[string]bool)
	for _, index := range uniqueIndexes {
		infoRows, err := im.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%q)", index))
		if err != nil {
			return nil, err
		}

		var indexColumns []string
		for infoRows.Next() {
			var (
				seqno, cid int
				colName    sql.NullString
			)
			if err := infoRows.Scan(&seqno, &cid, &colName); err != nil {
				infoRows.Close()
				return nil, err
			}
			if colName.Valid {
				indexColumns = append(indexColumns, colName.String)
			}
		}
		if err := infoRows.Close(); err != nil {
			return nil, err
		}

		if len(indexColumns) == 1 {
			result[indexColumns[0]] = true
		}
	}

	return result, nil
}
