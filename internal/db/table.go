// Package db imports a table's declared structure from a live PostgreSQL,
// MySQL, or SQLite database and turns it into a relation skeleton for
// analysis: attributes mirror the columns, primary-key flags come from the
// table's key, and seed FDs are derived from the primary key and from
// single-column unique constraints. Declared constraints only say what the
// DBMS enforces, so the seed FDs are a starting point; domain dependencies
// beyond that still have to be supplied by the user.
package db

import (
	"fmt"

	"github.com/tordrt/relnorm/internal/relation"
)

// columnInfo is the engine-independent description each importer produces
// per column.
type columnInfo struct {
	Name         string
	Type         string
	InPrimaryKey bool
	// Unique marks a single-column unique constraint outside the primary
	// key. Multi-column unique constraints are ignored; they would seed a
	// composite-determinant FD the user is better off declaring explicitly.
	Unique bool
}

// markPrimaryKey flags the columns named in the primary key.
func markPrimaryKey(cols []columnInfo, pk []string) {
	for _, name := range pk {
		for i := range cols {
			if cols[i].Name == name {
				cols[i].InPrimaryKey = true
			}
		}
	}
}

// relationFromTable builds the relation skeleton for one table. Seed FDs:
// the primary key determines every non-key column, and every unique column
// determines all other columns.
func relationFromTable(table string, cols []columnInfo) (*relation.Relation, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q has no columns (does it exist?)", table)
	}

	attrs := make([]relation.Attribute, 0, len(cols))
	for _, c := range cols {
		attrs = append(attrs, relation.Attribute{
			Name:         c.Name,
			DataType:     c.Type,
			IsPrimaryKey: c.InPrimaryKey,
		})
	}

	all := relation.NewAttributeSet(attrs...)
	var fds []relation.FunctionalDependency

	pk := make(relation.AttributeSet)
	for _, a := range attrs {
		if a.IsPrimaryKey {
			pk.Add(a)
		}
	}
	if pk.Len() > 0 && pk.Len() < all.Len() {
		f, err := relation.NewFunctionalDependency(pk, all.Diff(pk))
		if err != nil {
			return nil, err
		}
		fds = append(fds, f)
	}

	for i, c := range cols {
		if !c.Unique || len(cols) < 2 {
			continue
		}
		det := relation.NewAttributeSet(attrs[i])
		f, err := relation.NewFunctionalDependency(det, all.Diff(det))
		if err != nil {
			return nil, err
		}
		fds = append(fds, f)
	}

	return relation.NewRelation(table, attrs, fds, nil)
}
