// Package sqltable loads table rows from database/sql query results.
package sqltable

import (
	"fmt"

	datatable "github.com/domonda/go-datatable"
)

// Rows abstracts the essential methods of *sql.Rows so that
// query results can be mocked in tests. Any *sql.Rows satisfies
// the interface.
type Rows interface {
	// Columns returns the names of the columns in the result set.
	Columns() ([]string, error)

	// Scan copies the column values of the current row
	// into the variables pointed to by dest.
	Scan(dest ...any) error

	// Close closes the Rows, preventing further enumeration.
	Close() error

	// Next prepares the next result row for reading with Scan,
	// returning false when no row is left.
	Next() bool

	// Err returns the error, if any,
	// that was encountered during iteration.
	Err() error
}

// ReadRows drains rows into table columns and rows and closes it.
//
// Every result column becomes a sortable data column whose key
// and title are the column name. Byte slice values are converted
// to strings so downstream search and sort see text, all other
// driver values are kept as returned.
func ReadRows(rows Rows) (datatable.Columns, []datatable.Row, error) {
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("sqltable: querying columns: %w", err)
	}
	columns := make(datatable.Columns, len(names))
	for i, name := range names {
		columns[i] = datatable.Column{
			Key:      name,
			Title:    name,
			Sortable: true,
		}
	}

	var tableRows []datatable.Row
	values := make([]any, len(names))
	pointers := make([]any, len(names))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, fmt.Errorf("sqltable: scanning row %d: %w", len(tableRows), err)
		}
		row := make(datatable.Row, len(names))
		for i, name := range names {
			row[name] = normalizeValue(values[i])
		}
		tableRows = append(tableRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("sqltable: iterating rows: %w", err)
	}
	return columns, tableRows, nil
}

func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
