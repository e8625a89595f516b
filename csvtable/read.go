package csvtable

import (
	"fmt"

	fs "github.com/ungerik/go-fs"

	datatable "github.com/domonda/go-datatable"
)

// ReadDetectFormat parses CSV data with automatic format detection
// and converts it into table columns and rows.
//
// The first non-empty row provides the column keys and titles, all
// columns are sortable. Short rows leave the missing fields absent,
// extra fields of over-long rows are dropped.
func ReadDetectFormat(csv []byte, configOrNil *FormatDetectionConfig) (datatable.Columns, []datatable.Row, *Format, error) {
	stringRows, format, err := ParseDetectFormat(csv, configOrNil)
	if err != nil {
		return nil, nil, format, err
	}
	columns, rows, err := tableFromStringRows(stringRows)
	return columns, rows, format, err
}

// ReadWithFormat parses CSV data using an explicitly specified
// format and converts it into table columns and rows like
// ReadDetectFormat.
func ReadWithFormat(csv []byte, format *Format) (datatable.Columns, []datatable.Row, error) {
	stringRows, err := ParseWithFormat(csv, format)
	if err != nil {
		return nil, nil, err
	}
	return tableFromStringRows(stringRows)
}

// ReadFile reads a CSV file with automatic format detection
// and converts it into table columns and rows.
func ReadFile(file fs.File, configOrNil *FormatDetectionConfig) (datatable.Columns, []datatable.Row, *Format, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("csvtable: reading %s: %w", file, err)
	}
	return ReadDetectFormat(data, configOrNil)
}

// RemoveEmptyRows returns rows without nil or all-empty-string rows.
func RemoveEmptyRows(rows [][]string) [][]string {
	result := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, field := range row {
			if field != "" {
				result = append(result, row)
				break
			}
		}
	}
	return result
}

func tableFromStringRows(stringRows [][]string) (datatable.Columns, []datatable.Row, error) {
	stringRows = RemoveEmptyRows(stringRows)
	if len(stringRows) == 0 {
		return nil, nil, nil
	}

	header := stringRows[0]
	columns := make(datatable.Columns, len(header))
	for i, key := range header {
		columns[i] = datatable.Column{
			Key:      key,
			Title:    key,
			Sortable: true,
		}
	}

	rows := make([]datatable.Row, 0, len(stringRows)-1)
	for _, fields := range stringRows[1:] {
		row := make(datatable.Row, len(header))
		for i, key := range header {
			if i < len(fields) {
				row[key] = fields[i]
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}
