package datatable

// Reserved pseudo-keys for columns that do not address a data field.
// They are excluded from search matching and from sort requests.
const (
	ColumnSelect  = "select"
	ColumnActions = "actions"
)

// IsReservedKey reports whether key is one of the reserved
// pseudo-keys ColumnSelect or ColumnActions.
func IsReservedKey(key string) bool {
	return key == ColumnSelect || key == ColumnActions
}

// Column describes one column of a table.
type Column struct {
	// Key is the row field addressed by the column,
	// or one of the reserved pseudo-keys.
	Key string
	// Title is the header shown for the column.
	Title string
	// Sortable marks the column as a valid sort target.
	Sortable bool
	// Resizable marks the column as resizable by the host UI.
	Resizable bool
	// Width is a pixel width hint for the host UI, 0 means automatic.
	Width int
	// Format renders a custom cell string for a row.
	// If nil the raw field value is string coerced.
	Format func(row Row) string
}

// Reserved reports whether the column uses a reserved pseudo-key.
func (c *Column) Reserved() bool {
	return IsReservedKey(c.Key)
}

// CellString returns the display string of the column's cell in row.
func (c *Column) CellString(row Row) string {
	if c.Format != nil {
		return c.Format(row)
	}
	return row.FieldString(c.Key)
}

// Columns is a set of column descriptors in display order.
type Columns []Column

// Titles returns the column headers in display order.
func (c Columns) Titles() []string {
	titles := make([]string, len(c))
	for i := range c {
		titles[i] = c[i].Title
	}
	return titles
}

// DataColumns returns the columns that address real data fields,
// excluding reserved pseudo-key columns.
func (c Columns) DataColumns() Columns {
	data := make(Columns, 0, len(c))
	for _, col := range c {
		if !col.Reserved() {
			data = append(data, col)
		}
	}
	return data
}

// ByKey returns the first column with the given key.
func (c Columns) ByKey(key string) (*Column, bool) {
	for i := range c {
		if c[i].Key == key {
			return &c[i], true
		}
	}
	return nil, false
}

// Sortable reports whether key addresses a sortable, non-reserved column.
func (c Columns) Sortable(key string) bool {
	if IsReservedKey(key) {
		return false
	}
	col, ok := c.ByKey(key)
	return ok && col.Sortable
}
