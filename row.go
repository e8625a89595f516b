// Package datatable implements a headless data-table core:
// the deterministic pipeline from raw rows to displayed rows
// together with the sort, selection, and pagination state machines.
// Rendering is left to the host application which consumes
// the processed output of a Table.
package datatable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/zeebo/xxh3"
)

// Row is a single record of named field values.
// Valid field values are strings, numbers, bools, time.Time,
// nil, or slices of such primitives. A missing key is
// equivalent to a nil value.
type Row map[string]any

// Field returns the value for key and whether the key is present.
func (r Row) Field(key string) (value any, ok bool) {
	value, ok = r[key]
	return value, ok
}

// FieldString returns the value for key coerced to a string.
// Nil and missing values yield an empty string.
func (r Row) FieldString(key string) string {
	return coerceString(r[key])
}

// coerceString converts an arbitrary field value to its string form.
// Slices are rendered as comma separated elements.
func coerceString(value any) string {
	if value == nil {
		return ""
	}
	if slice, ok := value.([]any); ok {
		var b strings.Builder
		for i, elem := range slice {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(coerceString(elem))
		}
		return b.String()
	}
	if str, err := cast.ToStringE(value); err == nil {
		return str
	}
	return fmt.Sprint(value)
}

// IDFunc extracts the identifier of a row.
// The identifier must be stable across processing cycles and
// unique within the active dataset.
// Returning ok == false signals that no identifier could be
// derived and a fallback will be substituted.
type IDFunc func(row Row) (id string, ok bool)

// DefaultIDFunc reads the conventional "id" field as row identifier,
// accepting string and numeric values.
func DefaultIDFunc(row Row) (string, bool) {
	value, exists := row["id"]
	if !exists || value == nil {
		return "", false
	}
	switch value.(type) {
	case string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		id := coerceString(value)
		return id, id != ""
	}
	return "", false
}

// StructuralIDFunc derives a row identifier by hashing the
// row's complete content. Unlike the random fallback used for
// rows without a proper identifier, a structural hash is stable
// across processing cycles as long as the row content does not
// change, so selection state stays attached to the row.
// Rows with identical content hash to the same identifier.
func StructuralIDFunc(row Row) (string, bool) {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(coerceString(row[key]))
		b.WriteByte('\n')
	}
	return fmt.Sprintf("%016x", xxh3.HashString(b.String())), true
}

// fallbackID returns a random identifier for a row that has none.
// The result is not stable across calls, which detaches any
// selection state from the row on the next processing cycle.
// Callers that cannot guarantee an "id" field should supply
// their own IDFunc or use StructuralIDFunc instead.
func fallbackID() string {
	return uuid.NewString()
}
