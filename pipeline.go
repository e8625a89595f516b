package datatable

import (
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// defaultCollator compares strings locale-aware instead of bytewise.
var defaultCollator = collate.New(language.Und)

// Process runs the search and sort stages over rows and returns
// the result in a new slice, never mutating the input.
//
// With disableProcessing the input is returned unchanged, same
// order and elements, regardless of the other arguments. This is
// the hard bypass for callers that filter and sort elsewhere,
// for example server-side.
//
// The search stage keeps a row if at least one non-reserved column
// has a string-coerced value containing searchValue as a
// case-insensitive substring. Nil and missing values match as the
// empty string. An empty searchValue skips the stage.
//
// The sort stage is a stable sort over the field named by
// sortState.Key. Nil and missing values order after all non-nil
// values in both directions, the direction only flips the relative
// order of non-nil values. Strings compare locale-aware, other
// values by their native ordering. An empty sortState.Key skips
// the stage and preserves input order.
func Process(rows []Row, searchValue string, sortState SortState, columns Columns, disableProcessing bool) []Row {
	return processCollated(rows, searchValue, sortState, columns, disableProcessing, defaultCollator)
}

func processCollated(rows []Row, searchValue string, sortState SortState, columns Columns, disableProcessing bool, collator *collate.Collator) []Row {
	if disableProcessing {
		return rows
	}
	if collator == nil {
		collator = defaultCollator
	}

	var processed []Row
	if searchValue != "" {
		processed = searchRows(rows, searchValue, columns)
	} else {
		// Copy so sorting can't reorder the caller's slice.
		processed = append([]Row(nil), rows...)
	}

	if sortState.IsSorted() {
		sortRows(processed, sortState, collator)
	}
	return processed
}

func searchRows(rows []Row, searchValue string, columns Columns) []Row {
	needle := strings.ToLower(searchValue)
	dataColumns := columns.DataColumns()

	matched := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, col := range dataColumns {
			value := row.FieldString(col.Key)
			if strings.Contains(strings.ToLower(value), needle) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

func sortRows(rows []Row, sortState SortState, collator *collate.Collator) {
	descending := sortState.Direction == SortDesc
	sort.SliceStable(rows, func(i, j int) bool {
		a, aOK := rows[i].Field(sortState.Key)
		b, bOK := rows[j].Field(sortState.Key)
		aNil := !aOK || a == nil
		bNil := !bOK || b == nil
		switch {
		case aNil && bNil:
			return false
		case aNil:
			// Nil sorts last independent of direction.
			return false
		case bNil:
			return true
		}
		cmp := compareValues(a, b, collator)
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareValues returns -1, 0 or 1 ordering two non-nil field values.
// Numbers compare numerically, times chronologically, bools with
// false before true. Strings and any mixed or unordered types fall
// back to locale-aware comparison of their string forms.
func compareValues(a, b any, collator *collate.Collator) int {
	if aNum, aOK := toFloat(a); aOK {
		if bNum, bOK := toFloat(b); bOK {
			switch {
			case aNum < bNum:
				return -1
			case aNum > bNum:
				return 1
			}
			return 0
		}
	}
	if aTime, aOK := a.(time.Time); aOK {
		if bTime, bOK := b.(time.Time); bOK {
			switch {
			case aTime.Before(bTime):
				return -1
			case aTime.After(bTime):
				return 1
			}
			return 0
		}
	}
	if aBool, aOK := a.(bool); aOK {
		if bBool, bOK := b.(bool); bOK {
			switch {
			case aBool == bBool:
				return 0
			case bBool:
				return -1
			}
			return 1
		}
	}
	return collator.CompareString(coerceString(a), coerceString(b))
}

func toFloat(value any) (float64, bool) {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		f, err := cast.ToFloat64E(value)
		return f, err == nil
	}
	return 0, false
}
