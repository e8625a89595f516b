package datatable

import (
	"fmt"
	"reflect"
)

// DefaultStructFieldNaming is used by RowsFromStructs:
// "col" as field tag, "-" ignores a field,
// and SpacePascalCase for untagged fields.
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:      "col",
	Ignore:   "-",
	Untagged: SpacePascalCase,
}

// RowsFromStructs derives columns and rows from a slice or array
// of structs using DefaultStructFieldNaming.
//
// Every exported struct field, including inlined fields of
// anonymously embedded structs, becomes a sortable column whose
// key and title are the field's derived column name. Nil pointer
// fields become nil row values, non-nil pointers are dereferenced.
func RowsFromStructs(structSlice any) (Columns, []Row, error) {
	return DefaultStructFieldNaming.RowsFromStructs(structSlice)
}

// RowsFromStructs derives columns and rows from a slice or array
// of structs using the receiver's naming rules.
func (n *StructFieldNaming) RowsFromStructs(structSlice any) (Columns, []Row, error) {
	slice := reflect.ValueOf(structSlice)
	for slice.Kind() == reflect.Ptr && !slice.IsNil() {
		slice = slice.Elem()
	}
	if slice.Kind() != reflect.Slice && slice.Kind() != reflect.Array {
		return nil, nil, fmt.Errorf("expected struct slice or array, got %T", structSlice)
	}
	structType := slice.Type().Elem()
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("expected struct slice or array, got %T", structSlice)
	}

	fields := StructFieldTypes(structType)
	columns := make(Columns, 0, len(fields))
	fieldKeys := make([]string, len(fields)) // empty string marks an ignored field
	for i, field := range fields {
		key := n.StructFieldColumn(field)
		if key == "" || (n != nil && key == n.Ignore) {
			continue
		}
		fieldKeys[i] = key
		columns = append(columns, Column{
			Key:      key,
			Title:    key,
			Sortable: true,
		})
	}

	rows := make([]Row, slice.Len())
	for i := range rows {
		strct := slice.Index(i)
		for strct.Kind() == reflect.Ptr && !strct.IsNil() {
			strct = strct.Elem()
		}
		if strct.Kind() != reflect.Struct {
			return nil, nil, fmt.Errorf("expected struct at index %d, got %s", i, strct.Kind())
		}
		values := StructFieldValues(strct)
		row := make(Row, len(columns))
		for j, value := range values {
			if fieldKeys[j] == "" {
				continue
			}
			row[fieldKeys[j]] = fieldValue(value)
		}
		rows[i] = row
	}
	return columns, rows, nil
}

// fieldValue unwraps a reflected struct field into a row value.
func fieldValue(value reflect.Value) any {
	if ValueIsNil(value) {
		return nil
	}
	for value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	return value.Interface()
}
