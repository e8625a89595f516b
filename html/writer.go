// Package html writes table rows as an HTML table.
package html

import (
	"bytes"
	"context"
	"html"
	"io"

	datatable "github.com/domonda/go-datatable"
)

// Writer writes rows and columns of a table as an HTML table
// element. Cell strings come from Column.Format if set, else
// from the string-coerced field value, and are always escaped.
type Writer struct {
	tableClass string
	caption    string
	nilValue   string
}

func NewWriter() *Writer {
	return &Writer{}
}

// WithTableClass sets the class attribute of the table element.
func (w *Writer) WithTableClass(tableClass string) *Writer {
	w.tableClass = tableClass
	return w
}

// WithCaption sets the caption element of the table.
func (w *Writer) WithCaption(caption string) *Writer {
	w.caption = caption
	return w
}

// WithNilValue sets the string written for nil field values.
func (w *Writer) WithNilValue(nilValue string) *Writer {
	w.nilValue = nilValue
	return w
}

func (w *Writer) TableClass() string {
	return w.tableClass
}

func (w *Writer) Caption() string {
	return w.caption
}

func (w *Writer) NilValue() string {
	return w.nilValue
}

// Write writes the columns' cells of all rows to dest,
// with an optional header row of the column titles.
func (w *Writer) Write(ctx context.Context, dest io.Writer, columns datatable.Columns, rows []datatable.Row, writeHeaderRow bool) error {
	buf := bytes.NewBuffer(make([]byte, 0, 1024))

	buf.WriteString(`<table`)
	if w.tableClass != "" {
		buf.WriteString(` class="`)
		buf.WriteString(html.EscapeString(w.tableClass))
		buf.WriteByte('"')
	}
	buf.WriteString(">\n")
	if w.caption != "" {
		buf.WriteString("<caption>")
		buf.WriteString(html.EscapeString(w.caption))
		buf.WriteString("</caption>\n")
	}

	if writeHeaderRow {
		buf.WriteString("<thead><tr>")
		for _, title := range columns.Titles() {
			buf.WriteString("<th>")
			buf.WriteString(html.EscapeString(title))
			buf.WriteString("</th>")
		}
		buf.WriteString("</tr></thead>\n")
	}

	buf.WriteString("<tbody>\n")
	for _, row := range rows {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		buf.WriteString("<tr>")
		for col := range columns {
			str := columns[col].CellString(row)
			if str == "" {
				if value, ok := row.Field(columns[col].Key); !ok || value == nil {
					str = w.nilValue
				}
			}
			buf.WriteString("<td>")
			buf.WriteString(html.EscapeString(str))
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>\n")

		if _, err := dest.Write(buf.Bytes()); err != nil {
			return err
		}
		buf.Reset()
	}
	buf.WriteString("</tbody>\n</table>\n")

	_, err := dest.Write(buf.Bytes())
	return err
}
