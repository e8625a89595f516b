// Package csv writes table rows as CSV.
package csv

import (
	"bytes"
	"context"
	"io"
	"strings"

	datatable "github.com/domonda/go-datatable"
)

// TextTransformer transforms encoded output bytes,
// for example into a non UTF-8 charset.
type TextTransformer interface {
	Bytes([]byte) ([]byte, error)
}

// EscapeQuotes escapes double quotes by doubling them
// per RFC 4180.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}

// Writer writes rows and columns of a table as CSV.
// Cell strings come from Column.Format if set,
// else from the string-coerced field value.
type Writer struct {
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          TextTransformer
}

func NewWriter() *Writer {
	return &Writer{
		delimiter:    ';',
		escapeQuotes: `""`,
		newLine:      "\r\n",
	}
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	w.quoteAllFields = quoteAllFields
	return w
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	w.quoteEmptyFields = quoteEmptyFields
	return w
}

// WithNilValue sets the string written for nil field values.
func (w *Writer) WithNilValue(nilValue string) *Writer {
	w.nilValue = nilValue
	return w
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	w.escapeQuotes = escapeQuotes
	return w
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	w.delimiter = delimiter
	return w
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	w.newLine = newLine
	return w
}

func (w *Writer) WithEncoder(encoder TextTransformer) *Writer {
	w.encoder = encoder
	return w
}

func (w *Writer) QuoteAllFields() bool {
	return w.quoteAllFields
}

func (w *Writer) QuoteEmptyFields() bool {
	return w.quoteEmptyFields
}

func (w *Writer) Delimiter() rune {
	return w.delimiter
}

func (w *Writer) EscapeQuotes() string {
	return w.escapeQuotes
}

func (w *Writer) NilValue() string {
	return w.nilValue
}

func (w *Writer) NewLine() string {
	return w.newLine
}

func (w *Writer) Encoder() TextTransformer {
	return w.encoder
}

// Write writes the columns' cells of all rows to dest,
// with an optional header row of the column titles.
func (w *Writer) Write(ctx context.Context, dest io.Writer, columns datatable.Columns, rows []datatable.Row, writeHeaderRow bool) error {
	var (
		rowBuf         = bytes.NewBuffer(make([]byte, 0, 1024))
		mustQuoteChars = "\n" + string(w.delimiter)
	)
	if writeHeaderRow {
		err := w.writeRow(ctx, dest, rowBuf, columns.Titles(), mustQuoteChars)
		if err != nil {
			return err
		}
	}
	for _, row := range rows {
		fields := make([]string, len(columns))
		for col := range columns {
			if value, ok := row.Field(columns[col].Key); (!ok || value == nil) && columns[col].Format == nil {
				fields[col] = w.nilValue
			} else {
				fields[col] = columns[col].CellString(row)
			}
		}
		if err := w.writeRow(ctx, dest, rowBuf, fields, mustQuoteChars); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeRow(ctx context.Context, dest io.Writer, rowBuf *bytes.Buffer, fields []string, mustQuoteChars string) (err error) {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	for col, str := range fields {
		if col > 0 {
			rowBuf.WriteRune(w.delimiter)
		}
		// Just in case remove all \r,
		// \n alone is valid within quotes
		str = strings.ReplaceAll(str, "\r", "")
		switch {
		case w.quoteAllFields || strings.ContainsAny(str, mustQuoteChars):
			rowBuf.WriteByte('"')
			rowBuf.WriteString(strings.ReplaceAll(str, `"`, w.escapeQuotes))
			rowBuf.WriteByte('"')
		case w.quoteEmptyFields && str == "":
			rowBuf.WriteString(`""`)
		default:
			rowBuf.WriteString(strings.ReplaceAll(str, `"`, w.escapeQuotes))
		}
	}
	rowBuf.WriteString(w.newLine)
	rowBytes := rowBuf.Bytes()
	rowBuf.Reset()
	if w.encoder != nil {
		rowBytes, err = w.encoder.Bytes(rowBytes)
		if err != nil {
			return err
		}
	}
	_, err = dest.Write(rowBytes)
	return err
}
