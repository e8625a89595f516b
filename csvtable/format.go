// Package csvtable loads table rows from CSV data,
// with automatic detection of encoding, separator, and line endings.
package csvtable

import (
	"errors"
	"fmt"
	"strings"
)

// Format describes the encoding and structural format of a CSV file.
type Format struct {
	// Encoding specifies the character encoding of the CSV data.
	// Common values: "UTF-8", "UTF-16LE", "ISO 8859-1", "Windows 1252", "Macintosh"
	Encoding string `json:"encoding"`

	// Separator is the field delimiter character (must be single character).
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	Separator string `json:"separator"`

	// Newline specifies the line ending sequence.
	// Valid values: "\n" (LF), "\r\n" (CRLF), "\n\r" (LFCR)
	Newline string `json:"newline"`
}

// NewFormat returns a Format with the specified separator,
// UTF-8 encoding, and RFC 4180 compliant CRLF line endings.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate checks if the Format configuration is valid.
// It can be safely called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures the automatic CSV format
// detection: which character encodings to test and which test
// strings to use for validating a candidate encoding.
type FormatDetectionConfig struct {
	// Encodings to test during detection, in priority order.
	Encodings []string `json:"encodings"`

	// EncodingTests are strings with special characters whose
	// byte representations differ across the tested encodings.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// with defaults for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}

// EscapeQuotes escapes double quotes by doubling them
// per RFC 4180.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
