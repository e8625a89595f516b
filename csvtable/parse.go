package csvtable

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses CSV data with automatic format detection.
// It analyzes the raw bytes to determine encoding, separator, and
// line endings, then parses the data into rows of string fields.
//
// Encodings are detected by testing the configured encodings against
// test strings, \r\n line endings are preferred when present, and the
// most frequent of comma, semicolon, and tab wins as separator unless
// a "sep=X" header line declares one explicitly.
//
// If config is nil, NewDefaultFormatDetectionConfig() is used.
func ParseDetectFormat(csv []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}

	format, lines, err := detectFormatAndSplitLines(csv, config)
	if err != nil {
		return nil, format, err
	}

	rows, err = readLines(lines, []byte(format.Separator), "\n")
	return rows, format, err
}

// ParseWithFormat parses CSV data using an explicitly specified format.
//
// The data is decoded from format.Encoding to UTF-8 with the BOM
// trimmed, invalid characters are replaced, and a "sep=X" header line
// is validated against format.Separator and removed before parsing.
func ParseWithFormat(csv []byte, format *Format) (rows [][]string, err error) {
	err = format.Validate()
	if err != nil {
		return nil, err
	}

	if format.Encoding == "UTF-8" {
		csv = charset.TrimBOM(csv, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		csv, err = enc.Decode(csv)
		if err != nil {
			return nil, err
		}
	}

	csv = sanitizeUTF8(csv)

	lines := bytes.Split(csv, []byte(format.Newline))
	if len(lines) > 0 {
		if headerSep := parseSepHeaderLine(lines[0]); headerSep != "" {
			if headerSep != format.Separator {
				return nil, fmt.Errorf("separator '%s' in header line is different from format.Separator '%s'", headerSep, format.Separator)
			}
			lines = lines[1:]
		}
	}

	return readLines(lines, []byte(format.Separator), "\n")
}

func detectFormatAndSplitLines(csv []byte, config *FormatDetectionConfig) (format *Format, lines [][]byte, err error) {
	if config == nil {
		return nil, nil, errors.New("FormatDetectionConfig must not be nil")
	}

	format = new(Format)

	// Detect charset encoding
	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}

	csv, format.Encoding, err = charset.AutoDecode(csv, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}

	csv = sanitizeUTF8(csv)

	// Simple rule for line endings: if there are \r\n sequences
	// then take those because that's the standard
	if bytes.Contains(csv, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	// Detect separator
	lines = bytes.Split(csv, []byte(format.Newline))

	if len(lines) > 0 {
		format.Separator = parseSepHeaderLine(lines[0])
		if format.Separator != "" {
			return format, lines[1:], nil
		}
	}

	type sepCounts struct {
		commas     int
		semicolons int
		tabs       int
	}

	var (
		sep              sepCounts
		numNonEmptyLines int
	)

	for i := range lines {
		// Remove double newlines
		lines[i] = bytes.Trim(lines[i], "\r\n")
		line := lines[i]

		if len(line) == 0 {
			continue
		}

		numNonEmptyLines++

		sep.commas += bytes.Count(line, []byte{','})
		sep.semicolons += bytes.Count(line, []byte{';'})
		sep.tabs += bytes.Count(line, []byte{'\t'})
	}

	if numNonEmptyLines == 0 {
		return format, nil, nil
	}

	switch {
	case sep.commas > sep.semicolons && sep.commas > sep.tabs:
		format.Separator = ","
	case sep.semicolons > sep.commas && sep.semicolons > sep.tabs:
		format.Separator = ";"
	case sep.tabs > sep.commas && sep.tabs > sep.semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}

	return format, lines, nil
}

// parseSepHeaderLine parses "sep=X" / "SEP=X" separator declaration
// header lines, optionally enclosed in double quotes, as written by
// Microsoft Excel. It returns the declared separator or an empty
// string if the line is not a separator declaration.
func parseSepHeaderLine(line []byte) (sep string) {
	if len(line) < 5 {
		return ""
	}
	if line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

// readLines parses CSV lines into rows of string fields,
// handling quoting and multi-line fields according to RFC 4180.
//
// If a field begins with a quote but doesn't end with one, and it
// is the last field of its line, the closing quote is searched in
// subsequent lines and the lines are joined with newlineReplacement,
// leaving nil entries to keep row indices intact. A field that
// begins with a quote and doesn't end with one mid-line means the
// separator appeared within a quoted field, which is repaired by
// re-joining the wrongly split fields.
func readLines(lines [][]byte, separator []byte, newlineReplacement string) (rows [][]string, err error) {
	rows = make([][]string, len(lines))
	for lineIndex, line := range lines {
		if len(line) == 0 {
			continue
		}

		fields := bytes.Split(line, separator)
		for i := 0; i < len(fields); i++ {
			field := fields[i]
			if len(field) < 2 {
				continue
			}

			leftQuotes, rightQuotes := countQuotesLeftRight(field)
			switch {
			case leftQuotes == 0 && rightQuotes == 0:
				// Unquoted field

			case leftQuotes == 1 && rightQuotes == 1, // Quoted field
				leftQuotes == 3 && rightQuotes == 1, // Quoted field beginning with escapted quote
				leftQuotes == 1 && rightQuotes == 3, // Quoted field ending with escapted quote
				leftQuotes == 3 && rightQuotes == 3, // Quoted field with escaped quotes inside
				leftQuotes == 2 && rightQuotes == 2: // Field not quoted, but escaped quotes inside

				// Remove outermost quotes
				field = field[1 : len(field)-1]

			case leftQuotes == 0 && rightQuotes >= 1:
				// Field begins without a quote but ends with at least one.
				// This is field internal quoting, no special handling needed

			case leftQuotes >= 1 && rightQuotes == 0:
				// Field begins with quote but does not end with one

				if leftQuotes == 2 {
					// Begins with two quotes wich is an escaped quote,
					// but not with a tripple quote.
					// No special handling needed, will be unescaped futher down

				} else {

					joinLineIndex := -1
					if i == len(fields)-1 {
						// When the last field of the line begins with a quote
						// but does not end with one then search following lines
						// for a first field that ends with a quote, which is
						// the right side of this multi-line field.
						for joinLineIndex = lineIndex + 1; joinLineIndex < len(lines); joinLineIndex++ {
							joinLine := lines[joinLineIndex]
							joinLineFields := bytes.Split(joinLine, separator)
							if len(joinLineFields) > 0 && bytes.HasSuffix(joinLineFields[0], []byte{'"'}) {
								break
							}
						}
					}

					if joinLineIndex > lineIndex && joinLineIndex < len(lines) {
						// Join lines until including joinLineIndex as multi line field
						// then empty those lines so line indices are still correct

						joinLine := lines[joinLineIndex]
						joinLineFields := bytes.Split(joinLine, separator)

						for index := lineIndex + 1; index < joinLineIndex; index++ {
							field = append(field, []byte(newlineReplacement)...)
							field = append(field, lines[index]...)
						}

						field = append(field, []byte(newlineReplacement)...)
						field = append(field, joinLineFields[0]...)

						if field[0] != '"' || field[len(field)-1] != '"' {
							return nil, errors.New("should never happen: csv.Read is broken")
						}
						field = field[1 : len(field)-1]

						fields = append(fields, joinLineFields[1:]...)

						for i := lineIndex + 1; i <= joinLineIndex; i++ {
							lines[i] = nil
						}

					} else {

						// A separator was in a quoted field that has been
						// wrongly split into multiple fields, merge them:
						for r := i + 1; r < len(fields); r++ {
							rField := fields[r]
							if len(rField) < 2 {
								continue
							}
							rLeftQuotes, rRightQuotes := countQuotesLeftRight(rField)
							var (
								rLeftOK  = rLeftQuotes == 0 || rLeftQuotes == 2 // right field may only begin with an escaped quote
								rRightOK = (leftQuotes == 1 && rRightQuotes == 1) || (leftQuotes == 1 && rRightQuotes == 3) || (leftQuotes == 3 && rRightQuotes == 1) || (leftQuotes == 3 && rRightQuotes == 3)
							)
							if rLeftOK && rRightOK {
								field = bytes.Join(fields[i:r+1], separator)
								field = field[1 : len(field)-1]
								copy(fields[i+1:], fields[r+1:])
								fields = fields[:len(fields)-(r-i)]
								break
							}
						}
					}
				}

			default:
				return nil, fmt.Errorf("can't handle CSV field `%s` in line `%s`", field, line)
			}

			fields[i] = bytes.ReplaceAll(field, []byte(`""`), []byte{'"'})
		}

		row := make([]string, len(fields))
		for i := range fields {
			row[i] = string(fields[i])
		}
		rows[lineIndex] = row
	}

	return rows, nil
}

func countQuotesLeft(str []byte) int {
	for i, c := range str {
		if c != '"' {
			return i
		}
	}
	return len(str)
}

func countQuotesRight(str []byte) int {
	for i := len(str) - 1; i >= 0; i-- {
		if str[i] != '"' {
			return len(str) - 1 - i
		}
	}
	return len(str)
}

// countQuotesLeftRight counts consecutive quotes from both ends.
// If the entire slice consists of quotes, they are split between
// left and right with left getting one more on odd counts.
func countQuotesLeftRight(str []byte) (left, right int) {
	left = countQuotesLeft(str)
	right = countQuotesRight(str)

	if left == len(str) {
		left = (len(str) + 1) / 2
		right = len(str) - left
	}

	return left, right
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			//   is No-Break Space (NBSP)
			case '�', ' ':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
