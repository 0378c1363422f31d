package export

import (
	"bytes"
	"strings"
)

// ContentTypeCSV is the MIME type of WriteCSV output.
const ContentTypeCSV = "text/csv"

// WriteCSV renders t with every field quoted and money to two places.
// The title and spacer rows are padded to the full column count.
func WriteCSV(t Table) []byte {
	var buf bytes.Buffer
	width := len(t.Columns)

	title := make([]string, width)
	if width > 0 {
		title[0] = t.Title
	}
	writeQuoted(&buf, title)
	writeQuoted(&buf, make([]string, width))
	writeQuoted(&buf, t.Columns)

	for _, r := range t.Rows {
		fields := make([]string, len(r))
		for i, v := range r {
			fields[i] = cellText(v)
		}
		writeQuoted(&buf, fields)
	}
	return buf.Bytes()
}

func writeQuoted(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
