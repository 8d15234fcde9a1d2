// internal/output/columns.go
package output

import "strconv"

const (
	// Delim separates every field of the header and of each row.
	Delim = '\t'
	// NameColumn heads the identifier column.
	NameColumn = "name"
	// LabelColumn heads the trailing label column added by the writer.
	LabelColumn = "type"
)

// Header returns the feature columns for a neighborhood window: "name", then
// "p.<offset>" for each offset from -numLeft to +numRight. p.0 is the first
// base of the candidate codon.
func Header(numLeft, numRight int) []string {
	cols := make([]string, 0, numLeft+numRight+2)
	cols = append(cols, NameColumn)
	for i := -numLeft; i <= numRight; i++ {
		cols = append(cols, "p."+strconv.Itoa(i))
	}
	return cols
}

// Label renders a row label.
func Label(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// AppendRow appends one data line (with trailing newline) to dst: the id,
// each neighborhood character, then the label. Nothing is escaped; the DNA
// alphabet never contains the delimiter.
func AppendRow(dst []byte, id string, neighborhood []byte, label bool) []byte {
	dst = append(dst, id...)
	for _, c := range neighborhood {
		dst = append(dst, Delim, c)
	}
	dst = append(dst, Delim)
	dst = append(dst, Label(label)...)
	return append(dst, '\n')
}

// AppendHeader appends the header line, columns followed by LabelColumn.
func AppendHeader(dst []byte, columns []string) []byte {
	for i, c := range columns {
		if i > 0 {
			dst = append(dst, Delim)
		}
		dst = append(dst, c...)
	}
	if len(columns) > 0 {
		dst = append(dst, Delim)
	}
	dst = append(dst, LabelColumn...)
	return append(dst, '\n')
}
