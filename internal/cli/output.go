package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Printer writes command results as text or indented JSON.
type Printer struct {
	Format string
	Writer io.Writer
}

// JSON reports whether output is machine readable.
func (p Printer) JSON() bool {
	return p.Format == "json"
}

// Value encodes v as JSON.
func (p Printer) Value(v any) error {
	enc := json.NewEncoder(p.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Line prints a formatted text line.
func (p Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.Writer, format+"\n", args...)
}
