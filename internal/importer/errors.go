package importer

import "fmt"

// FormatError reports a row that cannot be interpreted in its dialect.
type FormatError struct {
	Line   int
	Column int
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Value != "":
		return fmt.Sprintf("line %d, column %d: %s %q", e.Line, e.Column+1, e.Reason, e.Value)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	default:
		return e.Reason
	}
}
