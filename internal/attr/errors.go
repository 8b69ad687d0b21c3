package attr

import (
	"fmt"
	"strings"
)

// SchemaError reports every offending attribute name at once: the required
// names absent from the raw map and the raw keys no spec declares. Partial
// reporting would force users through repeated compile cycles.
type SchemaError struct {
	Subject string
	Missing []string
	Unknown []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required attributes: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown attributes: %s", strings.Join(e.Unknown, ", ")))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: invalid attributes", e.Subject)
	}
	return fmt.Sprintf("%s: %s", e.Subject, strings.Join(parts, "; "))
}
