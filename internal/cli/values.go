package cli

import (
	"fmt"
	"strings"

	"github.com/deppfellow/employer-api/internal/database"
)

// parseAssignments turns repeated col=value flags into Values. Values stay
// strings; PostgreSQL casts them to the column type. The literal \N
// stands for NULL.
func parseAssignments(flag string, pairs []string) (database.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	values := make(database.Values, len(pairs))
	for _, pair := range pairs {
		column, value, ok := strings.Cut(pair, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, fmt.Errorf("--%s %q: want column=value", flag, pair)
		}
		if _, dup := values[column]; dup {
			return nil, fmt.Errorf("--%s: column %q given twice", flag, column)
		}

		if value == `\N` {
			values[column] = nil
		} else {
			values[column] = value
		}
	}
	return values, nil
}
