package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deppfellow/employer-api/internal/database"
	"gopkg.in/yaml.v3"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

// labelRows pairs each row with the requested column names. Without names
// (SELECT *) rows are emitted positionally.
func labelRows(columns []string, rows []database.Row) any {
	if len(columns) == 0 {
		out := make([][]any, 0, len(rows))
		for _, row := range rows {
			out = append(out, []any(row))
		}
		return out
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		labeled := make(map[string]any, len(columns))
		for i, column := range columns {
			if i < len(row) {
				labeled[column] = row[i]
			}
		}
		out = append(out, labeled)
	}
	return out
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, outputYAML, outputJSON)
	}
}
