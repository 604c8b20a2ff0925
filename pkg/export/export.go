package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wpexport/wpexport/pkg/logging"
)

// DefaultFields are the text fields extracted when the caller names none.
var DefaultFields = []string{"title", "content"}

// Export flattens every record and writes the collection to a CSV file at
// path, creating parent directories as needed.
//
// An empty record set is a benign no-op: no file is written and no error is
// returned. The header row comes from the first flattened record's keys in
// field order; later records' extra keys are dropped and missing keys render
// as empty cells.
func Export(records []json.RawMessage, path string, fields []string) error {
	logger := logging.NewLogger("exporter")

	if len(fields) == 0 {
		fields = DefaultFields
	}

	if len(records) == 0 {
		logger.Info().Str("path", path).Msg("No records to export")
		return nil
	}

	flattened := make([]map[string]string, 0, len(records))
	for i, raw := range records {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn().
				Err(err).
				Int("record", i).
				Msg("Skipping record with unexpected shape")
			continue
		}
		flattened = append(flattened, Extract(rec, fields))
	}

	if len(flattened) == 0 {
		logger.Info().Str("path", path).Msg("No records to export")
		return nil
	}

	// Column order is fixed by the first flattened record.
	first := flattened[0]
	header := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := first[field]; ok {
			header = append(header, field)
		}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range flattened {
		for i, key := range header {
			row[i] = rec[key]
		}
		if err := writer.Write(row); err != nil {
			file.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	logger.Info().
		Str("path", path).
		Int("records", len(flattened)).
		Msg("Export complete")

	return nil
}
