package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultColumn is the header holding country names in the cities dataset.
const DefaultColumn = "Country"

// CSVSource reads one column of a CSV file with a header row.
type CSVSource struct {
	Path   string
	Column string
}

// NewCSVSource reads the Country column of path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path, Column: DefaultColumn}
}

func (s *CSVSource) Describe() string { return "csv " + s.Path }

// Countries returns every value in the configured column, including duplicates.
func (s *CSVSource) Countries(_ context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readColumn(f, s.Column)
}

func readColumn(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := -1
	for i, h := range headers {
		// Excel exports prepend a byte order mark to the first header.
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("csv has no %q column", column)
	}

	var out []string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, nil
}
