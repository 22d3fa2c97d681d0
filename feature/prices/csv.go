package prices

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func (r *Reader) decodeCSV(src io.Reader) ([]row, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &formatError{reason: ReasonUnreadableFile, err: fmt.Errorf("failed to read csv header: %w", err)}
	}

	idx, err := r.columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &formatError{reason: ReasonUnreadableFile, err: fmt.Errorf("failed to read csv: %w", err)}
		}
		rows = append(rows, row{
			quoteID:   field(rec, idx[0]),
			price:     field(rec, idx[1]),
			timestamp: field(rec, idx[2]),
		})
	}
	return rows, nil
}

func (r *Reader) columnIndex(header []string) ([3]int, error) {
	var idx [3]int
	for i, name := range r.columns {
		idx[i] = -1
		for j, h := range header {
			if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return idx, &formatError{reason: ReasonMissingColumn, err: fmt.Errorf("column %q not found", name)}
		}
	}
	return idx, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}
