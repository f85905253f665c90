package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/agenthands/vizboard/internal/core/model"
)

var (
	ErrEmpty       = errors.New("dataset has no header row")
	ErrNoRows      = errors.New("dataset has no data rows")
	ErrNotText     = errors.New("upload is not a text file")
	ErrTooManyRows = errors.New("dataset exceeds the row limit")
)

type Options struct {
	MaxRows   int  // 0 = unlimited
	Delimiter rune // 0 = ','
}

func DefaultOptions() Options {
	return Options{MaxRows: 100000, Delimiter: ','}
}

// Parse reads a CSV table. Column types are inferred once: a column is
// numeric when all of its non-empty cells parse as floats.
func Parse(name string, r io.Reader, opts Options) (*model.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "text/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotText, mt.String())
	}

	reader := csv.NewReader(bytes.NewReader(data))
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headers = normalizeHeaders(headers)

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}
		if isBlank(row) {
			continue
		}
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			return nil, fmt.Errorf("%w (%d)", ErrTooManyRows, opts.MaxRows)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	ds := &model.Dataset{
		Name:      name,
		Rows:      len(rows),
		Columns:   make([]model.Column, len(headers)),
		CreatedAt: time.Now().UTC(),
	}
	for c, h := range headers {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				raw[r] = strings.TrimSpace(row[c])
			}
		}
		ds.Columns[c] = buildColumn(h, raw)
	}

	return ds, nil
}

func buildColumn(name string, raw []string) model.Column {
	col := model.Column{Name: name, Kind: model.KindText, Raw: raw}

	values := make([]float64, len(raw))
	seen := 0
	for i, cell := range raw {
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return col
		}
		values[i] = f
		seen++
	}
	if seen == 0 {
		return col
	}

	col.Kind = model.KindNumeric
	col.Values = values
	return col
}

// normalizeHeaders names blank headers "Unnamed: <i>" and suffixes
// duplicates with ".1", ".2", ...
func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	taken := make(map[string]bool)
	dupes := make(map[string]int)
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for taken[name] {
			dupes[h]++
			name = fmt.Sprintf("%s.%d", h, dupes[h])
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
