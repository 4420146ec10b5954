package health

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"

	"github.com/sells-group/geostat-cli/internal/fixedwidth"
	"github.com/sells-group/geostat-cli/internal/transform"
)

// ColumnSchema maps the logical fields this pipeline needs to the actual
// header names in the source table. Matching is case-insensitive and ignores
// surrounding whitespace. The schema is validated once, when the header row
// is read.
type ColumnSchema struct {
	FIPS       string
	Homicides  string
	Population string

	// Delimiter defaults to ',' when zero.
	Delimiter rune
}

// ReadStats accounts for one pass over a county health table.
type ReadStats struct {
	Rows       int64 // data rows read (header excluded)
	Kept       int64 // rows that reached the caller
	InvalidKey int64 // rows dropped by FIPS validation
}

// normalizeCol lowercases and trims a header name for matching.
func normalizeCol(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapColumns builds a normalized header name → index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[normalizeCol(col)] = i
	}
	return m
}

// getCol returns the value of the named column, "" when absent.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[normalizeCol(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// EachCounty streams validated county records from r, calling fn for each.
// The input is decoded as Latin-1 so extended byte sequences in headers or
// county names never break the parse; the columns this pipeline reads are
// plain ASCII either way. Rows whose FIPS identifier fails validation are
// dropped and counted. A non-nil error from fn stops the pass.
func EachCounty(ctx context.Context, r io.Reader, cols ColumnSchema, fn func(County) error) (ReadStats, error) {
	var stats ReadStats

	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	if cols.Delimiter != 0 {
		reader.Comma = cols.Delimiter
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return stats, eris.Wrap(err, "health: read header")
	}
	colIdx := mapColumns(header)
	for _, required := range []string{cols.FIPS, cols.Homicides, cols.Population} {
		if required == "" {
			return stats, eris.New("health: column schema has an empty header name")
		}
		if _, ok := colIdx[normalizeCol(required)]; !ok {
			return stats, eris.Errorf("health: required column %q not found in header", required)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return stats, eris.Wrap(ctx.Err(), "health: scan cancelled")
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, eris.Wrap(err, "health: read row")
		}
		stats.Rows++

		fips, ok := transform.NormalizeCountyFIPS(getCol(record, colIdx, cols.FIPS))
		if !ok {
			stats.InvalidKey++
			continue
		}
		state, ok := transform.StateFromCountyFIPS(fips)
		if !ok {
			stats.InvalidKey++
			continue
		}

		c := County{
			FIPS:       fips,
			StateFIPS:  state,
			Homicides:  nonNegativeOrNil(fixedwidth.ParseFloatOrNil(getCol(record, colIdx, cols.Homicides))),
			Population: nonNegativeOrNil(fixedwidth.ParseFloatOrNil(getCol(record, colIdx, cols.Population))),
		}

		stats.Kept++
		if err := fn(c); err != nil {
			return stats, err
		}
	}
}

func nonNegativeOrNil(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}
