package fixedwidth

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Scanner reads fixed-width lines and exposes each one as a Record. It never
// fails on malformed content: truncated or non-numeric fields surface as nil
// values so a single corrupt line cannot abort a batch.
type Scanner struct {
	sc     *bufio.Scanner
	schema Schema
	idx    map[string]int
	line   string
}

// NewScanner builds a Scanner over r using the given schema.
func NewScanner(r io.Reader, schema Schema) (*Scanner, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{
		sc:     sc,
		schema: schema,
		idx:    schema.index(),
	}, nil
}

// Scan advances to the next line. It returns false at EOF or on a read error.
func (s *Scanner) Scan() bool {
	if !s.sc.Scan() {
		return false
	}
	s.line = s.sc.Text()
	return true
}

// Err returns the first error encountered by the underlying reader.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return eris.Wrap(err, "fixedwidth: read line")
	}
	return nil
}

// Record returns a view over the current line. The view is only valid until
// the next call to Scan.
func (s *Scanner) Record() Record {
	return Record{line: s.line, schema: s.schema, idx: s.idx}
}

// Record gives typed, null-tolerant access to one fixed-width line. Lines
// shorter than a field's span yield nil/empty for that field rather than an
// error or a shifted row.
type Record struct {
	line   string
	schema Schema
	idx    map[string]int
}

// Text returns the raw (unparsed) text of the named field. A field whose span
// starts beyond the end of the line returns ""; a partially covered span
// returns the bytes that are present.
func (r Record) Text(name string) string {
	i, ok := r.idx[name]
	if !ok {
		return ""
	}
	f := r.schema[i]
	if f.Start >= len(r.line) {
		return ""
	}
	end := f.End
	if end > len(r.line) {
		end = len(r.line)
	}
	return r.line[f.Start:end]
}

// Int parses the named field as an integer, nil when blank, truncated, or
// malformed.
func (r Record) Int(name string) *int {
	return ParseIntOrNil(r.Text(name))
}

// Float parses the named field as a float64, nil when blank, truncated, or
// malformed.
func (r Record) Float(name string) *float64 {
	return ParseFloatOrNil(r.Text(name))
}

// Int64 parses the named field as an int64, nil when blank, truncated, or
// malformed.
func (r Record) Int64(name string) *int64 {
	return ParseInt64OrNil(r.Text(name))
}

// ParseIntOrNil parses a string as an integer, returning nil if the string is
// empty after trimming or fails to parse.
func ParseIntOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// ParseInt64OrNil parses a string as an int64, returning nil on failure.
func ParseInt64OrNil(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseFloatOrNil parses a string as a float64, returning nil on failure.
func ParseFloatOrNil(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
