package microdata

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// personLine renders one 92-column fixed-width line matching personSchema.
func personLine(year, sample int, serial int64, state, county, gq, pernum int, perwt float64, ins, educ, educd int) string {
	return fmt.Sprintf("%4d%6d%8d%36s%2d%3d%12s%1d%4d%10.2f%1d%2d%3d",
		year, sample, serial, "", state, county, "", gq, pernum, perwt, ins, educ, educd)
}

func TestEachPersonDecodes(t *testing.T) {
	line := personLine(2019, 201901, 1234, 6, 37, 1, 1, 58.30, 2, 10, 101)
	require.Len(t, line, 92)

	var got []Person
	stats, err := EachPerson(context.Background(), strings.NewReader(line+"\n"), func(p Person) error {
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, 2019, p.Year)
	assert.Equal(t, 201901, p.Sample)
	assert.Equal(t, int64(1234), p.Serial)
	assert.Equal(t, 6, p.StateFIPS)
	assert.Equal(t, 37, p.CountyFIPS)
	assert.Equal(t, 1, p.GQ)
	assert.Equal(t, 1, p.PerNum)
	assert.InDelta(t, 58.30, p.Weight, 1e-9)
	assert.Equal(t, InsuranceYes, p.Insurance)
	require.NotNil(t, p.Education)
	assert.Equal(t, 10, *p.Education)
	require.NotNil(t, p.EducationDetail)
	assert.Equal(t, 101, *p.EducationDetail)

	assert.Equal(t, int64(1), stats.Lines)
	assert.Equal(t, int64(1), stats.Kept)
}

func TestEachPersonGroupQuartersFilter(t *testing.T) {
	lines := strings.Join([]string{
		personLine(2019, 1, 1, 6, 37, 1, 1, 1, 2, 6, 65), // household
		personLine(2019, 1, 2, 6, 37, 2, 1, 1, 2, 6, 65), // additional household
		personLine(2019, 1, 3, 6, 37, 3, 1, 1, 2, 6, 65), // institutional, dropped
		personLine(2019, 1, 4, 6, 37, 4, 1, 1, 2, 6, 65), // other GQ, dropped
		personLine(2019, 1, 5, 6, 37, 5, 1, 1, 2, 6, 65), // non-institutional GQ
	}, "\n")

	var kept int
	stats, err := EachPerson(context.Background(), strings.NewReader(lines), func(Person) error {
		kept++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, kept)
	assert.Equal(t, int64(3), stats.Kept)
	assert.Equal(t, int64(2), stats.FilteredGQ)
}

func TestEachPersonMissingEducation(t *testing.T) {
	line := personLine(2019, 1, 1, 6, 37, 1, 1, 1.0, 2, 99, 999)

	var got Person
	_, err := EachPerson(context.Background(), strings.NewReader(line), func(p Person) error {
		got = p
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, got.Education, "sentinel 99 must decode as missing")
}

func TestEachPersonShortLine(t *testing.T) {
	// A line truncated before the state column parses without error but
	// cannot be keyed, so it is excluded and counted.
	short := personLine(2019, 1, 1, 6, 37, 1, 1, 1.0, 2, 6, 65)[:40]

	stats, err := EachPerson(context.Background(), strings.NewReader(short), func(Person) error {
		t.Fatal("truncated record must not reach the caller")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.InvalidKey)
	assert.Equal(t, int64(0), stats.Kept)
}

func TestEachPersonMalformedLineDoesNotAbort(t *testing.T) {
	lines := strings.Join([]string{
		strings.Repeat("x", 92), // garbage: no usable state code
		personLine(2019, 1, 1, 36, 61, 1, 1, 1.0, 1, 7, 71),
	}, "\n")

	var kept int
	stats, err := EachPerson(context.Background(), strings.NewReader(lines), func(Person) error {
		kept++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, kept)
	assert.Equal(t, int64(1), stats.InvalidKey)
}

func TestOpenGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persons.dat.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(personLine(2019, 1, 1, 6, 37, 1, 1, 1.0, 2, 6, 65) + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	rc, err := Open(path)
	require.NoError(t, err)
	defer rc.Close()

	stats, err := EachPerson(context.Background(), rc, func(Person) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Kept)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.dat"))
	assert.Error(t, err)
}
