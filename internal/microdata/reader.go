package microdata

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geostat-cli/internal/fixedwidth"
)

// ReadStats accounts for what happened during one pass over a microdata file.
type ReadStats struct {
	Lines      int64 // physical lines read
	Kept       int64 // records that reached the caller
	FilteredGQ int64 // dropped by the group-quarters filter
	InvalidKey int64 // dropped for an unusable state code
}

// Open opens a microdata file, transparently decompressing gzip. The returned
// closer releases both the decompressor and the underlying file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "microdata: open %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(bufio.NewReaderSize(f, 256*1024))
	if err != nil {
		f.Close()
		return nil, eris.Wrapf(err, "microdata: gzip open %s", path)
	}
	return &gzipFile{zr: zr, f: f}, nil
}

type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// ctxCheckInterval bounds how often the streaming loop polls for cancellation.
const ctxCheckInterval = 4096

// EachPerson streams group-quarters-filtered person records from r, calling
// fn for each kept record. Records failing the GQ filter or missing a state
// code are counted and skipped; they never abort the pass. A non-nil error
// from fn stops the pass immediately.
func EachPerson(ctx context.Context, r io.Reader, fn func(Person) error) (ReadStats, error) {
	var stats ReadStats

	sc, err := fixedwidth.NewScanner(r, personSchema)
	if err != nil {
		return stats, err
	}

	for sc.Scan() {
		stats.Lines++
		if stats.Lines%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return stats, eris.Wrap(ctx.Err(), "microdata: scan cancelled")
			default:
			}
		}

		p, ok := decodePerson(sc.Record())
		if !ok {
			stats.InvalidKey++
			continue
		}
		if !groupQuartersEligible(p.GQ) {
			stats.FilteredGQ++
			continue
		}

		stats.Kept++
		if err := fn(p); err != nil {
			return stats, err
		}
	}
	if err := sc.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}
