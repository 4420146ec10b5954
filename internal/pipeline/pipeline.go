// Package pipeline runs the full reconciliation pass: stream both sources
// through their aggregators, join per state, format, and emit.
package pipeline

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/geostat-cli/internal/aggregate"
	"github.com/sells-group/geostat-cli/internal/health"
	"github.com/sells-group/geostat-cli/internal/microdata"
	"github.com/sells-group/geostat-cli/internal/store"
	"github.com/sells-group/geostat-cli/internal/summary"
)

// Strategy selects what the pipeline produces.
type Strategy string

const (
	// Summarize joins the microdata aggregates with county health data.
	Summarize Strategy = "summarize"

	// Describe emits the microdata aggregates alone.
	Describe Strategy = "describe"
)

// Options configures one pipeline run. Inputs are already-resident files;
// the pipeline performs no downloads and no retries.
type Options struct {
	Strategy      Strategy
	MicrodataPath string
	HealthPath    string
	HealthColumns health.ColumnSchema

	// OutputPath receives the summary table; empty or "-" writes stdout.
	OutputPath string

	// Catalog, when non-nil, records the run and its rows.
	Catalog *store.Store
}

// Result reports what one run produced.
type Result struct {
	Rows            []summary.Row
	Mode            summary.JoinMode
	MissingHomicide int

	Micro  microdata.ReadStats
	Health health.ReadStats

	// RunID is set when the run was recorded in a catalog.
	RunID string
}

// Run executes one pass over the configured inputs. The two source reads are
// independent and run concurrently; each streams rows straight into its own
// accumulator so neither raw table is ever materialized.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("strategy", string(opts.Strategy)))

	if opts.MicrodataPath == "" {
		return nil, eris.New("pipeline: microdata path is required")
	}
	if opts.Strategy != Describe && opts.HealthPath == "" {
		return nil, eris.New("pipeline: health path is required for the summarize strategy")
	}

	res := &Result{}
	microAgg := aggregate.NewMicrodata()
	healthAgg := aggregate.NewHealth()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rc, err := microdata.Open(opts.MicrodataPath)
		if err != nil {
			return err
		}
		defer rc.Close()

		stats, err := microdata.EachPerson(gctx, rc, func(p microdata.Person) error {
			microAgg.Add(p)
			return nil
		})
		res.Micro = stats
		if err != nil {
			return err
		}
		log.Info("microdata pass complete",
			zap.Int64("lines", stats.Lines),
			zap.Int64("kept", stats.Kept),
			zap.Int64("filtered_gq", stats.FilteredGQ),
			zap.Int64("invalid_key", stats.InvalidKey),
		)
		return nil
	})

	if opts.Strategy != Describe {
		g.Go(func() error {
			f, err := os.Open(opts.HealthPath)
			if err != nil {
				return eris.Wrapf(err, "pipeline: open health table %s", opts.HealthPath)
			}
			defer f.Close()

			stats, err := health.EachCounty(gctx, f, opts.HealthColumns, func(c health.County) error {
				healthAgg.Add(c)
				return nil
			})
			res.Health = stats
			if err != nil {
				return err
			}
			log.Info("health pass complete",
				zap.Int64("rows", stats.Rows),
				zap.Int64("kept", stats.Kept),
				zap.Int64("invalid_key", stats.InvalidKey),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	micro := microAgg.States()
	switch opts.Strategy {
	case Describe:
		res.Rows = summary.FromMicrodata(micro)
	default:
		joined := summary.Join(micro, healthAgg.Rates())
		res.Rows = joined.Rows
		res.Mode = joined.Mode
		res.MissingHomicide = joined.MissingHomicide
	}

	summary.Format(res.Rows)

	if err := writeOutput(opts, res.Rows); err != nil {
		return nil, err
	}

	if opts.Catalog != nil {
		run := &store.Run{
			Command:         string(opts.Strategy),
			MicrodataPath:   opts.MicrodataPath,
			HealthPath:      opts.HealthPath,
			OutputPath:      opts.OutputPath,
			JoinMode:        string(res.Mode),
			Rows:            len(res.Rows),
			MissingHomicide: res.MissingHomicide,
			PersonsRead:     res.Micro.Lines,
			PersonsKept:     res.Micro.Kept,
			CountiesRead:    res.Health.Rows,
			CountiesKept:    res.Health.Kept,
		}
		if err := opts.Catalog.RecordRun(ctx, run, res.Rows); err != nil {
			return nil, err
		}
		res.RunID = run.ID
	}

	log.Info("run complete",
		zap.Int("rows", len(res.Rows)),
		zap.String("join_mode", string(res.Mode)),
		zap.Int("missing_homicide", res.MissingHomicide),
	)
	return res, nil
}

func writeOutput(opts Options, rows []summary.Row) error {
	var w io.Writer = os.Stdout
	if opts.OutputPath != "" && opts.OutputPath != "-" {
		f, err := os.Create(opts.OutputPath)
		if err != nil {
			return eris.Wrapf(err, "pipeline: create output %s", opts.OutputPath)
		}
		defer f.Close()
		w = f
	}
	return summary.WriteCSV(w, rows, opts.Strategy != Describe)
}
