package main

import (
	"context"

	"github.com/sells-group/geostat-cli/internal/health"
	"github.com/sells-group/geostat-cli/internal/pipeline"
	"github.com/sells-group/geostat-cli/internal/store"
)

func firstOf(flag, conf string) string {
	if flag != "" {
		return flag
	}
	return conf
}

// buildOptions assembles pipeline options from config and command flags;
// flags win when set.
func buildOptions(strategy pipeline.Strategy, microdataFlag, healthFlag, outputFlag string) pipeline.Options {
	return pipeline.Options{
		Strategy:      strategy,
		MicrodataPath: firstOf(microdataFlag, cfg.Microdata.Path),
		HealthPath:    firstOf(healthFlag, cfg.Health.Path),
		HealthColumns: health.ColumnSchema{
			FIPS:       cfg.Health.FIPSColumn,
			Homicides:  cfg.Health.HomicidesColumn,
			Population: cfg.Health.PopulationColumn,
			Delimiter:  cfg.Health.DelimiterRune(),
		},
		OutputPath: firstOf(outputFlag, cfg.Output.Path),
	}
}

// initCatalog opens the run catalog unless disabled. A nil store with a nil
// error means the catalog is off.
func initCatalog(ctx context.Context, noCatalog bool) (*store.Store, error) {
	if noCatalog || cfg.Catalog.Disabled || cfg.Catalog.Path == "" {
		return nil, nil
	}
	st, err := store.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
