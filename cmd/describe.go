package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/geostat-cli/internal/pipeline"
)

var (
	describeMicrodata string
	describeOutput    string
	describeNoCatalog bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Emit per-state education and insurance aggregates only",
	Long:  "Runs the microdata pass alone and emits state, education, insured_rate without touching health data.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		catalog, err := initCatalog(ctx, describeNoCatalog)
		if err != nil {
			return eris.Wrap(err, "describe: open catalog")
		}
		if catalog != nil {
			defer catalog.Close() //nolint:errcheck
		}

		opts := buildOptions(pipeline.Describe, describeMicrodata, "", describeOutput)
		opts.Catalog = catalog

		_, err = pipeline.Run(ctx, opts)
		return err
	},
}

func init() {
	describeCmd.Flags().StringVar(&describeMicrodata, "microdata", "", "path to the fixed-width microdata extract, gzip ok (default from config)")
	describeCmd.Flags().StringVar(&describeOutput, "output", "", "output path, - for stdout (default from config)")
	describeCmd.Flags().BoolVar(&describeNoCatalog, "no-catalog", false, "skip recording this run in the catalog")
	rootCmd.AddCommand(describeCmd)
}
