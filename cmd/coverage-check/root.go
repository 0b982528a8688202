package main

import (
	"io"

	"usittel_backend/internal/coverage"
	"usittel_backend/internal/events"
	"usittel_backend/platform/config"
	"usittel_backend/platform/logger"
	"usittel_backend/platform/validator"

	"github.com/spf13/cobra"
)

// loader builds the coverage module lazily so --help never touches config.
type loader func(logOut io.Writer) (*coverage.Module, error)

func newRootCmd() *cobra.Command {
	var (
		debug     bool
		zonesFile string
		offline   bool
	)

	cmd := &cobra.Command{
		Use:          "coverage-check",
		Short:        "Check internet coverage for an address",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level to stderr")
	cmd.PersistentFlags().StringVar(&zonesFile, "zones", "", "zones YAML file (defaults to COVERAGE_ZONES_FILE or the embedded data)")
	cmd.PersistentFlags().BoolVar(&offline, "offline", false, "skip geocoding; only match against the tables")

	load := func(logOut io.Writer) (*coverage.Module, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if zonesFile != "" {
			cfg.CoverageZonesFile = zonesFile
		}
		if offline {
			// an unroutable geocoder fails fast and yields "no marker"
			cfg.GeocoderBaseURL = "http://127.0.0.1:0"
		}
		cfg.CoveragePrewarm = false

		env := "production"
		if debug {
			env = "development"
		}
		log := logger.NewWithWriter(env, logOut)

		return coverage.NewModule(cfg, events.NewInMemoryBus(log), nil, validator.New(), log)
	}

	cmd.AddCommand(checkCmd(load), tablesCmd(load))
	return cmd
}
