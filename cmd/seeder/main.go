// Command seeder builds a word store from a JSON-lines word dump.
// Every page in the dump must assemble into 15 lines before anything is
// written. It is intended to be run offline, not as part of the main server.
//
// Flags:
//
//	--input          path to the JSON-lines dump
//	--output         sqlite file to create (driver sqlite)
//	--driver         sqlite or pgx
//	--dsn            postgres connection string (driver pgx)
//	--edition        edition id the words are written under
//	--strict         reject the dump if any line is malformed
//	--dry-run        parse and validate without writing
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/mushaf-layout/internal/app"
	"github.com/heartmarshall/mushaf-layout/internal/app/seeder"
	"github.com/heartmarshall/mushaf-layout/internal/config"
)

func main() {
	inputFlag := flag.String("input", "", "path to the JSON-lines word dump")
	outputFlag := flag.String("output", "", "sqlite file to create")
	driverFlag := flag.String("driver", "", "output driver: sqlite or pgx")
	dsnFlag := flag.String("dsn", "", "postgres connection string")
	editionFlag := flag.Int("edition", 0, "edition id the words are written under")
	strictFlag := flag.Bool("strict", false, "reject the dump if any line is malformed")
	dryRunFlag := flag.Bool("dry-run", false, "parse and validate without writing")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	// Load app config (for logging and the default DSN).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	cfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *inputFlag != "" {
		cfg.InputPath = *inputFlag
	}
	if *outputFlag != "" {
		cfg.OutputPath = *outputFlag
	}
	if *driverFlag != "" {
		cfg.Driver = *driverFlag
	}
	if *dsnFlag != "" {
		cfg.DSN = *dsnFlag
	}
	if cfg.DSN == "" {
		cfg.DSN = appCfg.Store.DSN
	}
	if *editionFlag > 0 {
		cfg.EditionID = *editionFlag
	}
	if *strictFlag {
		cfg.Strict = true
	}
	if *dryRunFlag {
		cfg.DryRun = true
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var sink seeder.WordSink
	if !cfg.DryRun {
		s, err := seeder.OpenSink(ctx, *cfg)
		if err != nil {
			logger.Error("open output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer s.Close()
		sink = s
	}

	res, err := seeder.NewPipeline(logger, sink, *cfg).Run(ctx)
	if err != nil {
		attrs := []any{slog.String("error", err.Error())}
		if res != nil && len(res.Anomalies) > 0 {
			attrs = append(attrs, slog.Any("anomalies", res.Anomalies))
		}
		logger.Error("pipeline failed", attrs...)
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully",
		slog.Int("words", res.Inserted),
		slog.Int("pages", res.Pages),
	)
}
