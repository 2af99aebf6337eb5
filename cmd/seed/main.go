package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"collegedir/config"
	"collegedir/database"
	"collegedir/logger"
	"collegedir/repository"
	"collegedir/seed"
	"collegedir/validation"
)

func main() {
	var (
		file         = flag.String("file", "data/institutions.json", "JSON array of institutions to import")
		workers      = flag.Int("workers", 4, "concurrent inserts")
		dryRun       = flag.Bool("dry-run", false, "validate and report without writing")
		skipExisting = flag.Bool("skip-existing", true, "skip names already stored")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), "console")
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, "console")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open input")
	}
	records, err := seed.Load(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read input")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := database.Connect(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Disconnect(context.Background())

	importer := seed.NewImporter(
		repository.NewInstitutionRepository(store.Institutions(), cfg.StoreTimeout),
		validation.New(),
	)
	rep, err := importer.Run(ctx, records, seed.Options{
		Workers:      *workers,
		DryRun:       *dryRun,
		SkipExisting: *skipExisting,
	})
	for _, p := range rep.Problems {
		log.Warn().Msg(p)
	}
	if err != nil {
		log.Error().Err(err).Str("report", rep.String()).Msg("import aborted")
		store.Disconnect(context.Background())
		os.Exit(1)
	}
	log.Info().Str("file", *file).Str("report", rep.String()).Msg("import finished")
	if rep.Failed > 0 || rep.Invalid > 0 {
		store.Disconnect(context.Background())
		os.Exit(1)
	}
}
