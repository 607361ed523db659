// Command seed loads the demo data set into the configured database.
package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"bookapi-backend/internal/config"
	"bookapi-backend/internal/fixtures"
	"bookapi-backend/internal/infrastructure/database"
	"bookapi-backend/pkg/logger"
)

func main() {
	var (
		truncate bool
		seed     int64
	)
	flag.BoolVar(&truncate, "truncate", true, "Empty all tables before loading")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed for author assignment")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	dbConfig, err := cfg.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load database config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	if truncate {
		if err := db.Truncate(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to truncate tables")
		}
	}

	set, err := fixtures.Build(rand.New(rand.NewSource(seed)))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build fixtures")
	}
	sum, err := fixtures.Load(ctx, db.Pool, set)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fixtures")
	}

	log.Info().
		Int("users", sum.Users).
		Int("authors", sum.Authors).
		Int("books", sum.Books).
		Int64("seed", seed).
		Msg("fixtures loaded")
}
