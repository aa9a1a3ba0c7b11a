package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/cmd/database/seed"
	"foodgram/internal/logging"
	"foodgram/internal/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	migrate := flag.Bool("migrate", false, "run database migrations before starting")
	seedIngredients := flag.String("seed-ingredients", "", "load ingredients from a CSV file and exit")
	seedTags := flag.String("seed-tags", "", "load tags from a CSV file and exit")
	flag.Parse()

	if err := utils.LoadConfig(*configPath); err != nil {
		logging.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	logging.Init(logging.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}

	if *migrate {
		if err := migration.Migrate(db); err != nil {
			logging.Fatal().Err(err).Msg("migration failed")
		}
	}

	if *seedIngredients != "" || *seedTags != "" {
		if *seedIngredients != "" {
			if _, err := seed.ImportIngredientsFile(ctx, db, *seedIngredients); err != nil {
				logging.Fatal().Err(err).Msg("failed to load ingredients")
			}
		}
		if *seedTags != "" {
			if _, err := seed.ImportTagsFile(ctx, db, *seedTags); err != nil {
				logging.Fatal().Err(err).Msg("failed to load tags")
			}
		}
		return
	}

	app, err := config.NewApp(ctx, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build app")
	}

	go func() {
		<-ctx.Done()
		logging.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logging.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := ":" + utils.GetConfig("APP_PORT")
	logging.Info().Str("addr", addr).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
