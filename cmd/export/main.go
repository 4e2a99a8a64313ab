package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-ai/internal"
	"github.com/rocketscienceinc/tictactoe-ai/internal/config"
	"github.com/rocketscienceinc/tictactoe-ai/internal/export"
)

// main - writes every finished game from the configured storage into a parquet file.
func main() {
	configPath := flag.String("config", "config.yml", "path to the service config")
	output := flag.String("output", "games.parquet", "output parquet file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger, *configPath, *output); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, output string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	repos, err := app.OpenRepositories(ctx, conf)
	if err != nil {
		return err
	}
	defer repos.Close()

	records, err := export.FinishedGames(ctx, repos.Games, repos.Players)
	if err != nil {
		return err
	}

	if err = export.WriteParquet(output, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	logger.Info("games exported", "driver", conf.Storage.Driver, "games", len(records), "output", output)

	return nil
}
