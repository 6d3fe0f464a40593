package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/portcall/sailsched/internal/pipeline"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	app := &cli.App{
		Name:  "sailsched",
		Usage: "Convert carrier schedule documents into one canonical workbook",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Verbose logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
		Commands: pipeline.RegisterCLI(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: an empty extraction result is the only handled
		// failure and maps to 2; anything else is a hard error.
		if errors.Is(err, pipeline.ErrNoSchedules) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
