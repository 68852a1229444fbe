package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mindwell-ai/convo-eval/internal/batch"
	"github.com/mindwell-ai/convo-eval/internal/setup"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file, or - for stdin")
	output := flag.String("output", "", "Output JSONL file, or - for stdout")
	workers := flag.Int("workers", 5, "Concurrent evaluation workers")
	continueOnError := flag.Bool("continue-on-error", true, "Continue on evaluation failures")
	dryRun := flag.Bool("dry-run", false, "Validate input without evaluating")
	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open input
	var in io.Reader
	if *input == "-" {
		in = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		in = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	records := batch.NewReader(in, deps.Logger).ReadAll(ctx)

	if *dryRun {
		valid, malformed := 0, 0
		for record := range records {
			if record.Error != nil {
				malformed++
			} else {
				valid++
			}
		}
		log.Info().Int("valid", valid).Int("malformed", malformed).Msg("dry run complete")
		if malformed > 0 {
			os.Exit(1)
		}
		return
	}

	// Open output
	var out io.Writer
	if *output == "" || *output == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		out = f
	}

	runner := batch.NewRunner(deps.Executor, *workers, *continueOnError, deps.Logger)
	summary := runner.Run(ctx, records, out)

	if err := json.NewEncoder(os.Stderr).Encode(summary); err != nil {
		log.Error().Err(err).Msg("Failed to write summary")
	}
	if summary.Failed > 0 && !*continueOnError {
		os.Exit(1)
	}
}
