package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stopfinder/internal/config"
	"github.com/bbernstein/stopfinder/internal/lookup"

	_ "time/tzdata"
)

const (
	exitOK       = 0
	exitFailed   = 1
	exitNoResult = 2
)

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	svc, err := (&lookup.DefaultServiceFactory{}).NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	os.Exit(run(context.Background(), svc, os.Args[1:], os.Stdout))
}

// run looks up the place given on the command line and prints the nearest
// station. The returned value is the process exit code.
func run(ctx context.Context, locator lookup.StopLocator, args []string, out io.Writer) int {
	place := strings.Join(args, " ")
	result := locator.FindStopNear(log.Logger.WithContext(ctx), place)

	switch result.Outcome {
	case lookup.OutcomeFound:
		fmt.Fprintf(out, "Station: %s\n", result.Stop.Name)
		fmt.Fprintf(out, "Accessibility: %s\n", result.Stop.Accessibility.Description())
		if result.Arrival.Available {
			fmt.Fprintf(out, "Next arrival: %s (%d min)\n", result.Arrival.DisplayTime, result.Arrival.MinutesUntil)
		}
		return exitOK
	case lookup.OutcomeNoResult:
		fmt.Fprintln(out, result.Message())
		return exitNoResult
	case lookup.OutcomeEmptyInput:
		fmt.Fprintln(out, result.Message())
		fmt.Fprintln(out, `usage: stopfinder "Boston Common"`)
		return exitFailed
	default:
		fmt.Fprintln(out, result.Message())
		return exitFailed
	}
}
