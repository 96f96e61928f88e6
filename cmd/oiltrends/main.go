// Command oiltrends finds commodity report links and PDFs on a listing site,
// classifies the price trends they mention and asks an LLM for a summary.
package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/oiltrends/internal/pipeline"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	err := newRootCmd().Execute()
	if err != nil && !errors.Is(err, errReported) {
		log.Error().Err(err).Msg("run failed")
	}
	os.Exit(exitCode(err))
}

// errReported marks failures already rendered to the user as a notice.
var errReported = errors.New("reported")

// exitCode maps a command error to the process exit status: 0 on success,
// 2 when no PDF links were found, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pipeline.ErrNoLinksFound):
		return 2
	default:
		return 1
	}
}
