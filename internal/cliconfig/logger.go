package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/taskstore/pkg/log"
)

// Logger builds the CLI logger at the given level, writing console output
// to stderr so command output on stdout stays clean.
func Logger(level string) log.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	zl := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	return log.NewZerologAdapterWithLogger(zl)
}
