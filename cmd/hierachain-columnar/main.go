package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Version information
const (
	Version = "0.1.0"
	Name    = "HieraChain-Columnar"
)

func main() {
	app := kingpin.New("hierachain-columnar", "Inspect columnar field definitions and their arrow runtime mapping.")
	logLevel := app.Flag("log.level", "Only log messages with the given severity or above.").
		Default("info").Enum("debug", "info", "warn", "error")

	newLogger := func() log.Logger {
		return newLogger(*logLevel)
	}
	addVersionCommand(app)
	addSchemaCommand(app, newLogger)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func newLogger(lvl string) log.Logger {
	var allow level.Option
	switch lvl {
	case "debug":
		allow = level.AllowDebug()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowInfo()
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, allow)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func addVersionCommand(app *kingpin.Application) {
	app.Command("version", "Print the version.").Action(func(*kingpin.ParseContext) error {
		fmt.Printf("%s v%s\n", Name, Version)
		return nil
	})
}

func exitWithErr(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err.Error())
	os.Exit(1)
}
