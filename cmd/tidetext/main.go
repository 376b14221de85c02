// cmd/tidetext/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/tidetext/internal/app"
	"github.com/bethropolis/tidetext/internal/config"
	"github.com/bethropolis/tidetext/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	// --- Argument & Flag Parsing ---
	flags := config.NewFlags(config.AppName)
	rest, err := flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *flags.Version {
		fmt.Fprintf(stdout, "%s %s\n", config.AppName, config.Version)
		return 0
	}
	var filePath string
	if len(rest) > 0 {
		filePath = rest[0]
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(*flags.ConfigFilePath, flags)
	if err != nil {
		// Defaults are still usable; report once the logger is up.
		stlog.Printf("Warning: %v", err)
	}

	// --- Logger Initialization ---
	logPath := cfg.Logger.LogFilePath
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	logOutput, closeLog, err := logger.OpenOutput(logPath)
	if err != nil {
		stlog.Printf("Warning: %v; logging to stderr", err)
		logOutput, closeLog, _ = logger.OpenOutput("-")
	}
	defer closeLog()

	logger.SetDebugFilter(*flags.DebugLog)
	logger.Init(cfg.Logger, logOutput)
	for _, key := range config.Undecoded() {
		logger.Warnf("Config: unknown key '%s'", key)
	}

	logger.Infof("Starting %s %s...", config.AppName, config.Version)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	// --- Command Source ---
	input := stdin
	if *flags.Script != "" {
		f, err := os.Open(*flags.Script)
		if err != nil {
			logger.Errorf("Cannot open script: %v", err)
			fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
			return 1
		}
		defer f.Close()
		input = f
	}

	// --- Create and Run App ---
	tideApp, err := app.New(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		return 1
	}
	defer tideApp.Close()

	if err := tideApp.Run(input, stdout); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		return 1
	}

	logger.Infof("%s finished.", config.AppName)
	return 0
}
