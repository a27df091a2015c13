package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/logging"
	"github.com/spf13/cobra"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "unknown"

	AppName = "coursekit"
)

var (
	// Global flags
	configDir string
	verbose   bool
	logToFile bool

	// SlogManager owns the process logger; Logger is a convenience reference.
	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "coursekit",
	Short: "Autocross cone course editor",
	Long: `Edit, convert and archive autocross cone courses.

The serve command hosts the map editor over WebSocket. The remaining
commands work on exported course files directly.

Examples:
  coursekit serve                                  # Start the editor server
  coursekit info course.json                       # Show cone count and path length
  coursekit snap --size 10 --rotation 15 course.json  # Snap cones to a grid
  coursekit rotate --angle 90 course.json          # Rotate the whole course
  coursekit archive save practice course.json      # Keep a version in the archive`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".",
		"directory containing "+config.FileName)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false,
		"also write logs to a timestamped file in the logs directory")
}

// setup loads the config and initializes logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", true)
	Logger = SlogManager.Logger()

	configErr := config.Load(configDir)

	level := config.GetString("logLevel")
	if verbose {
		level = "debug"
	}

	logFile = nil
	if logToFile {
		f, err := logging.OpenLogFile(config.GetString("logsDir"), AppName, time.Now())
		if err != nil {
			return err
		}
		logFile = f
	}
	if logFile != nil {
		SlogManager.Setup(logFile, level, true)
	} else {
		SlogManager.Setup(nil, level, true)
	}
	Logger = SlogManager.Logger()
	slog.SetDefault(Logger)

	switch {
	case config.IsNotFound(configErr):
		Logger.Debug("No config file, using defaults", "dir", configDir)
	case configErr != nil:
		Logger.Warn("Failed to load config, using defaults!", "error", configErr)
	default:
		Logger.Debug("Loaded config", "dir", configDir)
	}
	if logFile != nil {
		Logger.Info("Logging to file", "path", logFile.Name())
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
