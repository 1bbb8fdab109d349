package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/hashtidy/pkg/fingerprint"
	"github.com/sdejongh/hashtidy/pkg/logging"
	"github.com/sdejongh/hashtidy/pkg/organise"
	"github.com/sdejongh/hashtidy/pkg/output"
	"github.com/sdejongh/hashtidy/pkg/storage"
)

// OrganiseFlags holds organise command flags
type OrganiseFlags struct {
	Dir      string
	Mode     string
	Workers  int
	Output   string
	Progress bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var organiseFlags OrganiseFlags

// NewOrganiseCommand creates the organise command
func NewOrganiseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organise",
		Short: "Organise a directory by content fingerprint",
		Long: `Organise renames every file in a directory to its content fingerprint,
deleting duplicates whose contents are identical. The duplicate's
last-modified time is preserved on the surviving file. Re-running on an
already organised directory changes nothing.`,
		RunE: runOrganise,
	}

	cmd.Flags().StringVarP(&organiseFlags.Dir, "dir", "d", "", "directory to organise (required)")
	cmd.MarkFlagRequired("dir")

	cmd.Flags().StringVarP(&organiseFlags.Mode, "mode", "m", "", "scan mode: fast (skip files already named by fingerprint) or full")
	cmd.Flags().IntVarP(&organiseFlags.Workers, "workers", "w", 0, "number of parallel workers (default: number of CPUs)")
	cmd.Flags().StringVarP(&organiseFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&organiseFlags.Progress, "progress", false, "show a progress bar instead of per-file lines")

	cmd.Flags().StringVar(&organiseFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&organiseFlags.LogFormat, "log-format", "json", "log format: text, json")
	cmd.Flags().StringVar(&organiseFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runOrganise(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateOrganiseFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cfg)

	operation, err := createOperation(cfg)
	if err != nil {
		return fmt.Errorf("failed to create organise operation: %w", err)
	}

	backend, err := storage.NewLocal(organiseFlags.Dir)
	if err != nil {
		return fmt.Errorf("failed to open directory: %w", err)
	}
	defer backend.Close()

	var formatter output.Formatter
	switch {
	case cfg.Output.Format == "json":
		formatter = output.NewJSONFormatter()
	case cfg.Output.Progress:
		formatter = output.NewProgressFormatter()
	default:
		formatter = output.NewHumanFormatter()
	}

	logger, err := createLogger(organiseFlags.LogFile, organiseFlags.LogFormat, organiseFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	hasher := fingerprint.NewHasher(cfg.Performance.BufferSize)
	engine := organise.NewEngine(backend, hasher, formatter, logger, operation)
	if cfg.Output.Quiet {
		engine.SetOutput(io.Discard)
	}

	report, _ := engine.Run(ctx)

	os.Exit(report.Status.ExitCode())
	return nil
}

// createLogger creates a logger based on configuration
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch logFormat {
	case "text":
		format = logging.FormatText
	default:
		format = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       logFile,
		Format:     format,
		Level:      logging.ParseLevel(logLevel),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
