package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/hashtidy/pkg/config"
	"github.com/sdejongh/hashtidy/pkg/models"
)

// validateOrganiseFlags validates the organise command flags
func validateOrganiseFlags() error {
	info, err := os.Stat(organiseFlags.Dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", organiseFlags.Dir)
	} else if err != nil {
		return fmt.Errorf("failed to access directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", organiseFlags.Dir)
	}

	if organiseFlags.Mode != "" && !models.ScanMode(organiseFlags.Mode).Valid() {
		return fmt.Errorf("invalid scan mode: %s (valid: fast, full)", organiseFlags.Mode)
	}

	if organiseFlags.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", organiseFlags.Workers)
	}

	if organiseFlags.Output != "" {
		validOutputs := map[string]bool{"human": true, "json": true}
		if !validOutputs[organiseFlags.Output] {
			return fmt.Errorf("invalid output format: %s (valid: human, json)", organiseFlags.Output)
		}
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) {
	if organiseFlags.Mode != "" {
		cfg.Organise.Mode = models.ScanMode(organiseFlags.Mode)
	}

	if organiseFlags.Workers > 0 {
		cfg.Performance.MaxWorkers = organiseFlags.Workers
	}

	if organiseFlags.Output != "" {
		cfg.Output.Format = organiseFlags.Output
	}

	if organiseFlags.Progress {
		cfg.Output.Progress = true
	}

	// Verbose mode implies the progress bar; quiet still wins below.
	if globalFlags.Verbose {
		cfg.Output.Progress = true
	}

	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createOperation creates an organise operation from configuration
func createOperation(cfg *config.Config) (*models.OrganiseOperation, error) {
	operation := &models.OrganiseOperation{
		ID:         uuid.New().String(),
		Directory:  organiseFlags.Dir,
		Mode:       cfg.Organise.Mode,
		MaxWorkers: cfg.Performance.MaxWorkers,
		BufferSize: cfg.Performance.BufferSize,
		CreatedAt:  time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
