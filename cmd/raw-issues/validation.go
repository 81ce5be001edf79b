package rawissues

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/scanio-tracker/pkg/shared/config"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/files"
)

// validate validates the RunOptions for the raw-issues command and stores
// the expanded paths back into o.
func validate(o *RunOptions) error {
	if strings.TrimSpace(o.SarifPath) == "" {
		return fmt.Errorf("--sarif is required")
	}
	sarifPath, err := files.ExpandPath(o.SarifPath)
	if err != nil {
		return fmt.Errorf("failed to expand --sarif: %w", err)
	}
	if err := files.ValidatePath(sarifPath); err != nil {
		return fmt.Errorf("--sarif: %w", err)
	}
	o.SarifPath = sarifPath

	if strings.TrimSpace(o.SourceFolder) != "" {
		folder, err := files.ExpandPath(o.SourceFolder)
		if err != nil {
			return fmt.Errorf("failed to expand --source-folder: %w", err)
		}
		if err := files.ValidateDir(folder); err != nil {
			return fmt.Errorf("--source-folder: %w", err)
		}
		o.SourceFolder = folder
	}

	if o.Workers < 1 || o.Workers > config.MaxWorkers {
		return fmt.Errorf("--workers must be between 1 and %d: %d", config.MaxWorkers, o.Workers)
	}
	return nil
}
