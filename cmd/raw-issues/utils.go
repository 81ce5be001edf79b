package rawissues

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/scanio-tracker/internal/ci"
	"github.com/scan-io-git/scanio-tracker/internal/git"
	"github.com/scan-io-git/scanio-tracker/internal/snapshot"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/config"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/files"
)

// hasFlags reports whether any flag was set on the command line.
func hasFlags(flags *pflag.FlagSet) bool {
	return flags.NFlag() > 0
}

// applyConfigDefaults fills options that were not given on the command line from the config file.
func applyConfigDefaults(o *RunOptions, cfg *config.Config, flags *pflag.FlagSet) {
	if !flags.Changed("workers") {
		o.Workers = config.WorkerCount(cfg)
	}
	if !flags.Changed("no-suppressions") {
		o.NoSuppressions = config.GetBoolValue(cfg, "Tracking.NoSuppressions", false)
	}
	if !flags.Changed("output") && cfg != nil {
		o.OutputPath = cfg.Tracking.Output
	}
	if strings.TrimSpace(o.SourceFolder) == "" {
		o.SourceFolder = "."
	}
}

// resolveSourceFolder returns the absolute, cleaned form of folder.
func resolveSourceFolder(folder string, logger hclog.Logger) string {
	if folder := strings.TrimSpace(folder); folder != "" {
		expandedFolder, expandErr := files.ExpandPath(folder)
		if expandErr != nil {
			logger.Debug("failed to expand source folder; using raw value", "error", expandErr)
			expandedFolder = folder
		}
		if absFolder, absErr := filepath.Abs(expandedFolder); absErr != nil {
			logger.Debug("failed to resolve absolute source folder; using expanded value", "error", absErr)
			return expandedFolder
		} else {
			return filepath.Clean(absFolder)
		}
	}
	return ""
}

// resolveRepositoryMetadata collects git metadata of the source folder, or nil outside a repository.
func resolveRepositoryMetadata(sourceFolderAbs string, lg hclog.Logger) *git.RepositoryMetadata {
	if strings.TrimSpace(sourceFolderAbs) == "" {
		return nil
	}

	md, err := git.CollectRepositoryMetadata(sourceFolderAbs)
	if err != nil {
		lg.Debug("unable to collect repository metadata", "error", err)
		return nil
	}
	return md
}

// applyEnvironmentFallbacks takes the project key from the CI environment
// when neither the flag nor the git origin provide one.
func applyEnvironmentFallbacks(o *RunOptions, md *git.RepositoryMetadata, env ci.CIEnvironment, lg hclog.Logger) {
	if strings.TrimSpace(o.ProjectKey) != "" {
		return
	}
	if md != nil && md.OriginURL != nil && strings.TrimSpace(*md.OriginURL) != "" {
		return
	}
	if key := env.ProjectKey(); key != "" {
		lg.Debug("project key taken from CI environment", "ci", env.Kind.String(), "key", key)
		o.ProjectKey = key
	}
}

// revisionFromMetadata prefers git metadata and fills the gaps from the CI environment.
func revisionFromMetadata(md *git.RepositoryMetadata, env ci.CIEnvironment) *snapshot.Revision {
	rev := &snapshot.Revision{}
	if md != nil {
		rev.Branch = md.BranchName
		rev.Commit = md.CommitHash
		rev.OriginURL = md.OriginURL
	}
	if rev.Branch == nil && env.ReferenceName != "" {
		rev.Branch = stringPtr(env.ReferenceName)
	}
	if rev.Commit == nil && env.CommitHash != "" {
		rev.Commit = stringPtr(env.CommitHash)
	}
	if rev.OriginURL == nil && env.RepositoryURL != "" {
		rev.OriginURL = stringPtr(env.RepositoryURL)
	}
	if rev.Branch == nil && rev.Commit == nil && rev.OriginURL == nil {
		return nil
	}
	return rev
}

func stringPtr(s string) *string {
	return &s
}

// writeSnapshot writes to outputPath, or to stdout when it is empty.
func writeSnapshot(stdout io.Writer, outputPath string, snap *snapshot.Snapshot) error {
	if strings.TrimSpace(outputPath) == "" {
		return snapshot.Encode(stdout, snap)
	}
	path, err := files.ExpandPath(outputPath)
	if err != nil {
		return fmt.Errorf("failed to expand output path: %w", err)
	}
	return snapshot.Write(path, snap)
}

func outputName(outputPath string) string {
	if strings.TrimSpace(outputPath) == "" {
		return "stdout"
	}
	return outputPath
}
