package rawissues

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scanio-tracker/internal/ci"
	"github.com/scan-io-git/scanio-tracker/internal/identity"
	internalsarif "github.com/scan-io-git/scanio-tracker/internal/sarif"
	"github.com/scan-io-git/scanio-tracker/internal/snapshot"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/config"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/errors"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/logger"
	"github.com/scan-io-git/scanio-tracker/pkg/tracking"
)

// RunOptions holds flags for the raw-issues command.
type RunOptions struct {
	SarifPath      string `json:"sarif_path,omitempty"`
	SourceFolder   string `json:"source_folder,omitempty"`
	ProjectKey     string `json:"project_key,omitempty"`
	OutputPath     string `json:"output_path,omitempty"`
	Workers        int    `json:"workers,omitempty"`
	NoSuppressions bool   `json:"no_suppressions,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	exampleRawIssuesUsage = `  # Build raw issues for a report, printing the snapshot to stdout
  scanio-tracker raw-issues --sarif /path/to/report.sarif --source-folder /path/to/repo

  # Run inside a git repository (project key derived from the origin URL) and write to a file
  scanio-tracker raw-issues --sarif semgrep-demo.sarif --source-folder apps/demo --output raw-issues.json

  # Use an explicit project key, drop suppressed results and limit parallelism
  scanio-tracker raw-issues --sarif report.sarif --source-folder . --project-key my-service --no-suppressions -j 4`

	// RawIssuesCmd represents the command building a raw issue snapshot from a SARIF report.
	RawIssuesCmd = &cobra.Command{
		Use:                   "raw-issues --sarif PATH --source-folder PATH [--project-key KEY] [--output PATH] [--workers/-j N] [--no-suppressions]",
		Short:                 "Build the raw issue input of a SARIF report for issue tracking",
		Example:               exampleRawIssuesUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runRawIssues,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runRawIssues(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !hasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	lg := logger.NewLogger(AppConfig, "raw-issues")

	applyConfigDefaults(&opts, AppConfig, cmd.Flags())

	if err := validate(&opts); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitInvalidArguments)
	}

	sourceFolderAbs := resolveSourceFolder(opts.SourceFolder, lg)
	repoMetadata := resolveRepositoryMetadata(sourceFolderAbs, lg)
	ciEnv := ci.Detect()
	applyEnvironmentFallbacks(&opts, repoMetadata, ciEnv, lg)
	project := identity.ResolveProject(opts.ProjectKey, repoMetadata, sourceFolderAbs)
	lg.Debug("project resolved", "key", project.Key, "uuid", project.UUID)

	reader, err := internalsarif.Open(opts.SarifPath, internalsarif.Options{
		SourceFolder:   sourceFolderAbs,
		RepoMetadata:   repoMetadata,
		Project:        project,
		NoSuppressions: opts.NoSuppressions,
	}, lg.Named("sarif"))
	if err != nil {
		lg.Error("failed to read SARIF report", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to read SARIF report: %w", err), errors.ExitTrackingFailure)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	factory := tracking.NewRawInputFactory(reader, reader, lg.Named("tracking"))
	snap, err := snapshot.Build(ctx, reader.Components(), factory, opts.Workers, lg)
	if err != nil {
		lg.Error("failed to build raw issues", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to build raw issues: %w", err), errors.ExitTrackingFailure)
	}
	snap.Project = project
	snap.Revision = revisionFromMetadata(repoMetadata, ciEnv)

	if err := writeSnapshot(cmd.OutOrStdout(), opts.OutputPath, snap); err != nil {
		lg.Error("failed to write snapshot", "error", err)
		return errors.NewCommandError(err, errors.ExitOutputFailure)
	}

	lg.Info("raw issues built",
		"project", project.Key,
		"issues", snap.Summary.Issues,
		"severities", snap.Summary.SeverityBreakdown(),
		"output", outputName(opts.OutputPath))
	return nil
}

func init() {
	RawIssuesCmd.Flags().StringVarP(&opts.SarifPath, "sarif", "s", "", "Path to the SARIF report.")
	RawIssuesCmd.Flags().StringVar(&opts.SourceFolder, "source-folder", "", "Path to the scanned source folder. Defaults to the current directory.")
	RawIssuesCmd.Flags().StringVar(&opts.ProjectKey, "project-key", "", "Project key. Defaults to namespace:repository of the git origin or CI environment, then to the folder name.")
	RawIssuesCmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Path to the output file. The snapshot is printed to stdout when unset.")
	RawIssuesCmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "Number of components processed concurrently (default: tracking.workers or the number of CPUs).")
	RawIssuesCmd.Flags().BoolVar(&opts.NoSuppressions, "no-suppressions", false, "Drop results that carry a suppression.")
	RawIssuesCmd.Flags().BoolP("help", "h", false, "Show help for the raw-issues command.")
}
