package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	rawissues "github.com/scan-io-git/scanio-tracker/cmd/raw-issues"
	"github.com/scan-io-git/scanio-tracker/cmd/version"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/config"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "scanio-tracker [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Scanio-tracker prepares analysis results for issue tracking.",
		Long: `Scanio-tracker turns the report of a static analysis run into raw issue input:
	per-file line hashes and raw issues carrying the hash of the line they sit on,
	ready to be matched against the issues of a previous analysis.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml when present)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(rawissues.RawIssuesCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return errors.ExitInvalidArguments
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing config file function is crashed - %v \n", err)
		os.Exit(errors.ExitInvalidArguments)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitInvalidArguments)
	}

	version.Init(AppConfig)
	rawissues.Init(AppConfig)
}
