package version

import (
	"fmt"
	"io"
	"runtime/debug"
	"sort"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scanio-tracker/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Versions holds version information of the binary and the libraries it was built with.
type Versions struct {
	Version       string            `json:"version"`
	GolangVersion string            `json:"golang_version"`
	BuildTime     string            `json:"build_time"`
	Dependencies  map[string]string `json:"dependencies,omitempty"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	var withDeps bool
	cmd := &cobra.Command{
		Use:                   "version [--deps]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		Run: func(cmd *cobra.Command, args []string) {
			versions := Versions{
				Version:       CoreVersion,
				GolangVersion: GolangVersion,
				BuildTime:     BuildTime,
			}
			if withDeps {
				versions.Dependencies = buildDependencies()
			}
			printVersionInfo(cmd.OutOrStdout(), &versions)
		},
	}
	cmd.Flags().BoolVar(&withDeps, "deps", false, "Also print the versions of the modules the binary was built with.")
	return cmd
}

// buildDependencies reads module versions embedded in the binary.
func buildDependencies() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	deps := make(map[string]string, len(info.Deps))
	for _, dep := range info.Deps {
		deps[dep.Path] = dep.Version
	}
	return deps
}

// printVersionInfo prints the version information of the application.
func printVersionInfo(w io.Writer, versions *Versions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Version)
	fmt.Fprintf(w, "Go Version: %s\n", versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.BuildTime)
	if len(versions.Dependencies) == 0 {
		return
	}

	paths := make([]string, 0, len(versions.Dependencies))
	for path := range versions.Dependencies {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	fmt.Fprintln(w, "Dependencies:")
	for _, path := range paths {
		fmt.Fprintf(w, "  %s: %s\n", path, versions.Dependencies[path])
	}
}
