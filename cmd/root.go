package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagWorkspace string
	flagWidth     int
	flagHeight    int
	flagTheme     string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "plotkeep",
	Short: "Run a plotting script and keep every figure and working file",
	Long: `plotkeep runs a target Go script under an embedded interpreter and
redirects everything the script would normally lose: figures passed to the
plotting facade's display/close entry points are written as PNGs, and any
"temporary" working directory the script requests resolves to a persistent
per-script output tree instead of being deleted on exit.

Output layout for a script demo.go:

  <workspace>/demo/
    plots/            captured figures
    ...               whatever the script wrote into its working directory`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", envOrDefault("PLOTKEEP_WORKSPACE", ""), "directory output trees are created under (default: the script's directory)")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "figure canvas width in pixels (default: 1024)")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "figure canvas height in pixels (default: 768)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "console color theme: dark, light")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "include interpreter and wiring detail in output")
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
