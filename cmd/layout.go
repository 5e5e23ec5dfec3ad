package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/plotkeep/internal/layout"
)

var flagLayoutEnsure bool

var layoutCmd = &cobra.Command{
	Use:   "layout <script.go>",
	Short: "Print the resolved output tree for a script",
	Long: `Resolve and print, as JSON, the output root and plots directory that
a run of the given script would use. Nothing is executed.

With --ensure the directories are also created, exactly as run would.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		lay, err := layout.Resolve(args[0], cfg.Workspace)
		if err != nil {
			return err
		}
		if flagLayoutEnsure {
			if err := lay.Ensure(); err != nil {
				return fmt.Errorf("failed to create output tree: %w", err)
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lay)
	},
}

func init() {
	layoutCmd.Flags().BoolVar(&flagLayoutEnsure, "ensure", false, "create the directories as well")
	rootCmd.AddCommand(layoutCmd)
}
