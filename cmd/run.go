package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/plotkeep/internal/capture"
	"github.com/timvw/plotkeep/internal/config"
	"github.com/timvw/plotkeep/internal/layout"
	"github.com/timvw/plotkeep/internal/logging"
	telem "github.com/timvw/plotkeep/internal/otel"
	"github.com/timvw/plotkeep/internal/report"
	"github.com/timvw/plotkeep/internal/scope"
	"github.com/timvw/plotkeep/internal/script"
	"github.com/timvw/plotkeep/plot"
)

var runCmd = &cobra.Command{
	Use:   "run <script.go>",
	Short: "Run a script with figure auto-save and a persistent output tree",
	Long: `Run the target script under the embedded interpreter.

Before anything executes, the output root and plots directory are created
from the script's name. Figure display and close calls are intercepted and
each figure is written to the plots directory; after the script finishes
(or fails), every figure still open is captured as a final backstop.

A failing script is reported but does not fail the wrapper: finalization
always runs, and the exit code stays zero. Only a missing script path
aborts before execution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		scriptPath := args[0]

		// Fatal, pre-execution: nothing is installed yet.
		if _, err := os.Stat(scriptPath); err != nil {
			return fmt.Errorf("script not found: %s", scriptPath)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		lay, err := layout.Resolve(scriptPath, cfg.Workspace)
		if err != nil {
			return err
		}
		if err := lay.Ensure(); err != nil {
			return err
		}

		rep := report.New(report.ThemeByName(cfg.Theme))
		fmt.Println(rep.Startup(lay))

		// Wire build version into OTEL service metadata.
		telem.Version = Version
		tel, err := telem.Init(ctx, telem.OTELConfig{
			Endpoint: cfg.OTELEndpoint,
			Headers:  cfg.OTELHeaders,
		})
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer tel.Shutdown(ctx)

		log := logging.New(flagVerbose)
		defer log.Sync()

		plot.SetDefaultSize(cfg.Width, cfg.Height)

		sc, err := scope.New(lay.Root)
		if err != nil {
			return err
		}

		sess := capture.NewSession(lay.Plots,
			capture.WithLogger(log),
			capture.WithMetrics(tel.Metrics),
		)
		restore := sess.Install()
		defer restore()

		fmt.Println(rep.Banner(scriptPath))

		runner := script.NewRunner(log, sc)
		start := time.Now()
		runCtx, span := tel.Tracer.Start(ctx, "plotkeep.run",
			trace.WithAttributes(attribute.String("script", scriptPath)))

		runErr := runner.Run(runCtx, scriptPath)

		outcome := "ok"
		if runErr != nil {
			outcome = "error"
			span.RecordError(runErr)
			// Report and keep going: the script failing is a run outcome,
			// not a wrapper failure, and finalization still has to happen.
			fmt.Println(rep.ScriptError(runErr))
			var scriptErr *script.Error
			if errors.As(runErr, &scriptErr) && len(scriptErr.Stack) > 0 {
				os.Stderr.Write(scriptErr.Stack)
			}
		}
		span.End()
		tel.Metrics.RecordRun(ctx, outcome, time.Since(start))

		sess.Finalize()

		fmt.Println(rep.Summary(lay, sess.Journal()))
		return nil
	},
}

// loadConfig layers flags over file/env config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}
	if flagWorkspace != "" {
		cfg.Workspace = flagWorkspace
	}
	if flagWidth > 0 {
		cfg.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Height = flagHeight
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
