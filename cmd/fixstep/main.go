package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/san-kum/fixstep/internal/config"
	"github.com/san-kum/fixstep/internal/experiment"
	"github.com/san-kum/fixstep/internal/logging"
)

var (
	env      config.Env
	logger   = logging.Nop()
	registry = experiment.NewRegistry()
)

var (
	// run configuration
	configFile string
	preset     string
	schemes    []string
	clock      string
	t0         float64
	dt         float64
	tmax       float64
	x0, y0, z0 float64
	pa, pb, pc float64
	threshold  float64
	noSave     bool

	// inspection
	xAxis   int
	yAxis   int
	channel int
	scheme  string
	braille bool

	// analysis
	orderDt     float64
	orderTMax   float64
	halvings    int
	lyapTime    float64
	lyapEpsilon float64
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fixstep",
		Short:         "fixed-step ODE integration lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, err = config.LoadEnv(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err = logging.New(os.Stderr, env.LogLevel)
			return err
		},
	}

	rootCmd.PersistentFlags().String("data", ".fixstep", "data directory (FIXSTEP_DATA)")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn, error or none (FIXSTEP_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("db", "", "also record runs into this sqlite database (FIXSTEP_DB)")

	runCmd := &cobra.Command{
		Use:   "run [field]",
		Short: "integrate a field with every selected scheme",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runComparison,
	}
	addRunFlags(runCmd)
	runCmd.Flags().Float64Var(&threshold, "threshold", 1.0, "distance at which two schemes count as separated")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write results to the data directory")

	configCmd := &cobra.Command{
		Use:   "config [field] [path]",
		Short: "write the resolved run configuration as yaml",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  writeConfig,
	}
	addRunFlags(configCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one channel of every scheme against step",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&channel, "channel", 0, "state channel (0=x, 1=y, 2=z)")
	plotCmd.Flags().Int("width", 80, "plot width")
	plotCmd.Flags().Int("height", 12, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of one scheme",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	addProjectionFlags(phaseCmd)
	phaseCmd.Flags().StringVar(&scheme, "scheme", "rk4", "scheme to draw")
	phaseCmd.Flags().Int("width", 70, "plot width")
	phaseCmd.Flags().Int("height", 20, "plot height")
	phaseCmd.Flags().BoolVar(&braille, "braille", false, "draw with braille dots")

	compareCmd := &cobra.Command{
		Use:   "compare [run_id]",
		Short: "show how far the schemes of a run drift apart",
		Args:  cobra.ExactArgs(1),
		RunE:  compareRun,
	}
	compareCmd.Flags().Int("width", 80, "plot width")
	compareCmd.Flags().Int("height", 10, "plot height")

	renderCmd := &cobra.Command{
		Use:   "render [run_id] [output.png|output.svg]",
		Short: "render overlaid projections of every scheme to an image",
		Args:  cobra.ExactArgs(2),
		RunE:  renderRun,
	}
	addProjectionFlags(renderCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [scheme]",
		Short: "export one trajectory to CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	orderCmd := &cobra.Command{
		Use:   "order [scheme...]",
		Short: "measure convergence order against the exact decay solution",
		RunE:  measureOrder,
	}
	orderCmd.Flags().Float64Var(&orderDt, "dt", 0.125, "coarsest timestep")
	orderCmd.Flags().Float64Var(&orderTMax, "tmax", 1.0, "end time")
	orderCmd.Flags().IntVar(&halvings, "halvings", 3, "number of timestep halvings")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [field]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  estimateLyapunov,
	}
	addRunFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&lyapTime, "time", 50, "integration time")
	lyapunovCmd.Flags().Float64Var(&lyapEpsilon, "epsilon", 1e-8, "initial separation")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of one channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeSpectrum,
	}
	spectrumCmd.Flags().StringVar(&scheme, "scheme", "rk4", "scheme to analyze")
	spectrumCmd.Flags().IntVar(&channel, "channel", 0, "state channel (0=x, 1=y, 2=z)")
	spectrumCmd.Flags().Int("width", 80, "plot width")
	spectrumCmd.Flags().Int("height", 15, "plot height")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write results to the data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep [field]",
		Short: "rerun a comparison across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dt", "parameter to sweep (a, b, c, dt)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.04, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.005, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")

	presetsCmd := &cobra.Command{
		Use:   "presets [field]",
		Short: "list available presets for a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for field: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "list available vector fields",
		RunE:  listFields,
	}

	rootCmd.AddCommand(runCmd, configCmd, listCmd, plotCmd, phaseCmd, compareCmd, renderCmd,
		exportCSVCmd, exportJSONCmd, orderCmd, lyapunovCmd, spectrumCmd, scenarioCmd, sweepCmd,
		presetsCmd, fieldsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringSliceVar(&schemes, "schemes", nil, "schemes to run (euler, midpoint, rk4)")
	cmd.Flags().StringVar(&clock, "clock", "accumulate", "time advance: accumulate or indexed")
	cmd.Flags().Float64Var(&t0, "t0", config.DefaultT0, "start time")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&tmax, "tmax", config.DefaultTMax, "end time")
	cmd.Flags().Float64Var(&x0, "x", 1, "initial x")
	cmd.Flags().Float64Var(&y0, "y", 1, "initial y")
	cmd.Flags().Float64Var(&z0, "z", 1, "initial z")
	cmd.Flags().Float64Var(&pa, "a", config.DefaultA, "field parameter A")
	cmd.Flags().Float64Var(&pb, "b", config.DefaultB, "field parameter B")
	cmd.Flags().Float64Var(&pc, "c", config.DefaultC, "field parameter C")
	addProjectionFlags(cmd)
}

func addProjectionFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 2, "state index for y-axis")
}
