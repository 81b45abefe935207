package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/san-kum/fixstep/internal/analysis"
	"github.com/san-kum/fixstep/internal/config"
	"github.com/san-kum/fixstep/internal/experiment"
	"github.com/san-kum/fixstep/internal/storage"
	"github.com/san-kum/fixstep/internal/viz"
)

// resolveConfig layers field defaults, preset, config file and changed
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if len(args) > 0 && args[0] != cfg.Field {
		info, err := registry.GetField(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, registry.ListFields())
		}
		cfg.Field = info.Name
		cfg.Params = info.DefaultParams
		s := info.DefaultState
		cfg.InitState = config.InitStateConfig{X: s[0], Y: s[1], Z: s[2]}
	}

	if preset != "" {
		p := config.GetPreset(cfg.Field, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Field))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Field = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("schemes") {
		cfg.Schemes = schemes
	}
	if flags.Changed("clock") {
		cfg.Clock = clock
	}
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("tmax") {
		cfg.TMax = tmax
	}
	if flags.Changed("x") {
		cfg.InitState.X = x0
	}
	if flags.Changed("y") {
		cfg.InitState.Y = y0
	}
	if flags.Changed("z") {
		cfg.InitState.Z = z0
	}
	if flags.Changed("a") {
		cfg.Params.A = pa
	}
	if flags.Changed("b") {
		cfg.Params.B = pb
	}
	if flags.Changed("c") {
		cfg.Params.C = pc
	}
	if flags.Changed("x-axis") {
		cfg.Projection.X = xAxis
	}
	if flags.Changed("y-axis") {
		cfg.Projection.Y = yAxis
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runComparison(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	spec, err := experiment.FromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("integrating %s from t=%g to t=%g with dt=%g...\n",
		spec.Field, spec.Settings.T0, spec.Settings.TMax, spec.Settings.Dt)

	runner := experiment.NewRunner(registry, logger)
	cmp, err := runner.Run(ctx, spec)
	if err != nil {
		return err
	}

	if err := printSummary(cmp); err != nil {
		return err
	}
	if len(cmp.Runs) > 1 {
		printDivergence(cmp, threshold)
	}

	runID := ""
	if !noSave {
		st := storage.New(env.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta, err := st.Save(cmp)
		if err != nil {
			return err
		}
		runID = meta.ID
		fmt.Printf("\nrun id: %s\n", runID)
	}

	if env.DB != "" {
		rec, err := storage.OpenRecorder(env.DB)
		if err != nil {
			return err
		}
		atexit.Register(func() { rec.Close() })

		if runID == "" {
			runID = storage.NewMetadata(cmp).ID
		}
		if err := rec.Record(runID, cmp); err != nil {
			return err
		}
		fmt.Printf("recorded %s in %s\n", runID, rec.Path())
	}

	return nil
}

func printSummary(cmp *experiment.Comparison) error {
	fmt.Println()
	p := cmp.Spec.Params
	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s  A=%g B=%g C=%g", cmp.Spec.Field, p.A, p.B, p.C)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tORDER\tSTEPS\tEVALS\tFINAL\tELAPSED")

	for _, run := range cmp.Runs {
		final := run.Trajectory.Final().String()
		if run.FirstInvalid >= 0 {
			final = viz.Warning.Render(fmt.Sprintf("non-finite from step %d", run.FirstInvalid))
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%v\n",
			run.Scheme.Title(),
			run.Scheme.Order(),
			run.Trajectory.Len(),
			run.Evaluations,
			final,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func printDivergence(cmp *experiment.Comparison, threshold float64) {
	s := cmp.Spec.Settings
	at := func(step int) string {
		if step < 0 {
			return "never"
		}
		return fmt.Sprintf("t=%.2f", s.T0+float64(step)*s.Dt)
	}

	fmt.Printf("\ndivergence (separation threshold %g):\n", threshold)
	for _, d := range cmp.Divergence(threshold) {
		a, _ := cmp.Get(d.A)
		b, _ := cmp.Get(d.B)
		series := analysis.DivergenceSeries(a.Trajectory, b.Trajectory)

		fmt.Printf("  %s vs %s\n", viz.SchemeStyle(d.A.String()).Render(d.A.String()), viz.SchemeStyle(d.B.String()).Render(d.B.String()))
		fmt.Printf("    %s %s  %s %s  %s %s\n",
			viz.MetricLabel.Render("max"), viz.MetricValue.Render(fmt.Sprintf("%.4g", d.Max)),
			viz.MetricLabel.Render("at"), at(d.MaxStep),
			viz.MetricLabel.Render("separate"), at(d.Separate))
		fmt.Printf("    %s\n", viz.SparklineChart(series, 60))
	}
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	path := "fixstep.yaml"
	if len(args) > 1 {
		path = args[1]
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Printf("wrote %s configuration to %s\n", cfg.Field, path)
	return nil
}
