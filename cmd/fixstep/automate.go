package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fixstep/internal/automation"
	"github.com/san-kum/fixstep/internal/experiment"
	"github.com/san-kum/fixstep/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, runErr := automation.RunScenario(ctx, sc, experiment.NewRunner(registry, logger))

	st := storage.New(env.DataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	for i, cmp := range results {
		name := sc.Steps[i].Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		fmt.Printf("\n%s\n", name)
		if err := printSummary(cmp); err != nil {
			return err
		}
		if noSave {
			continue
		}
		meta, err := st.Save(cmp)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", meta.ID)
	}

	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:     base,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, sweep, experiment.NewRunner(registry, logger))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMAX DIVERGENCE", sweepParam)
	for _, run := range results[0].Comparison.Runs {
		fmt.Fprintf(w, "\t%s FINAL", run.Scheme)
	}
	fmt.Fprintln(w)

	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4g", r.Value, r.MaxDivergence)
		for _, run := range r.Comparison.Runs {
			fmt.Fprintf(w, "\t%s", run.Trajectory.Final())
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
