package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fixstep/internal/analysis"
	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/integrators"
	"github.com/san-kum/fixstep/internal/physics"
	"github.com/san-kum/fixstep/internal/storage"
	"github.com/san-kum/fixstep/internal/viz"
)

func measureOrder(cmd *cobra.Command, args []string) error {
	selected, err := integrators.ParseSchemes(args)
	if err != nil {
		return err
	}

	p := physics.DecayParams
	x0 := dynamo.State{1, 0, 0}
	s := dynamo.Settings{Initial: x0, Dt: orderDt, TMax: orderTMax}
	exact := func(t float64) dynamo.State {
		return physics.DecayExact(x0, 0, t, p)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tDT\tSTEPS\tERROR\tOBSERVED\tEXPECTED")

	for _, sch := range selected {
		points, err := analysis.ConvergenceStudy(sch, physics.Decay, exact, s, p, halvings)
		if err != nil {
			return err
		}
		orders := analysis.ObservedOrder(points)

		for i, pt := range points {
			observed := "-"
			if i > 0 {
				observed = fmt.Sprintf("%.2f", orders[i-1])
			}
			fmt.Fprintf(w, "%s\t%g\t%d\t%.3e\t%s\t%d\n", sch, pt.Dt, pt.Steps, pt.Error, observed, sch.Order())
		}
	}

	return w.Flush()
}

func estimateLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	info, err := registry.GetField(cfg.Field)
	if err != nil {
		return err
	}
	selected, err := cfg.ParsedSchemes()
	if err != nil {
		return err
	}

	fmt.Printf("largest Lyapunov exponent of %s over t=%g (dt=%g):\n", cfg.Field, lyapTime, cfg.Dt)
	for _, sch := range selected {
		st, err := sch.Stepper()
		if err != nil {
			return err
		}
		l := analysis.LyapunovExponent(st, info.Field, cfg.Params, cfg.Initial(), cfg.Dt, lyapTime, lyapEpsilon)
		fmt.Printf("  %-16s %.4f\n", sch.Title(), l)
	}
	return nil
}

func analyzeSpectrum(cmd *cobra.Command, args []string) error {
	runID := args[0]

	if err := dynamo.CheckChannel(channel); err != nil {
		return err
	}
	sch, err := integrators.ParseScheme(scheme)
	if err != nil {
		return err
	}

	st := storage.New(env.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, _, err := st.LoadTrajectory(runID, sch.String())
	if err != nil {
		return err
	}

	ps, df, err := analysis.PowerSpectrum(traj.Column(channel), meta.Dt)
	if err != nil {
		return err
	}

	width, height, err := plotSize(cmd)
	if err != nil {
		return err
	}
	// the upper half of the bins is mostly noise for smooth trajectories
	shown := ps[:max(len(ps)/4, 1)]
	caption := fmt.Sprintf("power spectrum of %s (%s, df=%.4g)", channelNames[channel], sch, df)

	fmt.Printf("run: %s\n\n", meta.ID)
	fmt.Println(viz.SeriesPlot(shown, height, width, caption))
	peak := analysis.DominantFrequency(ps, df)
	fmt.Printf("\ndominant frequency: %.4f (period %.4f)\n", peak, 1/peak)
	return nil
}
