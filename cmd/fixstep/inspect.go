package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fixstep/internal/analysis"
	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/export"
	"github.com/san-kum/fixstep/internal/integrators"
	"github.com/san-kum/fixstep/internal/storage"
	"github.com/san-kum/fixstep/internal/viz"
)

var channelNames = [3]string{"x", "y", "z"}

type loadedRun struct {
	meta  *storage.RunMetadata
	names []string
	trajs []dynamo.Trajectory
}

func loadRun(runID string) (*loadedRun, error) {
	st := storage.New(env.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}

	lr := &loadedRun{meta: meta}
	for _, s := range meta.Schemes {
		traj, _, err := st.LoadTrajectory(runID, s.Scheme)
		if err != nil {
			return nil, err
		}
		lr.names = append(lr.names, s.Scheme)
		lr.trajs = append(lr.trajs, traj)
	}
	return lr, nil
}

func plotSize(cmd *cobra.Command) (width, height int, err error) {
	if width, err = cmd.Flags().GetInt("width"); err != nil {
		return 0, 0, err
	}
	if height, err = cmd.Flags().GetInt("height"); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func (lr *loadedRun) series(i, j int) ([]viz.Series, error) {
	out := make([]viz.Series, 0, len(lr.trajs))
	for k, traj := range lr.trajs {
		pts, err := viz.Project(traj, i, j)
		if err != nil {
			return nil, err
		}
		out = append(out, viz.Series{Label: lr.names[k], Points: pts, Color: viz.SchemeColor(lr.names[k])})
	}
	return out, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(env.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIELD\tTIME\tT0\tTMAX\tDT\tCLOCK\tSCHEMES")

	for _, run := range runs {
		names := make([]string, len(run.Schemes))
		for i, s := range run.Schemes {
			names[i] = s.Scheme
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%s\t%s\n",
			run.ID,
			run.Field,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.T0,
			run.TMax,
			run.Dt,
			run.Clock,
			strings.Join(names, ","),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	if err := dynamo.CheckChannel(channel); err != nil {
		return err
	}

	lr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data := make([][]float64, len(lr.trajs))
	for i, traj := range lr.trajs {
		data[i] = traj.Column(channel)
	}

	width, height, err := plotSize(cmd)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("%s vs step (%s)", channelNames[channel], lr.meta.Field)
	graph := viz.SeriesPlotMany(data, height, width, caption)
	if graph == "" {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n\n", lr.meta.ID)
	fmt.Println(graph)
	for _, name := range lr.names {
		fmt.Printf("  %s %s\n", viz.SchemeStyle(name).Render("──"), name)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

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

	pts, err := viz.Project(traj, xAxis, yAxis)
	if err != nil {
		return err
	}

	width, height, err := plotSize(cmd)
	if err != nil {
		return err
	}
	var out string
	if braille {
		c := viz.NewCanvas(width, height)
		c.Plot(pts)
		out = c.String()
	} else {
		out = viz.PhaseASCII(pts, width, height)
	}
	if out == "" {
		return fmt.Errorf("no finite data to plot")
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("field: %s, scheme: %s\n", meta.Field, sch.Title())
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", channelNames[xAxis], channelNames[yAxis])
	fmt.Print(out)
	return nil
}

func compareRun(cmd *cobra.Command, args []string) error {
	lr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(lr.trajs) < 2 {
		return fmt.Errorf("run %s has a single scheme; nothing to compare", lr.meta.ID)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAIR\tMAX DISTANCE\tAT TIME")

	var curves [][]float64
	for i := 0; i < len(lr.trajs); i++ {
		for j := i + 1; j < len(lr.trajs); j++ {
			d, step := analysis.MaxDivergence(lr.trajs[i], lr.trajs[j])
			at := "-"
			if step >= 0 {
				at = fmt.Sprintf("%.2f", lr.meta.T0+float64(step)*lr.meta.Dt)
			}
			fmt.Fprintf(w, "%s/%s\t%.6g\t%s\n", lr.names[i], lr.names[j], d, at)
			curves = append(curves, analysis.DivergenceSeries(lr.trajs[i], lr.trajs[j]))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	width, height, err := plotSize(cmd)
	if err != nil {
		return err
	}
	if graph := viz.SeriesPlotMany(curves, height, width, "distance between schemes vs step"); graph != "" {
		fmt.Println()
		fmt.Println(graph)
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	lr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out := args[1]

	series, err := lr.series(xAxis, yAxis)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".png":
		fig := viz.DefaultFigure(fmt.Sprintf("%s (dt=%g)", lr.meta.Field, lr.meta.Dt))
		fig.XLabel = channelNames[xAxis]
		fig.YLabel = channelNames[yAxis]
		if err := fig.WritePNG(out, series); err != nil {
			return err
		}
	case ".svg":
		svg := export.TrajectoriesToSVG(series, 800, 800)
		if svg == "" {
			return viz.ErrNothingToPlot
		}
		if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q (use .png or .svg)", filepath.Ext(out))
	}

	fmt.Printf("rendered %s to %s\n", lr.meta.ID, out)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	sch, err := integrators.ParseScheme(args[1])
	if err != nil {
		return err
	}

	st := storage.New(env.DataDir)
	traj, times, err := st.LoadTrajectory(runID, sch.String())
	if err != nil {
		return err
	}

	return storage.WriteCSV(os.Stdout, times, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(env.DataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func listFields(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tA\tB\tC\tSTART\tDESCRIPTION")

	for _, name := range registry.ListFields() {
		info, err := registry.GetField(name)
		if err != nil {
			return err
		}
		p := info.DefaultParams
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%s\t%s\n", info.Name, p.A, p.B, p.C, info.DefaultState, info.Description)
	}

	return w.Flush()
}
