package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hooplab/courtsim/internal/balance"
	"github.com/hooplab/courtsim/internal/config"
	"github.com/hooplab/courtsim/internal/contact"
	"github.com/hooplab/courtsim/internal/court"
	"github.com/hooplab/courtsim/internal/export"
	"github.com/hooplab/courtsim/internal/metrics"
	"github.com/hooplab/courtsim/internal/sim"
	"github.com/hooplab/courtsim/internal/storage"
	"github.com/hooplab/courtsim/internal/sweep"
	"github.com/hooplab/courtsim/internal/tui"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	configFile string
	frameRate  int
	verbose    bool
	outFile    string
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "courtsim",
		Short: "basketball balance physics scenario lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".courtsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario config file (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "dump run samples as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	liveCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "display frame rate")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored run's stability curves to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep character builds against a standard shove",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "grid resolution per axis")
	sweepCmd.Flags().Float64Var(&duration, "time", 3.0, "seconds simulated per build")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, sweepCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// loadConfig resolves the scenario: config file if given, named preset
// otherwise, default "duel" when neither. CLI flags override afterwards.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := "duel"
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = "custom"
	} else {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	return cfg, name, nil
}

// buildScenario wires characters, scripted events and metrics from a
// validated config.
func buildScenario(cfg *config.Config, log *logrus.Logger) (*sim.Scenario, error) {
	forces, err := cfg.ForceTable()
	if err != nil {
		return nil, err
	}
	actions, err := cfg.ActionTable()
	if err != nil {
		return nil, err
	}

	impulse := metrics.NewImpulse()
	events := contact.Events{
		OnCollision: func(a, b contact.Actor, res balance.CollisionResult) {
			impulse.Record(res.ImpulseMagnitude)
		},
		OnKnockedBack: func(who, by contact.Actor, delta mgl64.Vec3) {
			log.WithFields(logrus.Fields{
				"who": who.ID(),
				"by":  by.ID(),
			}).Debug("knockback")
		},
	}

	scenario := sim.NewScenario(cfg.Tuning, events, log)

	for _, cc := range cfg.Characters {
		c := sim.NewCharacter(cc.Name, cc.Weight, cc.Height,
			sim.Abilities{Vertical: cc.Vertical, Strength: cc.Strength},
			actions, forces, cfg.Tuning, log)
		c.SetPosition(mgl64.Vec3{cc.X, 0, cc.Z})
		c.SetFacing(cc.Facing)
		c.SetVelocity(mgl64.Vec3{cc.VX, 0, cc.VZ})
		if err := scenario.AddCharacter(c); err != nil {
			return nil, err
		}
	}

	simEvents, err := cfg.SimEvents()
	if err != nil {
		return nil, err
	}
	for _, ev := range simEvents {
		scenario.Schedule(ev)
	}

	scenario.AddMetric(metrics.NewStability())
	scenario.AddMetric(metrics.NewRecovery())
	scenario.AddMetric(impulse)

	return scenario, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	log := newLogger()
	scenario, err := buildScenario(cfg, log)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed}

	fmt.Printf("running %s scenario...\n", name)
	start := time.Now()

	result, err := scenario.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(name, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  collisions: %d\n", result.StepsTaken, result.Collisions)

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.4f\n", n, result.Metrics[n])
	}

	if len(result.Samples) > 0 {
		fmt.Println()
		plotStability(result)
	}
	return nil
}

// plotStability charts each character's stability over the run.
func plotStability(result *sim.Result) {
	for j, smp := range result.Samples[0] {
		data := make([]float64, len(result.Samples))
		for i := range result.Samples {
			data[i] = result.Samples[i][j].Stability
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(smp.ID+" stability"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tCHARS\tCOLLISIONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Characters),
			run.Collisions,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	header, _, rows, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(rows))

	// Stability and horizontal offset per character are the interesting
	// columns; the rest stay available via export-csv.
	for col, name := range header {
		if !wantPlot(name) {
			continue
		}
		data := make([]float64, len(rows))
		for i := range rows {
			if col < len(rows[i]) {
				data[i] = rows[i][col]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func wantPlot(column string) bool {
	const (
		stability = "_stability"
		offset    = "_offset_h"
	)
	if len(column) >= len(stability) && column[len(column)-len(stability):] == stability {
		return true
	}
	return len(column) >= len(offset) && column[len(column)-len(offset):] == offset
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	header, times, rows, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"time"}, header...)); err != nil {
		return err
	}
	for i, row := range rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, fmt.Sprintf("%.6f", times[i]))
		for _, v := range row {
			record = append(record, fmt.Sprintf("%.6f", v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	header, times, rows, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("not enough data to plot")
	}

	var series []export.Series
	for col, name := range header {
		if !wantPlot(name) {
			continue
		}
		values := make([]float64, len(rows))
		for i := range rows {
			if col < len(rows[i]) {
				values[i] = rows[i][col]
			}
		}
		series = append(series, export.Series{Name: name, Values: values})
	}

	svg := export.SeriesToSVG(times, series, 960, 480, meta.Scenario+" / "+meta.ID)
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// runSweep grid-searches weight and height for the build that recovers
// fastest from a standard sideline shove.
func runSweep(cmd *cobra.Command, args []string) error {
	log := newLogger()
	tn := court.DefaultTuning()

	grid := sweep.New(
		sweep.Axis{Name: "weight", Values: sweep.Span(tn.WeightMin, tn.WeightMax, sweepSteps)},
		sweep.Axis{Name: "height", Values: sweep.Span(tn.HeightMin, tn.HeightMax, sweepSteps)},
	)

	build := func(params map[string]float64) (*sim.Scenario, sim.Config, error) {
		s := sim.NewScenario(tn, contact.Events{}, log)
		c := sim.NewCharacter("subject", params["weight"], params["height"], sim.Abilities{},
			court.DefaultActionTable(), court.DefaultForceTable(), tn, log)
		if err := s.AddCharacter(c); err != nil {
			return nil, sim.Config{}, err
		}
		s.Schedule(sim.Event{Time: 0.1, Character: "subject", Kind: sim.EventImpulse,
			Impulse: mgl64.Vec3{250, 0, 0}})
		s.AddMetric(metrics.NewRecovery())
		s.AddMetric(metrics.NewStability())
		return s, sim.Config{Dt: config.DefaultDt, Duration: duration}, nil
	}

	fmt.Printf("sweeping %d builds...\n", grid.Size())
	res, err := grid.Run(context.Background(), build, "peak_recovery", true)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WEIGHT\tHEIGHT\tPEAK_RECOVERY\tSTABILITY")
	for _, pt := range res.Points {
		fmt.Fprintf(w, "%.0fkg\t%.2fm\t%.3fs\t%.3f\n",
			pt.Params["weight"], pt.Params["height"],
			pt.Metrics["peak_recovery"], pt.Metrics["stability"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest build: %.0fkg / %.2fm (peak recovery %.3fs)\n",
		res.Best.Params["weight"], res.Best.Params["height"],
		res.Best.Metrics["peak_recovery"])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	log := newLogger()
	scenario, err := buildScenario(cfg, log)
	if err != nil {
		return err
	}

	stepper, err := scenario.Stepper(sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed})
	if err != nil {
		return err
	}

	return tui.Run(stepper, cfg.Dt, frameRate)
}
