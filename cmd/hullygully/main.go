package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ivanstan/hully-gully-sub000/internal/analysis"
	"github.com/ivanstan/hully-gully-sub000/internal/config"
	"github.com/ivanstan/hully-gully-sub000/internal/engine"
	"github.com/ivanstan/hully-gully-sub000/internal/export"
	"github.com/ivanstan/hully-gully-sub000/internal/metrics"
	"github.com/ivanstan/hully-gully-sub000/internal/motor"
	"github.com/ivanstan/hully-gully-sub000/internal/program"
	"github.com/ivanstan/hully-gully-sub000/internal/telemetry"
	"github.com/ivanstan/hully-gully-sub000/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	duration   float64
	sampleEach int
	frameRate  int
	series     string
	outDir     string

	motorName string
	motorFreq float64
	motorLoad float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hullygully",
		Short: "amusement ride drive and motion simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hullygully", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a ride program headless and record it",
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&preset, "preset", "showtime", "ride program preset")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&duration, "time", 120.0, "simulated duration (s)")
	runCmd.Flags().IntVar(&sampleEach, "sample", 10, "record every Nth step")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "operator panel with live controls",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "ride program preset")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	motorCmd := &cobra.Command{
		Use:   "motor",
		Short: "single-drive VFD bench",
		RunE:  runMotorBench,
	}
	motorCmd.Flags().StringVar(&motorName, "motor", "platform", "platform, windmill or hydraulic")
	motorCmd.Flags().Float64Var(&motorFreq, "freq", 50.0, "target frequency (Hz)")
	motorCmd.Flags().Float64Var(&motorLoad, "load", 20.0, "load torque (Nm)")
	motorCmd.Flags().Float64Var(&duration, "time", 30.0, "simulated duration (s)")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "plot a recorded series in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVar(&series, "series", "gforce", "gforce, speed, amps or temp")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "render run charts to PNG files",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outDir, "out", "", "output directory (default <data>/<run_id>/charts)")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted ride cycle and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().StringVar(&preset, "preset", "", "ride program preset")
	scriptCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	scriptCmd.Flags().IntVar(&sampleEach, "sample", 10, "record every Nth step")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "ride comfort report for a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list ride program presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(config.Presets))
			for name := range config.Presets {
				names = append(names, name)
			}
			sort.Strings(names)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tPLATFORM\tWINDMILL\tTILT")
			for _, name := range names {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%.2f rad/s\t%.2f rad/s\t%.2f rad\n",
					name, p.DriveMode, p.Initial.PlatformSpeed, p.Initial.WindmillSpeed, p.Initial.TiltAngle)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, motorCmd, scriptCmd, analyzeCmd, chartCmd, exportCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset then config file, in that order.
func loadConfig() (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s", preset)
		}
		cfg = p
		name = preset
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
		name = "custom"
	}
	return cfg, name, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg.Engine())
	if err != nil {
		return err
	}

	store := telemetry.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	observers := []metrics.Metric{
		metrics.NewPeakGForce(),
		metrics.NewSmoothness(),
		metrics.NewPeakMotorTemperature(),
	}

	dt := cfg.Timestep
	steps := int(duration / dt)
	rows := make([]telemetry.Row, 0, steps/sampleEach+1)

	for i := 0; i < steps; i++ {
		eng.Step(dt)

		sample := metrics.Sample{
			State:     eng.Snapshot(),
			Platform:  eng.PlatformMotorState(),
			Windmill:  eng.WindmillMotorState(),
			Hydraulic: eng.HydraulicMotorState(),
		}
		for _, m := range observers {
			m.Observe(sample)
		}
		if i%sampleEach == 0 {
			rows = append(rows, telemetry.Capture(eng))
		}
	}

	results := make(map[string]float64, len(observers))
	for _, m := range observers {
		results[m.Name()] = m.Value()
	}

	runID, err := store.Save(name, cfg.DriveMode, dt, duration, results, rows)
	if err != nil {
		return err
	}

	s := eng.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", runID)
	fmt.Fprintf(w, "simulated\t%.1fs (%d steps)\n", s.Time, steps)
	fmt.Fprintf(w, "platform\t%.3f rad/s\n", s.Platform.AngularVelocity)
	fmt.Fprintf(w, "windmill\t%.3f rad/s\n", s.Windmill.AngularVelocity)
	fmt.Fprintf(w, "tilt\t%.3f rad\n", s.Tilt.TiltAngle)
	for _, m := range observers {
		fmt.Fprintf(w, "%s\t%.3f\n", m.Name(), m.Value())
	}
	for _, d := range []struct {
		name  string
		state motor.State
	}{
		{"platform motor", eng.PlatformMotorState()},
		{"windmill motor", eng.WindmillMotorState()},
		{"hydraulic motor", eng.HydraulicMotorState()},
	} {
		fmt.Fprintf(w, "%s\t%s  %.1f Hz  %.1f A  %.1f °C\n",
			d.name, d.state.Operating, d.state.OutputFrequency,
			d.state.Electrical.PhaseA.Current, d.state.Temperature)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg.Engine())
	if err != nil {
		return err
	}
	return viz.Run(eng, frameRate)
}

func runMotorBench(cmd *cobra.Command, args []string) error {
	var plate motor.Nameplate
	switch motorName {
	case "platform":
		plate = motor.NewPlatformNameplate()
	case "windmill":
		plate = motor.NewWindmillNameplate()
	case "hydraulic":
		plate = motor.NewHydraulicNameplate()
	default:
		return fmt.Errorf("unknown motor: %s", motorName)
	}

	drive := motor.NewDrive(plate)
	drive.SetTargetFrequency(motorFreq)
	drive.SetLoadTorque(motorLoad)

	const dt = 0.01
	benchInertia := plate.RotorInertia * 4 // loaded shaft

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "bench\t%s  %.1f kW  %d-pole\n", motorName, plate.RatedPower/1000, plate.Poles)
	fmt.Fprintln(w, "T\tFREQ\tSPEED\tAMPS\tTORQUE\tTEMP\tSTATE")

	steps := int(duration / dt)
	for i := 0; i <= steps; i++ {
		if i > 0 {
			drive.Step(dt, benchInertia)
		}
		if i%100 == 0 {
			s := drive.StateSnapshot()
			fmt.Fprintf(w, "%.0fs\t%.1f Hz\t%.1f rad/s\t%.1f A\t%.1f Nm\t%.1f °C\t%s\n",
				float64(i)*dt, s.OutputFrequency, s.ShaftSpeed,
				s.Electrical.PhaseA.Current, s.OutputTorque, s.Temperature, s.Operating)
		}
		if s := drive.StateSnapshot(); s.Fault != motor.FaultNone {
			fmt.Fprintf(w, "trip\t%s at t=%.2fs\n", s.Fault, float64(i)*dt)
			break
		}
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig()
	if err != nil {
		return err
	}

	sc := program.ShowCycle()
	if len(args) == 1 {
		sc, err = program.LoadScenario(args[0])
		if err != nil {
			return err
		}
	}

	eng, err := engine.New(cfg.Engine())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s (%.0fs, %d steps)\n", sc.Name, sc.TotalDuration(), len(sc.Steps))
	rows, err := program.Run(ctx, sc, eng, sampleEach)
	if err != nil {
		return err
	}

	store := telemetry.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	rep := analysis.Evaluate(rows)
	results := map[string]float64{
		"peak_gforce": rep.PeakGForce,
		"mean_gforce": rep.MeanGForce,
		"rms_jerk":    rep.RMSJerk,
		"dominant_hz": rep.DominantHz,
	}
	runID, err := store.Save(name+"-"+sc.Name, cfg.DriveMode, cfg.Timestep, sc.TotalDuration(), results, rows)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	printComfort(rep)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := telemetry.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("run %s has no usable series", args[0])
	}

	fmt.Printf("run: %s  preset: %s  %.1fs\n\n", meta.ID, meta.Preset, meta.Duration)

	rep := analysis.Evaluate(rows)
	printComfort(rep)

	g := make([]float64, len(rows))
	for i, r := range rows {
		g[i] = r.MaxGForce
	}
	_, mags := analysis.Spectrum(g, rep.SampleRate)
	if len(mags) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(mags[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("g-force spectrum (DC removed)"),
		))
	}
	return nil
}

func printComfort(rep analysis.ComfortReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d at %.1f Hz\n", rep.Samples, rep.SampleRate)
	fmt.Fprintf(w, "peak g\t%.3f\n", rep.PeakGForce)
	fmt.Fprintf(w, "mean g\t%.3f\n", rep.MeanGForce)
	fmt.Fprintf(w, "rms jerk\t%.3f g/s\n", rep.RMSJerk)
	fmt.Fprintf(w, "dominant\t%.3f Hz\n", rep.DominantHz)
	w.Flush()
}

func chartRun(cmd *cobra.Command, args []string) error {
	store := telemetry.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no recorded series", args[0])
	}

	var pick func(telemetry.Row) float64
	caption := ""
	switch series {
	case "gforce":
		pick = func(r telemetry.Row) float64 { return r.MaxGForce }
		caption = "max cabin g-force"
	case "speed":
		pick = func(r telemetry.Row) float64 { return r.PlatformOmega }
		caption = "platform speed (rad/s)"
	case "amps":
		pick = func(r telemetry.Row) float64 { return r.PlatformAmps }
		caption = "platform current (A)"
	case "temp":
		pick = func(r telemetry.Row) float64 { return r.PlatformTemp }
		caption = "platform winding temp (°C)"
	default:
		return fmt.Errorf("unknown series: %s", series)
	}

	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = pick(r)
	}

	fmt.Printf("run: %s  preset: %s  %.1fs\n\n", meta.ID, meta.Preset, meta.Duration)
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := telemetry.New(dataDir)
	rows, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no recorded series", args[0])
	}

	dir := outDir
	if dir == "" {
		dir = fmt.Sprintf("%s/%s/charts", dataDir, args[0])
	}
	if err := export.WriteAll(rows, dir); err != nil {
		return err
	}
	fmt.Printf("charts written to %s\n", dir)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := telemetry.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tMODE\tTIME\tDURATION\tPEAK G")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fs\t%.2f\n",
			run.ID,
			run.Preset,
			run.DriveMode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Metrics["peak_gforce"],
		)
	}
	return w.Flush()
}
