// Package export renders recorded run series to chart files for ride
// commissioning reports.
package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ivanstan/hully-gully-sub000/internal/telemetry"
)

var seriesColors = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// GForceChart plots the per-tick maximum cabin g-force over the run.
func GForceChart(rows []telemetry.Row, path string) error {
	p := newChart("Cabin g-force", "time (s)", "g")

	line, err := timeSeries(rows, func(r telemetry.Row) float64 { return r.MaxGForce })
	if err != nil {
		return err
	}
	line.Color = seriesColors[0]
	p.Add(line)

	return save(p, path)
}

// CurrentChart plots phase-A current of all three drives.
func CurrentChart(rows []telemetry.Row, path string) error {
	p := newChart("Drive current", "time (s)", "A")
	return addMotorSeries(p, rows, path,
		func(r telemetry.Row) float64 { return r.PlatformAmps },
		func(r telemetry.Row) float64 { return r.WindmillAmps },
		func(r telemetry.Row) float64 { return r.PumpAmps })
}

// TemperatureChart plots winding temperature of all three drives.
func TemperatureChart(rows []telemetry.Row, path string) error {
	p := newChart("Winding temperature", "time (s)", "°C")
	return addMotorSeries(p, rows, path,
		func(r telemetry.Row) float64 { return r.PlatformTemp },
		func(r telemetry.Row) float64 { return r.WindmillTemp },
		func(r telemetry.Row) float64 { return r.PumpTemp })
}

// SpeedChart plots platform and windmill angular velocity.
func SpeedChart(rows []telemetry.Row, path string) error {
	p := newChart("Stage speed", "time (s)", "rad/s")

	names := []string{"platform", "windmill"}
	pick := []func(telemetry.Row) float64{
		func(r telemetry.Row) float64 { return r.PlatformOmega },
		func(r telemetry.Row) float64 { return r.WindmillOmega },
	}
	for i, f := range pick {
		line, err := timeSeries(rows, f)
		if err != nil {
			return err
		}
		line.Color = seriesColors[i]
		p.Add(line)
		p.Legend.Add(names[i], line)
	}

	return save(p, path)
}

// WriteAll renders every chart for a run into dir, named by series.
func WriteAll(rows []telemetry.Row, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	charts := []struct {
		name   string
		render func([]telemetry.Row, string) error
	}{
		{"gforce.png", GForceChart},
		{"current.png", CurrentChart},
		{"temperature.png", TemperatureChart},
		{"speed.png", SpeedChart},
	}
	for _, c := range charts {
		if err := c.render(rows, filepath.Join(dir, c.name)); err != nil {
			return fmt.Errorf("render %s: %w", c.name, err)
		}
	}
	return nil
}

func addMotorSeries(p *plot.Plot, rows []telemetry.Row, path string, platform, windmill, pump func(telemetry.Row) float64) error {
	names := []string{"platform", "windmill", "hydraulic"}
	for i, f := range []func(telemetry.Row) float64{platform, windmill, pump} {
		line, err := timeSeries(rows, f)
		if err != nil {
			return err
		}
		line.Color = seriesColors[i]
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	return save(p, path)
}

func newChart(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func timeSeries(rows []telemetry.Row, pick func(telemetry.Row) float64) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(rows))
	for i, r := range rows {
		pts[i].X = r.Time
		pts[i].Y = pick(r)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	return line, nil
}

func save(p *plot.Plot, path string) error {
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
