// Package telemetry records simulation runs to disk: a metadata
// document per run plus a CSV of per-tick ride and drive series, for
// later charting and export.
package telemetry

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ivanstan/hully-gully-sub000/internal/engine"
)

// Row is one tick of recorded series data.
type Row struct {
	Time          float64
	PlatformPhase float64
	WindmillPhase float64
	PlatformOmega float64
	WindmillOmega float64
	TiltAngle     float64
	MaxGForce     float64

	PlatformFreq float64
	PlatformAmps float64
	PlatformTemp float64
	WindmillFreq float64
	WindmillAmps float64
	WindmillTemp float64
	PumpFreq     float64
	PumpAmps     float64
	PumpTemp     float64
}

var columns = []string{
	"time",
	"platform_phase", "windmill_phase",
	"platform_omega", "windmill_omega",
	"tilt_angle", "max_gforce",
	"platform_freq", "platform_amps", "platform_temp",
	"windmill_freq", "windmill_amps", "windmill_temp",
	"pump_freq", "pump_amps", "pump_temp",
}

func (r Row) values() []float64 {
	return []float64{
		r.Time,
		r.PlatformPhase, r.WindmillPhase,
		r.PlatformOmega, r.WindmillOmega,
		r.TiltAngle, r.MaxGForce,
		r.PlatformFreq, r.PlatformAmps, r.PlatformTemp,
		r.WindmillFreq, r.WindmillAmps, r.WindmillTemp,
		r.PumpFreq, r.PumpAmps, r.PumpTemp,
	}
}

// Capture samples the engine's read surface into one row.
func Capture(e *engine.Engine) Row {
	s := e.Snapshot()
	plat := e.PlatformMotorState()
	wind := e.WindmillMotorState()
	pump := e.HydraulicMotorState()

	maxG := 0.0
	for _, c := range s.Cabins {
		if c.GForce > maxG {
			maxG = c.GForce
		}
	}

	return Row{
		Time:          s.Time,
		PlatformPhase: s.PlatformPhase,
		WindmillPhase: s.WindmillPhase,
		PlatformOmega: s.Platform.AngularVelocity,
		WindmillOmega: s.Windmill.AngularVelocity,
		TiltAngle:     s.Tilt.TiltAngle,
		MaxGForce:     maxG,
		PlatformFreq:  plat.OutputFrequency,
		PlatformAmps:  plat.Electrical.PhaseA.Current,
		PlatformTemp:  plat.Temperature,
		WindmillFreq:  wind.OutputFrequency,
		WindmillAmps:  wind.Electrical.PhaseA.Current,
		WindmillTemp:  wind.Temperature,
		PumpFreq:      pump.OutputFrequency,
		PumpAmps:      pump.Electrical.PhaseA.Current,
		PumpTemp:      pump.Temperature,
	}
}

// RunMetadata describes one recorded run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	DriveMode string             `json:"drive_mode"`
	Timestamp time.Time          `json:"timestamp"`
	Timestep  float64            `json:"timestep"`
	Duration  float64            `json:"duration"`
	Metrics   map[string]float64 `json:"metrics"`
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Save(preset, driveMode string, timestep, duration float64, metrics map[string]float64, rows []Row) (string, error) {
	runID := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		DriveMode: driveMode,
		Timestamp: time.Now(),
		Timestep:  timestep,
		Duration:  duration,
		Metrics:   metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(columns); err != nil {
		return "", err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, v := range row.values() {
			record[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(columns) {
			continue
		}
		vals := make([]float64, len(record))
		ok := true
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		rows = append(rows, rowFromValues(vals))
	}
	return rows, nil
}

func rowFromValues(v []float64) Row {
	return Row{
		Time:          v[0],
		PlatformPhase: v[1], WindmillPhase: v[2],
		PlatformOmega: v[3], WindmillOmega: v[4],
		TiltAngle: v[5], MaxGForce: v[6],
		PlatformFreq: v[7], PlatformAmps: v[8], PlatformTemp: v[9],
		WindmillFreq: v[10], WindmillAmps: v[11], WindmillTemp: v[12],
		PumpFreq: v[13], PumpAmps: v[14], PumpTemp: v[15],
	}
}
