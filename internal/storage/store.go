package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var statesHeader = []string{
	"time", "theta_rod", "theta_wheel", "theta_rod_dot", "theta_wheel_dot", "torque", "reward",
}

type Store struct {
	baseDir string
	logger  *zap.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: zap.NewNop()}
}

func (s *Store) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        uint64             `json:"seed"`
	Params      wheelpole.Params   `json:"params"`
	Controller  string             `json:"controller"`
	Steps       int                `json:"steps"`
	TorqueLimit float64            `json:"torque_limit,omitempty"`
	Window      Window             `json:"window"`
	Return      float64            `json:"return"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Window is the display size in pixels the run was configured with.
// Runs saved without one have a zero Window.
type Window struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Run describes what produced a result. ID and Timestamp are filled by Save.
type Run struct {
	Seed        uint64
	Params      wheelpole.Params
	Controller  string
	TorqueLimit float64
	Window      Window
}

func (s *Store) Save(run Run, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Controller, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   now,
		Seed:        run.Seed,
		Params:      run.Params,
		Controller:  run.Controller,
		Steps:       result.StepsTaken,
		TorqueLimit: run.TorqueLimit,
		Window:      run.Window,
		Return:      result.Return,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	s.logger.Debug("run saved", zap.String("id", runID), zap.Int("steps", meta.Steps))
	return runID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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
			s.logger.Warn("skipping run", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStates reads a run's trajectory back into a Result. Metrics and Return
// come from the metadata.
func (s *Store) LoadStates(runID string) (*sim.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &sim.Result{Metrics: make(map[string]float64)}
	if meta, err := s.Load(runID); err == nil {
		result.Metrics = meta.Metrics
		result.Return = meta.Return
	}

	if len(records) < 2 {
		return result, nil
	}

	for i, record := range records[1:] {
		if len(record) < 5 {
			return nil, fmt.Errorf("%s line %d: expected at least 5 fields, got %d", statesFile, i+2, len(record))
		}

		vals := make([]float64, 5)
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
			}
			vals[j] = v
		}

		result.Times = append(result.Times, vals[0])
		result.States = append(result.States, wheelpole.State{
			Rod: vals[1], Wheel: vals[2], RodDot: vals[3], WheelDot: vals[4],
		})

		// the final row has no torque or reward
		if len(record) < 7 || record[5] == "" {
			continue
		}
		u, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
		}
		reward, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
		}
		result.Torques = append(result.Torques, u)
		result.Rewards = append(result.Rewards, reward)
	}
	result.StepsTaken = len(result.Torques)

	return result, nil
}

func (s *Store) Path(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
