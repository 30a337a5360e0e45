package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

type ExportData struct {
	ID         string             `json:"id,omitempty"`
	Controller string             `json:"controller"`
	Seed       uint64             `json:"seed"`
	Params     wheelpole.Params   `json:"params"`
	Steps      int                `json:"steps"`
	Return     float64            `json:"return"`
	Times      []float64          `json:"times"`
	States     []wheelpole.State  `json:"states"`
	Torques    []float64          `json:"torques"`
	Rewards    []float64          `json:"rewards"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(meta *RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		Steps:   result.StepsTaken,
		Return:  result.Return,
		Times:   result.Times,
		States:  result.States,
		Torques: result.Torques,
		Rewards: result.Rewards,
		Metrics: result.Metrics,
	}
	if meta != nil {
		data.ID = meta.ID
		data.Controller = meta.Controller
		data.Seed = meta.Seed
		data.Params = meta.Params
	}
	return data
}

func ExportJSON(path string, data ExportData) error {
	return writeJSON(path, data)
}

func ExportJSONTo(w io.Writer, data ExportData) error {
	return encodeJSON(w, data)
}

// WriteCSV writes one row per recorded state. The torque and reward columns
// hold what was applied from that state, so the last row leaves them empty.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(statesHeader); err != nil {
		return err
	}

	for i, x := range result.States {
		row := make([]string, 0, len(statesHeader))
		t := 0.0
		if i < len(result.Times) {
			t = result.Times[i]
		}
		row = append(row, formatFloat(t))
		for _, v := range x.Slice() {
			row = append(row, formatFloat(v))
		}

		if i < len(result.Torques) && i < len(result.Rewards) {
			row = append(row, formatFloat(result.Torques[i]), formatFloat(result.Rewards[i]))
		} else {
			row = append(row, "", "")
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return encodeJSON(file, v)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
