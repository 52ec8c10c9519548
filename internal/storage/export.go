package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/sim"
)

type ExportData struct {
	Meta      RunMetadata     `json:"meta"`
	Times     []float64       `json:"times"`
	Positions [][]dynamo.Vec3 `json:"positions"`
}

func newExportData(meta RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		Meta:      meta,
		Times:     result.Times(),
		Positions: make([][]dynamo.Vec3, len(result.Frames)),
	}
	data.Meta.Steps = result.StepsTaken
	data.Meta.Metrics = finiteMetrics(result.Metrics)
	for i, f := range result.Frames {
		data.Positions[i] = f.Positions
	}
	return data
}

// ExportJSON writes the whole run as one JSON document to path, or to
// stdout when path is "-".
func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	if path == "-" {
		return writeJSON(os.Stdout, newExportData(meta, result))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeJSON(file, newExportData(meta, result))
}

func writeJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
