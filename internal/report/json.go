package report

import (
	"encoding/json"
	"io"

	"github.com/san-kum/modelbench/internal/harness"
)

type ExportData struct {
	Model          string       `json:"model"`
	Command        string       `json:"command"`
	Kind           string       `json:"kind"`
	Target         string       `json:"target,omitempty"`
	Scope          string       `json:"scope,omitempty"`
	Backend        string       `json:"backend"`
	Warmup         int          `json:"warmup"`
	Satisfiable    bool         `json:"satisfiable"`
	Outcome        string       `json:"outcome"`
	Views          []string     `json:"views"`
	ElapsedMillis  float64      `json:"elapsed_ms"`
	Samples        []float64    `json:"samples_ms"`
	Stats          *ExportStats `json:"stats,omitempty"`
	Expect         string       `json:"expect,omitempty"`
	ExpectationMet bool         `json:"expectation_met"`
	Image          string       `json:"image,omitempty"`
	ImageError     string       `json:"image_error,omitempty"`
}

type ExportStats struct {
	MeanMillis   float64 `json:"mean_ms"`
	StdDevMillis float64 `json:"stddev_ms"`
	MinMillis    float64 `json:"min_ms"`
	MaxMillis    float64 `json:"max_ms"`
}

// NewExport flattens a report. Image fields are filled by the caller once
// rendering has been attempted.
func NewExport(rep *harness.Report) ExportData {
	samples := rep.Series.Millis()
	data := ExportData{
		Model:          rep.Model,
		Command:        rep.Command.Label,
		Kind:           string(rep.Command.Kind),
		Target:         rep.Command.Target,
		Scope:          rep.Command.Scope.String(),
		Backend:        rep.Backend,
		Warmup:         rep.Warmup,
		Satisfiable:    rep.Result.Satisfiable,
		Outcome:        rep.Classification.Outcome,
		Views:          rep.Classification.Views(rep.Command.Kind),
		ElapsedMillis:  millis(rep.Result.Elapsed.Seconds()),
		Samples:        samples,
		Expect:         rep.Command.Expect.String(),
		ExpectationMet: rep.ExpectationMet(),
	}
	if len(samples) > 1 {
		st := rep.Series.Stats()
		data.Stats = &ExportStats{
			MeanMillis:   millis(st.Mean.Seconds()),
			StdDevMillis: millis(st.StdDev.Seconds()),
			MinMillis:    millis(st.Min.Seconds()),
			MaxMillis:    millis(st.Max.Seconds()),
		}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	return encode(w, data)
}

// WriteSweepJSON writes one document holding every model of a sweep.
func WriteSweepJSON(w io.Writer, data []ExportData) error {
	return encode(w, struct {
		Models []ExportData `json:"models"`
	}{Models: data})
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func millis(sec float64) float64 {
	return sec * 1000
}
