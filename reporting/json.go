package reporting

import (
	"encoding/json"
	"io"
	"time"

	"github.com/forgeworks/crucible/types"
)

// JSONReporter emits one JSON object per completed test followed by a
// final summary object, for machine consumption.
type JSONReporter struct {
	enc    *json.Encoder
	passed int
	failed int
}

// NewJSONReporter creates a reporter emitting JSON lines to w
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

type jsonFailure struct {
	Got        string `json:"got"`
	Expected   string `json:"expected"`
	SourcePath string `json:"source_path"`
	SourceLine int    `json:"source_line"`
}

type jsonTestEvent struct {
	Event      string        `json:"event"`
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	SourcePath string        `json:"source_path"`
	SourceLine int           `json:"source_line"`
	DurationMS int64         `json:"duration_ms"`
	Failures   []jsonFailure `json:"failures,omitempty"`
}

type jsonSummaryEvent struct {
	Event      string `json:"event"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
	Seed       uint64 `json:"seed"`
	OK         bool   `json:"ok"`
}

func (r *JSONReporter) Passed(t *types.Test) {
	r.passed++
	r.emit("passed", t)
}

func (r *JSONReporter) Failed(t *types.Test) {
	r.failed++
	r.emit("failed", t)
}

func (r *JSONReporter) emit(event string, t *types.Test) {
	ev := jsonTestEvent{
		Event:      event,
		ID:         t.ID,
		Name:       t.Name,
		SourcePath: t.SourcePath,
		SourceLine: t.SourceLine,
		DurationMS: t.Duration.Milliseconds(),
	}
	for _, f := range t.Failures {
		ev.Failures = append(ev.Failures, jsonFailure{
			Got:        f.Got,
			Expected:   f.Expected,
			SourcePath: f.SourcePath,
			SourceLine: f.SourceLine,
		})
	}
	// An encoding error here is unrecoverable and not worth failing the
	// run over; the summary event repeats the verdict anyway.
	_ = r.enc.Encode(ev)
}

func (r *JSONReporter) Finished(duration time.Duration, seed uint64) bool {
	ok := r.failed == 0
	_ = r.enc.Encode(jsonSummaryEvent{
		Event:      "finished",
		Passed:     r.passed,
		Failed:     r.failed,
		DurationMS: duration.Milliseconds(),
		Seed:       seed,
		OK:         ok,
	})
	return ok
}
