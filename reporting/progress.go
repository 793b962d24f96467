package reporting

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/forgeworks/crucible/types"
)

// ProgressReporter decorates another reporter with a live progress bar.
// The bar advances once per completed test regardless of outcome; the
// wrapped reporter still receives every event and owns the final verdict.
type ProgressReporter struct {
	inner Reporter
	bar   *progressbar.ProgressBar
}

// NewProgressReporter wraps inner with a progress bar sized for total
// tests, drawn on w.
func NewProgressReporter(inner Reporter, total int, w io.Writer) *ProgressReporter {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("running tests"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressReporter{inner: inner, bar: bar}
}

func (r *ProgressReporter) Passed(t *types.Test) {
	_ = r.bar.Add(1)
	r.inner.Passed(t)
}

func (r *ProgressReporter) Failed(t *types.Test) {
	_ = r.bar.Add(1)
	r.inner.Failed(t)
}

func (r *ProgressReporter) Finished(duration time.Duration, seed uint64) bool {
	_ = r.bar.Finish()
	return r.inner.Finished(duration, seed)
}
