// Package metrics exposes Prometheus counters and gauges for runs and
// individual tests so long-lived CI agents can be scraped.
package metrics

import (
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/forgeworks/crucible/types"
)

const (
	MetricsNamespace = "crucible"
)

var (
	Debug        bool = false
	validResults      = []types.TestStatus{types.TestStatusPass, types.TestStatusFail}

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of executed tests",
	}, []string{
		"run_id",
		"name",
		"result",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of test runs",
	}, []string{
		"run_id",
		"result",
	})

	runTestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_tests_total",
		Help:      "Total number of tests in a run",
	}, []string{
		"run_id",
	})

	runTestsPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_tests_passed",
		Help:      "Number of passed tests in a run",
	}, []string{
		"run_id",
	})

	runTestsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_tests_failed",
		Help:      "Number of failed tests in a run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of a test run in seconds",
	}, []string{
		"run_id",
	})
)

// RecordError increments the error counter for the given label
func RecordError(err string) {
	if Debug {
		log.Debug("metric inc", "m", "errors_total", "error", err)
	}
	errorsTotal.WithLabelValues(err).Inc()
}

// RecordTest records the outcome of one executed test
func RecordTest(runID string, name string, result types.TestStatus) {
	if !isValidResult(result) {
		log.Error("RecordTest - invalid result", "result", result)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "tests_total",
			"run_id", runID,
			"name", name,
			"result", result)
	}
	testsTotal.WithLabelValues(runID, name, string(result)).Inc()
}

// RecordRun records the aggregate outcome of a run
func RecordRun(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	runResults.WithLabelValues(runID, result).Set(1)
	runTestsTotal.WithLabelValues(runID).Add(float64(total))
	runTestsPassed.WithLabelValues(runID).Add(float64(passed))
	runTestsFailed.WithLabelValues(runID).Add(float64(failed))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidResult(result types.TestStatus) bool {
	return slices.Contains(validResults, result)
}
