package common

import (
	"time"

	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
)

type Benchmarker struct {
	start time.Time
	label string
	log   logger.Logger
}

func RuntimeBenchmark[T any](log logger.Logger, label string, functionUnderTest func() (T, error)) (T, error) {
	benchmarker := NewBenchmarker(log, label)
	defer benchmarker.Close()
	return functionUnderTest()
}

func NewBenchmarker(log logger.Logger, label string) *Benchmarker {
	return &Benchmarker{start: time.Now(), label: label, log: log}
}

func (benchmarker *Benchmarker) Elapsed() time.Duration {
	return time.Since(benchmarker.start)
}

func (benchmarker *Benchmarker) Close() {
	benchmarker.log.Debugf("[BENCH] %s took %s", benchmarker.label, benchmarker.Elapsed())
}
