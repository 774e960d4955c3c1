package store

import (
	"fmt"
	"time"

	"dagsched/executor"
	"dagsched/metrics"
)

// RunRecord is one completed scheduling-and-dispatch run, kept for the
// history command and cross-run comparison.
type RunRecord struct {
	ID          string            `json:"id"`
	Algorithm   string            `json:"algorithm"`
	StartedAt   time.Time         `json:"started_at"`
	DatasetSize int               `json:"dataset_size"`
	Summary     metrics.Summary   `json:"summary"`
	Results     []executor.Result `json:"results"`
}

const runsBucket = "runs"

// NewRunStore picks the backing store for run records: "memory" for
// throwaway runs, "persistent" for a bbolt file that survives the process.
func NewRunStore(kind, file string) (Store[*RunRecord], error) {

	switch kind {
	case "memory":
		return NewInMemoryStore[*RunRecord](), nil
	case "persistent":
		return NewPersistentStore[*RunRecord](file, 0600, runsBucket)
	}

	return nil, fmt.Errorf("unknown store type %q (want memory or persistent)", kind)
}
