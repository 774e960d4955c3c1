package worker

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Worker executes compute tasks on the machine it runs on. The goroutine
// pool is sized to the advertised core count, so the agent enforces the same
// capacity the dispatcher assumes: submissions beyond Cores block until a
// slot frees up.
type Worker struct {
	Name      string
	Cores     int
	pool      *ants.Pool
	completed atomic.Int64
	logger    *zap.SugaredLogger
}

func New(name string, cores int, logger *zap.SugaredLogger) (*Worker, error) {

	if cores < 1 {
		cores = 1
	}

	pool, err := ants.NewPool(cores)
	if err != nil {
		return nil, fmt.Errorf("creating compute pool: %w", err)
	}

	return &Worker{
		Name:   name,
		Cores:  cores,
		pool:   pool,
		logger: logger,
	}, nil
}

// Execute runs the compute kernel for the given workload value and returns
// how long the computation itself took, excluding time spent queued behind
// the pool.
func (w *Worker) Execute(value int) (time.Duration, error) {

	done := make(chan time.Duration, 1)

	err := w.pool.Submit(func() {
		start := time.Now()
		busyWork(value)
		done <- time.Since(start)
	})
	if err != nil {
		return 0, fmt.Errorf("submitting task to pool: %w", err)
	}

	d := <-done
	w.completed.Add(1)
	w.logger.Debugw("task executed", "node", w.Name, "value", value, "duration", d)

	return d, nil
}

// Running reports how many tasks are computing right now.
func (w *Worker) Running() int {
	return w.pool.Running()
}

func (w *Worker) Completed() int64 {
	return w.completed.Load()
}

func (w *Worker) Close() {
	w.pool.Release()
}

// busyWork burns CPU proportionally to value squared, mirroring the cost
// model the schedulers plan with.
func busyWork(value int) float64 {

	iterations := value * value * 10000
	acc := 0.0
	for i := 1; i <= iterations; i++ {
		acc += math.Sqrt(float64(i))
	}

	return acc
}
