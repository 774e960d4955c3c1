package task

// Workload values carried by the dataset must stay within this range; the
// worker agent rejects anything else.
const (
	MinValue = 1
	MaxValue = 10
)

// Task is one unit of work in the workload DAG. ComputationCost maps a node
// name to the time the task takes on that node; the map may be sparse, in
// which case CostOn falls back to the average of the known costs.
type Task struct {
	ID              int
	Value           int
	ComputationCost map[string]float64
	Predecessors    []int
	Successors      []int
}

// AvgCost returns the arithmetic mean of all known computation costs, or 0
// when the task carries no cost data at all.
func (t *Task) AvgCost() float64 {

	if len(t.ComputationCost) == 0 {
		return 0.0
	}

	total := 0.0
	for _, c := range t.ComputationCost {
		total += c
	}

	return total / float64(len(t.ComputationCost))
}

// CostOn returns the computation cost of the task on the named node. A
// missing entry resolves to AvgCost, never to zero.
func (t *Task) CostOn(nodeName string) float64 {

	if c, ok := t.ComputationCost[nodeName]; ok {
		return c
	}

	return t.AvgCost()
}
