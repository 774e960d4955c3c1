package task

import (
	"fmt"

	"github.com/emicklei/dot"
)

// Shape selects the dependency layout used when building a graph from a flat
// list of workload values.
type Shape int

const (
	// Chain links every task to the one before it.
	Chain Shape = iota
	// ParallelChains links task i to task i-W for a configured width W,
	// producing W independent chains that can run side by side.
	ParallelChains
)

func (s Shape) String() string {
	switch s {
	case Chain:
		return "chain"
	case ParallelChains:
		return "parallel"
	}
	return "unknown"
}

// ParseShape maps a shape name from the CLI to a Shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "chain":
		return Chain, nil
	case "parallel":
		return ParallelChains, nil
	}
	return Chain, fmt.Errorf("unknown graph shape %q", name)
}

// CostFunc derives the base computation cost from a workload value. It must
// be strictly increasing in the value.
type CostFunc func(value int) float64

// DefaultBaseCost is the reference cost model: value squared times 10000.
func DefaultBaseCost(value int) float64 {
	return float64(value*value) * 10000
}

// GraphConfig parameterizes graph construction. Width only applies to
// ParallelChains and defaults to 1, which degenerates to a single chain.
type GraphConfig struct {
	Shape    Shape
	Width    int
	BaseCost CostFunc
}

// Graph is an immutable DAG of tasks, indexed by task id.
type Graph struct {
	tasks map[int]*Task
	order []int
}

// NewGraph builds the task DAG from an ordered list of workload values.
// cores maps node name to core count; the per-node cost of a task is the
// base cost scaled down by that node's cores.
func NewGraph(values []int, cores map[string]int, cfg GraphConfig) *Graph {

	baseCost := cfg.BaseCost
	if baseCost == nil {
		baseCost = DefaultBaseCost
	}

	width := 1
	if cfg.Shape == ParallelChains && cfg.Width > 1 {
		width = cfg.Width
	}

	g := &Graph{tasks: make(map[int]*Task, len(values))}

	for i, value := range values {

		cost := make(map[string]float64, len(cores))
		for name, c := range cores {
			if c < 1 {
				c = 1
			}
			cost[name] = baseCost(value) / float64(c)
		}

		t := &Task{
			ID:              i,
			Value:           value,
			ComputationCost: cost,
		}

		if i-width >= 0 {
			t.Predecessors = append(t.Predecessors, i-width)
		}
		if i+width < len(values) {
			t.Successors = append(t.Successors, i+width)
		}

		g.tasks[i] = t
		g.order = append(g.order, i)
	}

	return g
}

// NewGraphFromTasks wraps prebuilt tasks in a Graph, preserving the given
// order as the arrival order.
func NewGraphFromTasks(tasks []*Task) *Graph {

	g := &Graph{tasks: make(map[int]*Task, len(tasks))}
	for _, t := range tasks {
		g.tasks[t.ID] = t
		g.order = append(g.order, t.ID)
	}

	return g
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Get returns the task with the given id, or nil.
func (g *Graph) Get(id int) *Task {
	return g.tasks[id]
}

// Tasks returns all tasks in arrival order.
func (g *Graph) Tasks() []*Task {

	tasks := make([]*Task, 0, len(g.order))
	for _, id := range g.order {
		tasks = append(tasks, g.tasks[id])
	}

	return tasks
}

// Validate checks that the predecessor/successor relations mirror each other
// and that the graph contains no cycle.
func (g *Graph) Validate() error {

	for _, t := range g.tasks {
		for _, p := range t.Predecessors {
			pred := g.tasks[p]
			if pred == nil {
				return fmt.Errorf("task %d lists unknown predecessor %d", t.ID, p)
			}
			if !contains(pred.Successors, t.ID) {
				return fmt.Errorf("task %d lists predecessor %d, but %d does not list %d as successor", t.ID, p, p, t.ID)
			}
		}
		for _, s := range t.Successors {
			succ := g.tasks[s]
			if succ == nil {
				return fmt.Errorf("task %d lists unknown successor %d", t.ID, s)
			}
			if !contains(succ.Predecessors, t.ID) {
				return fmt.Errorf("task %d lists successor %d, but %d does not list %d as predecessor", t.ID, s, s, t.ID)
			}
		}
	}

	// Kahn's algorithm: if not every task drains, there is a cycle.
	indegree := make(map[int]int, len(g.tasks))
	for _, t := range g.tasks {
		indegree[t.ID] = len(t.Predecessors)
	}

	var ready []int
	for _, id := range g.order {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	visited := 0
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		visited++

		for _, s := range g.tasks[id].Successors {
			indegree[s]--
			if indegree[s] == 0 {
				ready = append(ready, s)
			}
		}
	}

	if visited != len(g.tasks) {
		return fmt.Errorf("task graph contains a cycle: %d of %d tasks unreachable from the roots", len(g.tasks)-visited, len(g.tasks))
	}

	return nil
}

// Dot renders the graph in Graphviz dot format for inspection.
func (g *Graph) Dot() string {

	dg := dot.NewGraph(dot.Directed)
	dg.Attr("rankdir", "LR")

	nodes := make(map[int]dot.Node, len(g.tasks))
	for _, id := range g.order {
		t := g.tasks[id]
		n := dg.Node(fmt.Sprintf("t%d", id))
		n.Label(fmt.Sprintf("%d (v=%d)", id, t.Value))
		nodes[id] = n
	}

	for _, id := range g.order {
		for _, s := range g.tasks[id].Successors {
			dg.Edge(nodes[id], nodes[s])
		}
	}

	return dg.String()
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
