package scheduler

import (
	"fmt"
	"math"
	"sort"

	"dagsched/node"
	"dagsched/task"
)

var _ Scheduler = &Heft{}

// Heft implements Heterogeneous Earliest Finish Time list scheduling: tasks
// are prioritized by upward rank, then greedily placed on whichever node
// finishes them earliest, honoring precedence and cross-node transfer cost.
type Heft struct {
	Comm CommMatrix
}

func (h *Heft) Name() string {
	return "heft"
}

func (h *Heft) Schedule(g *task.Graph, nodes []*node.Node) (*Schedule, error) {

	if len(nodes) == 0 {
		return nil, fmt.Errorf("heft: no nodes to schedule on")
	}

	tasks := g.Tasks()

	avgCost := make(map[int]float64, len(tasks))
	for _, t := range tasks {
		avgCost[t.ID] = t.AvgCost()
	}

	ranks, err := upwardRanks(g, avgCost, h.Comm.Average(nodes))
	if err != nil {
		return nil, err
	}

	// Descending rank; the stable sort keeps arrival order on ties.
	order := make([]*task.Task, len(tasks))
	copy(order, tasks)
	sort.SliceStable(order, func(i, j int) bool {
		return ranks[order[i].ID] > ranks[order[j].ID]
	})

	availability := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		availability[n.Name] = 0.0
	}

	events := make(map[int]Event, len(tasks))

	for _, t := range order {

		bestEFT := math.Inf(1)
		var bestNode string
		var bestEST float64

		for _, n := range nodes {
			est := h.earliestStart(t, n.Name, availability, events)
			eft := est + t.CostOn(n.Name)
			if eft < bestEFT {
				bestEFT = eft
				bestEST = est
				bestNode = n.Name
			}
		}

		events[t.ID] = Event{
			TaskID: t.ID,
			Node:   bestNode,
			Start:  bestEST,
			Finish: bestEFT,
		}
		availability[bestNode] = bestEFT
	}

	return &Schedule{Algorithm: h.Name(), Events: events}, nil
}

// earliestStart is the first instant the task can begin on the candidate
// node: the node must be free and every already-placed predecessor must
// have finished, plus transfer cost when the predecessor sits elsewhere.
func (h *Heft) earliestStart(t *task.Task, nodeName string, availability map[string]float64, events map[int]Event) float64 {

	est := availability[nodeName]

	for _, p := range t.Predecessors {
		ev, ok := events[p]
		if !ok {
			continue
		}

		ready := ev.Finish
		if ev.Node != nodeName {
			ready += h.Comm.Cost(ev.Node, nodeName)
		}

		if ready > est {
			est = ready
		}
	}

	return est
}

// upwardRanks computes every task's upward rank in one pass over a reverse
// topological order, so each rank is derived exactly once and the
// computation stays flat no matter how deep the graph is.
func upwardRanks(g *task.Graph, avgCost map[int]float64, avgComm float64) (map[int]float64, error) {

	tasks := g.Tasks()

	outdegree := make(map[int]int, len(tasks))
	var ready []int
	for _, t := range tasks {
		outdegree[t.ID] = len(t.Successors)
		if len(t.Successors) == 0 {
			ready = append(ready, t.ID)
		}
	}

	ranks := make(map[int]float64, len(tasks))

	processed := 0
	for len(ready) > 0 {

		id := ready[0]
		ready = ready[1:]
		processed++

		t := g.Get(id)

		maxSuccessor := 0.0
		for _, s := range t.Successors {
			if r := ranks[s] + avgComm; r > maxSuccessor {
				maxSuccessor = r
			}
		}
		ranks[id] = avgCost[id] + maxSuccessor

		for _, p := range t.Predecessors {
			outdegree[p]--
			if outdegree[p] == 0 {
				ready = append(ready, p)
			}
		}
	}

	if processed != len(tasks) {
		return nil, fmt.Errorf("heft: task graph contains a cycle, ranked %d of %d tasks", processed, len(tasks))
	}

	return ranks, nil
}
