package scheduler

import (
	"fmt"
	"sort"

	"dagsched/node"
	"dagsched/task"
)

var _ Scheduler = &RoundRobin{}

// RoundRobin deals tasks to nodes in rotation by task id. Each node's
// availability accumulates independently, so a task waits only for earlier
// tasks dealt to the same node.
type RoundRobin struct{}

func (r *RoundRobin) Name() string {
	return "rr"
}

func (r *RoundRobin) Schedule(g *task.Graph, nodes []*node.Node) (*Schedule, error) {

	if len(nodes) == 0 {
		return nil, fmt.Errorf("rr: no nodes to schedule on")
	}

	tasks := g.Tasks()
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	availability := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		availability[n.Name] = 0.0
	}

	events := make(map[int]Event, len(tasks))

	for i, t := range tasks {
		n := nodes[i%len(nodes)]

		start := availability[n.Name]
		finish := start + t.CostOn(n.Name)

		events[t.ID] = Event{TaskID: t.ID, Node: n.Name, Start: start, Finish: finish}
		availability[n.Name] = finish
	}

	return &Schedule{Algorithm: r.Name(), Events: events}, nil
}
