package scheduler

import (
	"fmt"
	"sort"

	"github.com/golang-collections/collections/queue"

	"dagsched/node"
	"dagsched/task"
)

var _ Scheduler = &FCFS{}

// FCFS serves tasks in arrival order, each one going to whichever node is
// free soonest at that instant, ties broken by roster order.
type FCFS struct{}

func (f *FCFS) Name() string {
	return "fcfs"
}

func (f *FCFS) Schedule(g *task.Graph, nodes []*node.Node) (*Schedule, error) {

	if len(nodes) == 0 {
		return nil, fmt.Errorf("fcfs: no nodes to schedule on")
	}

	tasks := g.Tasks()
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	arrivals := queue.New()
	for _, t := range tasks {
		arrivals.Enqueue(t)
	}

	availability := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		availability[n.Name] = 0.0
	}

	events := make(map[int]Event, len(tasks))

	for arrivals.Len() > 0 {
		t := arrivals.Dequeue().(*task.Task)

		best := nodes[0]
		for _, n := range nodes[1:] {
			if availability[n.Name] < availability[best.Name] {
				best = n
			}
		}

		start := availability[best.Name]
		finish := start + t.CostOn(best.Name)

		events[t.ID] = Event{TaskID: t.ID, Node: best.Name, Start: start, Finish: finish}
		availability[best.Name] = finish
	}

	return &Schedule{Algorithm: f.Name(), Events: events}, nil
}
