package scheduler

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"dagsched/node"
	"dagsched/task"
)

var _ Scheduler = &SHC{}

// SHC is a stochastic hill climber over raw task -> node assignments. Each
// step reassigns one random task to one random node and keeps the neighbor
// whenever its makespan is no worse, so the search can also drift across
// plateaus. There is no annealing and no worse-move acceptance; the only
// stop condition is the iteration budget, which means the climber can sit
// on a flat region until the budget runs out.
//
// Candidate makespans are simulated with tasks treated as independent, in
// ascending id order. Precedence edges are ignored here, unlike Heft, so
// the two objectives are not directly comparable on the same graph.
type SHC struct {
	MaxIterations int
	rnd           *rand.Rand
}

// NewSHC builds the climber with an explicit random source so a fixed seed
// reproduces a fixed schedule. A nil source gets a time-seeded one.
func NewSHC(maxIterations int, rnd *rand.Rand) *SHC {

	if maxIterations < 0 {
		maxIterations = 0
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &SHC{MaxIterations: maxIterations, rnd: rnd}
}

func (s *SHC) Name() string {
	return "shc"
}

func (s *SHC) Schedule(g *task.Graph, nodes []*node.Node) (*Schedule, error) {

	if len(nodes) == 0 {
		return nil, fmt.Errorf("shc: no nodes to schedule on")
	}

	tasks := g.Tasks()
	if len(tasks) == 0 {
		return &Schedule{Algorithm: s.Name(), Events: map[int]Event{}}, nil
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	current := make(map[int]string, len(tasks))
	for _, t := range tasks {
		current[t.ID] = nodes[s.rnd.Intn(len(nodes))].Name
	}

	currentMakespan, currentEvents := s.evaluate(tasks, nodes, current)

	bestMakespan := currentMakespan
	bestEvents := currentEvents

	for i := 0; i < s.MaxIterations; i++ {

		neighbor := make(map[int]string, len(current))
		for id, n := range current {
			neighbor[id] = n
		}

		mutated := tasks[s.rnd.Intn(len(tasks))]
		neighbor[mutated.ID] = nodes[s.rnd.Intn(len(nodes))].Name

		neighborMakespan, neighborEvents := s.evaluate(tasks, nodes, neighbor)

		if neighborMakespan <= currentMakespan {
			current = neighbor
			currentMakespan = neighborMakespan

			if currentMakespan < bestMakespan {
				bestMakespan = currentMakespan
				bestEvents = neighborEvents
			}
		}
	}

	return &Schedule{Algorithm: s.Name(), Events: bestEvents}, nil
}

// evaluate simulates the assignment with each node processing its tasks
// back to back in ascending task id order.
func (s *SHC) evaluate(tasks []*task.Task, nodes []*node.Node, assignment map[int]string) (float64, map[int]Event) {

	availability := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		availability[n.Name] = 0.0
	}

	events := make(map[int]Event, len(tasks))

	for _, t := range tasks {
		nodeName := assignment[t.ID]
		start := availability[nodeName]
		finish := start + t.CostOn(nodeName)

		events[t.ID] = Event{TaskID: t.ID, Node: nodeName, Start: start, Finish: finish}
		availability[nodeName] = finish
	}

	makespan := 0.0
	for _, avail := range availability {
		if avail > makespan {
			makespan = avail
		}
	}

	return makespan, events
}
