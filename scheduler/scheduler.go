package scheduler

import (
	"fmt"
	"math/rand"
	"sort"

	"dagsched/node"
	"dagsched/task"
)

// Scheduler maps every task in a graph onto a node.
type Scheduler interface {
	Name() string
	Schedule(g *task.Graph, nodes []*node.Node) (*Schedule, error)
}

// Event records where a mapper placed one task and the simulated window it
// expects the task to occupy. Events are read-only once the mapper returns.
type Event struct {
	TaskID int
	Node   string
	Start  float64
	Finish float64
}

// Schedule is a complete placement of a task graph.
type Schedule struct {
	Algorithm string
	Events    map[int]Event
}

// Makespan is the finish time of the last-finishing task, 0 for an empty
// schedule.
func (s *Schedule) Makespan() float64 {

	makespan := 0.0
	for _, ev := range s.Events {
		if ev.Finish > makespan {
			makespan = ev.Finish
		}
	}

	return makespan
}

// Assignment projects the schedule down to the task -> node mapping.
func (s *Schedule) Assignment() map[int]string {

	assignment := make(map[int]string, len(s.Events))
	for id, ev := range s.Events {
		assignment[id] = ev.Node
	}

	return assignment
}

// EventsByStart returns all events ordered by simulated start time, ties by
// task id.
func (s *Schedule) EventsByStart() []Event {

	events := make([]Event, 0, len(s.Events))
	for _, ev := range s.Events {
		events = append(events, ev)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Start == events[j].Start {
			return events[i].TaskID < events[j].TaskID
		}
		return events[i].Start < events[j].Start
	})

	return events
}

// Options carries per-algorithm configuration through the facade.
type Options struct {
	Comm          CommMatrix
	MaxIterations int
	Rand          *rand.Rand
}

// New selects a mapper by name. An unrecognized name is a configuration
// error, not a silent default.
func New(name string, opts Options) (Scheduler, error) {

	switch name {
	case "heft":
		return &Heft{Comm: opts.Comm}, nil
	case "shc":
		return NewSHC(opts.MaxIterations, opts.Rand), nil
	case "rr":
		return &RoundRobin{}, nil
	case "fcfs":
		return &FCFS{}, nil
	}

	return nil, fmt.Errorf("unknown scheduling algorithm %q (want heft, shc, rr or fcfs)", name)
}
