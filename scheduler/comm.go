package scheduler

import "dagsched/node"

// Pair is an ordered (from, to) node pair. Self-pairs never appear in a
// CommMatrix.
type Pair struct {
	From string
	To   string
}

// CommMatrix holds the transfer cost between distinct nodes. An empty
// matrix means communication is free.
type CommMatrix map[Pair]float64

// UniformComm builds a matrix with the same cost on every ordered pair of
// distinct nodes.
func UniformComm(nodes []*node.Node, cost float64) CommMatrix {

	m := make(CommMatrix)
	for _, from := range nodes {
		for _, to := range nodes {
			if from.Name == to.Name {
				continue
			}
			m[Pair{From: from.Name, To: to.Name}] = cost
		}
	}

	return m
}

// Cost returns the transfer cost from one node to another, 0 for a missing
// entry or a same-node transfer.
func (m CommMatrix) Cost(from, to string) float64 {

	if from == to {
		return 0.0
	}

	return m[Pair{From: from, To: to}]
}

// Average is the mean cost over all ordered pairs of distinct roster nodes
// that have an entry. HEFT uses this single figure while ranking, before
// placements are known.
func (m CommMatrix) Average(nodes []*node.Node) float64 {

	if len(m) == 0 {
		return 0.0
	}

	total := 0.0
	count := 0
	for _, from := range nodes {
		for _, to := range nodes {
			if from.Name == to.Name {
				continue
			}
			if cost, ok := m[Pair{From: from.Name, To: to.Name}]; ok {
				total += cost
				count++
			}
		}
	}

	if count == 0 {
		return 0.0
	}

	return total / float64(count)
}
