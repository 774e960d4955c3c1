package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRoundRobinRotation(t *testing.T) {

	nodes := testNodes(1, 1, 1)
	g := independentTasks(3, 2.0, nodes)

	rr := &RoundRobin{}
	sched, err := rr.Schedule(g, nodes)
	require.NoError(t, err)

	assert.Equal(t, nodes[0].Name, sched.Events[0].Node)
	assert.Equal(t, nodes[1].Name, sched.Events[1].Node)
	assert.Equal(t, nodes[2].Name, sched.Events[2].Node)
	assert.Equal(t, 2.0, sched.Makespan())
}

func TestRoundRobinAvailabilityAccumulatesPerNode(t *testing.T) {

	nodes := testNodes(1, 1)
	g := independentTasks(4, 3.0, nodes)

	rr := &RoundRobin{}
	sched, err := rr.Schedule(g, nodes)
	require.NoError(t, err)

	// Tasks 0 and 2 land on the first node; 2 starts when 0 finishes, not
	// when the globally previous task finishes.
	assert.Equal(t, 0.0, sched.Events[0].Start)
	assert.Equal(t, 0.0, sched.Events[1].Start)
	assert.Equal(t, 3.0, sched.Events[2].Start)
	assert.Equal(t, 3.0, sched.Events[3].Start)
}

func TestRoundRobinFairness(t *testing.T) {

	rapid.Check(t, func(rt *rapid.T) {

		numTasks := rapid.IntRange(1, 60).Draw(rt, "tasks")
		numNodes := rapid.IntRange(1, 5).Draw(rt, "nodes")

		var cores []int
		for i := 0; i < numNodes; i++ {
			cores = append(cores, 1)
		}
		nodes := testNodes(cores...)
		g := independentTasks(numTasks, 1.0, nodes)

		rr := &RoundRobin{}
		sched, err := rr.Schedule(g, nodes)
		require.NoError(rt, err)

		counts := make(map[string]int)
		for _, ev := range sched.Events {
			counts[ev.Node]++
		}

		floor := numTasks / numNodes
		ceil := floor
		if numTasks%numNodes != 0 {
			ceil++
		}

		for _, n := range nodes {
			c := counts[n.Name]
			assert.True(rt, c == floor || c == ceil,
				"node %s got %d tasks, want %d or %d", n.Name, c, floor, ceil)
		}
	})
}

func TestRoundRobinNoNodes(t *testing.T) {

	rr := &RoundRobin{}
	_, err := rr.Schedule(independentTasks(1, 1.0, nil), nil)
	assert.Error(t, err)
}
