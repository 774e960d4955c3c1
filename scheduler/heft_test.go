package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"dagsched/node"
	"dagsched/task"
)

func testNodes(cores ...int) []*node.Node {

	var nodes []*node.Node
	for i, c := range cores {
		nodes = append(nodes, node.New(nodeName(i), "127.0.0.1", 5000, c, 0))
	}

	return nodes
}

func nodeName(i int) string {
	return string(rune('a'+i)) + "vm"
}

// chainTasks builds a linear chain where every task costs the same on every
// given node.
func chainTasks(n int, cost float64, nodes []*node.Node) *task.Graph {

	var tasks []*task.Task
	for i := 0; i < n; i++ {

		costs := make(map[string]float64, len(nodes))
		for _, nd := range nodes {
			costs[nd.Name] = cost
		}

		t := &task.Task{ID: i, Value: 1, ComputationCost: costs}
		if i > 0 {
			t.Predecessors = []int{i - 1}
		}
		if i < n-1 {
			t.Successors = []int{i + 1}
		}
		tasks = append(tasks, t)
	}

	return task.NewGraphFromTasks(tasks)
}

func independentTasks(n int, cost float64, nodes []*node.Node) *task.Graph {

	var tasks []*task.Task
	for i := 0; i < n; i++ {
		costs := make(map[string]float64, len(nodes))
		for _, nd := range nodes {
			costs[nd.Name] = cost
		}
		tasks = append(tasks, &task.Task{ID: i, Value: 1, ComputationCost: costs})
	}

	return task.NewGraphFromTasks(tasks)
}

func TestHeftLinearChainSingleNode(t *testing.T) {

	nodes := testNodes(1)
	g := chainTasks(3, 1.0, nodes)

	h := &Heft{}
	sched, err := h.Schedule(g, nodes)
	require.NoError(t, err)

	assert.Equal(t, 3.0, sched.Makespan())
	assert.Equal(t, 0.0, sched.Events[0].Start)
	assert.Equal(t, 1.0, sched.Events[1].Start)
	assert.Equal(t, 2.0, sched.Events[2].Start)
}

func TestHeftIndependentTasksSpreadAcrossNodes(t *testing.T) {

	nodes := testNodes(1, 1, 1)
	g := independentTasks(3, 2.0, nodes)

	h := &Heft{}
	sched, err := h.Schedule(g, nodes)
	require.NoError(t, err)

	assert.Equal(t, 2.0, sched.Makespan())

	used := make(map[string]int)
	for _, ev := range sched.Events {
		used[ev.Node]++
	}
	assert.Len(t, used, 3, "one task per node")
}

func TestHeftEmptyGraph(t *testing.T) {

	nodes := testNodes(1)
	g := task.NewGraphFromTasks(nil)

	h := &Heft{}
	sched, err := h.Schedule(g, nodes)
	require.NoError(t, err)

	assert.Empty(t, sched.Events)
	assert.Equal(t, 0.0, sched.Makespan())
}

func TestHeftNoNodes(t *testing.T) {

	h := &Heft{}
	_, err := h.Schedule(chainTasks(1, 1.0, nil), nil)
	assert.Error(t, err)
}

func TestHeftEFTTieBreaksOnNodeOrder(t *testing.T) {

	nodes := testNodes(1, 1)
	g := independentTasks(1, 1.0, nodes)

	h := &Heft{}
	sched, err := h.Schedule(g, nodes)
	require.NoError(t, err)

	assert.Equal(t, nodes[0].Name, sched.Events[0].Node)
}

func TestUpwardRanksDiamond(t *testing.T) {

	// 0 -> {1, 2} -> 3, every task's average cost is 3, average comm 1.
	costs := map[string]float64{"avm": 2, "bvm": 4}
	tasks := []*task.Task{
		{ID: 0, ComputationCost: costs, Successors: []int{1, 2}},
		{ID: 1, ComputationCost: costs, Predecessors: []int{0}, Successors: []int{3}},
		{ID: 2, ComputationCost: costs, Predecessors: []int{0}, Successors: []int{3}},
		{ID: 3, ComputationCost: costs, Predecessors: []int{1, 2}},
	}
	g := task.NewGraphFromTasks(tasks)

	avg := map[int]float64{0: 3, 1: 3, 2: 3, 3: 3}
	ranks, err := upwardRanks(g, avg, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 3.0, ranks[3])
	assert.Equal(t, 7.0, ranks[1])
	assert.Equal(t, 7.0, ranks[2])
	assert.Equal(t, 11.0, ranks[0])
}

func TestUpwardRanksCycleError(t *testing.T) {

	tasks := []*task.Task{
		{ID: 0, Predecessors: []int{1}, Successors: []int{1}},
		{ID: 1, Predecessors: []int{0}, Successors: []int{0}},
	}
	g := task.NewGraphFromTasks(tasks)

	_, err := upwardRanks(g, map[int]float64{0: 1, 1: 1}, 0)
	assert.Error(t, err)
}

func TestHeftDeterministic(t *testing.T) {

	nodes := testNodes(1, 2, 4)
	g := chainTasks(10, 5.0, nodes)
	comm := UniformComm(nodes, 1.0)

	h := &Heft{Comm: comm}

	first, err := h.Schedule(g, nodes)
	require.NoError(t, err)
	second, err := h.Schedule(g, nodes)
	require.NoError(t, err)

	assert.Equal(t, first.Events, second.Events)
}

func TestHeftRespectsPrecedence(t *testing.T) {

	rapid.Check(t, func(rt *rapid.T) {

		numNodes := rapid.IntRange(1, 4).Draw(rt, "nodes")
		values := rapid.SliceOfN(rapid.IntRange(task.MinValue, task.MaxValue), 1, 20).Draw(rt, "values")
		width := rapid.IntRange(1, 3).Draw(rt, "width")

		var cores []int
		for i := 0; i < numNodes; i++ {
			cores = append(cores, rapid.IntRange(1, 8).Draw(rt, "cores"))
		}
		nodes := testNodes(cores...)

		coreMap := make(map[string]int, len(nodes))
		for _, n := range nodes {
			coreMap[n.Name] = n.Cores
		}

		shape := task.Chain
		if width > 1 {
			shape = task.ParallelChains
		}
		g := task.NewGraph(values, coreMap, task.GraphConfig{Shape: shape, Width: width})

		comm := UniformComm(nodes, rapid.Float64Range(0, 10).Draw(rt, "comm"))
		h := &Heft{Comm: comm}

		sched, err := h.Schedule(g, nodes)
		require.NoError(rt, err)

		for _, tk := range g.Tasks() {
			ev := sched.Events[tk.ID]
			for _, p := range tk.Predecessors {
				pev := sched.Events[p]
				ready := pev.Finish
				if pev.Node != ev.Node {
					ready += comm.Cost(pev.Node, ev.Node)
				}
				assert.LessOrEqual(rt, ready, ev.Start+1e-9,
					"task %d on %s must wait for predecessor %d on %s", tk.ID, ev.Node, p, pev.Node)
			}
		}
	})
}
