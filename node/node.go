package node

import "fmt"

// Node is one worker machine in the roster. Cores doubles as the node's
// dispatch capacity: the executor never runs more than Cores tasks on a
// node at once.
type Node struct {
	Name      string
	Ip        string
	Port      int
	Cores     int
	Memory    int
	TaskCount int
}

func New(name, ip string, port, cores, memory int) *Node {

	if cores < 1 {
		cores = 1
	}

	return &Node{
		Name:   name,
		Ip:     ip,
		Port:   port,
		Cores:  cores,
		Memory: memory,
	}
}

func (n *Node) Addr() string {
	return fmt.Sprintf("%s:%d", n.Ip, n.Port)
}

// TaskURL is the per-task endpoint served by the worker agent.
func (n *Node) TaskURL(value int) string {
	return fmt.Sprintf("http://%s:%d/task/%d", n.Ip, n.Port, value)
}

// ExecuteURL is the POST variant of the task endpoint, used in
// single-machine mode.
func (n *Node) ExecuteURL() string {
	return fmt.Sprintf("http://%s:%d/execute", n.Ip, n.Port)
}
