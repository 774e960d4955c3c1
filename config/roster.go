package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dagsched/node"
)

type rosterFile struct {
	Port  int          `yaml:"port"`
	Nodes []rosterNode `yaml:"nodes"`
}

type rosterNode struct {
	Name   string `yaml:"name"`
	Ip     string `yaml:"ip"`
	Port   int    `yaml:"port"`
	Cores  int    `yaml:"cores"`
	Memory int    `yaml:"memory"`
}

// LoadNodesFile reads a YAML roster, for setups with more nodes or mixed
// ports than the environment variables cover. A node without its own port
// inherits the file-level one.
func LoadNodesFile(path string) ([]*node.Node, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing roster file %s: %w", path, err)
	}

	if rf.Port == 0 {
		rf.Port = DefaultPort
	}

	var nodes []*node.Node
	for i, rn := range rf.Nodes {
		if rn.Ip == "" {
			return nil, fmt.Errorf("roster file %s: node %d has no ip", path, i)
		}

		name := rn.Name
		if name == "" {
			name = fmt.Sprintf("vm%d", i+1)
		}

		port := rn.Port
		if port == 0 {
			port = rf.Port
		}

		nodes = append(nodes, node.New(name, rn.Ip, port, rn.Cores, rn.Memory))
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("roster file %s defines no nodes", path)
	}

	return nodes, nil
}
