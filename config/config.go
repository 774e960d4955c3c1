package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dagsched/node"
	"dagsched/task"
)

const (
	// DefaultPort is the agent port shared across the roster unless a node
	// overrides it.
	DefaultPort = 5000
	// MaxEnvNodes caps the VM<i>_IP variables scanned from the environment.
	MaxEnvNodes = 4
)

// LoadDataset reads one workload value per line. Lines outside
// [task.MinValue, task.MaxValue] or not parseable as integers are skipped
// with a warning; they never abort the load.
func LoadDataset(path string, logger *zap.SugaredLogger) ([]int, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	return ReadDataset(f, logger)
}

func ReadDataset(r io.Reader, logger *zap.SugaredLogger) ([]int, error) {

	var values []int
	skipped := 0

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		v, err := strconv.Atoi(line)
		if err != nil {
			logger.Warnw("skipping malformed dataset line", "line", lineno, "content", line)
			skipped++
			continue
		}

		if v < task.MinValue || v > task.MaxValue {
			logger.Warnw("skipping out-of-range dataset value", "line", lineno, "value", v, "min", task.MinValue, "max", task.MaxValue)
			skipped++
			continue
		}

		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	if skipped > 0 {
		logger.Warnw("dataset loaded with skipped lines", "loaded", len(values), "skipped", skipped)
	} else {
		logger.Infow("dataset loaded", "tasks", len(values))
	}

	return values, nil
}

// NodesFromEnv builds the roster from VM1_IP..VM4_IP plus the shared
// VM_PORT and per-node VM<i>_CORES / VM<i>_MEMORY. At least one node must
// be configured.
func NodesFromEnv(logger *zap.SugaredLogger) ([]*node.Node, error) {

	port := envInt("VM_PORT", DefaultPort)

	var nodes []*node.Node
	for i := 1; i <= MaxEnvNodes; i++ {
		ip := os.Getenv(fmt.Sprintf("VM%d_IP", i))
		if ip == "" {
			continue
		}

		cores := envInt(fmt.Sprintf("VM%d_CORES", i), 1)
		memory := envInt(fmt.Sprintf("VM%d_MEMORY", i), 0)

		n := node.New(fmt.Sprintf("vm%d", i), ip, port, cores, memory)
		nodes = append(nodes, n)
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("no worker nodes configured: set VM1_IP..VM%d_IP or pass a roster file", MaxEnvNodes)
	}

	for _, n := range nodes {
		logger.Infow("node configured", "node", n.Name, "addr", n.Addr(), "cores", n.Cores)
	}

	return nodes, nil
}

func envInt(key string, fallback int) int {

	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
