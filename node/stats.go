package node

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"dagsched/util"
	"dagsched/worker"
)

// GetStats fetches the /stats snapshot from the node's agent. A nil return
// means the agent could not be reached; callers treat that as advisory, not
// fatal.
func GetStats(n *Node, logger *zap.SugaredLogger) *worker.Stats {

	url := fmt.Sprintf("http://%s/stats", n.Addr())
	resp, err := util.HTTPWithRetry(http.Get, url)
	if err != nil {
		logger.Warnw("error connecting to node", "node", n.Name, "url", url, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warnw("error retrieving node stats", "node", n.Name, "status", resp.StatusCode)
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	var stats worker.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		logger.Warnw("error unmarshalling node stats", "node", n.Name, "err", err)
		return nil
	}

	n.Memory = int(stats.MemTotalKb())
	n.TaskCount = stats.Running

	return &stats
}
