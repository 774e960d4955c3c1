package worker

import (
	"github.com/c9s/goprocinfo/linux"
)

// Stats is the snapshot served at /stats: machine counters from /proc plus
// the agent's own task counts.
type Stats struct {
	MemStats  *linux.MemInfo `json:"mem_stats"`
	CpuStats  *linux.CPUStat `json:"cpu_stats"`
	LoadStats *linux.LoadAvg `json:"load_stats"`
	Running   int            `json:"running"`
	Completed int64          `json:"completed"`
}

func GetStats(w *Worker) *Stats {
	return &Stats{
		MemStats:  getMemoryInfo(),
		CpuStats:  getCpuStats(),
		LoadStats: getLoadAverage(),
		Running:   w.Running(),
		Completed: w.Completed(),
	}
}

func (s *Stats) MemTotalKb() uint64 {
	return s.MemStats.MemTotal
}

func (s *Stats) MemAvailableKb() uint64 {
	return s.MemStats.MemAvailable
}

func (s *Stats) MemUsedKb() uint64 {
	return s.MemStats.MemTotal - s.MemStats.MemAvailable
}

func (s *Stats) CpuUsage() float64 {

	idle := s.CpuStats.Idle + s.CpuStats.IOWait
	nonIdle := s.CpuStats.User + s.CpuStats.Nice + s.CpuStats.System + s.CpuStats.IRQ + s.CpuStats.SoftIRQ + s.CpuStats.Steal
	total := idle + nonIdle

	if total == 0 {
		return 0.00
	}

	return (float64(total) - float64(idle)) / float64(total)
}

func getMemoryInfo() *linux.MemInfo {

	if memstats, err := linux.ReadMemInfo("/proc/meminfo"); err != nil {
		return &linux.MemInfo{}
	} else {
		return memstats
	}
}

func getCpuStats() *linux.CPUStat {

	if cpustats, err := linux.ReadStat("/proc/stat"); err != nil {
		return &linux.CPUStat{}
	} else {
		return &cpustats.CPUStatAll
	}
}

func getLoadAverage() *linux.LoadAvg {

	if loadavg, err := linux.ReadLoadAvg("/proc/loadavg"); err != nil {
		return &linux.LoadAvg{}
	} else {
		return loadavg
	}
}
