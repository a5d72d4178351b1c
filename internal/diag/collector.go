// Package diag publishes self-process health gauges (CPU, memory, disk,
// network, goroutines) onto the same Prometheus registry the fleet metrics
// use, so the collector's own resource usage is visible next to the
// batteries it polls.
package diag

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/net"

	"renogyfleet/pkg/logger"
)

const collectInterval = 30 * time.Second

// Collector samples process- and host-level metrics on a fixed interval and
// publishes them as gauges.
type Collector struct {
	log logger.Logger

	mu        sync.Mutex
	lastNetRx uint64
	lastNetTx uint64
	startTime time.Time

	cpuPercent      prometheus.Gauge
	memAllocMB      prometheus.Gauge
	heapInUseMB     prometheus.Gauge
	goroutines      prometheus.Gauge
	gcRuns          prometheus.Gauge
	uptimeSeconds   prometheus.Gauge
	diskUsedPercent prometheus.Gauge
	netRxBytes      prometheus.Gauge
	netTxBytes      prometheus.Gauge
}

// New registers the diagnostic gauge set on reg.
func New(reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		log:       logger.With(logger.String("component", "diag_collector")),
		startTime: time.Now(),

		cpuPercent:      factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_process_cpu_percent", Help: "Host CPU utilization percentage."}),
		memAllocMB:      factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_process_mem_alloc_mb", Help: "Bytes of allocated heap objects, in megabytes."}),
		heapInUseMB:     factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_process_heap_inuse_mb", Help: "Bytes in in-use heap spans, in megabytes."}),
		goroutines:      factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_process_goroutines", Help: "Number of live goroutines."}),
		gcRuns:          factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_process_gc_runs_total", Help: "Cumulative number of completed GC cycles."}),
		uptimeSeconds:   factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_process_uptime_seconds", Help: "Seconds since process start."}),
		diskUsedPercent: factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_host_disk_used_percent", Help: "Disk usage percentage for the root filesystem."}),
		netRxBytes:      factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_host_network_rx_bytes", Help: "Bytes received since the previous sample."}),
		netTxBytes:      factory.NewGauge(prometheus.GaugeOpts{Name: "renogyfleet_host_network_tx_bytes", Help: "Bytes sent since the previous sample."}),
	}
}

// Run samples metrics every 30s until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	c.initNetworkCounters()

	ticker := time.NewTicker(collectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *Collector) initNetworkCounters() {
	stats, err := net.IOCounters(false)
	if err != nil || len(stats) == 0 {
		c.log.Error("failed to initialize network counters", logger.Err(err))
		return
	}
	c.mu.Lock()
	c.lastNetRx = stats[0].BytesRecv
	c.lastNetTx = stats[0].BytesSent
	c.mu.Unlock()
}

func (c *Collector) collect() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.memAllocMB.Set(float64(mem.Alloc) / 1024 / 1024)
	c.heapInUseMB.Set(float64(mem.HeapInuse) / 1024 / 1024)
	c.goroutines.Set(float64(runtime.NumGoroutine()))
	c.gcRuns.Set(float64(mem.NumGC))
	c.uptimeSeconds.Set(time.Since(c.startTime).Seconds())

	if pct, err := cpu.Percent(time.Second, false); err != nil || len(pct) == 0 {
		c.log.Error("failed to sample cpu usage", logger.Err(err))
	} else {
		c.cpuPercent.Set(pct[0])
	}

	if usage, err := disk.Usage("/"); err != nil {
		c.log.Error("failed to sample disk usage", logger.Err(err))
	} else {
		c.diskUsedPercent.Set(usage.UsedPercent)
	}

	rx, tx := c.networkDelta()
	c.netRxBytes.Set(float64(rx))
	c.netTxBytes.Set(float64(tx))
}

func (c *Collector) networkDelta() (uint64, uint64) {
	stats, err := net.IOCounters(false)
	if err != nil || len(stats) == 0 {
		c.log.Error("failed to sample network counters", logger.Err(err))
		return 0, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rx := stats[0].BytesRecv - c.lastNetRx
	tx := stats[0].BytesSent - c.lastNetTx
	c.lastNetRx = stats[0].BytesRecv
	c.lastNetTx = stats[0].BytesSent
	return rx, tx
}
