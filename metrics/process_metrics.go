// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

//go:build linux

package metrics

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ioCollector exports process I/O counters from /proc/self/io. The default
// process collector covers CPU, memory and open FDs but not storage I/O,
// which is the interesting figure for a node whose hot path is LevelDB and
// SQLite writes.
//
// Field meanings: https://man7.org/linux/man-pages/man5/proc_pid_io.5.html
type ioCollector struct {
	descs map[string]*prometheus.Desc
}

func newIOCollector() *ioCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "process", name), help, nil, nil)
	}
	return &ioCollector{
		descs: map[string]*prometheus.Desc{
			"syscr":       desc("read_syscalls_total", "Total number of read syscalls (read, pread)."),
			"syscw":       desc("write_syscalls_total", "Total number of write syscalls (write, pwrite)."),
			"read_bytes":  desc("read_bytes_total", "Total number of bytes fetched from the storage layer."),
			"write_bytes": desc("write_bytes_total", "Total number of bytes sent to the storage layer."),
		},
	}
}

func (c *ioCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

func (c *ioCollector) Collect(ch chan<- prometheus.Metric) {
	file, err := os.Open("/proc/self/io")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		field, raw, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		desc, ok := c.descs[field]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			logger.Warn("unable to parse io value", "field", field, "err", err)
			continue
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, value)
	}
}

var ioCollectorRegistered atomic.Bool

func registerIOCollector() {
	if ioCollectorRegistered.CompareAndSwap(false, true) {
		prometheus.MustRegister(newIOCollector())
	}
}
