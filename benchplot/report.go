// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchplot turns a combined kv-server benchmark result table
// into per-workload summaries: an aggregate table on the console and
// line charts of throughput, latency, CPU utilization, and disk
// throughput versus the number of clients.
package benchplot

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/table"
)

// A Reporter renders per-workload reports from a combined result
// table loaded by benchcsv.
type Reporter struct {
	// Data is the combined result table.
	Data *table.Table

	// OutDir is the directory chart files are written to. It must
	// already exist.
	OutDir string

	// W receives console output. If nil, os.Stdout is used.
	W io.Writer
}

// Report writes the aggregate table and charts for one workload. It
// returns the workload's Summary for use in an overall report, or nil
// if no records match the workload, which is not an error.
//
// Report fails if the data lacks the workload, clients, or thr_rps
// columns, or if a chart file cannot be written.
func (r *Reporter) Report(workload string) (*Summary, error) {
	w := r.W
	if w == nil {
		w = os.Stdout
	}

	if r.Data.Column("workload") == nil {
		return nil, fmt.Errorf("results have no %q column", "workload")
	}
	sub := table.FilterEq(r.Data, "workload", workload).Table(table.RootGroupID)
	if sub == nil || sub.Len() == 0 {
		fmt.Fprintf(w, "No data for workload %q, skipping plots.\n", workload)
		return nil, nil
	}

	if sub.Column("clients") == nil || sub.Column("thr_rps") == nil {
		return nil, fmt.Errorf("results must have %q and %q columns", "clients", "thr_rps")
	}

	// A row whose file lacked the clients column cannot contribute
	// to any group.
	grouped := table.Filter(sub, func(c float64) bool { return !math.IsNaN(c) }, "clients").Table(table.RootGroupID)

	agg := Aggregate(grouped, "thr_rps", "avg_ms", "p95_ms")
	clients := agg.MustColumn("clients").([]float64)
	thr := agg.MustColumn("mean thr_rps").([]float64)
	avg := agg.MustColumn("mean avg_ms").([]float64)
	p95 := agg.MustColumn("mean p95_ms").([]float64)

	fmt.Fprintf(w, "\n=== %s ===\n", workload)
	prt := new(table.Builder).
		Add("clients", clients).
		Add("thr_rps", thr).
		Add("avg_ms", avg).
		Add("p95_ms", p95).
		Done()
	if err := table.Fprint(w, prt, "%g", "%.2f", "%.2f", "%.2f"); err != nil {
		return nil, err
	}

	label := strings.ReplaceAll(workload, " ", "_")
	save := func(c *lineChart, kind string) error {
		path := filepath.Join(r.OutDir, label+"_"+kind+".png")
		if err := c.render(path); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s\n", path)
		return nil
	}

	err := save(&lineChart{
		title:  "Throughput vs Clients - " + workload,
		xLabel: "Number of clients",
		yLabel: "Throughput (requests/second)",
		series: []series{{xys: xyPoints(clients, thr)}},
	}, "throughput")
	if err != nil {
		return nil, err
	}

	err = save(&lineChart{
		title:  "Latency vs Clients - " + workload,
		xLabel: "Number of clients",
		yLabel: "Latency (ms)",
		series: []series{
			{name: "Average latency", xys: xyPoints(clients, avg)},
			{name: "p95 latency", xys: xyPoints(clients, p95)},
		},
	}, "latency")
	if err != nil {
		return nil, err
	}

	if sub.Column("cpu_utilization") != nil {
		cpuAgg := Aggregate(grouped, "cpu_utilization")
		err := save(&lineChart{
			title:  "CPU utilization vs Clients - " + workload,
			xLabel: "Number of clients",
			yLabel: "CPU utilization (%)",
			series: []series{{xys: xyPoints(
				cpuAgg.MustColumn("clients").([]float64),
				cpuAgg.MustColumn("mean cpu_utilization").([]float64))}},
		}, "cpu")
		if err != nil {
			return nil, err
		}
	}

	if sub.Column("disk_read_MBps") != nil && sub.Column("disk_write_MBps") != nil {
		diskAgg := Aggregate(grouped, "disk_read_MBps", "disk_write_MBps")
		diskClients := diskAgg.MustColumn("clients").([]float64)
		err := save(&lineChart{
			title:  "Disk throughput vs Clients - " + workload,
			xLabel: "Number of clients",
			yLabel: "Disk throughput (MB/s)",
			series: []series{
				{name: "Read MB/s", xys: xyPoints(diskClients, diskAgg.MustColumn("mean disk_read_MBps").([]float64))},
				{name: "Write MB/s", xys: xyPoints(diskClients, diskAgg.MustColumn("mean disk_write_MBps").([]float64))},
			},
		}, "disk")
		if err != nil {
			return nil, err
		}
	}

	s := &Summary{Workload: workload}
	for i := range clients {
		s.Rows = append(s.Rows, SummaryRow{
			Clients: clients[i],
			ThrRPS:  thr[i],
			AvgMS:   avg[i],
			P95MS:   p95[i],
		})
	}
	return s, nil
}
