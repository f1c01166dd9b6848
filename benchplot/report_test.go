// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
)

func testData() *table.Table {
	return new(table.Builder).
		Add("workload", []string{"put-all", "put-all", "get-all"}).
		Add("clients", []float64{1, 2, 1}).
		Add("thr_rps", []float64{100, 180, 300}).
		Add("avg_ms", []float64{10, 12, 3}).
		Add("p95_ms", []float64{20, 25, 6}).
		Add("cpu_utilization", []float64{40, 70, 30}).
		Add("source_file", []string{"a.csv", "a.csv", "b.csv"}).
		Done()
}

func checkFiles(t *testing.T, dir string, want ...string) {
	t.Helper()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range ents {
		got = append(got, e.Name())
	}
	if len(got) != len(want) {
		t.Fatalf("output files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output files = %v, want %v", got, want)
		}
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	r := &Reporter{Data: testData(), OutDir: dir, W: &buf}

	s, err := r.Report("put-all")
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("got nil summary, want two rows")
	}
	if len(s.Rows) != 2 {
		t.Fatalf("got %d summary rows, want 2", len(s.Rows))
	}
	if s.Rows[0].Clients != 1 || s.Rows[0].ThrRPS != 100 {
		t.Errorf("rows[0] = %+v, want clients=1 thr_rps=100", s.Rows[0])
	}

	out := buf.String()
	if !strings.Contains(out, "=== put-all ===") {
		t.Errorf("output missing workload header:\n%s", out)
	}
	if !strings.Contains(out, filepath.Join(dir, "put-all_throughput.png")) {
		t.Errorf("output missing chart confirmation:\n%s", out)
	}

	// CPU data is present; disk columns are not, so no disk chart.
	checkFiles(t, dir,
		"put-all_cpu.png",
		"put-all_latency.png",
		"put-all_throughput.png",
	)
}

func TestReportDiskChart(t *testing.T) {
	dir := t.TempDir()
	tbl := new(table.Builder).
		Add("workload", []string{"put-all", "put-all"}).
		Add("clients", []float64{1, 2}).
		Add("thr_rps", []float64{100, 180}).
		Add("avg_ms", []float64{10, 12}).
		Add("p95_ms", []float64{20, 25}).
		Add("disk_read_MBps", []float64{5, math.NaN()}).
		Add("disk_write_MBps", []float64{8, 11}).
		Done()
	r := &Reporter{Data: tbl, OutDir: dir, W: new(bytes.Buffer)}

	if _, err := r.Report("put-all"); err != nil {
		t.Fatal(err)
	}
	checkFiles(t, dir,
		"put-all_disk.png",
		"put-all_latency.png",
		"put-all_throughput.png",
	)
}

func TestReportDiskChartNeedsBothColumns(t *testing.T) {
	dir := t.TempDir()
	tbl := new(table.Builder).
		Add("workload", []string{"put-all"}).
		Add("clients", []float64{1}).
		Add("thr_rps", []float64{100}).
		Add("avg_ms", []float64{10}).
		Add("p95_ms", []float64{20}).
		Add("disk_read_MBps", []float64{5}).
		Done()
	r := &Reporter{Data: tbl, OutDir: dir, W: new(bytes.Buffer)}

	if _, err := r.Report("put-all"); err != nil {
		t.Fatal(err)
	}
	checkFiles(t, dir,
		"put-all_latency.png",
		"put-all_throughput.png",
	)
}

func TestReportNoData(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	r := &Reporter{Data: testData(), OutDir: dir, W: &buf}

	s, err := r.Report("get-popular")
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Errorf("got summary %+v, want nil", s)
	}
	if !strings.Contains(buf.String(), "No data for workload") {
		t.Errorf("output missing skip notice:\n%s", buf.String())
	}
	checkFiles(t, dir)
}

func TestReportMissingRequiredColumn(t *testing.T) {
	tbl := new(table.Builder).
		Add("workload", []string{"put-all"}).
		Add("clients", []float64{1}).
		Done()
	r := &Reporter{Data: tbl, OutDir: t.TempDir(), W: new(bytes.Buffer)}

	if _, err := r.Report("put-all"); err == nil {
		t.Fatal("got success, want error for missing thr_rps column")
	}
}

func TestReportLabel(t *testing.T) {
	dir := t.TempDir()
	tbl := new(table.Builder).
		Add("workload", []string{"mixed load"}).
		Add("clients", []float64{4}).
		Add("thr_rps", []float64{42}).
		Add("avg_ms", []float64{1}).
		Add("p95_ms", []float64{2}).
		Done()
	r := &Reporter{Data: tbl, OutDir: dir, W: new(bytes.Buffer)}

	if _, err := r.Report("mixed load"); err != nil {
		t.Fatal(err)
	}
	checkFiles(t, dir,
		"mixed_load_latency.png",
		"mixed_load_throughput.png",
	)
}

func TestFormatHTML(t *testing.T) {
	var buf bytes.Buffer
	err := FormatHTML(&buf, []*Summary{
		{Workload: "put-all", Rows: []SummaryRow{{Clients: 1, ThrRPS: 110, AvgMS: 9, P95MS: 19}}},
		{Workload: "get-all", Rows: []SummaryRow{{Clients: 2, ThrRPS: 300, AvgMS: 3, P95MS: 6}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<caption>put-all</caption>", "<caption>get-all</caption>", "110.00", "19.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
