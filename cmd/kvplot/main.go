// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Kvplot aggregates kv-server benchmark result CSV files and renders
// per-workload summary charts.
//
// Usage:
//
//	kvplot [-csv-dir dir] [-out-dir dir] [-db dsn] [-db-driver name] [-html]
//
// Kvplot reads every *.csv file in the input directory into one
// combined table, drops rows whose "ok" value marks a failed run, and
// for each workload prints an aggregate table (mean throughput and
// latency per clients value) and writes line charts of throughput,
// latency, CPU utilization, and disk throughput versus the number of
// clients into the output directory. Charts whose metric columns are
// absent from the data are skipped.
//
// With -db, the combined table is also archived into the named
// database before reporting. With -html, an HTML report of the
// aggregate tables is written next to the charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"golang.org/x/kvbench/benchcsv"
	"golang.org/x/kvbench/benchplot"
	"golang.org/x/kvbench/resultdb"
)

// workloads is the fixed set of benchmark scenarios reported on.
var workloads = []string{"put-all", "get-popular", "get-all"}

var (
	flagCSVDir   = flag.String("csv-dir", "csv", "`directory` containing CSV result files")
	flagOutDir   = flag.String("out-dir", "plots", "`directory` to store generated PNG plots")
	flagDB       = flag.String("db", "", "archive loaded results into the database at `dsn`")
	flagDBDriver = flag.String("db-driver", "sqlite3", "database `driver` for -db: sqlite3 or mysql")
	flagHTML     = flag.Bool("html", false, "also write report.html to the output directory")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: kvplot [options]\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("kvplot: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
	}

	if err := os.MkdirAll(*flagOutDir, 0777); err != nil {
		log.Fatal(err)
	}

	data, err := benchcsv.LoadDir(*flagCSVDir, warn)
	if err != nil {
		log.Fatal(err)
	}

	if *flagDB != "" {
		ctx := context.Background()
		db, err := resultdb.OpenSQL(*flagDBDriver, *flagDB)
		if err != nil {
			log.Fatalf("open %s database: %v", *flagDBDriver, err)
		}
		run, err := db.NewRun(ctx)
		if err != nil {
			log.Fatalf("archive results: %v", err)
		}
		if err := run.InsertResults(ctx, data); err != nil {
			log.Fatalf("archive results: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Fatalf("archive results: %v", err)
		}
		fmt.Printf("Archived %d rows as run %d\n", data.Len(), run.ID)
	}

	r := &benchplot.Reporter{Data: data, OutDir: *flagOutDir}
	var summaries []*benchplot.Summary
	for _, w := range workloads {
		s, err := r.Report(w)
		if err != nil {
			log.Fatal(err)
		}
		if s != nil {
			summaries = append(summaries, s)
		}
	}

	if *flagHTML {
		path := filepath.Join(*flagOutDir, "report.html")
		f, err := os.Create(path)
		if err != nil {
			log.Fatal(err)
		}
		if err := benchplot.FormatHTML(f, summaries); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Saved %s\n", path)
	}
}

func warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
