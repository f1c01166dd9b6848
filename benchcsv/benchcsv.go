// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcsv reads kv-server benchmark result files into tables.
//
// A result file is a CSV table whose header row names its columns.
// The "workload" column is categorical; every other column is
// numeric. LoadDir combines all result files in a directory into a
// single table, tagging each row with a "source_file" column holding
// the base name of the file it came from, and drops rows whose "ok"
// value marks a failed run.
package benchcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// stringColumns lists the columns carried as strings. Every other
// column parses as float64.
var stringColumns = map[string]bool{
	"workload":    true,
	"source_file": true,
}

// ReadFile parses one CSV result file into a table. The first row is
// the header; each following row is one record. A numeric column
// containing a value that does not parse as a float is a parse error
// for the whole file. Empty cells become NaN. The "ok" column also
// accepts boolean values, parsed as 1 or 0.
func ReadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) (*table.Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	header := rows[0]
	seen := make(map[string]bool)
	for _, name := range header {
		if name == "" {
			return nil, fmt.Errorf("empty column name in header")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
	}

	body := rows[1:]
	var b table.Builder
	for j, name := range header {
		if stringColumns[name] {
			col := make([]string, len(body))
			for i, row := range body {
				col[i] = row[j]
			}
			b.Add(name, col)
			continue
		}
		col := make([]float64, len(body))
		for i, row := range body {
			if row[j] == "" {
				col[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil && name == "ok" {
				// The success flag may be boolean-valued.
				if ok, berr := strconv.ParseBool(row[j]); berr == nil {
					v, err = 0, nil
					if ok {
						v = 1
					}
				}
			}
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %v", i+2, name, err)
			}
			col[i] = v
		}
		b.Add(name, col)
	}
	return b.Done(), nil
}

// LoadDir reads every *.csv file directly inside dir and returns the
// combined table. Files that fail to parse are reported through warn
// and skipped. If an "ok" column is present anywhere in the combined
// data, rows whose ok value is not strictly greater than zero are
// removed and the count is reported through warn.
//
// LoadDir returns an error if dir contains no *.csv files, or if none
// of them could be read.
func LoadDir(dir string, warn func(format string, args ...interface{})) (*table.Table, error) {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", dir)
	}

	var parsed []*table.Table
	for _, path := range paths {
		t, err := ReadFile(path)
		if err != nil {
			warn("failed to read %s: %v", path, err)
			continue
		}
		// Tag each row with its provenance before the union so
		// duplicate rows across files stay distinguishable.
		src := make([]string, t.Len())
		for i := range src {
			src[i] = filepath.Base(path)
		}
		parsed = append(parsed, table.NewBuilder(t).Add("source_file", src).Done())
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("no CSV files could be read successfully")
	}

	combined := union(parsed)

	if combined.Column("ok") != nil {
		before := combined.Len()
		g := table.Filter(combined, func(ok float64) bool { return ok > 0 }, "ok")
		combined = g.Table(table.RootGroupID)
		if removed := before - combined.Len(); removed > 0 {
			warn("filtered out %d rows with ok <= 0", removed)
		}
	}

	return combined, nil
}

// union concatenates tables whose column sets may differ. The result
// holds the union of all columns in first-seen order; a row whose
// table lacks a column holds NaN (numeric) or "" (string) for it.
func union(tables []*table.Table) *table.Table {
	var names []string
	have := make(map[string]bool)
	total := 0
	for _, t := range tables {
		for _, name := range t.Columns() {
			if !have[name] {
				have[name] = true
				names = append(names, name)
			}
		}
		total += t.Len()
	}

	var b table.Builder
	for _, name := range names {
		if stringColumns[name] {
			col := make([]string, 0, total)
			for _, t := range tables {
				if c := t.Column(name); c != nil {
					col = append(col, c.([]string)...)
				} else {
					col = append(col, make([]string, t.Len())...)
				}
			}
			b.Add(name, col)
			continue
		}
		col := make([]float64, 0, total)
		for _, t := range tables {
			if c := t.Column(name); c != nil {
				col = append(col, c.([]float64)...)
			} else {
				for i := 0; i < t.Len(); i++ {
					col = append(col, math.NaN())
				}
			}
		}
		b.Add(name, col)
	}
	return b.Done()
}
