// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"math"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// Aggregate groups g by the "clients" column and computes the mean of
// each of the metric columns. The result has one row per distinct
// clients value, sorted ascending, with the metrics in columns named
// "mean <metric>".
func Aggregate(g table.Grouping, metrics ...string) *table.Table {
	a := ggstat.Agg("clients")(aggMean(metrics...)).F(g)
	a = table.SortBy(a, "clients")
	return a.Table(table.RootGroupID)
}

// aggMean is ggstat.AggMean except that NaN values are excluded from
// the mean. NaN marks a value absent from the row's source file, so
// it must not poison the group. A group with no defined values at all
// yields NaN.
func aggMean(cols ...string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		for _, col := range cols {
			means := make([]float64, 0, len(input.Tables()))
			for _, gid := range input.Tables() {
				xs := input.Table(gid).MustColumn(col).([]float64)
				defined := make([]float64, 0, len(xs))
				for _, x := range xs {
					if !math.IsNaN(x) {
						defined = append(defined, x)
					}
				}
				means = append(means, stats.Mean(defined))
			}
			b.Add("mean "+col, means)
		}
	}
}
