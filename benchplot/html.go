// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"io"

	"github.com/google/safehtml/template"
)

// A Summary is the aggregate for one workload, one row per distinct
// clients value, sorted ascending by Clients.
type Summary struct {
	Workload string
	Rows     []SummaryRow
}

// A SummaryRow holds the mean metrics for one clients value.
type SummaryRow struct {
	Clients float64
	ThrRPS  float64
	AvgMS   float64
	P95MS   float64
}

var htmlTemplate = template.Must(template.New("report").ParseFromTrustedTemplate(template.MakeTrustedTemplate(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>KV-server benchmark report</title>
<style>
.workload { border-collapse: collapse; margin-bottom: 1em; }
.workload caption { text-align: left; font-weight: bold; }
.workload th, .workload td { border: 1px solid #ccc; padding: 0.2em 0.8em; text-align: right; }
</style>
</head>
<body>
{{range . -}}
<table class='workload'>
<caption>{{.Workload}}</caption>
<tr><th>clients</th><th>thr_rps</th><th>avg_ms</th><th>p95_ms</th></tr>
{{range .Rows -}}
<tr><td>{{printf "%g" .Clients}}</td><td>{{printf "%.2f" .ThrRPS}}</td><td>{{printf "%.2f" .AvgMS}}</td><td>{{printf "%.2f" .P95MS}}</td></tr>
{{end -}}
</table>
{{end -}}
</body>
</html>
`)))

// FormatHTML writes an HTML report containing one aggregate table per
// summary.
func FormatHTML(w io.Writer, summaries []*Summary) error {
	return htmlTemplate.Execute(w, summaries)
}
