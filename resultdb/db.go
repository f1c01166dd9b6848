// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultdb archives loaded benchmark result tables in a SQL
// database. Each invocation of the tool stores its combined table
// under a fresh Run.
package resultdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/aclements/go-gg/table"
)

// DB is a handle to a results database.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun    *sql.Stmt
	insertResult *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		return nil, err
	}
	return d, nil
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}}
);
CREATE TABLE IF NOT EXISTS Results (
	RunID BIGINT UNSIGNED,
	Workload VARCHAR(255),
	SourceFile VARCHAR(255),
	Clients DOUBLE,
	ThrRPS DOUBLE,
	AvgMS DOUBLE,
	P95MS DOUBLE,
	CPUUtilization DOUBLE,
	DiskReadMBps DOUBLE,
	DiskWriteMBps DOUBLE,
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	q := "INSERT INTO Runs() VALUES ()"
	if driverName == "sqlite3" {
		q = "INSERT INTO Runs DEFAULT VALUES"
	}
	db.insertRun, err = db.sql.Prepare(q)
	if err != nil {
		return err
	}
	db.insertResult, err = db.sql.Prepare(
		"INSERT INTO Results(RunID, Workload, SourceFile, Clients, ThrRPS, AvgMS, P95MS, CPUUtilization, DiskReadMBps, DiskWriteMBps) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// A Run is one archived invocation. All results stored through it
// share one RunID.
type Run struct {
	// ID is the run's primary key.
	ID int64

	db *DB
}

// NewRun inserts a Run row and returns a handle for storing results
// under it.
func (db *DB) NewRun(ctx context.Context) (*Run, error) {
	res, err := db.insertRun.ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Run{ID: id, db: db}, nil
}

// resultColumns maps the table columns stored in the Results table,
// in insert order, to whether they are strings.
var resultColumns = []struct {
	name     string
	isString bool
}{
	{"workload", true},
	{"source_file", true},
	{"clients", false},
	{"thr_rps", false},
	{"avg_ms", false},
	{"p95_ms", false},
	{"cpu_utilization", false},
	{"disk_read_MBps", false},
	{"disk_write_MBps", false},
}

// InsertResults stores every row of t under the run in a single
// transaction. Absent columns and NaN cells store as NULL.
func (u *Run) InsertResults(ctx context.Context, t *table.Table) (err error) {
	tx, err := u.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	stmt := tx.Stmt(u.db.insertResult)
	args := make([]interface{}, 1+len(resultColumns))
	args[0] = u.ID
	for i := 0; i < t.Len(); i++ {
		for j, col := range resultColumns {
			c := t.Column(col.name)
			switch {
			case c == nil:
				args[1+j] = nil
			case col.isString:
				args[1+j] = c.([]string)[i]
			default:
				v := c.([]float64)[i]
				if math.IsNaN(v) {
					args[1+j] = nil
				} else {
					args[1+j] = v
				}
			}
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.insertResult.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
