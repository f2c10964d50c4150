// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package result

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

const defaultMySQLTable = "echo_bench_result"

var tableReg = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// MySQLSink inserts one row per record.
type MySQLSink struct {
	db    *sql.DB
	table string
}

// NewMySQLSink connects with dsn and creates the table when it does not exist.
func NewMySQLSink(ctx context.Context, dsn string, table string) (*MySQLSink, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn failed: %w", err)
	}
	cfg.ParseTime = true
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	s, err := newMySQLSink(db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func newMySQLSink(db *sql.DB, table string) (*MySQLSink, error) {
	if table == "" {
		table = defaultMySQLTable
	}
	if !tableReg.MatchString(table) {
		return nil, fmt.Errorf("invalid mysql table name %q", table)
	}
	return &MySQLSink{db: db, table: table}, nil
}

func (s *MySQLSink) createSQL() string {
	return "CREATE TABLE IF NOT EXISTS `" + s.table + "` (" +
		"`id` BIGINT UNSIGNED NOT NULL AUTO_INCREMENT, " +
		"`addr` VARCHAR(64) NOT NULL, " +
		"`duration` INT UNSIGNED NOT NULL, " +
		"`number` INT UNSIGNED NOT NULL, " +
		"`length` INT UNSIGNED NOT NULL, " +
		"`iops` BIGINT UNSIGNED NOT NULL, " +
		"`req_num` BIGINT UNSIGNED NOT NULL, " +
		"`p10` DOUBLE NOT NULL, " +
		"`p50` DOUBLE NOT NULL, " +
		"`p95` DOUBLE NOT NULL, " +
		"`p99` DOUBLE NOT NULL, " +
		"`sent_bytes` BIGINT UNSIGNED NOT NULL, " +
		"`received_bytes` BIGINT UNSIGNED NOT NULL, " +
		"`mismatch` TINYINT(1) NOT NULL, " +
		"`created_at` DATETIME NOT NULL, " +
		"PRIMARY KEY (`id`))"
}

func (s *MySQLSink) insertSQL() string {
	return "INSERT INTO `" + s.table + "` " +
		"(addr, duration, number, length, iops, req_num, p10, p50, p95, p99, sent_bytes, received_bytes, mismatch, created_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
}

// Init creates the result table.
func (s *MySQLSink) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createSQL()); err != nil {
		return fmt.Errorf("create table %q failed: %w", s.table, err)
	}
	return nil
}

func (s *MySQLSink) Publish(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx, s.insertSQL(),
		rec.Addr, rec.Duration, rec.Number, rec.Length,
		rec.IOPS, rec.ReqNum, rec.P10, rec.P50, rec.P95, rec.P99,
		rec.SentBytes, rec.ReceivedBytes, rec.Mismatch, rec.Time,
	)
	if err != nil {
		return fmt.Errorf("insert into %q failed: %w", s.table, err)
	}
	return nil
}

func (s *MySQLSink) Close() error {
	return s.db.Close()
}
