// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/hidu/goutils/log_util"

	"github.com/hidu/tool/echo-bench/internal"
	"github.com/hidu/tool/echo-bench/internal/bench"
	"github.com/hidu/tool/echo-bench/internal/result"
)

func main() {
	c := newCLI(flag.CommandLine)
	flag.Parse()
	os.Exit(c.run(context.Background(), os.Stdout, os.Stderr))
}

type cli struct {
	fs *flag.FlagSet

	address     *string
	length      *int
	duration    *int
	number      *int
	connTimeout *time.Duration
	ioTimeout   *time.Duration
	rate        *int
	speed       *int
	logPath     *string
	conf        *string

	out        *string
	kafka      *string
	kafkaTopic *string
	mysqlDSN   *string
	mysqlTable *string
}

func newCLI(fs *flag.FlagSet) *cli {
	c := &cli{
		fs: fs,

		address:     internal.FlagEnvString(fs, []string{"a", "address"}, "EB_address", bench.DefaultAddress, "Target echo server address"),
		length:      internal.FlagEnvInt(fs, []string{"l", "length"}, "EB_length", bench.DefaultLength, "Test message length, max 4096"),
		duration:    internal.FlagEnvInt(fs, []string{"t", "duration"}, "EB_duration", int(bench.DefaultDuration/time.Second), "Test duration in seconds"),
		number:      internal.FlagEnvInt(fs, []string{"c", "number"}, "EB_number", bench.DefaultNumber, "Test connection number"),
		connTimeout: internal.FlagEnvDuration(fs, []string{"ct"}, "EB_ct", bench.DefaultConnectTimeout, "connect timeout"),
		ioTimeout:   internal.FlagEnvDuration(fs, []string{"io"}, "EB_io", bench.DefaultIOTimeout, "timeout of each read and write, 0 disables it"),
		rate:        internal.FlagEnvInt(fs, []string{"rate"}, "EB_rate", 0, "max requests per second on each connection, 0 is unlimited"),
		speed:       internal.FlagEnvInt(fs, []string{"s"}, "EB_s", 0, "print progress every s seconds, 0 disables it"),
		logPath:     internal.FlagEnvString(fs, []string{"log"}, "EB_log", "", "log file prefix, default stderr"),
		conf:        fs.String("conf", "", "toml config file"),

		out:        internal.FlagEnvString(fs, []string{"out"}, "EB_out", "", "append a json result line to this file, '-' is stdout"),
		kafka:      internal.FlagEnvString(fs, []string{"kafka"}, "EB_kafka", "", "kafka brokers to publish the result, e.g. 127.0.0.1:9092,127.0.0.1:9093"),
		kafkaTopic: internal.FlagEnvString(fs, []string{"kafka-topic"}, "EB_kafka_topic", "", "kafka topic, default echo_bench"),
		mysqlDSN:   internal.FlagEnvString(fs, []string{"mysql"}, "EB_mysql", "", "mysql dsn to save the result, e.g. user:pass@tcp(127.0.0.1:3306)/bench"),
		mysqlTable: internal.FlagEnvString(fs, []string{"mysql-table"}, "EB_mysql_table", "", "mysql table, default echo_bench_result"),
	}
	fs.Usage = c.usage
	return c
}

func (c *cli) usage() {
	out := c.fs.Output()
	fmt.Fprintf(out, `Echo benchmark.

Usage:
  %[1]s [ -a <address> ] [ -l <length> ] [ -c <number> ] [ -t <duration> ]
  %[1]s (-h | --help)

`, c.fs.Name())
	c.fs.PrintDefaults()
	fmt.Fprintln(out, "\n site: https://github.com/hidu/tool")
}

func (c *cli) set(names ...string) bool {
	return internal.FlagSetBy(c.fs, names...)
}

// config merges the flags over cf, cf may be nil.
func (c *cli) config(cf *ConfigFile) (bench.Config, result.Options) {
	if cf == nil {
		cf = &ConfigFile{}
	}
	cfg := bench.Config{
		Address:        *c.address,
		Length:         *c.length,
		Duration:       time.Duration(*c.duration) * time.Second,
		Number:         *c.number,
		ConnectTimeout: *c.connTimeout,
		IOTimeout:      *c.ioTimeout,
		Rate:           *c.rate,
		SpeedInterval:  *c.speed,
	}
	if cf.Address != "" && !c.set("a", "address") {
		cfg.Address = cf.Address
	}
	if cf.Length > 0 && !c.set("l", "length") {
		cfg.Length = cf.Length
	}
	if cf.Duration > 0 && !c.set("t", "duration") {
		cfg.Duration = time.Duration(cf.Duration) * time.Second
	}
	if cf.Number > 0 && !c.set("c", "number") {
		cfg.Number = cf.Number
	}
	if !c.set("ct") {
		cfg.ConnectTimeout = internal.ParseDurationDef(cf.ConnectTimeout, cfg.ConnectTimeout)
	}
	if !c.set("io") {
		cfg.IOTimeout = internal.ParseDurationDef(cf.IOTimeout, cfg.IOTimeout)
	}
	if cf.Rate > 0 && !c.set("rate") {
		cfg.Rate = cf.Rate
	}
	if cf.Speed > 0 && !c.set("s") {
		cfg.SpeedInterval = cf.Speed
	}

	opts := cf.Sink
	pick := func(dst *string, name string, val string) {
		if val != "" || c.set(name) {
			*dst = val
		}
	}
	pick(&opts.Out, "out", *c.out)
	pick(&opts.KafkaBrokers, "kafka", *c.kafka)
	pick(&opts.KafkaTopic, "kafka-topic", *c.kafkaTopic)
	pick(&opts.MySQLDSN, "mysql", *c.mysqlDSN)
	pick(&opts.MySQLTable, "mysql-table", *c.mysqlTable)
	return cfg, opts
}

func (c *cli) logger(cf *ConfigFile, stderr io.Writer) *log.Logger {
	lg := log.New(stderr, "[echo-bench] ", log.LstdFlags)
	fp := *c.logPath
	if fp == "" && cf != nil {
		fp = cf.Log
	}
	if fp != "" {
		if err := log_util.SetLogFile(lg, fp, log_util.LOG_TYPE_HOUR); err != nil {
			lg.Println("set log file failed:", err)
		}
	}
	return lg
}

func (c *cli) run(ctx context.Context, stdout io.Writer, stderr io.Writer) int {
	var cf *ConfigFile
	if *c.conf != "" {
		var err error
		if cf, err = LoadConfig(*c.conf); err != nil {
			fmt.Fprintln(stderr, "load config failed:", err)
			return 2
		}
	}
	cfg, opts := c.config(cf)
	lg := c.logger(cf, stderr)
	cfg.Logger = lg

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, bench.ErrPayloadTooLarge) {
			fmt.Fprintf(stdout, "Please specify packet size equal or smaller than %d bytes.\n", bench.MaxLength)
			return 0
		}
		fmt.Fprintln(stderr, err)
		c.fs.Usage()
		return 2
	}

	sinks, err := result.Open(ctx, opts)
	if err != nil {
		lg.Println("open result sinks failed:", err)
		return 1
	}
	defer sinks.Close()

	report, err := bench.Run(ctx, cfg)
	if err != nil {
		lg.Println("run failed:", err)
		return 1
	}
	if err = report.Render(stdout); err != nil {
		lg.Println("print report failed:", err)
		return 1
	}
	if err = sinks.Publish(ctx, result.FromReport(report, time.Now())); err != nil {
		lg.Println("publish result failed:", err)
	}
	return 0
}
