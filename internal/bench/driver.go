// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package bench

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/netip"
	"os"
	"time"

	"github.com/hidu/go-speed"

	"github.com/hidu/tool/echo-bench/internal"
)

// MaxLength is the largest payload a request may carry, and the size of the receive buffer.
const MaxLength = 4096

const (
	DefaultAddress        = "127.0.0.1:25000"
	DefaultLength         = 1024
	DefaultDuration       = 10 * time.Second
	DefaultNumber         = 10
	DefaultConnectTimeout = 5 * time.Second
	DefaultIOTimeout      = 5 * time.Second
	DefaultGrace          = time.Second
)

// capacity of each collection channel
const queueSize = 32

var (
	ErrPayloadTooLarge = fmt.Errorf("please specify packet size equal or smaller than %d bytes", MaxLength)
	ErrInvalidAddress  = errors.New("invalid target address")
)

// Config describes one benchmark run.
type Config struct {
	Address  string
	Length   int
	Duration time.Duration
	Number   int

	ConnectTimeout time.Duration
	IOTimeout      time.Duration

	// Grace is added to the longest expected run time before the driver
	// stops waiting for workers that have not reported.
	Grace time.Duration

	// Rate caps requests per second on each connection, 0 is unlimited.
	Rate int

	// SpeedInterval prints live progress every n seconds, 0 disables it.
	SpeedInterval int

	Dialer internal.Dialer
	Logger *log.Logger
}

// Validate checks the config before any connection is made.
func (c *Config) Validate() error {
	if c.Length > MaxLength {
		return ErrPayloadTooLarge
	}
	if c.Length < 0 {
		return fmt.Errorf("invalid length %d", c.Length)
	}
	if _, err := netip.ParseAddrPort(c.Address); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidAddress, c.Address, err)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("invalid duration %s", c.Duration)
	}
	if c.Number < 0 {
		return fmt.Errorf("invalid connection number %d", c.Number)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr, "[echo-bench] ", log.LstdFlags)
	}
}

// waitLimit bounds how long the driver waits for all workers.
func (c *Config) waitLimit() time.Duration {
	return c.Duration + c.ConnectTimeout + c.IOTimeout + c.Grace
}

func (c *Config) worker(id int, meter *speed.Speed) *Worker {
	return &Worker{
		ID:             id,
		Addr:           c.Address,
		Length:         c.Length,
		Duration:       c.Duration,
		ConnectTimeout: c.ConnectTimeout,
		IOTimeout:      c.IOTimeout,
		Rate:           c.Rate,
		Dialer:         c.Dialer,
		Logger:         c.Logger,
		Meter:          meter,
	}
}

// Run spawns the workers, waits for their results and aggregates them.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var meter *speed.Speed
	if cfg.SpeedInterval > 0 {
		lg := cfg.Logger
		meter = speed.NewSpeed("echo-bench", cfg.SpeedInterval, func(msg string) {
			lg.Println("speed", msg)
		})
	}

	counters := make(chan Counters, queueSize)
	batches := make(chan Batch, queueSize)
	for i := 0; i < cfg.Number; i++ {
		go cfg.worker(i, meter).Run(ctx, counters, batches)
	}

	col := collect(ctx, cfg.Number, counters, batches, cfg.waitLimit())
	cancel()
	if meter != nil {
		meter.Stop()
	}
	if col.missing > 0 {
		cfg.Logger.Printf("%d of %d workers did not report within %s\n", col.missing, cfg.Number, cfg.waitLimit())
	}
	return Aggregate(cfg, col.counters, col.batches, col.missing), nil
}

type collected struct {
	counters []Counters
	batches  []Batch
	missing  int
}

// collect drains n counter messages and n sample batches, or gives up after limit.
func collect(ctx context.Context, n int, counters <-chan Counters, batches <-chan Batch, limit time.Duration) collected {
	col := collected{
		counters: make([]Counters, 0, n),
		batches:  make([]Batch, 0, n),
	}
	tm := time.NewTimer(limit)
	defer tm.Stop()
	for len(col.counters) < n || len(col.batches) < n {
		select {
		case c := <-counters:
			col.counters = append(col.counters, c)
		case b := <-batches:
			col.batches = append(col.batches, b)
		case <-tm.C:
			col.missing = n - len(col.batches)
			return col
		case <-ctx.Done():
			col.missing = n - len(col.batches)
			return col
		}
	}
	return col
}
