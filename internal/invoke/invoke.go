// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hidu/tool/echo-bench/internal/bench"
	"github.com/hidu/tool/echo-bench/internal/echo"
	"github.com/hidu/tool/echo-bench/internal/result"
)

var ErrHello = errors.New("unable to say hello")

// Args is the event payload.
type Args struct {
	Addr     string `json:"addr"`
	Duration uint64 `json:"duration"` // seconds
	Number   int    `json:"number"`
	Length   int    `json:"length"`
	RWRatio  uint32 `json:"rw_ratio"` // accepted, not used yet
}

// Handler runs one benchmark per event.
type Handler struct {
	ConnectTimeout time.Duration
	IOTimeout      time.Duration
	Logger         *log.Logger

	// Sinks also receive every record, failures are only logged.
	Sinks result.Sinks

	now func() time.Time
}

func (h *Handler) config(args *Args) bench.Config {
	return bench.Config{
		Address:        args.Addr,
		Length:         args.Length,
		Duration:       time.Duration(args.Duration) * time.Second,
		Number:         args.Number,
		ConnectTimeout: h.ConnectTimeout,
		IOTimeout:      h.IOTimeout,
		Logger:         h.Logger,
	}
}

// Run checks the target is reachable, then benchmarks it.
func (h *Handler) Run(ctx context.Context, args *Args) (*result.Record, error) {
	if h.Logger != nil {
		h.Logger.Printf("got args: %+v\n", *args)
	}
	cfg := h.config(args)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ok, err := echo.Hello(ctx, nil, args.Addr, h.connectTimeout())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHello, err)
	}
	if !ok {
		return nil, ErrHello
	}
	report, err := bench.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	rec := result.FromReport(report, now())
	if len(h.Sinks) > 0 {
		if err = h.Sinks.Publish(ctx, rec); err != nil && h.Logger != nil {
			h.Logger.Println("publish result failed:", err)
		}
	}
	return rec, nil
}

func (h *Handler) connectTimeout() time.Duration {
	if h.ConnectTimeout > 0 {
		return h.ConnectTimeout
	}
	return bench.DefaultConnectTimeout
}

// Handle decodes the event, runs it and encodes the record.
func (h *Handler) Handle(ctx context.Context, event []byte) ([]byte, error) {
	args := &Args{}
	if err := json.Unmarshal(event, args); err != nil {
		return nil, fmt.Errorf("decode event failed: %w", err)
	}
	rec, err := h.Run(ctx, args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}
