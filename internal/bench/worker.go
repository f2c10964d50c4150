// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package bench

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"syscall"
	"time"

	"github.com/beefsack/go-rate"
	"github.com/hidu/go-speed"

	"github.com/hidu/tool/echo-bench/internal"
)

// Worker owns one connection to the target for its whole life.
type Worker struct {
	ID       int
	Addr     string
	Length   int
	Duration time.Duration

	ConnectTimeout time.Duration
	IOTimeout      time.Duration

	// Rate caps requests per second on this connection, 0 is unlimited.
	Rate int

	Dialer internal.Dialer
	Logger *log.Logger

	// Meter is optional and only used for live progress output.
	Meter *speed.Speed
}

// Run measures until the duration elapses or an I/O error occurs,
// then hands its counters and samples to the collectors exactly once.
func (w *Worker) Run(ctx context.Context, counters chan<- Counters, batches chan<- Batch) {
	res := w.measure(ctx)
	w.deliver(ctx, res, counters, batches)
}

func (w *Worker) measure(ctx context.Context) WorkerResult {
	res := WorkerResult{ID: w.ID}

	conn, err := internal.DialTimeout(ctx, w.Dialer, w.Addr, w.ConnectTimeout)
	if err != nil {
		w.logf("connect to %s failed: %v", w.Addr, err)
		return res
	}
	defer conn.Close()
	// unblocks a pending read or write once the run is abandoned
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	var limiter *rate.RateLimiter
	if w.Rate > 0 {
		limiter = rate.New(w.Rate, time.Second)
	}

	out := make([]byte, w.Length)
	in := make([]byte, MaxLength)

	start := time.Now()
	for {
		if limiter != nil {
			limiter.Wait()
		}

		t0 := time.Now()
		w.setDeadline(conn.SetWriteDeadline, t0)
		if _, err = conn.Write(out); err != nil {
			w.logf("write failed: %v", err)
			break
		}
		t1 := time.Now()
		s := Sample{Write: t1.Sub(t0)}
		s.Gap = time.Since(t1)

		n, took, err := w.read(conn, in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				w.logf("closed by peer")
			} else {
				w.logf("read failed: %v", err)
			}
			break
		}
		s.Read = took

		res.Samples = append(res.Samples, s)
		res.Counters.Sent++
		res.Counters.SentBytes += uint64(len(out))
		res.Counters.Received++
		res.Counters.ReceivedBytes += uint64(n)
		if w.Meter != nil {
			w.Meter.Success("request", 1)
			w.Meter.Success("recv_bytes", n)
		}

		if time.Since(start) > w.Duration || ctx.Err() != nil {
			break
		}
	}
	return res
}

// read returns the bytes read and how long the successful read call took.
// A would-block result is retried; the Go poller parks the goroutine
// until the socket is readable, so this never spins.
func (w *Worker) read(conn net.Conn, buf []byte) (int, time.Duration, error) {
	for {
		t2 := time.Now()
		w.setDeadline(conn.SetReadDeadline, t2)
		n, err := conn.Read(buf)
		if err == nil {
			return n, time.Since(t2), nil
		}
		if isWouldBlock(err) {
			continue
		}
		return n, 0, err
	}
}

func (w *Worker) setDeadline(set func(time.Time) error, now time.Time) {
	if w.IOTimeout <= 0 {
		return
	}
	_ = set(now.Add(w.IOTimeout))
}

func isWouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

func (w *Worker) deliver(ctx context.Context, res WorkerResult, counters chan<- Counters, batches chan<- Batch) {
	select {
	case counters <- res.Counters:
	case <-ctx.Done():
		w.logf("send counters failed: %v", ctx.Err())
		return
	}
	select {
	case batches <- Batch{ID: res.ID, Samples: res.Samples}:
	case <-ctx.Done():
		w.logf("send samples failed: %v", ctx.Err())
	}
}

func (w *Worker) logf(format string, args ...any) {
	if w.Logger == nil {
		return
	}
	w.Logger.Printf("worker[%d] "+format+"\n", append([]any{w.ID}, args...)...)
}
