// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"golang.org/x/net/nettest"

	"github.com/hidu/tool/echo-bench/internal/bench"
	"github.com/hidu/tool/echo-bench/internal/echo"
	"github.com/hidu/tool/echo-bench/internal/result"
)

var discard = log.New(io.Discard, "", 0)

type memSink struct {
	got []*result.Record
}

func (m *memSink) Publish(_ context.Context, rec *result.Record) error {
	m.got = append(m.got, rec)
	return nil
}

func (m *memSink) Close() error {
	return nil
}

func echoTarget(t *testing.T) string {
	t.Helper()
	l, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = (&echo.Server{Logger: discard}).Serve(ctx, l)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l.Addr().String()
}

func TestHandle(t *testing.T) {
	sink := &memSink{}
	h := &Handler{
		Logger: discard,
		Sinks:  result.Sinks{sink},
		now: func() time.Time {
			return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
		},
	}
	event := fmt.Sprintf(`{"addr":%q,"duration":1,"number":2,"length":1024,"rw_ratio":100}`, echoTarget(t))

	out, err := h.Handle(context.Background(), []byte(event))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err = json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"iops", "req_num", "p10", "p50", "p95", "p99"} {
		if _, ok := got[key]; !ok {
			t.Errorf("result has no %q: %s", key, out)
		}
	}
	if n, _ := got["req_num"].(float64); n <= 0 {
		t.Errorf("req_num = %v", got["req_num"])
	}
	if len(sink.got) != 1 {
		t.Fatalf("sink got %d records", len(sink.got))
	}
}

func TestHandleUnreachable(t *testing.T) {
	l, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	h := &Handler{Logger: discard, ConnectTimeout: time.Second}
	event := fmt.Sprintf(`{"addr":%q,"duration":1,"number":1,"length":1024}`, addr)
	if _, err = h.Handle(context.Background(), []byte(event)); !errors.Is(err, ErrHello) {
		t.Fatalf("Handle() = %v, want %v", err, ErrHello)
	}
}

func TestHandleBadEvent(t *testing.T) {
	h := &Handler{Logger: discard}
	if _, err := h.Handle(context.Background(), []byte(`{"addr":`)); err == nil {
		t.Fatal("Handle() of broken json = nil")
	}
	event := `{"addr":"127.0.0.1:25000","duration":1,"number":1,"length":5000}`
	if _, err := h.Handle(context.Background(), []byte(event)); !errors.Is(err, bench.ErrPayloadTooLarge) {
		t.Fatalf("Handle() = %v, want %v", err, bench.ErrPayloadTooLarge)
	}
}
