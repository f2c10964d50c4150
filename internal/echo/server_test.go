// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package echo

import (
	"context"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"golang.org/x/net/nettest"
)

func TestReplyLength(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 1, want: 1},
		{in: 24, want: 1048},
		{in: 1048, want: 24},
		{in: 1024, want: 1024},
		{in: 4096, want: 4096},
	}
	for _, tt := range tests {
		if got := ReplyLength(tt.in); got != tt.want {
			t.Errorf("ReplyLength(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func startServer(t *testing.T, s *Server) (string, func()) {
	t.Helper()
	l, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatal(err)
	}
	if s.Logger == nil {
		s.Logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, l)
	}()
	return l.Addr().String(), func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() = %v", err)
			}
		case <-time.After(3 * time.Second):
			t.Error("Serve did not return after cancel")
		}
	}
}

func TestServerEcho(t *testing.T) {
	addr, stop := startServer(t, &Server{})
	defer stop()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(3 * time.Second))

	tests := []struct {
		send int
		want int
	}{
		{send: 10, want: 10},
		{send: 24, want: 1048},
		{send: 1048, want: 24},
		{send: 100, want: 100},
	}
	for _, tt := range tests {
		if _, err := conn.Write(make([]byte, tt.send)); err != nil {
			t.Fatalf("write %d: %v", tt.send, err)
		}
		got := make([]byte, tt.want)
		if _, err := io.ReadFull(conn, got); err != nil {
			t.Fatalf("read reply of %d: %v", tt.send, err)
		}
	}
}

func TestServerMaxConn(t *testing.T) {
	addr, stop := startServer(t, &Server{MaxConn: 1})
	defer stop()

	c1, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c1.Close()
	_ = c1.SetDeadline(time.Now().Add(3 * time.Second))
	if _, err = c1.Write([]byte("ping")); err != nil {
		t.Fatal(err)
	}
	if _, err = io.ReadFull(c1, make([]byte, 4)); err != nil {
		t.Fatal(err)
	}

	// the second connection is queued by the kernel but not served
	c2, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()
	_, _ = c2.Write([]byte("ping"))
	_ = c2.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, err = c2.Read(make([]byte, 4)); err == nil {
		t.Fatal("second connection was served beyond MaxConn")
	}

	// closing the first frees the slot
	_ = c1.Close()
	_ = c2.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, err = io.ReadFull(c2, make([]byte, 4)); err != nil {
		t.Fatalf("second connection after slot freed: %v", err)
	}
}

func TestHello(t *testing.T) {
	addr, stop := startServer(t, &Server{})
	defer stop()

	ok, err := Hello(context.Background(), nil, addr, time.Second)
	if err != nil || !ok {
		t.Fatalf("Hello() = %v, %v", ok, err)
	}
}

func TestHelloUnreachable(t *testing.T) {
	l, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	ok, err := Hello(context.Background(), nil, addr, time.Second)
	if err == nil || ok {
		t.Fatalf("Hello() on closed port = %v, %v", ok, err)
	}
}
