// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package internal

import (
	"context"
	"net"
	"time"
)

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// SetConnFlags disables Nagle and enables keepalive on tcp connections,
// other connection types are left untouched.
func SetConnFlags(conn net.Conn) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	_ = tc.SetNoDelay(true)
	_ = tc.SetKeepAlive(true)
	_ = tc.SetKeepAlivePeriod(3 * time.Second)
}

// DialTimeout dials addr with the dialer, giving up after timeout.
// timeout <= 0 means only ctx bounds the attempt.
func DialTimeout(ctx context.Context, d Dialer, addr string, timeout time.Duration) (net.Conn, error) {
	if d == nil {
		d = &net.Dialer{}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	SetConnFlags(conn)
	return conn, nil
}

// ParseDurationDef parses str, returning def when str is empty or not positive.
func ParseDurationDef(str string, def time.Duration) time.Duration {
	dur, _ := time.ParseDuration(str)
	if dur > 0 {
		return dur
	}
	return def
}
