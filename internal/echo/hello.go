// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package echo

import (
	"context"
	"time"

	"github.com/hidu/tool/echo-bench/internal"
)

var helloMsg = []byte("hello world\n")

// Hello dials addr and writes a greeting, reporting whether the write went through.
// It checks reachability only, no reply is read.
func Hello(ctx context.Context, d internal.Dialer, addr string, timeout time.Duration) (bool, error) {
	conn, err := internal.DialTimeout(ctx, d, addr, timeout)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	if timeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	_, err = conn.Write(helloMsg)
	return err == nil, nil
}
