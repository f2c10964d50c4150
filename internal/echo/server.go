// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package echo

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"golang.org/x/net/netutil"

	"github.com/hidu/tool/echo-bench/internal"
)

// BufferSize is the per-connection read buffer.
const BufferSize = 4096

// ReplyLength maps a request length to the length written back.
// 24 and 1048 are swapped, anything else is mirrored.
func ReplyLength(n int) int {
	switch n {
	case 24:
		return 1048
	case 1048:
		return 24
	default:
		return n
	}
}

// Server mirrors every read back to the peer.
type Server struct {
	// MaxConn limits concurrent connections, 0 is unlimited.
	MaxConn int
	Logger  *log.Logger

	wg sync.WaitGroup
}

func (s *Server) logger() *log.Logger {
	if s.Logger == nil {
		s.Logger = log.New(os.Stderr, "[echo-server] ", log.LstdFlags)
	}
	return s.Logger
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger().Println("Listening on:", l.Addr().String())
	return s.Serve(ctx, l)
}

// Serve accepts connections from l until ctx is done or l fails.
// Serve closes l and waits for open connections before returning.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	lg := s.logger()
	if s.MaxConn > 0 {
		l = netutil.LimitListener(l, s.MaxConn)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = l.Close()
	})
	defer stop()

	var conns sync.Map
	defer func() {
		conns.Range(func(key, _ any) bool {
			_ = key.(net.Conn).Close()
			return true
		})
		s.wg.Wait()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		internal.SetConnFlags(conn)
		conns.Store(conn, struct{}{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conns.Delete(conn)
			if err := s.handle(conn); err != nil {
				lg.Printf("conn %s: %v\n", conn.RemoteAddr().String(), err)
			}
		}()
	}
}

func (s *Server) handle(conn net.Conn) error {
	defer conn.Close()
	buf := make([]byte, BufferSize)
	for {
		n, err := conn.Read(buf)
		if n == 0 {
			if err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if _, err = conn.Write(buf[:ReplyLength(n)]); err != nil {
			return err
		}
	}
}
