// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hidu/goutils/log_util"

	"github.com/hidu/tool/echo-bench/internal"
	"github.com/hidu/tool/echo-bench/internal/echo"
)

var addr = internal.FlagEnvString(flag.CommandLine, []string{"addr"}, "ES_addr", "127.0.0.1:25000", "server listen address")
var maxConn = internal.FlagEnvInt(flag.CommandLine, []string{"max"}, "ES_max", 0, "max concurrent connections, 0 is unlimited")
var logPath = internal.FlagEnvString(flag.CommandLine, []string{"log"}, "ES_log", "", "log file prefix, default stderr")

func main() {
	flag.Parse()

	lg := log.New(os.Stderr, "[echo-server] ", log.LstdFlags)
	if *logPath != "" {
		if err := log_util.SetLogFile(lg, *logPath, log_util.LOG_TYPE_HOUR); err != nil {
			lg.Println("set log file failed:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &echo.Server{
		MaxConn: *maxConn,
		Logger:  lg,
	}
	if err := s.ListenAndServe(ctx, *addr); err != nil {
		lg.Fatalln("exit:", err)
	}
	lg.Println("exit")
}
