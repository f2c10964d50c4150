// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hidu/tool/echo-bench/internal"
	"github.com/hidu/tool/echo-bench/internal/bench"
	"github.com/hidu/tool/echo-bench/internal/invoke"
	"github.com/hidu/tool/echo-bench/internal/result"
)

var event = flag.String("event", "-", "event json file, '-' is stdin")
var connTimeout = internal.FlagEnvDuration(flag.CommandLine, []string{"ct"}, "EI_ct", bench.DefaultConnectTimeout, "connect timeout")
var ioTimeout = internal.FlagEnvDuration(flag.CommandLine, []string{"io"}, "EI_io", bench.DefaultIOTimeout, "timeout of each read and write")
var out = internal.FlagEnvString(flag.CommandLine, []string{"out"}, "EI_out", "", "also append the result to this file")

func init() {
	ua := flag.Usage
	flag.Usage = func() {
		ua()
		fmt.Println(`
echo '{"addr":"127.0.0.1:25000","duration":10,"number":1,"length":1024,"rw_ratio":100}' | echo-invoke`)
	}
}

func main() {
	flag.Parse()
	lg := log.New(os.Stderr, "[echo-invoke] ", log.LstdFlags)

	data, err := readEvent(*event)
	if err != nil {
		lg.Fatalln("read event failed:", err)
	}

	ctx := context.Background()
	sinks, err := result.Open(ctx, result.Options{Out: *out})
	if err != nil {
		lg.Fatalln(err)
	}
	defer sinks.Close()

	h := &invoke.Handler{
		ConnectTimeout: *connTimeout,
		IOTimeout:      *ioTimeout,
		Logger:         lg,
		Sinks:          sinks,
	}
	ret, err := h.Handle(ctx, data)
	if err != nil {
		lg.Fatalln(err)
	}
	fmt.Println(string(ret))
}

func readEvent(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
