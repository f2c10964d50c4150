// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package result

import (
	"encoding/json"
	"time"

	"github.com/hidu/tool/echo-bench/internal/bench"
)

// Record is the machine readable summary of one run.
// Latency percentiles are round trip milliseconds across all connections.
type Record struct {
	Addr     string `json:"addr"`
	Duration uint64 `json:"duration"`
	Number   int    `json:"number"`
	Length   int    `json:"length"`

	IOPS   uint64  `json:"iops"`
	ReqNum uint64  `json:"req_num"`
	P10    float64 `json:"p10"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`

	SentBytes     uint64 `json:"sent_bytes"`
	ReceivedBytes uint64 `json:"received_bytes"`
	Mismatch      bool   `json:"mismatch"`

	Time time.Time `json:"time"`
}

// FromReport builds the record of r, stamped with now.
func FromReport(r *bench.Report, now time.Time) *Record {
	rt := r.RoundTrip
	return &Record{
		Addr:          r.Address,
		Duration:      uint64(r.Duration.Seconds()),
		Number:        r.Number,
		Length:        r.Length,
		IOPS:          uint64(r.Rates.Requests),
		ReqNum:        r.Counters.Sent,
		P10:           ms(rt.P10),
		P50:           ms(rt.P50),
		P95:           ms(rt.P95),
		P99:           ms(rt.P99),
		SentBytes:     r.Counters.SentBytes,
		ReceivedBytes: r.Counters.ReceivedBytes,
		Mismatch:      r.Mismatch(),
		Time:          now,
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (r *Record) String() string {
	bf, _ := json.Marshal(r)
	return string(bf)
}
