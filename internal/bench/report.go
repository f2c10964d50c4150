// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package bench

import (
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxReportWorkers bounds how many connections get a latency table in the output.
const maxReportWorkers = 10

// Report is the read-only result of one run.
type Report struct {
	Address  string
	Length   int
	Duration time.Duration
	Number   int

	Counters Counters
	Rates    Rates

	// Latency is keyed by worker id.
	Latency   map[int]LatencyTable
	RoundTrip Distribution

	// Missing is the number of workers that did not report in time.
	Missing int
}

// Aggregate merges the collected worker results.
func Aggregate(cfg Config, counters []Counters, batches []Batch, missing int) *Report {
	merged := Merge(counters...)
	r := &Report{
		Address:   cfg.Address,
		Length:    cfg.Length,
		Duration:  cfg.Duration,
		Number:    cfg.Number,
		Counters:  merged,
		Rates:     Throughput(merged, cfg.Duration),
		Latency:   make(map[int]LatencyTable, len(batches)),
		RoundTrip: RoundTrips(batches),
		Missing:   missing,
	}
	for _, b := range batches {
		r.Latency[b.ID] = NewLatencyTable(b.Samples)
	}
	return r
}

// Mismatch reports whether requests and responses per second differ.
func (r *Report) Mismatch() bool {
	return r.Rates.Requests != r.Rates.Responses
}

// WorkerIDs returns the ids that have a latency table, ascending.
func (r *Report) WorkerIDs() []int {
	ids := make([]int, 0, len(r.Latency))
	for id := range r.Latency {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

var warn = color.New(color.FgYellow, color.Bold)

// Render writes the human-readable report.
func (r *Report) Render(w io.Writer) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	p.Fprintf(ew, "Benchmarking: %s\n", r.Address)
	p.Fprintf(ew, "%d streams, running %d bytes for %d sec.\n\n", r.Number, r.Length, int64(r.Duration.Seconds()))

	p.Fprintf(ew, "Requests: %d Responses: %d\n", r.Counters.Sent, r.Counters.Received)
	if r.Mismatch() {
		warn.Fprint(ew, p.Sprintf("Mismatch: %.2f requests/sec, %.2f responses/sec\n", r.Rates.Requests, r.Rates.Responses))
	} else {
		p.Fprintf(ew, "Speed: %.2f requests/sec, %.2f Mbps\n", r.Rates.Requests, r.Rates.SentMbps)
	}
	p.Fprintf(ew, "Sent: %d bytes, %.2f Mbps\n", r.Counters.SentBytes, r.Rates.SentMbps)
	p.Fprintf(ew, "Received: %d bytes, %.2f Mbps\n", r.Counters.ReceivedBytes, r.Rates.ReceivedMbps)
	if r.Missing > 0 {
		warn.Fprint(ew, p.Sprintf("Missing: %d workers did not report\n", r.Missing))
	}

	ids := r.WorkerIDs()
	if len(ids) == 0 {
		return ew.err
	}
	shown := ids
	if len(shown) > maxReportWorkers {
		shown = shown[:maxReportWorkers]
	}
	p.Fprintf(ew, "\nLatency (first %d of %d connections):\n", len(shown), len(ids))
	for _, id := range shown {
		lt := r.Latency[id]
		p.Fprintf(ew, "[conn %d] samples=%d\n", id, lt.Count)
		if lt.Count == 0 {
			continue
		}
		for i, pc := range ReportPercentiles {
			s := lt.Percentiles[i]
			p.Fprintf(ew, "  p%-3v write=%s gap=%s read=%s\n", pc, s.Write.String(), s.Gap.String(), s.Read.String())
		}
		p.Fprintf(ew, "  avg  %s\n", lt.Average.String())
	}

	rt := r.RoundTrip
	if rt.Count > 0 {
		p.Fprintf(ew, "\nRound trip (all connections): samples=%d mean=%s p10=%s p50=%s p95=%s p99=%s max=%s\n",
			rt.Count, rt.Mean.String(), rt.P10.String(), rt.P50.String(), rt.P95.String(), rt.P99.String(), rt.Max.String())
	}
	return ew.err
}

// errWriter keeps the first write error so Render can check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}
