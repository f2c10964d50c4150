// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package bench

import (
	"slices"
	"time"

	"github.com/codahale/hdrhistogram"
)

// ReportPercentiles are printed for every connection.
var ReportPercentiles = []float64{10, 50, 95, 99}

// Percentile returns the nearest-rank value at floor(len*p/100) for each field.
// Every field is sorted on its own, so the three values may come from
// different samples. p outside [0,100] and empty input give a zero Sample.
func Percentile(p float64, samples []Sample) Sample {
	if p < 0 || p > 100 || len(samples) == 0 {
		return Sample{}
	}
	idx := int(float64(len(samples)) * p / 100)
	if idx > len(samples)-1 {
		idx = len(samples) - 1
	}
	return Sample{
		Write: nth(samples, idx, func(s Sample) time.Duration { return s.Write }),
		Gap:   nth(samples, idx, func(s Sample) time.Duration { return s.Gap }),
		Read:  nth(samples, idx, func(s Sample) time.Duration { return s.Read }),
	}
}

func nth(samples []Sample, idx int, field func(Sample) time.Duration) time.Duration {
	vs := make([]time.Duration, len(samples))
	for i, s := range samples {
		vs[i] = field(s)
	}
	slices.Sort(vs)
	return vs[idx]
}

// Average is the mean over all three fields of all samples combined.
func Average(samples []Sample) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range samples {
		sum += s.Write + s.Gap + s.Read
	}
	return sum / time.Duration(3*len(samples))
}

// Rates is the throughput of a run over its configured duration.
type Rates struct {
	Requests     float64 // requests per second
	Responses    float64 // responses per second
	SentMbps     float64
	ReceivedMbps float64
}

const bytesPerMegabit = 1024 * 128

// Throughput divides the counters by d, which must be positive.
func Throughput(c Counters, d time.Duration) Rates {
	sec := d.Seconds()
	return Rates{
		Requests:     float64(c.Sent) / sec,
		Responses:    float64(c.Received) / sec,
		SentMbps:     float64(c.SentBytes) / sec / bytesPerMegabit,
		ReceivedMbps: float64(c.ReceivedBytes) / sec / bytesPerMegabit,
	}
}

// LatencyTable is the per-connection latency summary.
type LatencyTable struct {
	Count       int
	Percentiles []Sample // same order as ReportPercentiles
	Average     time.Duration
}

// NewLatencyTable summarizes samples for the ReportPercentiles.
func NewLatencyTable(samples []Sample) LatencyTable {
	lt := LatencyTable{
		Count:   len(samples),
		Average: Average(samples),
	}
	if len(samples) == 0 {
		return lt
	}
	lt.Percentiles = make([]Sample, len(ReportPercentiles))
	for i, p := range ReportPercentiles {
		lt.Percentiles[i] = Percentile(p, samples)
	}
	return lt
}

// Distribution summarizes the round trip time of whole samples across all connections.
type Distribution struct {
	Count int64
	Mean  time.Duration
	P10   time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// round trips above this are clamped, values are recorded in microseconds
const maxRoundTrip = time.Minute

// RoundTrips records the round trip of every sample into one histogram.
func RoundTrips(batches []Batch) Distribution {
	h := hdrhistogram.New(1, int64(maxRoundTrip/time.Microsecond), 3)
	for _, b := range batches {
		for _, s := range b.Samples {
			rt := s.RoundTrip()
			if rt > maxRoundTrip {
				rt = maxRoundTrip
			}
			_ = h.RecordValue(rt.Microseconds())
		}
	}
	if h.TotalCount() == 0 {
		return Distribution{}
	}
	us := func(v int64) time.Duration {
		return time.Duration(v) * time.Microsecond
	}
	return Distribution{
		Count: h.TotalCount(),
		Mean:  time.Duration(h.Mean() * float64(time.Microsecond)),
		P10:   us(h.ValueAtQuantile(10)),
		P50:   us(h.ValueAtQuantile(50)),
		P95:   us(h.ValueAtQuantile(95)),
		P99:   us(h.ValueAtQuantile(99)),
		Max:   us(h.Max()),
	}
}
