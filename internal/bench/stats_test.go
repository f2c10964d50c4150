// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package bench

import (
	"math/rand"
	"testing"
	"time"
)

func TestPercentileMedian(t *testing.T) {
	samples := []Sample{
		{Write: 10 * time.Millisecond},
		{Write: 20 * time.Millisecond},
		{Write: 30 * time.Millisecond},
	}
	got := Percentile(50, samples)
	want := Sample{Write: 20 * time.Millisecond}
	if got != want {
		t.Fatalf("Percentile(50) = %v, want %v", got, want)
	}
}

func TestPercentileFieldsIndependent(t *testing.T) {
	samples := []Sample{
		{Write: 3, Gap: 1, Read: 2},
		{Write: 1, Gap: 2, Read: 3},
		{Write: 2, Gap: 3, Read: 1},
	}
	got := Percentile(0, samples)
	if want := (Sample{Write: 1, Gap: 1, Read: 1}); got != want {
		t.Fatalf("Percentile(0) = %v, want %v", got, want)
	}
	got = Percentile(99, samples)
	if want := (Sample{Write: 3, Gap: 3, Read: 3}); got != want {
		t.Fatalf("Percentile(99) = %v, want %v", got, want)
	}
}

func TestPercentileBounds(t *testing.T) {
	one := []Sample{{Write: 7, Gap: 8, Read: 9}}
	tests := []struct {
		name    string
		p       float64
		samples []Sample
		want    Sample
	}{
		{name: "p0 single", p: 0, samples: one, want: one[0]},
		{name: "p100 single", p: 100, samples: one, want: one[0]},
		{name: "p100 last", p: 100, samples: []Sample{{Read: 1}, {Read: 5}}, want: Sample{Read: 5}},
		{name: "over 100", p: 101, samples: one, want: Sample{}},
		{name: "negative", p: -1, samples: one, want: Sample{}},
		{name: "empty", p: 50, samples: nil, want: Sample{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.p, tt.samples); got != tt.want {
				t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPercentileMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for round := 0; round < 50; round++ {
		samples := make([]Sample, 1+r.Intn(500))
		for i := range samples {
			samples[i] = Sample{
				Write: time.Duration(r.Int63n(int64(time.Millisecond))),
				Gap:   time.Duration(r.Int63n(1000)),
				Read:  time.Duration(r.Int63n(int64(10 * time.Millisecond))),
			}
		}
		var last Sample
		for i, p := range ReportPercentiles {
			cur := Percentile(p, samples)
			if i > 0 && (cur.Write < last.Write || cur.Gap < last.Gap || cur.Read < last.Read) {
				t.Fatalf("round %d: p%v=%v below previous %v", round, p, cur, last)
			}
			last = cur
		}
	}
}

func TestPercentileKeepsInput(t *testing.T) {
	samples := []Sample{{Write: 3}, {Write: 1}, {Write: 2}}
	_ = Percentile(50, samples)
	if samples[0].Write != 3 || samples[1].Write != 1 || samples[2].Write != 2 {
		t.Fatalf("input reordered: %v", samples)
	}
}

func TestAverage(t *testing.T) {
	samples := []Sample{
		{Write: 3 * time.Millisecond, Gap: 0, Read: 6 * time.Millisecond},
		{Write: 1 * time.Millisecond, Gap: 2 * time.Millisecond, Read: 0},
	}
	if got, want := Average(samples), 2*time.Millisecond; got != want {
		t.Fatalf("Average() = %s, want %s", got, want)
	}
	if got := Average(nil); got != 0 {
		t.Fatalf("Average(nil) = %s", got)
	}
}

func TestMerge(t *testing.T) {
	a := Counters{Sent: 1, Received: 2, SentBytes: 3, ReceivedBytes: 4}
	b := Counters{Sent: 10, Received: 20, SentBytes: 30, ReceivedBytes: 40}
	want := Counters{Sent: 11, Received: 22, SentBytes: 33, ReceivedBytes: 44}
	if got := Merge(a, b); got != want {
		t.Fatalf("Merge() = %+v, want %+v", got, want)
	}
	if got := Merge(b, a); got != want {
		t.Fatalf("Merge() reversed = %+v, want %+v", got, want)
	}
	if !Merge().IsZero() {
		t.Fatal("Merge() of nothing is not zero")
	}
}

func TestThroughput(t *testing.T) {
	c := Counters{
		Sent:          200,
		Received:      100,
		SentBytes:     2 * 131072,
		ReceivedBytes: 131072,
	}
	got := Throughput(c, 2*time.Second)
	want := Rates{Requests: 100, Responses: 50, SentMbps: 1, ReceivedMbps: 0.5}
	if got != want {
		t.Fatalf("Throughput() = %+v, want %+v", got, want)
	}
}

func TestRoundTrips(t *testing.T) {
	if got := RoundTrips(nil); got.Count != 0 {
		t.Fatalf("RoundTrips(nil).Count = %d", got.Count)
	}
	var samples []Sample
	for i := 1; i <= 100; i++ {
		samples = append(samples, Sample{Write: time.Duration(i) * time.Millisecond})
	}
	got := RoundTrips([]Batch{{ID: 0, Samples: samples[:50]}, {ID: 1, Samples: samples[50:]}})
	if got.Count != 100 {
		t.Fatalf("Count = %d, want 100", got.Count)
	}
	if got.P10 > got.P50 || got.P50 > got.P95 || got.P95 > got.P99 || got.P99 > got.Max {
		t.Fatalf("not monotonic: %+v", got)
	}
	if d := got.Max - 100*time.Millisecond; d < -time.Millisecond || d > time.Millisecond {
		t.Fatalf("Max = %s, want about 100ms", got.Max)
	}
}

func TestNewLatencyTable(t *testing.T) {
	lt := NewLatencyTable(nil)
	if lt.Count != 0 || lt.Percentiles != nil {
		t.Fatalf("empty table = %+v", lt)
	}
	lt = NewLatencyTable([]Sample{{Read: 1}, {Read: 2}, {Read: 3}, {Read: 4}})
	if lt.Count != 4 || len(lt.Percentiles) != len(ReportPercentiles) {
		t.Fatalf("table = %+v", lt)
	}
}
