// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package bench

import (
	"fmt"
	"time"
)

// Sample is one request/response measurement on a single connection.
type Sample struct {
	Write time.Duration // time spent in the write call
	Gap   time.Duration // write finished -> read issued
	Read  time.Duration // time spent in the read call
}

// RoundTrip is the sum of the three phases of one sample.
func (s Sample) RoundTrip() time.Duration {
	return s.Write + s.Gap + s.Read
}

func (s Sample) String() string {
	return fmt.Sprintf("write=%s gap=%s read=%s", s.Write, s.Gap, s.Read)
}

// Counters holds the request and byte totals of one worker, or of all workers after Merge.
type Counters struct {
	Sent          uint64
	Received      uint64
	SentBytes     uint64
	ReceivedBytes uint64
}

// Add returns the field-wise sum of c and o.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		Sent:          c.Sent + o.Sent,
		Received:      c.Received + o.Received,
		SentBytes:     c.SentBytes + o.SentBytes,
		ReceivedBytes: c.ReceivedBytes + o.ReceivedBytes,
	}
}

// IsZero reports whether nothing was sent or received.
func (c Counters) IsZero() bool {
	return c == Counters{}
}

// Merge sums all counters, the order does not matter.
func Merge(cs ...Counters) Counters {
	var total Counters
	for _, c := range cs {
		total = total.Add(c)
	}
	return total
}

// Batch is the sample sequence of one worker, tagged with the worker id.
type Batch struct {
	ID      int
	Samples []Sample
}

// WorkerResult pairs the counters and samples of one worker.
type WorkerResult struct {
	ID       int
	Counters Counters
	Samples  []Sample
}
