// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package result

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Sink receives the record of a finished run.
type Sink interface {
	Publish(ctx context.Context, rec *Record) error
	Close() error
}

// Sinks publishes to every sink, collecting all failures.
type Sinks []Sink

func (ss Sinks) Publish(ctx context.Context, rec *Record) error {
	var result *multierror.Error
	for _, s := range ss {
		if err := s.Publish(ctx, rec); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (ss Sinks) Close() error {
	var result *multierror.Error
	for _, s := range ss {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Options selects the sinks to open, empty fields are skipped.
type Options struct {
	// Out is a file path for JSON lines, "-" is stdout.
	Out string `toml:"out"`

	// KafkaBrokers is a comma separated broker list.
	KafkaBrokers string `toml:"kafka_brokers"`
	KafkaTopic   string `toml:"kafka_topic"`

	MySQLDSN   string `toml:"mysql_dsn"`
	MySQLTable string `toml:"mysql_table"`
}

// Open opens every configured sink. On error the already opened ones are closed.
func Open(ctx context.Context, opts Options) (Sinks, error) {
	var ss Sinks
	fail := func(err error) (Sinks, error) {
		_ = ss.Close()
		return nil, err
	}
	if opts.Out != "" {
		s, err := NewFileSink(opts.Out)
		if err != nil {
			return fail(err)
		}
		ss = append(ss, s)
	}
	if opts.KafkaBrokers != "" {
		s, err := NewKafkaSink(strings.Split(opts.KafkaBrokers, ","), opts.KafkaTopic)
		if err != nil {
			return fail(err)
		}
		ss = append(ss, s)
	}
	if opts.MySQLDSN != "" {
		s, err := NewMySQLSink(ctx, opts.MySQLDSN, opts.MySQLTable)
		if err != nil {
			return fail(err)
		}
		ss = append(ss, s)
	}
	return ss, nil
}

// WriterSink writes one JSON object per line.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{
		w:   w,
		enc: json.NewEncoder(w),
	}
}

// NewFileSink appends to the file at fp, "-" is stdout.
func NewFileSink(fp string) (*WriterSink, error) {
	if fp == "-" {
		return NewWriterSink(os.Stdout), nil
	}
	f, err := os.OpenFile(fp, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open result file failed: %w", err)
	}
	return NewWriterSink(f), nil
}

func (s *WriterSink) Publish(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(rec)
}

func (s *WriterSink) Close() error {
	if f, ok := s.w.(*os.File); ok && f != os.Stdout {
		return f.Close()
	}
	return nil
}
