package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Record is a captured log line.
type Record struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// CaptureHandler forwards every record it handles to an inner handler and
// also queues a copy for the app to drain. The queue is bounded: when it is
// full new records are dropped and counted, logging never blocks.
type CaptureHandler struct {
	inner   slog.Handler
	ch      chan Record
	dropped *atomic.Int64
	attrs   []slog.Attr
	group   string
}

// NewCaptureHandler wraps inner with a queue of size buffer and returns the
// receiving side.
func NewCaptureHandler(inner slog.Handler, buffer int) (*CaptureHandler, *CapturedRecords) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Record, buffer)
	dropped := &atomic.Int64{}
	return &CaptureHandler{inner: inner, ch: ch, dropped: dropped},
		&CapturedRecords{ch: ch, dropped: dropped}
}

func (h *CaptureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CaptureHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		rec.Attrs[h.key(a.Key)] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	select {
	case h.ch <- rec:
	default:
		h.dropped.Add(1)
	}
	return h.inner.Handle(ctx, r)
}

func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &clone
}

func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	clone.group = h.key(name)
	return &clone
}

// key prefixes attributes added after WithGroup.
func (h *CaptureHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// CapturedRecords is the receiving side of a CaptureHandler.
type CapturedRecords struct {
	ch      chan Record
	dropped *atomic.Int64
}

// Drain returns every queued record without blocking.
func (c *CapturedRecords) Drain() []Record {
	var out []Record
	for {
		select {
		case r := <-c.ch:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Dropped returns how many records did not fit in the queue.
func (c *CapturedRecords) Dropped() int64 {
	return c.dropped.Load()
}
