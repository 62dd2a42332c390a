// Package notify collects transient operator notifications during a request
// and emits them as an htmx HX-Trigger payload so the frontend can render
// toasts without a dedicated response body.
package notify

import (
	"context"
	"encoding/json"
	"sync"
)

// Tone selects the toast styling.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "danger"
	ToneInfo    Tone = "info"
)

// Toast is a single transient notification.
type Toast struct {
	Message string `json:"message"`
	Tone    Tone   `json:"tone"`
}

// Collector accumulates toasts raised while handling one request.
type Collector struct {
	mu     sync.Mutex
	toasts []Toast
}

// Success records a success toast.
func (c *Collector) Success(message string) { c.add(Toast{Message: message, Tone: ToneSuccess}) }

// Error records a failure toast.
func (c *Collector) Error(message string) { c.add(Toast{Message: message, Tone: ToneError}) }

// Info records an informational toast.
func (c *Collector) Info(message string) { c.add(Toast{Message: message, Tone: ToneInfo}) }

func (c *Collector) add(t Toast) {
	if c == nil || t.Message == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, t)
}

// Toasts returns a copy of the collected toasts in raise order.
func (c *Collector) Toasts() []Toast {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.toasts...)
}

// HXTrigger renders the collected toasts as an HX-Trigger header value.
// Returns "" when nothing was collected.
func (c *Collector) HXTrigger() string {
	toasts := c.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	payload, err := json.Marshal(map[string][]Toast{"toast": toasts})
	if err != nil {
		return ""
	}
	return string(payload)
}

type collectorContextKey struct{}

// WithCollector attaches a fresh collector to the context.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorContextKey{}, c), c
}

// FromContext returns the request collector, or a discard collector so
// callers never need a nil check.
func FromContext(ctx context.Context) *Collector {
	if c, ok := ctx.Value(collectorContextKey{}).(*Collector); ok && c != nil {
		return c
	}
	return &Collector{}
}
