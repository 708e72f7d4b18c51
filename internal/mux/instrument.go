package mux

import (
	"context"

	"github.com/timvw/workmux/internal/otel"
)

// WithMetrics wraps a backend so that every control command is counted.
// Soft operations count as commands but never as errors; hard operations
// count their returned error. A nil Metrics returns the backend unchanged.
func WithMetrics(b Backend, m *otel.Metrics) Backend {
	if m == nil {
		return b
	}
	return &instrumented{b: b, m: m}
}

type instrumented struct {
	b Backend
	m *otel.Metrics
}

func (i *instrumented) Kind() Kind { return i.b.Kind() }

func (i *instrumented) IsRunning(ctx context.Context) bool {
	ok := i.b.IsRunning(ctx)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "is-running", nil)
	return ok
}

func (i *instrumented) CurrentPaneID(ctx context.Context) (string, bool) {
	paneID, ok := i.b.CurrentPaneID(ctx)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "current-pane", nil)
	return paneID, ok
}

func (i *instrumented) CreateWindow(ctx context.Context, req WindowRequest) (string, error) {
	paneID, err := i.b.CreateWindow(ctx, req)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "create-window", err)
	return paneID, err
}

func (i *instrumented) SendKeys(ctx context.Context, paneID, text string) error {
	err := i.b.SendKeys(ctx, paneID, text)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "send-keys", err)
	return err
}

func (i *instrumented) CapturePane(ctx context.Context, paneID string, maxLines int) (string, bool) {
	content, ok := i.b.CapturePane(ctx, paneID, maxLines)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "capture-pane", nil)
	return content, ok
}

func (i *instrumented) WindowExists(ctx context.Context, prefix, name string) bool {
	ok := i.b.WindowExists(ctx, prefix, name)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "window-exists", nil)
	return ok
}

func (i *instrumented) SelectWindow(ctx context.Context, prefix, name string) error {
	err := i.b.SelectWindow(ctx, prefix, name)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "select-window", err)
	return err
}

func (i *instrumented) KillWindow(ctx context.Context, fullName string) error {
	err := i.b.KillWindow(ctx, fullName)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "kill-window", err)
	return err
}

func (i *instrumented) SetStatus(ctx context.Context, paneID, text string, tab bool) error {
	err := i.b.SetStatus(ctx, paneID, text, tab)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "set-status", err)
	return err
}

func (i *instrumented) ClearStatus(ctx context.Context, paneID string) error {
	err := i.b.ClearStatus(ctx, paneID)
	i.m.RecordCommand(ctx, i.b.Kind().String(), "clear-status", err)
	return err
}
