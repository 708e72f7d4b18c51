package mux

import (
	"context"
	"errors"
	"testing"

	"github.com/timvw/workmux/internal/otel"
)

func TestWithMetrics_NilMetricsIsPassthrough(t *testing.T) {
	b := &Tmux{run: failingRunner}
	if got := WithMetrics(b, nil); got != Backend(b) {
		t.Error("expected the original backend back for nil metrics")
	}
}

func TestWithMetrics_DelegatesAndPreservesErrors(t *testing.T) {
	metrics, err := otel.NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	b := WithMetrics(&Tmux{run: failingRunner}, metrics)

	if b.Kind() != KindTmux {
		t.Errorf("Kind = %q, want tmux", b.Kind())
	}
	if b.IsRunning(context.Background()) {
		t.Error("expected not running with failing runner")
	}

	err = b.KillWindow(context.Background(), "swarm-agent1")
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %v, want *OpError", err)
	}
	if opErr.Kind != KindTmux {
		t.Errorf("OpError.Kind = %q, want tmux", opErr.Kind)
	}
}
