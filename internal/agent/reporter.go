// Package agent ties the multiplexer backend and the durable registry
// together for status reporting.
//
// A status change always lands in the registry; the visual indicator on
// the pane is best-effort and never fails the update.
package agent

import (
	"context"
	"fmt"

	"github.com/timvw/workmux/internal/config"
	"github.com/timvw/workmux/internal/mux"
	"github.com/timvw/workmux/internal/otel"
	"github.com/timvw/workmux/internal/state"
)

// Environment describes the multiplexer environment of the calling process.
type Environment struct {
	Kind      mux.Kind
	IsRunning bool
	PaneID    string // empty when not inside a pane
}

// Reporter publishes agent status for the calling process's pane.
type Reporter struct {
	Backend mux.Backend
	Store   *state.Store

	// Metrics is optional; a nil Metrics records nothing.
	Metrics *otel.Metrics

	// Tab also mirrors the status icon onto the containing window or tab
	// title, not just the pane.
	Tab bool

	// resolveIcon is swappable in tests; defaults to the fresh-loading
	// config lookup.
	resolveIcon func(state.Status) (string, error)
}

// NewReporter creates a Reporter over the given backend and store.
func NewReporter(backend mux.Backend, store *state.Store) *Reporter {
	return &Reporter{
		Backend:     backend,
		Store:       store,
		resolveIcon: config.StatusIcon,
	}
}

// Environment returns the detected backend kind, server liveness, and the
// caller's pane, all soft queries.
func (r *Reporter) Environment(ctx context.Context) Environment {
	env := Environment{Kind: r.Backend.Kind()}
	env.IsRunning = r.Backend.IsRunning(ctx)
	if paneID, ok := r.Backend.CurrentPaneID(ctx); ok {
		env.PaneID = paneID
	}
	return env
}

// currentKey resolves the registry key for the caller's pane.
func (r *Reporter) currentKey(ctx context.Context) (state.Key, error) {
	paneID, ok := r.Backend.CurrentPaneID(ctx)
	if !ok {
		return state.Key{}, mux.ErrNotInPane
	}
	return state.Key{Backend: r.Backend.Kind().String(), PaneID: paneID}, nil
}

// SetStatus records the agent status for the caller's pane. The registry
// update is mandatory; rendering the status icon onto the pane is skipped
// silently when the icon table cannot be loaded or the backend rejects the
// render.
func (r *Reporter) SetStatus(ctx context.Context, status state.Status, title *string) (state.Agent, error) {
	key, err := r.currentKey(ctx)
	if err != nil {
		return state.Agent{}, err
	}

	rec, err := r.Store.Upsert(key, state.Update{Status: &status, Title: title})
	if err != nil {
		return state.Agent{}, fmt.Errorf("persist agent status: %w", err)
	}
	r.Metrics.RecordUpsert(ctx)
	r.Metrics.RecordStatusUpdate(ctx, status.String())

	icon := r.icon(status)
	if icon != "" {
		if err := r.Backend.SetStatus(ctx, key.PaneID, icon, r.Tab); err != nil {
			r.Metrics.RecordIndicatorFailure(ctx, r.Backend.Kind().String())
		}
	}
	return rec, nil
}

// ClearStatus removes the visual indicator from the caller's pane. The
// registry record is left in place for the dashboard.
func (r *Reporter) ClearStatus(ctx context.Context) error {
	key, err := r.currentKey(ctx)
	if err != nil {
		return err
	}
	return r.Backend.ClearStatus(ctx, key.PaneID)
}

// icon resolves the display glyph for a status, empty when the lookup
// fails (the caller then skips the visual update).
func (r *Reporter) icon(status state.Status) string {
	resolve := r.resolveIcon
	if resolve == nil {
		resolve = config.StatusIcon
	}
	glyph, err := resolve(status)
	if err != nil {
		return ""
	}
	return glyph
}
