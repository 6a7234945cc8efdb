// Package worker keeps the Google Sheets mirror in step with the ledger.
// It waits on a feed's change notifications and re-mirrors the full
// snapshot; errors are logged and the loop keeps going, since the next
// change retries the whole mirror anyway.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/core"
	"moneta/internal/feed"
)

// Mirror receives the full transaction snapshot on every ledger change.
type Mirror interface {
	Mirror(ctx context.Context, txs []core.Transaction) error
}

type MirrorWorker struct {
	feed   feed.Feed
	mirror Mirror
}

func NewMirrorWorker(f feed.Feed, m Mirror) *MirrorWorker {
	return &MirrorWorker{feed: f, mirror: m}
}

// Run mirrors once at startup, then once per change notification, until
// ctx ends.
func (w *MirrorWorker) Run(ctx context.Context) error {
	if err := w.mirrorOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup mirror failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Mirror worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-w.feed.Changes():
			if err := w.mirrorOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Mirror failed", "error", err)
			}
		}
	}
}

func (w *MirrorWorker) mirrorOnce(ctx context.Context) error {
	txs, err := w.feed.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := w.mirror.Mirror(ctx, txs); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	slog.DebugContext(ctx, "Mirror refreshed", "transactions", len(txs))
	return nil
}
