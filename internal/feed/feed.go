// Package feed abstracts "current snapshot + on-change notification" over
// the two ways the ledger is observed: a live variant driven by AMQP
// change events, and a pull variant that fires one notification per
// explicit refresh. Consumers treat both identically: wait on Changes,
// then re-read Snapshot.
package feed

import (
	"context"
	"log/slog"

	"moneta/internal/amqp"
	"moneta/internal/core"
)

// Lister supplies the authoritative transaction snapshot.
type Lister interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// Consumer delivers ledger change events until its context ends.
type Consumer interface {
	ConsumeEvents(ctx context.Context, handler func(*amqp.Event) error) error
}

// Feed is a read-only view of the ledger with change notifications.
// Notifications carry no payload; the snapshot is always re-read in full.
type Feed interface {
	Snapshot(ctx context.Context) ([]core.Transaction, error)
	Changes() <-chan struct{}
}

// notifier coalesces signals into a buffered channel: a notification that
// arrives while one is already pending is dropped, since consumers re-read
// the full snapshot either way.
type notifier struct {
	ch chan struct{}
}

func newNotifier() notifier {
	return notifier{ch: make(chan struct{}, 1)}
}

func (n notifier) signal() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// PullFeed is the non-live variant: Refresh fires exactly one
// notification, typically from a poll ticker or after an explicit fetch.
type PullFeed struct {
	lister Lister
	notifier
}

func NewPull(lister Lister) *PullFeed {
	return &PullFeed{lister: lister, notifier: newNotifier()}
}

func (f *PullFeed) Snapshot(ctx context.Context) ([]core.Transaction, error) {
	return f.lister.ListTransactions(ctx)
}

func (f *PullFeed) Changes() <-chan struct{} { return f.ch }

// Refresh notifies consumers that the snapshot should be re-read.
func (f *PullFeed) Refresh() { f.signal() }

// LiveFeed is the push variant: every consumed ledger event becomes a
// change notification.
type LiveFeed struct {
	lister   Lister
	consumer Consumer
	notifier
}

func NewLive(lister Lister, consumer Consumer) *LiveFeed {
	return &LiveFeed{lister: lister, consumer: consumer, notifier: newNotifier()}
}

func (f *LiveFeed) Snapshot(ctx context.Context) ([]core.Transaction, error) {
	return f.lister.ListTransactions(ctx)
}

func (f *LiveFeed) Changes() <-chan struct{} { return f.ch }

// Run consumes change events until ctx ends. It returns the consumer's
// error, context.Canceled included.
func (f *LiveFeed) Run(ctx context.Context) error {
	return f.consumer.ConsumeEvents(ctx, func(ev *amqp.Event) error {
		slog.DebugContext(ctx, "Ledger change received",
			"entity", ev.Entity,
			"id", ev.ID,
			"action", ev.Action)
		f.signal()
		return nil
	})
}
