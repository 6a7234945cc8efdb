package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"moneta/internal/core"
	"moneta/internal/feed"
)

type fakeLister struct {
	mu  sync.Mutex
	txs []core.Transaction
}

func (l *fakeLister) ListTransactions(context.Context) ([]core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.txs, nil
}

func (l *fakeLister) set(txs []core.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = txs
}

type fakeMirror struct {
	mu    sync.Mutex
	calls [][]core.Transaction
	err   error
	seen  chan struct{}
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{seen: make(chan struct{}, 16)}
}

func (m *fakeMirror) Mirror(_ context.Context, txs []core.Transaction) error {
	m.mu.Lock()
	m.calls = append(m.calls, txs)
	m.mu.Unlock()
	m.seen <- struct{}{}
	return m.err
}

func (m *fakeMirror) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func waitForMirror(t *testing.T, m *fakeMirror) {
	t.Helper()
	select {
	case <-m.seen:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for mirror call")
	}
}

func TestMirrorWorkerRun(t *testing.T) {
	lister := &fakeLister{txs: []core.Transaction{{ID: 1}}}
	ledgerFeed := feed.NewPull(lister)
	mirror := newFakeMirror()
	w := NewMirrorWorker(ledgerFeed, mirror)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Startup mirror happens before any notification.
	waitForMirror(t, mirror)

	lister.set([]core.Transaction{{ID: 1}, {ID: 2}})
	ledgerFeed.Refresh()
	waitForMirror(t, mirror)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}

	mirror.mu.Lock()
	defer mirror.mu.Unlock()
	if len(mirror.calls) != 2 {
		t.Fatalf("expected 2 mirror calls, got %d", len(mirror.calls))
	}
	if len(mirror.calls[1]) != 2 {
		t.Fatalf("second mirror should carry the refreshed snapshot, got %d transactions", len(mirror.calls[1]))
	}
}

func TestMirrorWorkerSurvivesMirrorErrors(t *testing.T) {
	lister := &fakeLister{}
	ledgerFeed := feed.NewPull(lister)
	mirror := newFakeMirror()
	mirror.err = errors.New("sheet unavailable")
	w := NewMirrorWorker(ledgerFeed, mirror)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitForMirror(t, mirror)
	ledgerFeed.Refresh()
	waitForMirror(t, mirror)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("worker should keep running through mirror errors, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}

	if mirror.callCount() < 2 {
		t.Fatal("worker should retry on the next notification after a failure")
	}
}
