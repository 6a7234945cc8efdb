// Package services orchestrates ledger mutations: validate, write to the
// store, then announce the change. Event publishing is best effort; a
// failed publish never fails the mutation, because the store is
// authoritative and consumers re-read it anyway.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/currency"
	"moneta/internal/storage"
)

type LedgerService struct {
	store  Store
	events EventPublisher // nil disables change events
	vocab  core.Vocabulary
	table  currency.Table
}

func NewLedgerService(store Store, events EventPublisher, vocab core.Vocabulary, table currency.Table) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
		vocab:  vocab,
		table:  table,
	}
}

// Vocabulary returns the category vocabulary mutations are validated against.
func (s *LedgerService) Vocabulary() core.Vocabulary { return s.vocab }

// CurrencyTable returns the currency table mutations are validated against.
func (s *LedgerService) CurrencyTable() currency.Table { return s.table }

// ---- transactions ----

func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	// Omitted date means "now", matching form submission behavior
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	if err := s.validateTransaction(t); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.EntityTransaction, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *LedgerService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *LedgerService) TransactionsInRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	return s.store.ListTransactionsByRange(ctx, start, end)
}

// UpdateTransaction applies a partial update. The patched record must
// still validate as a whole.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, patch storage.TransactionPatch) (core.Transaction, error) {
	current, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.validateTransaction(patch.Apply(current)); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.store.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publish(ctx, amqp.EntityTransaction, id, amqp.ActionUpdated)
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityTransaction, id, amqp.ActionDeleted)
	return nil
}

// ---- budgets ----

func (s *LedgerService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateBudget) {
			return core.Budget{}, err
		}
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}

	s.publish(ctx, amqp.EntityBudget, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *LedgerService) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

func (s *LedgerService) Budgets(ctx context.Context) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx)
}

func (s *LedgerService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	updated, err := s.store.UpdateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}

	s.publish(ctx, amqp.EntityBudget, b.ID, amqp.ActionUpdated)
	return updated, nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, id int64) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityBudget, id, amqp.ActionDeleted)
	return nil
}

// Close closes the store and leaves the publisher to its owner.
func (s *LedgerService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *LedgerService) validateTransaction(t core.Transaction) error {
	if err := t.Validate(s.vocab); err != nil {
		return err
	}
	if !s.table.Has(t.Currency) {
		return fmt.Errorf("currency %q: %w", t.Currency, currency.ErrUnknownCurrency)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, entity string, id int64, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, amqp.NewEvent(entity, id, action)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity,
			"id", id,
			"action", action,
			"error", err)
	}
}
