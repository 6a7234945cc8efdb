package services

import (
	"context"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/storage"
)

// Ports for the ledger service's collaborators.
type (
	// Store is the durable ledger store owning Transaction and Budget
	// records.
	Store interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, id int64, patch storage.TransactionPatch) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error

		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, id int64) (core.Budget, error)
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id int64) error

		Close() error
	}

	// EventPublisher announces ledger changes to interested consumers.
	EventPublisher interface {
		PublishEvent(ctx context.Context, ev amqp.Event) error
	}
)
