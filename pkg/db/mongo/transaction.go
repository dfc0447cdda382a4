package mongo

import (
	"context"
	"fmt"
	"time"

	apperrors "buffet/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TransactionFunc runs inside a session; every collection call must use sessCtx.
type TransactionFunc func(sessCtx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client  *mongo.Client
	opts    *options.TransactionOptions
	timeout time.Duration
}

// NewTransactionManager returns a manager whose transactions commit with
// majority write concern so a booking and its draft update are seen together.
func NewTransactionManager(client *mongo.Client, timeout time.Duration) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		opts: options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()),
		timeout: timeout,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, m.opts)
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	default:
		return fmt.Errorf("booking transaction: %w", err)
	}
}
