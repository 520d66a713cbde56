package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
)

// DefaultSerializableRetries сколько раз повторяется serializable транзакция
// после ошибки сериализации
const DefaultSerializableRetries = 3

var (
	// ErrBeginTx ошибка начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner умеет начинать транзакции. Реализуется *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции,
// прокидывая транзакцию через контекст (см. dbmetrics.GetExecutor)
type TransactionManager struct {
	db          TxBeginner
	metrics     *metrics.Metrics
	serviceName string
	retries     int
}

// Option настройка TransactionManager
type Option func(*TransactionManager)

// WithMetrics включает запись метрик транзакций
func WithMetrics(m *metrics.Metrics, serviceName string) Option {
	return func(tm *TransactionManager) {
		tm.metrics = m
		tm.serviceName = serviceName
	}
}

// WithRetries задает число повторов serializable транзакции
func WithRetries(n int) Option {
	return func(tm *TransactionManager) {
		if n >= 0 {
			tm.retries = n
		}
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	tm := &TransactionManager{db: db, retries: DefaultSerializableRetries}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (tm *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, "read_committed", fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (tm *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, "read_only", fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При ошибке сериализации (40001) транзакция повторяется целиком;
// если повторы закончились, возвращается исходная ошибка, по которой
// вызывающий код может распознать конфликт через IsSerializationFailure.
func (tm *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt <= tm.retries; attempt++ {
		if attempt > 0 && tm.metrics != nil {
			tm.metrics.DBTransactionRetries.WithLabelValues(tm.serviceName).Inc()
		}

		err = tm.run(ctx, opts, "serializable", fn)
		if !IsSerializationFailure(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (tm *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, isolation string, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов: используем уже открытую транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			tm.observe(isolation, "panic")
			panic(p)
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		tm.observe(isolation, "rollback")
		return err
	}

	if err = tx.Commit(); err != nil {
		tm.observe(isolation, "commit_error")
		// ошибка сериализации может прийти и на COMMIT
		if IsSerializationFailure(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	tm.observe(isolation, "commit")
	return nil
}

func (tm *TransactionManager) observe(isolation, result string) {
	if tm.metrics == nil {
		return
	}
	tm.metrics.DBTransactionsTotal.WithLabelValues(tm.serviceName, isolation, result).Inc()
}

// IsSerializationFailure возвращает true для ошибок PostgreSQL 40001 и 40P01
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// IsUniqueViolation возвращает true для ошибки PostgreSQL 23505
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// IsInvalidTextRepresentation возвращает true для ошибки PostgreSQL 22P02
// (значение не приводится к типу колонки, например не-UUID в колонке uuid)
func IsInvalidTextRepresentation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "22P02"
	}
	return false
}
