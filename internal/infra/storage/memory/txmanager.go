package memory

import "context"

type journalKey struct{}

type journal struct {
	counted  []string
	inserted []string
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

// TxManager выполняет функцию без изоляции: конкурирующие вызовы
// пересекаются так же, как check-then-insert без блокировок.
// При ошибке изменения функции откатываются.
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций поверх store
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn
func (tm *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, fn)
}

// DoSerializable выполняет fn (без реальной сериализации)
func (tm *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, fn)
}

// DoReadOnly выполняет fn
func (tm *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, fn)
}

func (tm *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}

	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		tm.store.rollback(j)
		return err
	}
	return nil
}
