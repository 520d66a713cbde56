package customer

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

// Repository счетчики бронирований клиентов (по e-mail)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетчиков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextServiceCount атомарно увеличивает счетчик клиента и возвращает новое значение.
// Первое бронирование клиента получает 1.
// Вызывается внутри транзакции создания бронирования: при откате счетчик не меняется.
func (r *Repository) NextServiceCount(ctx context.Context, email string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customer_counters").
		Columns("email", "total").
		Values(domain.NormalizeEmail(email), 1).
		Suffix("ON CONFLICT (email) DO UPDATE SET total = customer_counters.total + 1, updated_at = NOW() RETURNING total").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: NextServiceCount - build upsert query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: NextServiceCount - execute upsert: %w", ErrExecQuery, err)
	}

	return total, nil
}

// GetServiceCount возвращает текущее значение счетчика (0 для нового клиента)
func (r *Repository) GetServiceCount(ctx context.Context, email string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(MAX(total), 0)").
		From("customer_counters").
		Where(squirrel.Eq{"email": domain.NormalizeEmail(email)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetServiceCount - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: GetServiceCount - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}
