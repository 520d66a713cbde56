package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var bookingColumns = []string{
	"id",
	"booking_date",
	"hour",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service",
	"status",
	"service_count",
	"schema_version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Уникальный индекс (booking_date, hour) - последний арбитр при гонке:
// нарушение индекса возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"booking_date",
			"hour",
			"customer_name",
			"customer_email",
			"customer_phone",
			"service",
			"status",
			"service_count",
			"schema_version",
		).
		Values(
			booking.ID,
			booking.Date,
			booking.Hour,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.Service,
			booking.Status,
			booking.ServiceCount,
			booking.SchemaVersion,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		return nil, translateWriteError("Create", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if !isValidID(id) {
		return nil, ErrBookingNotFound
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку до смены статуса или удаления
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || txmanager.IsInvalidTextRepresentation(err) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// IsSlotTaken проверяет, занят ли слот (дата, час).
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы проверка и вставка
// выполнялись в одном сериализуемом окне.
func (r *Repository) IsSlotTaken(ctx context.Context, date types.DateString, hour types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"booking_date": date, "hour": hour}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsSlotTaken - build select query: %v", ErrBuildQuery, err)
	}

	var id string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translateWriteError("IsSlotTaken", err)
	}

	return true, nil
}

// OccupiedHours возвращает все занятые часы на дату (по возрастанию)
func (r *Repository) OccupiedHours(ctx context.Context, date types.DateString) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("hour").
		From("bookings").
		Where(squirrel.Eq{"booking_date": date}).
		OrderBy("hour ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]types.TimeString, 0)
	for rows.Next() {
		var hour types.TimeString
		if err := rows.Scan(&hour); err != nil {
			return nil, fmt.Errorf("%w: OccupiedHours - scan hour: %v", ErrScanRow, err)
		}
		hours = append(hours, hour)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupiedHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// GetByCustomerEmail получает бронирования клиента (сначала новые)
func (r *Repository) GetByCustomerEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	email = domain.NormalizeEmail(email)
	return r.List(ctx, domain.BookingsFilter{CustomerEmail: &email})
}

// List получает бронирования по фильтру (админка)
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.DateTo})
	}
	if filter.CustomerEmail != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"lower(customer_email)": domain.NormalizeEmail(*filter.CustomerEmail)})
	}

	// Для конкретной даты - по времени, иначе сначала новые
	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("hour ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "hour DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// MarkCompleted переводит бронирование pending -> completed.
// Возвращает false, если строка не была в статусе pending (или не существует).
func (r *Repository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	if !isValidID(id) {
		return false, ErrBookingNotFound
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkCompleted - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if txmanager.IsInvalidTextRepresentation(err) {
		return false, ErrBookingNotFound
	}
	if err != nil {
		return false, translateWriteError("MarkCompleted", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkCompleted - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// Delete физически удаляет бронирование (отмена освобождает слот)
func (r *Repository) Delete(ctx context.Context, id string) error {
	if !isValidID(id) {
		return ErrBookingNotFound
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if txmanager.IsInvalidTextRepresentation(err) {
		return ErrBookingNotFound
	}
	if err != nil {
		return translateWriteError("Delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CountCompletedByEmail считает завершенные бронирования клиента
func (r *Repository) CountCompletedByEmail(ctx context.Context, email string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"lower(customer_email)": domain.NormalizeEmail(email),
			"status":                domain.StatusCompleted,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountCompletedByEmail - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountCompletedByEmail - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CompletedCounts возвращает количество завершенных бронирований по каждому клиенту.
// Имя берется из самого свежего бронирования клиента.
// Сортировка: количество по убыванию, затем e-mail по возрастанию.
func (r *Repository) CompletedCounts(ctx context.Context, limit int) ([]CustomerCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"lower(customer_email) AS email",
		"(array_agg(customer_name ORDER BY booking_date DESC, hour DESC))[1] AS name",
		"COUNT(*) AS total",
	).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusCompleted}).
		GroupBy("lower(customer_email)").
		OrderBy("total DESC", "email ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CompletedCounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CompletedCounts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]CustomerCount, 0)
	for rows.Next() {
		var c CustomerCount
		if err := rows.Scan(&c.Email, &c.Name, &c.Completed); err != nil {
			return nil, fmt.Errorf("%w: CompletedCounts - scan row: %v", ErrScanRow, err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CompletedCounts - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CustomerCount агрегат для рейтинга клиентов
type CustomerCount struct {
	Email     string
	Name      string
	Completed int
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking      domain.Booking
		serviceCount sql.NullInt64
	)

	err := row.Scan(
		&booking.ID,
		&booking.Date,
		&booking.Hour,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.Service,
		&booking.Status,
		&serviceCount,
		&booking.SchemaVersion,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if serviceCount.Valid {
		n := int(serviceCount.Int64)
		booking.ServiceCount = &n
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// translateWriteError переводит коды PostgreSQL в ошибки репозитория.
// Исходная ошибка сохраняется в цепочке, чтобы txmanager мог повторить
// транзакцию при ошибке сериализации.
// isValidID id бронирования - UUID; другие значения в таблице не встречаются
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func translateWriteError(op string, err error) error {
	switch {
	case txmanager.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %w", ErrSlotTaken, op, err)
	case txmanager.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %w", ErrSerialization, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}
