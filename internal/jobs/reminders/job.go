package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// runTimeout ограничение на один проход рассылки
const runTimeout = 5 * time.Minute

// Result итог одного прохода
type Result struct {
	Date   types.DateString
	Total  int
	Sent   int
	Failed int
}

// Job ежедневные напоминания клиентам о визите на следующий день
type Job struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger

	cron *cron.Cron
}

// NewJob создает задачу напоминаний. Расписание интерпретируется в часовом поясе барбершопа.
func NewJob(bookingRepo BookingRepository, notifier Notifier, location *time.Location, logger Logger) *Job {
	if location == nil {
		location = time.UTC
	}
	return &Job{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (j *Job) WithTimeProvider(tp TimeProvider) *Job {
	j.timeProvider = tp
	return j
}

// Start запускает планировщик. schedule - стандартное cron выражение ("0 10 * * *").
// Пересекающиеся запуски пропускаются.
func (j *Job) Start(schedule string) error {
	log := cronLogger{j.logger}
	c := cron.New(
		cron.WithLocation(j.location),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)

	if _, err := c.AddFunc(schedule, j.runScheduled); err != nil {
		return fmt.Errorf("reminders: invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	j.cron = c
	j.logger.Info("Reminders: scheduler started (schedule=%q, tz=%s)", schedule, j.location)
	return nil
}

// Stop останавливает планировщик и ждет завершения текущего прохода или ctx
func (j *Job) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
		j.logger.Info("Reminders: scheduler stopped")
	case <-ctx.Done():
		j.logger.Warn("Reminders: stop timed out, a run is still in progress")
	}
}

func (j *Job) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := j.Run(ctx); err != nil {
		j.logger.Error("Reminders: run failed: %v", err)
	}
}

// Run отправляет напоминания по всем pending бронированиям на завтра.
// Ошибка отправки одному клиенту не прерывает рассылку.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	// 1. Завтрашняя дата в часовом поясе барбершопа
	tomorrow := types.NewDateString(j.timeProvider.Now().In(j.location).AddDate(0, 0, 1), j.location)
	pending := domain.StatusPending

	// 2. Бронирования на завтра
	bookings, err := j.bookingRepo.List(ctx, domain.BookingsFilter{
		Status: &pending,
		Date:   &tomorrow,
	})
	if err != nil {
		return nil, fmt.Errorf("reminders: list bookings for %s: %w", tomorrow, err)
	}

	result := &Result{Date: tomorrow, Total: len(bookings)}

	// 3. Рассылка
	for _, b := range bookings {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("reminders: interrupted after %d of %d: %w", result.Sent+result.Failed, result.Total, err)
		}
		if err := j.notifier.SendReminder(ctx, b); err != nil {
			result.Failed++
			j.logger.Warn("Reminders: booking id=%s (%s): %v", b.ID, b.Slot(), err)
			continue
		}
		result.Sent++
	}

	j.logger.Info("Reminders: date=%s total=%d sent=%d failed=%d", tomorrow, result.Total, result.Sent, result.Failed)
	return result, nil
}

// cronLogger адаптер Logger к cron.Logger
type cronLogger struct {
	l Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Info("cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
