package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidFilter возвращается при некорректном фильтре списка
	ErrInvalidFilter = errors.New("invalid bookings filter")
)

// Request модели

// ListBookingsRequest фильтр списка бронирований для администратора
type ListBookingsRequest struct {
	Status   *string `json:"status,omitempty"`
	Date     *string `json:"date,omitempty"`
	DateFrom *string `json:"dateFrom,omitempty"`
	DateTo   *string `json:"dateTo,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	var filter domain.BookingsFilter

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	var err error
	if filter.Date, err = parseOptionalDate("date", r.Date); err != nil {
		return filter, err
	}
	if filter.DateFrom, err = parseOptionalDate("dateFrom", r.DateFrom); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseOptionalDate("dateTo", r.DateTo); err != nil {
		return filter, err
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.IsBefore(*filter.DateFrom) {
		return filter, fmt.Errorf("%w: dateTo before dateFrom", ErrInvalidFilter)
	}

	if r.Email != nil && *r.Email != "" {
		email := domain.NormalizeEmail(*r.Email)
		filter.CustomerEmail = &email
	}

	return filter, nil
}

func parseOptionalDate(field string, value *string) (*types.DateString, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := types.NewDateStringFromString(*value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, field, err)
	}
	return &d, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"` // "2025-10-15"
	Hour          string `json:"hour"` // "15:30"
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Service       string `json:"service"`
	Status        string `json:"status"`
	ServiceCount  *int   `json:"serviceCount,omitempty"`
	SchemaVersion int    `json:"schemaVersion"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:            b.ID,
		Date:          b.Date.String(),
		Hour:          b.Hour.String(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Service:       b.Service,
		Status:        string(b.Status),
		ServiceCount:  b.ServiceCount,
		SchemaVersion: b.SchemaVersion,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s, nil
}
