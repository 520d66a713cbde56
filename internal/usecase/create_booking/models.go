package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Date          string `json:"date" validate:"required"`
	Hour          string `json:"hour" validate:"required"`
	CustomerName  string `json:"customerName" validate:"required,max=100"`
	CustomerEmail string `json:"customerEmail" validate:"required,email,max=254"`
	CustomerPhone string `json:"customerPhone" validate:"required,min=6,max=20,phone"`
	Service       string `json:"service" validate:"required"`

	// Actor вызывающий пользователь; его имя и e-mail подставляются,
	// если в запросе они не указаны
	Actor *domain.AuthUser `json:"-" validate:"-"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            string
	Date          string
	Hour          string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Service       string
	Status        string
	ServiceCount  *int
	SchemaVersion int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func fromDomainBooking(b *domain.Booking) *Response {
	return &Response{
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
