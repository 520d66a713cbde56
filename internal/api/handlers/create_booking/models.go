package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model.
// customerName и customerEmail можно не передавать: берутся из токена.
type CreateBookingRequest struct {
	Date          string `json:"date"` // "2025-03-10"
	Hour          string `json:"hour"` // "15:30"
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerPhone string `json:"customerPhone"`
	Service       string `json:"service"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Hour          string `json:"hour"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Service       string `json:"service"`
	Status        string `json:"status"`
	ServiceCount  *int   `json:"serviceCount,omitempty"`
	SchemaVersion int    `json:"schemaVersion"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor *domain.AuthUser) *createBooking.Request {
	return &createBooking.Request{
		Date:          r.Date,
		Hour:          r.Hour,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Service:       r.Service,
		Actor:         actor,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		Date:          resp.Date,
		Hour:          resp.Hour,
		CustomerName:  resp.CustomerName,
		CustomerEmail: resp.CustomerEmail,
		CustomerPhone: resp.CustomerPhone,
		Service:       resp.Service,
		Status:        resp.Status,
		ServiceCount:  resp.ServiceCount,
		SchemaVersion: resp.SchemaVersion,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
