package create_booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках - как в JSON запросе
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		panic(err)
	}

	return v
}

// validatePhone цифры, пробелы, '+', '-', '(' и ')'; хотя бы 6 цифр
func validatePhone(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '+' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= domain.MinCustomerPhoneLength
}

// normalizeRequest подставляет данные вызывающего и убирает пробелы
func normalizeRequest(req *Request) {
	req.Date = strings.TrimSpace(req.Date)
	req.Hour = strings.TrimSpace(req.Hour)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = domain.NormalizeEmail(req.CustomerEmail)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.Service = strings.TrimSpace(req.Service)

	if req.Actor == nil {
		return
	}
	if req.CustomerEmail == "" {
		req.CustomerEmail = domain.NormalizeEmail(req.Actor.Email)
	}
	if req.CustomerName == "" {
		req.CustomerName = strings.TrimSpace(req.Actor.DisplayName)
	}
}

// validateRequest проверяет запрос целиком до обращения к хранилищу.
// Возвращает разобранные дату и час.
func validateRequest(req *Request, catalog *domain.Catalog, now time.Time, loc *time.Location) (types.DateString, types.TimeString, error) {
	verr := &ValidationError{}

	// 1. Обязательные поля, форматы и длины
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return "", "", fmt.Errorf("%w: validate request: %v", ErrInternal, err)
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), fieldErrorMessage(fe))
		}
	}

	// 2. Клиент может бронировать только на свой e-mail
	if req.Actor != nil && !req.Actor.IsAdmin && req.CustomerEmail != "" &&
		req.CustomerEmail != domain.NormalizeEmail(req.Actor.Email) {
		verr.add("customerEmail", "must match the signed-in account")
	}

	// 3. Каталог услуг
	if req.Service != "" && !catalog.HasService(req.Service) {
		verr.add("service", "unknown service")
	}

	// 4. Каталог часов
	hour := types.TimeString(req.Hour)
	if req.Hour != "" {
		if err := hour.Validate(); err != nil {
			verr.add("hour", "must be HH:MM")
		} else if !catalog.HasHour(hour) {
			verr.add("hour", "not an offered hour")
		}
	}

	// 5. Дата: формат, не в прошлом; для сегодняшней даты час еще не наступил
	var date types.DateString
	if req.Date != "" {
		d, err := types.NewDateStringFromString(req.Date)
		switch {
		case err != nil:
			verr.add("date", "must be YYYY-MM-DD")
		case d.IsBefore(types.NewDateString(now, loc)):
			verr.add("date", "must not be in the past")
		default:
			date = d
		}
	}

	if !date.IsZero() && catalog.HasHour(hour) {
		started, err := domain.Slot{Date: date, Hour: hour}.HasStarted(now, loc)
		if err != nil {
			return "", "", fmt.Errorf("%w: slot start: %v", ErrInternal, err)
		}
		if started {
			verr.add("hour", "already passed")
		}
	}

	if !verr.empty() {
		return "", "", verr
	}
	return date, hour, nil
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid e-mail format"
	case "min":
		return fmt.Sprintf("minimum length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum length is %s", fe.Param())
	case "phone":
		return "invalid phone number"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
