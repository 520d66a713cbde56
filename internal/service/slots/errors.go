package slots

import "errors"

var (
	// ErrInvalidDate возвращается при некорректной дате (не YYYY-MM-DD)
	ErrInvalidDate = errors.New("slots: invalid date")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
