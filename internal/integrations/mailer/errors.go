package mailer

import "errors"

var (
	// ErrInvalidMessage возвращается, когда в письме не хватает получателя, темы или тела
	ErrInvalidMessage = errors.New("mailer client: invalid message")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrUnavailable возвращается, когда провайдер недоступен (сеть, таймаут)
	ErrUnavailable = errors.New("mailer client: provider unavailable")

	// ErrUnauthorized возвращается, когда провайдер отклонил API ключ
	ErrUnauthorized = errors.New("mailer client: unauthorized")

	// ErrRejected возвращается, когда провайдер отклонил письмо
	ErrRejected = errors.New("mailer client: message rejected")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("mailer client: invalid response")
)
