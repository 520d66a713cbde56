package notifications

import "errors"

var (
	// ErrDeliveryFailed письмо не доставлено; на результат операции не влияет
	ErrDeliveryFailed = errors.New("notifications: delivery failed")

	// ErrRender ошибка сборки тела письма
	ErrRender = errors.New("notifications: render failed")
)
