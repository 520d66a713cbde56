package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client клиент HTTP API транзакционных писем (совместим с Brevo /v3/smtp/email)
type Client struct {
	endpoint    string
	apiKey      string
	senderEmail string
	senderName  string
	httpClient  *http.Client
	log         Logger
}

// NewClient создает новый экземпляр клиента отправки писем
func NewClient(endpoint, apiKey, senderEmail, senderName string, timeout time.Duration, log Logger) *Client {
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет письмо и возвращает ID сообщения у провайдера
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}

	payload := sendRequest{
		Sender: contact{
			Name:  c.senderName,
			Email: c.senderEmail,
		},
		To: []contact{
			{
				Email: msg.To,
				Name:  msg.ToName,
			},
		},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(string(body)))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Парсим ответ
	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", fmt.Errorf("%w: response missing messageId", ErrInvalidResponse)
	}

	c.log.Info("Mail sent: to=%s, subject=%q, message_id=%s", msg.To, msg.Subject, out.MessageID)
	return out.MessageID, nil
}
