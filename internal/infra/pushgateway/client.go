package pushgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/tracing"
)

const notificationsPath = "/api/v1/notifications"

var ErrGatewayRejected = errors.New("push gateway rejected the notification")

// Message is one delivered notification handed to the push gateway.
type Message struct {
	UserID     string    `json:"user_id"`
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category"`
	Sound      string    `json:"sound,omitempty"`
	Badge      int       `json:"badge,omitempty"`
	FiredAt    time.Time `json:"fired_at"`
}

func NewMessage(userID string, req domain.NotificationRequest, firedAt time.Time) Message {
	return Message{
		UserID:     userID,
		Identifier: req.Identifier,
		Title:      req.Content.Title,
		Body:       req.Content.Body,
		Category:   req.Content.Category,
		Sound:      req.Content.Sound,
		Badge:      req.Content.Badge,
		FiredAt:    firedAt,
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL),
	}
}

// Send forwards the message. An empty base URL disables forwarding.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.baseURL == "" {
		slog.DebugContext(ctx, "push gateway not configured, skipping delivery",
			slog.String("identifier", msg.Identifier),
		)
		return nil
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = notificationsPath

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, "push_gateway.send", u.String())
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set("x-request-id", requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send notification to push gateway",
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
		)
		span.RecordError(err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.ErrorContext(ctx, "unexpected status code from push gateway",
			slog.String("url", u.String()),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
	}

	slog.DebugContext(ctx, "notification forwarded to push gateway",
		slog.String("user_id", msg.UserID),
		slog.String("identifier", msg.Identifier),
	)

	return nil
}
