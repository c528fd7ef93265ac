// Package handler contains the Pub/Sub push endpoint for the order
// notification worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"kalaghar/config"
	deliverycontext "kalaghar/internal/delivery/context"
	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/infra/pubsub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

const envDevelop = "develop"

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler handles Pub/Sub push messages carrying order events.
type PushHandler struct {
	verifyPushAuth  bool
	logger          *slog.Logger
	notificationSvc service.NotificationService
	userRepo        repository.UserRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
	UserRepo        repository.UserRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google-signed push tokens are only present outside local development.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == pubsub.ProviderGoogle &&
		params.Config.Env.Env != envDevelop

	return &PushHandler{
		verifyPushAuth:  verifyPushAuth,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
		userRepo:        params.UserRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse order event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing order event",
		slog.String("event_type", event.Type),
		slog.String("order_number", event.OrderNumber),
		slog.Int("artisan_count", len(event.ArtisanIDs)),
	)

	if err := h.processOrderEvent(ctx, reqLogger, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process order event",
			slog.String("order_number", event.OrderNumber),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 asks Pub/Sub to redeliver; 200 acknowledges permanent failures
		// so they are not retried forever.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Order event processed",
		slog.String("order_number", event.OrderNumber),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, context, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processOrderEvent fans the event out to the affected accounts. New orders
// notify the artisans whose items were bought; status changes notify the buyer.
func (h *PushHandler) processOrderEvent(ctx context.Context, logger *slog.Logger, event *service.OrderEvent) error {
	var recipientIDs []uuid.UUID

	switch event.Type {
	case service.OrderPlacedEvent:
		recipientIDs = event.ArtisanIDs
	case service.OrderStatusChangedEvent:
		recipientIDs = []uuid.UUID{event.BuyerID}
	default:
		logger.Warn("[Worker] Unknown order event type, dropping",
			slog.String("event_type", event.Type),
		)

		return nil
	}

	title, body := notificationContent(event)
	payload := map[string]string{
		"event_type":   event.Type,
		"order_id":     event.OrderID.String(),
		"order_number": event.OrderNumber,
		"status":       string(event.Status),
	}

	sent := 0
	for _, userID := range recipientIDs {
		user, err := h.userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				logger.Warn("[Worker] Event recipient no longer exists",
					slog.Any("user_id", userID),
				)

				continue
			}

			return newRetryableError(errors.WithStack(err))
		}

		if user.FCMToken == "" || !user.Notification.OrderUpdates {
			continue
		}

		err = h.notificationSvc.Send(ctx, service.PushNotification{
			Token: user.FCMToken,
			Title: title,
			Body:  body,
			Data:  payload,
		})
		if err != nil {
			return newRetryableError(errors.WithStack(err))
		}
		sent++
	}

	logger.Info("[Worker] Push notifications sent",
		slog.String("order_number", event.OrderNumber),
		slog.Int("recipients", len(recipientIDs)),
		slog.Int("sent", sent),
	)

	return nil
}

// notificationContent builds the push title and body for an order event.
func notificationContent(event *service.OrderEvent) (title, body string) {
	switch event.Type {
	case service.OrderPlacedEvent:
		title = "New order received"
		body = fmt.Sprintf("Order %s includes your products", event.OrderNumber)
	case service.OrderStatusChangedEvent:
		title = "Order update"
		body = fmt.Sprintf("Order %s is now %s", event.OrderNumber, statusLabel(event.Status))
	}

	return title, body
}

func statusLabel(status entity.OrderStatus) string {
	return strings.ReplaceAll(string(status), "_", " ")
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience must match the push endpoint URL this worker serves.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
