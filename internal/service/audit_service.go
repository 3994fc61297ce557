package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orcafacil/api/internal/config"
	"github.com/orcafacil/api/internal/events"
)

// AuditService records domain events for operational visibility. Handlers are
// observational: a failed log line or webhook never propagates back to the
// flow that published the event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
	client     *http.Client
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// RegisterHandlers subscribes to every audited event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventAccountRegistered,
		events.EventAccountConfirmed,
		events.EventAccountDeleted,
		events.EventPasswordReset,
		events.EventCustomerCreated,
		events.EventCustomerDeleted,
		events.EventInvoiceCreated,
		events.EventInvoiceDeleted,
		events.EventStalePatchRejected,
	} {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info("audit event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("account_id", event.AccountID),
		zap.Any("payload", event.Payload))
	a.forwardWebhook(ctx, event)
	return nil
}

func (a *AuditService) forwardWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		a.logger.Error("encode audit event failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		a.logger.Error("build audit webhook request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("audit webhook delivery failed",
			zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.logger.Warn("audit webhook rejected event",
			zap.String("event_id", event.ID), zap.Int("status", resp.StatusCode))
	}
}
