package services

import (
	"context"
	"net/url"
	"strings"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/repositories"
	"finbase/internal/utils"
)

// Events webhook subscriptions may register for.
var webhookEvents = map[string]bool{
	"wallet.provisioned":    true,
	"order.status_changed":  true,
	"investment.redeemed":   true,
	"contract.state_change": true,
}

type WebhookService struct {
	Webhooks repositories.WebhookRepository
	Access   Access
}

// CreatedWebhook carries the one-time signing secret alongside the record.
type CreatedWebhook struct {
	models.Webhook
	SigningSecret string `json:"signing_secret"`
}

func (s WebhookService) Create(ctx context.Context, principal auth.Principal, projectID int64, rawURL, event string) (*CreatedWebhook, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return nil, domain.ValidationError{Field: "url", Msg: "must be a valid https URL"}
	}
	if !webhookEvents[event] {
		return nil, domain.ValidationError{Field: "event", Msg: "unknown event type"}
	}

	secret, err := utils.RandomHex(24)
	if err != nil {
		return nil, domain.InternalError{Msg: "secret generation failed", Err: err}
	}

	id, err := s.Webhooks.Create(ctx, projectID, parsed.String(), event, secret)
	if err != nil {
		return nil, domain.InternalError{Msg: "webhook create failed", Err: err}
	}
	hook, err := s.Webhooks.FindByID(ctx, id)
	if err != nil || hook == nil {
		return nil, domain.InternalError{Msg: "webhook readback failed", Err: err}
	}
	return &CreatedWebhook{Webhook: *hook, SigningSecret: secret}, nil
}

func (s WebhookService) List(ctx context.Context, principal auth.Principal, projectID int64) ([]models.Webhook, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	hooks, err := s.Webhooks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, domain.InternalError{Msg: "webhook listing failed", Err: err}
	}
	return hooks, nil
}

func (s WebhookService) Delete(ctx context.Context, principal auth.Principal, projectID, hookID int64) error {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return err
	}
	hook, err := s.Webhooks.FindByID(ctx, hookID)
	if err != nil {
		return domain.InternalError{Msg: "webhook lookup failed", Err: err}
	}
	if hook == nil || hook.ProjectID != projectID {
		return domain.NotFoundError{Resource: "webhook"}
	}
	if err := s.Webhooks.Delete(ctx, hookID); err != nil {
		return domain.InternalError{Msg: "webhook delete failed", Err: err}
	}
	return nil
}
