package authenticator

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	WebhookIDHeader        = "svix-id"
	WebhookTimestampHeader = "svix-timestamp"
	WebhookSignatureHeader = "svix-signature"

	webhookSecretPrefix = "whsec_"
)

var (
	ErrMissingWebhookHeaders = errors.New("missing webhook headers")
	ErrWebhookTimestamp      = errors.New("webhook timestamp is out of tolerance")
	ErrWebhookSignature      = errors.New("no matching webhook signature")
)

// WebhookVerifier checks the svix signature of identity provider webhooks.
// The timestamp tolerance is configurable, the signature itself is checked by
// the svix library.
type WebhookVerifier struct {
	webhook   *svix.Webhook
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookVerifier(secret string, tolerance time.Duration) (*WebhookVerifier, error) {
	if strings.TrimPrefix(secret, webhookSecretPrefix) == "" {
		return nil, errors.New("webhook secret is empty")
	}

	webhook, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}

	return &WebhookVerifier{webhook: webhook, tolerance: tolerance, now: time.Now}, nil
}

func (v *WebhookVerifier) Verify(payload []byte, headers http.Header) error {
	id := headers.Get(WebhookIDHeader)
	timestamp := headers.Get(WebhookTimestampHeader)
	signatures := headers.Get(WebhookSignatureHeader)
	if id == "" || timestamp == "" || signatures == "" {
		return ErrMissingWebhookHeaders
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrWebhookTimestamp
	}

	if v.tolerance > 0 {
		diff := v.now().Sub(time.Unix(unix, 0))
		if diff > v.tolerance || diff < -v.tolerance {
			return ErrWebhookTimestamp
		}
	}

	if err := v.webhook.VerifyIgnoringTimestamp(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	return nil
}

// Sign returns the signature header value of the payload, in "v1,<base64>"
// form.
func (v *WebhookVerifier) Sign(id string, timestamp time.Time, payload []byte) (string, error) {
	return v.webhook.Sign(id, timestamp, payload)
}
