package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/echo-threads/backend/pkg/authenticator"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/router"
	"github.com/echo-threads/backend/pkg/xcontext"
)

// WebhookSignature rejects requests whose body is not signed by the identity
// provider. The body is restored so the handler can still bind it.
func WebhookSignature(verifier *authenticator.WebhookVerifier) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil || req.Body == nil {
			return nil, errorx.New(errorx.BadRequest, "Missing webhook payload")
		}

		body := req.Body
		if limit := xcontext.Configs(ctx).Webhook.MaxBodySize; limit > 0 {
			body = http.MaxBytesReader(xcontext.HTTPWriter(ctx), req.Body, limit)
		}

		payload, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, errorx.New(errorx.BadRequest, "Webhook payload exceeds %d bytes", tooLarge.Limit)
			}

			xcontext.Logger(ctx).Debugf("Cannot read webhook payload: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Cannot read webhook payload")
		}
		body.Close()
		req.Body = io.NopCloser(bytes.NewReader(payload))

		if err := verifier.Verify(payload, req.Header); err != nil {
			xcontext.Logger(ctx).Warnf("Reject webhook: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid webhook signature")
		}

		return ctx, nil
	}
}
