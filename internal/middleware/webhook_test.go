package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/echo-threads/backend/pkg/authenticator"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/testutil"
	"github.com/echo-threads/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_WebhookSignature(t *testing.T) {
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("webhook-secret"))
	verifier, err := authenticator.NewWebhookVerifier(secret, time.Minute)
	require.NoError(t, err)

	payload := []byte(`{"type":"user.created","data":{"id":"ext_dan"}}`)
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	validSig, err := verifier.Sign("msg_1", now, payload)
	require.NoError(t, err)

	tests := []struct {
		name      string
		signature string
		wantCode  errorx.Code
	}{
		{name: "valid", signature: validSig},
		{name: "forged", signature: "v1," + base64.StdEncoding.EncodeToString([]byte("forged")), wantCode: errorx.Unauthenticated},
		{name: "missing", wantCode: errorx.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/webhook/identity", bytes.NewReader(payload))
			req.Header.Set(authenticator.WebhookIDHeader, "msg_1")
			req.Header.Set(authenticator.WebhookTimestampHeader, ts)
			if tt.signature != "" {
				req.Header.Set(authenticator.WebhookSignatureHeader, tt.signature)
			}
			ctx := xcontext.WithHTTPRequest(testutil.MockContext(), req)

			_, err := WebhookSignature(verifier)(ctx)
			if tt.wantCode != 0 {
				require.True(t, errorx.Is(err, tt.wantCode))
				return
			}

			require.NoError(t, err)
			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			require.Equal(t, payload, body)
		})
	}
}

func Test_WebhookSignature_BodyTooLarge(t *testing.T) {
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("webhook-secret"))
	verifier, err := authenticator.NewWebhookVerifier(secret, time.Minute)
	require.NoError(t, err)

	payload := []byte(`{"type":"user.created","data":{"id":"` + strings.Repeat("a", 256) + `"}}`)
	now := time.Now()
	sig, err := verifier.Sign("msg_1", now, payload)
	require.NoError(t, err)

	newContext := func(limit int64) context.Context {
		cfg := testutil.MockConfigs()
		cfg.Webhook.MaxBodySize = limit

		req := httptest.NewRequest("POST", "/webhook/identity", bytes.NewReader(payload))
		req.Header.Set(authenticator.WebhookIDHeader, "msg_1")
		req.Header.Set(authenticator.WebhookTimestampHeader, strconv.FormatInt(now.Unix(), 10))
		req.Header.Set(authenticator.WebhookSignatureHeader, sig)

		ctx := xcontext.WithConfigs(testutil.MockContext(), cfg)
		ctx = xcontext.WithHTTPWriter(ctx, httptest.NewRecorder())
		return xcontext.WithHTTPRequest(ctx, req)
	}

	_, err = WebhookSignature(verifier)(newContext(64))
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = WebhookSignature(verifier)(newContext(int64(len(payload))))
	require.NoError(t, err)
}
