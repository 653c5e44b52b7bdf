package middleware

import (
	"context"
	"strings"

	"github.com/echo-threads/backend/pkg/authenticator"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/router"
	"github.com/echo-threads/backend/pkg/xcontext"
)

type AuthVerifier struct {
	verifier authenticator.IDTokenVerifier
}

func NewAuthVerifier(verifier authenticator.IDTokenVerifier) *AuthVerifier {
	return &AuthVerifier{verifier: verifier}
}

// Middleware sets the request user id from the bearer ID token when the
// request carries one. Requests without a token pass through anonymously.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return ctx, nil
		}

		auth := req.Header.Get("Authorization")
		if auth == "" {
			return ctx, nil
		}

		scheme, token, found := strings.Cut(auth, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid authorization header")
		}

		identity, err := a.verifier.Verify(ctx, token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify id token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid id token")
		}

		return xcontext.WithRequestUserID(ctx, identity.ExternalID), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}
		return ctx, nil
	}
}
